// Package ingest turns tabular dataset files into documents ready for
// indexing. CSV and JSON files map one row/object to one document; plain
// text files are split into sentence chunks.
package ingest

import (
	"crypto/sha1"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"verdict/internal/chunker"
	"verdict/internal/domain"
)

// FileLoader reads a dataset file into documents. The zero value is not
// usable; construct it with NewFileLoader.
type FileLoader struct {
	contentColumn string
	chunker       *chunker.SentenceChunker
}

// NewFileLoader creates a loader that uses contentColumn as the document
// content for tabular formats and the given chunker for plain text.
func NewFileLoader(contentColumn string, ch *chunker.SentenceChunker) *FileLoader {
	if contentColumn == "" {
		contentColumn = "description"
	}
	if ch == nil {
		ch = chunker.NewSentenceChunker(5, 1)
	}
	return &FileLoader{contentColumn: contentColumn, chunker: ch}
}

// Load reads the file at path and returns its documents. The format is
// chosen by file extension (.csv, .json, .txt, .md).
func (l *FileLoader) Load(path string) ([]domain.Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return l.loadCSV(path)
	case ".json":
		return l.loadJSON(path)
	case ".txt", ".md":
		return l.loadText(path)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q (expected .csv, .json, .txt or .md)", filepath.Ext(path))
	}
}

func (l *FileLoader) loadCSV(path string) ([]domain.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	contentIdx := -1
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), l.contentColumn) {
			contentIdx = i
			break
		}
	}
	if contentIdx < 0 {
		return nil, fmt.Errorf("CSV %s has no %q column", path, l.contentColumn)
	}

	var docs []domain.Document
	base := hashString(path)
	row := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row %d: %w", row+1, err)
		}
		row++
		if contentIdx >= len(record) {
			continue
		}
		content := strings.TrimSpace(record[contentIdx])
		if content == "" {
			continue
		}
		meta := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				meta[strings.TrimSpace(col)] = record[i]
			}
		}
		docs = append(docs, domain.Document{
			ID:       base + ":" + strconv.Itoa(row),
			Content:  content,
			Metadata: meta,
		})
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no usable rows in %s", path)
	}
	return docs, nil
}

func (l *FileLoader) loadJSON(path string) ([]domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse JSON dataset %s: %w", path, err)
	}

	var docs []domain.Document
	base := hashString(path)
	for i, row := range rows {
		raw, ok := row[l.contentColumn]
		if !ok {
			return nil, fmt.Errorf("JSON %s object %d has no %q field", path, i, l.contentColumn)
		}
		content := strings.TrimSpace(fmt.Sprintf("%v", raw))
		if content == "" {
			continue
		}
		meta := make(map[string]string, len(row))
		for k, v := range row {
			meta[k] = fmt.Sprintf("%v", v)
		}
		docs = append(docs, domain.Document{
			ID:       base + ":" + strconv.Itoa(i+1),
			Content:  content,
			Metadata: meta,
		})
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no usable objects in %s", path)
	}
	return docs, nil
}

func (l *FileLoader) loadText(path string) ([]domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	chunks := l.chunker.Split(string(data))
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no text content in %s", path)
	}
	base := hashString(path)
	docs := make([]domain.Document, 0, len(chunks))
	for i, text := range chunks {
		docs = append(docs, domain.Document{
			ID:      base + ":" + strconv.Itoa(i+1),
			Content: text,
			Metadata: map[string]string{
				"source": path,
				"chunk":  strconv.Itoa(i + 1),
			},
		})
	}
	return docs, nil
}

func hashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:8])
}
