// Package tui implements the interactive terminal frontend for the decision
// pipeline.
package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"verdict/internal/history"
	"verdict/internal/workflow"
)

// Runner is the TUI-facing subset of the pipeline.
type Runner interface {
	Run(ctx context.Context, query string) (*workflow.State, error)
}

// runDoneMsg carries the outcome of one pipeline run back into Update.
type runDoneMsg struct {
	state *workflow.State
	err   error
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	pipeline    Runner
	store       *history.Store
	datasetPath string
	input       textinput.Model
	viewport    viewport.Model
	spin        spinner.Model
	state       *workflow.State
	summary     string
	status      string
	cursor      int
	busy        bool
	ready       bool
	lastQuery   string
}

// New creates a new TUI model instance. The store may be nil, in which case
// runs are not persisted.
func New(pipeline Runner, store *history.Store, datasetPath, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Describe your decision and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		pipeline:    pipeline,
		store:       store,
		datasetPath: datasetPath,
		input:       ti,
		viewport:    vp,
		spin:        sp,
		summary:     summary,
		status:      "Dataset loaded. Describe your decision.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and pipeline-completion events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and query boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + summary
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentPage())
		return m, nil
	case runDoneMsg:
		m.busy = false
		m.state = msg.state
		m.cursor = 0
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("Done. %d options analyzed; up/down to browse.", len(msg.state.Analyses))
		}
		if m.store != nil && msg.state != nil {
			if _, err := m.store.SaveRun(msg.state, m.datasetPath); err != nil {
				m.status += "  (history save failed: " + err.Error() + ")"
			}
		}
		m.viewport.SetContent(m.renderCurrentPage())
		return m, nil
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.busy {
				m.busy = true
				m.lastQuery = q
				m.status = "Thinking..."
				return m, tea.Batch(m.spin.Tick, m.runPipeline(q))
			}
		case "down":
			if n := m.pageCount(); n > 0 {
				m.cursor = (m.cursor + 1) % n
				m.viewport.SetContent(m.renderCurrentPage())
				return m, nil
			}
		case "up":
			if n := m.pageCount(); n > 0 {
				m.cursor = (m.cursor - 1 + n) % n
				m.viewport.SetContent(m.renderCurrentPage())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) runPipeline(query string) tea.Cmd {
	return func() tea.Msg {
		st, err := m.pipeline.Run(context.Background(), query)
		return runDoneMsg{state: st, err: err}
	}
}

// View renders the TUI layout and the current page.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Verdict")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := m.status
	if m.busy {
		status = m.spin.View() + " " + status
	}
	statusLine := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + statusLine
}

// pageCount is one page per analysis plus one for the recommendation.
func (m Model) pageCount() int {
	if m.state == nil {
		return 0
	}
	n := len(m.state.Analyses)
	if m.state.Recommendation.Text != "" {
		n++
	}
	return n
}

func (m Model) renderCurrentPage() string {
	if m.state == nil {
		return "No results yet."
	}
	if m.state.Err != nil && len(m.state.Analyses) == 0 {
		return "Run failed: " + m.state.Err.Error()
	}
	n := m.pageCount()
	if n == 0 {
		return "No results yet."
	}
	if m.cursor >= len(m.state.Analyses) {
		title := lipgloss.NewStyle().Bold(true).Render("Recommendation")
		return title + "\n\n" + m.state.Recommendation.Text
	}
	a := m.state.Analyses[m.cursor]
	title := fmt.Sprintf("Option %d/%d  score=%.3f", m.cursor+1, len(m.state.Analyses), a.Option.Score)
	option := highlightBestSentence(a.Option.Document.Content, m.lastQuery)
	return title + "\n\n" + option + "\n\n" + a.Text
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	unicodeWordRe  = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceRe     = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return strings.Join(sentences, " ")
	}
	bestIdx := 0
	bestScore := -1
	for i, s := range sentences {
		score := tokenOverlapScore(qTokens, s)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	for i := range sentences {
		sent := strings.TrimSpace(sentences[i])
		if i == bestIdx {
			sentences[i] = highlightStyle.Render(sent)
		} else {
			sentences[i] = sent
		}
	}
	return strings.Join(sentences, " ")
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	tokens := unicodeWordRe.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
