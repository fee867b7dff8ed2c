package history

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"verdict/internal/domain"
	"verdict/internal/workflow"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func completedState(query string) *workflow.State {
	st, _ := workflow.NewState(query)
	st.Options = []domain.Option{
		{Document: domain.Document{ID: "a", Content: "Laptop A", Metadata: map[string]string{"price": "1200"}}, Score: 0.9},
	}
	st.Analyses = []domain.Analysis{
		{Option: st.Options[0], Text: "pros: fast. cons: heavy."},
	}
	st.Recommendation = domain.Recommendation{Text: "Buy Laptop A."}
	st.Step = workflow.StepComplete
	st.FinishedAt = st.StartedAt.Add(3 * time.Second)
	return st
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	st := completedState("which laptop?")

	sess, err := s.SaveRun(st, "products.csv")
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("expected generated session ID")
	}
	if sess.Status != StatusCompleted {
		t.Errorf("status = %s, want %s", sess.Status, StatusCompleted)
	}

	got, err := s.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Query != "which laptop?" {
		t.Errorf("query = %q", got.Query)
	}
	if got.DatasetPath != "products.csv" {
		t.Errorf("dataset = %q", got.DatasetPath)
	}
	if got.Recommendation != "Buy Laptop A." {
		t.Errorf("recommendation = %q", got.Recommendation)
	}
	if len(got.Options) != 1 || got.Options[0].Document.Metadata["price"] != "1200" {
		t.Errorf("options = %+v", got.Options)
	}
	if len(got.Analyses) != 1 || got.Analyses[0].Text != "pros: fast. cons: heavy." {
		t.Errorf("analyses = %+v", got.Analyses)
	}
	if got.Duration != 3*time.Second {
		t.Errorf("duration = %s, want 3s", got.Duration)
	}
}

func TestSaveFailedRun(t *testing.T) {
	s := openTestStore(t)
	st, _ := workflow.NewState("doomed query")
	st.Err = errors.New("no candidate options found for query")
	st.Step = workflow.StepError
	st.FinishedAt = st.StartedAt.Add(time.Second)

	sess, err := s.SaveRun(st, "data.csv")
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if sess.Status != StatusFailed {
		t.Errorf("status = %s, want %s", sess.Status, StatusFailed)
	}
	got, err := s.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Error != "no candidate options found for query" {
		t.Errorf("error = %q", got.Error)
	}
}

func TestGetNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	first := completedState("first")
	second := completedState("second")
	second.StartedAt = first.StartedAt.Add(time.Minute)
	second.FinishedAt = second.StartedAt.Add(time.Second)

	if _, err := s.SaveRun(first, "d.csv"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveRun(second, "d.csv"); err != nil {
		t.Fatal(err)
	}

	sessions, err := s.List(10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].Query != "second" {
		t.Errorf("first listed = %q, want the newest", sessions[0].Query)
	}

	limited, err := s.List(1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("got %d sessions with limit 1", len(limited))
	}
}
