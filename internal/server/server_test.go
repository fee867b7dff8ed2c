package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"verdict/internal/domain"
	"verdict/internal/history"
	"verdict/internal/workflow"
)

type fakePipeline struct {
	state *workflow.State
	err   error
}

func (f *fakePipeline) Run(ctx context.Context, query string) (*workflow.State, error) {
	return f.state, f.err
}

func completedState(query string) *workflow.State {
	st, _ := workflow.NewState(query)
	st.Options = []domain.Option{
		{Document: domain.Document{ID: "a", Content: "Laptop A"}, Score: 0.9},
	}
	st.Analyses = []domain.Analysis{
		{Option: st.Options[0], Text: "pros: fast"},
	}
	st.Recommendation = domain.Recommendation{Text: "Buy Laptop A."}
	st.Step = workflow.StepComplete
	st.FinishedAt = st.StartedAt.Add(time.Second)
	return st
}

func newTestServer(p Runner) *Server {
	return New(Config{
		Pipeline:    p,
		DatasetPath: "products.csv",
		Summary:     "a dataset of laptops",
		DocCount:    3,
	})
}

func TestIndexPage(t *testing.T) {
	srv := newTestServer(&fakePipeline{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"products.csv", "3 entries", "a dataset of laptops", `action="/decide"`} {
		if !strings.Contains(body, want) {
			t.Errorf("index page missing %q", want)
		}
	}
}

func TestDecideRendersResult(t *testing.T) {
	srv := newTestServer(&fakePipeline{state: completedState("which laptop?")})
	form := url.Values{"query": {"which laptop?"}}
	req := httptest.NewRequest(http.MethodPost, "/decide", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{"which laptop?", "Laptop A", "pros: fast", "Buy Laptop A."} {
		if !strings.Contains(body, want) {
			t.Errorf("result page missing %q", want)
		}
	}
}

func TestDecideRendersFailure(t *testing.T) {
	st, _ := workflow.NewState("bad query")
	srv := newTestServer(&fakePipeline{state: st, err: workflow.ErrNoOptions})
	form := url.Values{"query": {"bad query"}}
	req := httptest.NewRequest(http.MethodPost, "/decide", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "no candidate options") {
		t.Errorf("error page missing cause: %s", rec.Body.String())
	}
}

func TestDecidePersistsFailedRun(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	st, _ := workflow.NewState("anything good?")
	st.Err = workflow.ErrNoOptions
	st.Step = workflow.StepError
	st.FinishedAt = st.StartedAt.Add(time.Second)

	srv := New(Config{
		Pipeline:    &fakePipeline{state: st, err: workflow.ErrNoOptions},
		Store:       store,
		DatasetPath: "products.csv",
	})
	form := url.Values{"query": {"anything good?"}}
	req := httptest.NewRequest(http.MethodPost, "/decide", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	sessions, err := store.List(10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want the failed run persisted", len(sessions))
	}
	if sessions[0].Status != history.StatusFailed {
		t.Errorf("status = %s, want %s", sessions[0].Status, history.StatusFailed)
	}
	if sessions[0].Error == "" {
		t.Error("failed session should carry the error text")
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(&fakePipeline{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&fakePipeline{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHistoryDisabled(t *testing.T) {
	srv := newTestServer(&fakePipeline{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 when history is disabled", rec.Code)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	srv := newTestServer(&fakePipeline{})
	panicHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	rec := httptest.NewRecorder()
	srv.recovery(panicHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
