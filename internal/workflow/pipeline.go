package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"verdict/internal/agents"
	"verdict/internal/domain"
	"verdict/internal/llm"
	"verdict/internal/metrics"
)

// ErrNoOptions is returned when retrieval finds no candidates above the
// relevance threshold. No LLM call is made in that case.
var ErrNoOptions = errors.New("no candidate options found for query")

// TokenUser is implemented by generators that track token usage.
type TokenUser interface {
	Tracker() *llm.TokenTracker
}

// Pipeline runs the linear find-options -> pros/cons -> decision sequence.
type Pipeline struct {
	finder  *agents.OptionFinder
	analyst *agents.ProsCons
	decider *agents.Decider
	gen     domain.Generator
	log     *slog.Logger
}

// New assembles a pipeline over the given retrieval index and generator.
func New(searcher agents.Searcher, gen domain.Generator, topK int, minScore float64, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		finder:  agents.NewOptionFinder(searcher, topK, minScore),
		analyst: agents.NewProsCons(metrics.Generator(gen, "pros_cons")),
		decider: agents.NewDecider(metrics.Generator(gen, "decision")),
		gen:     gen,
		log:     log,
	}
}

// Run executes the pipeline for one query. The returned state always
// carries whatever was produced before a failure; on success its step is
// StepComplete.
func (p *Pipeline) Run(ctx context.Context, query string) (*State, error) {
	st, err := NewState(query)
	if err != nil {
		return nil, err
	}
	p.log.Info("pipeline started", "query", st.Query)

	var tokInBefore, tokOutBefore int64
	if tu, ok := p.gen.(TokenUser); ok {
		tokInBefore, tokOutBefore = tu.Tracker().Total()
	}
	defer func() {
		if tu, ok := p.gen.(TokenUser); ok {
			tokIn, tokOut := tu.Tracker().Total()
			metrics.LLMTokensTotal.WithLabelValues(p.gen.Name(), "input").Add(float64(tokIn - tokInBefore))
			metrics.LLMTokensTotal.WithLabelValues(p.gen.Name(), "output").Add(float64(tokOut - tokOutBefore))
		}
	}()

	options, err := p.finder.Find(st.Query)
	if err != nil {
		return p.failed(st, err)
	}
	metrics.IndexSearchesTotal.Inc()
	if len(options) == 0 {
		return p.failed(st, ErrNoOptions)
	}
	st.Options = options
	if err := st.advance(StepProsCons); err != nil {
		return p.failed(st, err)
	}
	p.log.Info("options found", "count", len(options))

	analyses, err := p.analyst.Analyze(ctx, options)
	if err != nil {
		return p.failed(st, err)
	}
	st.Analyses = analyses
	if err := st.advance(StepDecision); err != nil {
		return p.failed(st, err)
	}
	p.log.Info("analyses complete", "count", len(analyses))

	rec, err := p.decider.Decide(ctx, analyses)
	if err != nil {
		return p.failed(st, err)
	}
	st.Recommendation = rec
	if err := st.advance(StepComplete); err != nil {
		return p.failed(st, err)
	}
	st.FinishedAt = time.Now()

	metrics.PipelineRunsTotal.WithLabelValues("ok").Inc()
	metrics.PipelineDuration.Observe(st.FinishedAt.Sub(st.StartedAt).Seconds())
	p.log.Info("pipeline complete", "duration", st.FinishedAt.Sub(st.StartedAt))
	return st, nil
}

func (p *Pipeline) failed(st *State, err error) (*State, error) {
	step := st.Step
	st.fail(err)
	metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
	metrics.PipelineDuration.Observe(st.FinishedAt.Sub(st.StartedAt).Seconds())
	p.log.Error("pipeline failed", "step", string(step), "error", err)
	return st, err
}
