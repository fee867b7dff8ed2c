package agents

import (
	"context"
	"fmt"

	"verdict/internal/domain"
)

// ProsCons analyzes each candidate option with one LLM call.
type ProsCons struct {
	llm domain.Generator
}

func NewProsCons(llm domain.Generator) *ProsCons {
	return &ProsCons{llm: llm}
}

// Analyze produces one analysis per option, in option order. A failed call
// for one option records the error as that option's analysis and moves on,
// so a single flaky call does not lose the remaining candidates. Context
// cancellation aborts the whole run.
func (a *ProsCons) Analyze(ctx context.Context, options []domain.Option) ([]domain.Analysis, error) {
	analyses := make([]domain.Analysis, 0, len(options))
	for i, opt := range options {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := a.llm.Generate(ctx, prosConsPrompt(i+1, opt))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			analyses = append(analyses, domain.Analysis{
				Option: opt,
				Text:   fmt.Sprintf("Error analyzing option: %v", err),
				Failed: true,
			})
			continue
		}
		analyses = append(analyses, domain.Analysis{Option: opt, Text: text})
	}
	return analyses, nil
}
