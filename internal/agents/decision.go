package agents

import (
	"context"
	"errors"
	"fmt"

	"verdict/internal/domain"
)

// Decider turns the collected analyses into a final recommendation with a
// single LLM call.
type Decider struct {
	llm domain.Generator
}

func NewDecider(llm domain.Generator) *Decider {
	return &Decider{llm: llm}
}

// Decide asks the model for a recommendation over all analyses.
func (a *Decider) Decide(ctx context.Context, analyses []domain.Analysis) (domain.Recommendation, error) {
	if len(analyses) == 0 {
		return domain.Recommendation{}, errors.New("no analyses to decide over")
	}
	text, err := a.llm.Generate(ctx, decisionPrompt(analyses))
	if err != nil {
		return domain.Recommendation{}, fmt.Errorf("generating recommendation: %w", err)
	}
	return domain.Recommendation{Text: text}, nil
}
