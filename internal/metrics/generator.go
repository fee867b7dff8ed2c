package metrics

import (
	"context"
	"time"

	"verdict/internal/domain"
)

// meteredGenerator instruments a Generator with request count and latency
// metrics, labeled by provider and the agent making the call.
type meteredGenerator struct {
	inner domain.Generator
	agent string
}

// Generator wraps g so every Generate call is recorded under the given
// agent label.
func Generator(g domain.Generator, agent string) domain.Generator {
	return &meteredGenerator{inner: g, agent: agent}
}

func (m *meteredGenerator) Name() string { return m.inner.Name() }

func (m *meteredGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := m.inner.Generate(ctx, prompt)
	LLMLatency.WithLabelValues(m.inner.Name(), m.agent).Observe(time.Since(start).Seconds())
	status := "ok"
	if err != nil {
		status = "error"
	}
	LLMRequestsTotal.WithLabelValues(m.inner.Name(), m.agent, status).Inc()
	return text, err
}
