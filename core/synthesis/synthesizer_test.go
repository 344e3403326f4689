package synthesis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/siherrmann/graphquery/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator records every prompt and answers with a canned response
// or a per-prompt error.
type fakeGenerator struct {
	mu       sync.Mutex
	prompts  []string
	respond  func(prompt string) (string, error)
	maxInUse int
	inUse    int
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.inUse++
	if g.inUse > g.maxInUse {
		g.maxInUse = g.inUse
	}
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		g.inUse--
		g.mu.Unlock()
	}()

	if g.respond != nil {
		return g.respond(prompt)
	}
	return "answer", nil
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

func rankedCandidate(id string, summary string) *model.RankedCandidate {
	return &model.RankedCandidate{
		Candidate: &model.Candidate{
			ID:         id,
			Kind:       model.CandidateCommunity,
			Properties: model.Properties{"summary": model.StringValue(summary)},
		},
	}
}

func TestSynthesizePartials(t *testing.T) {
	config := model.DefaultQueryConfig()

	t.Run("Generates one partial per candidate in ranking order", func(t *testing.T) {
		generator := &fakeGenerator{
			respond: func(prompt string) (string, error) {
				switch {
				case strings.Contains(prompt, "first summary"):
					return "first partial", nil
				case strings.Contains(prompt, "second summary"):
					return "second partial", nil
				default:
					return "unexpected", nil
				}
			},
		}
		synthesizer := NewSynthesizer(generator, nil)

		partials, err := synthesizer.SynthesizePartials(context.Background(), "the query", []*model.RankedCandidate{
			rankedCandidate("c1", "first summary"),
			rankedCandidate("c2", "second summary"),
		}, config)
		require.NoError(t, err)
		require.Len(t, partials, 2)

		assert.Equal(t, "c1", partials[0].CandidateID, "Expected ranking order to be preserved")
		assert.Equal(t, "first partial", partials[0].Text)
		assert.Equal(t, "c2", partials[1].CandidateID)
		assert.Equal(t, "second partial", partials[1].Text)
		assert.Equal(t, 2, generator.callCount())
	})

	t.Run("Prompts carry query and summary", func(t *testing.T) {
		generator := &fakeGenerator{}
		synthesizer := NewSynthesizer(generator, nil)

		_, err := synthesizer.SynthesizePartials(context.Background(), "the query", []*model.RankedCandidate{
			rankedCandidate("c1", "the summary"),
		}, config)
		require.NoError(t, err)

		require.Len(t, generator.prompts, 1)
		assert.Contains(t, generator.prompts[0], "Query: the query")
		assert.Contains(t, generator.prompts[0], "Summary: the summary")
	})

	t.Run("Candidates without extractable summary are skipped", func(t *testing.T) {
		generator := &fakeGenerator{}
		synthesizer := NewSynthesizer(generator, nil)

		partials, err := synthesizer.SynthesizePartials(context.Background(), "the query", []*model.RankedCandidate{
			{Candidate: &model.Candidate{ID: "empty", Kind: model.CandidateEntity}},
			rankedCandidate("c1", "usable summary"),
		}, config)
		require.NoError(t, err)
		require.Len(t, partials, 1)
		assert.Equal(t, "c1", partials[0].CandidateID)
		assert.Equal(t, 1, generator.callCount(), "Expected no generation call for the summaryless candidate")
	})

	t.Run("No candidates yields no partials and no calls", func(t *testing.T) {
		generator := &fakeGenerator{}
		synthesizer := NewSynthesizer(generator, nil)

		partials, err := synthesizer.SynthesizePartials(context.Background(), "the query", nil, config)
		require.NoError(t, err)
		assert.Empty(t, partials)
		assert.Equal(t, 0, generator.callCount())
	})

	t.Run("Fail fast aborts on the first failed generation", func(t *testing.T) {
		generator := &fakeGenerator{
			respond: func(prompt string) (string, error) {
				if strings.Contains(prompt, "broken") {
					return "", errors.New("backend unavailable")
				}
				return "ok", nil
			},
		}
		synthesizer := NewSynthesizer(generator, nil)

		_, err := synthesizer.SynthesizePartials(context.Background(), "the query", []*model.RankedCandidate{
			rankedCandidate("c1", "fine summary"),
			rankedCandidate("c2", "broken summary"),
		}, config)
		require.Error(t, err)

		var synthErr *Error
		assert.ErrorAs(t, err, &synthErr, "Expected a synthesis error at the boundary")
	})

	t.Run("Skip failed drops the failing candidate and keeps the rest", func(t *testing.T) {
		skipConfig := config
		skipConfig.PartialFailurePolicy = model.SkipFailed

		generator := &fakeGenerator{
			respond: func(prompt string) (string, error) {
				if strings.Contains(prompt, "broken") {
					return "", errors.New("backend unavailable")
				}
				return "ok", nil
			},
		}
		synthesizer := NewSynthesizer(generator, nil)

		partials, err := synthesizer.SynthesizePartials(context.Background(), "the query", []*model.RankedCandidate{
			rankedCandidate("c1", "fine summary"),
			rankedCandidate("c2", "broken summary"),
			rankedCandidate("c3", "another fine summary"),
		}, skipConfig)
		require.NoError(t, err)
		require.Len(t, partials, 2)
		assert.Equal(t, "c1", partials[0].CandidateID)
		assert.Equal(t, "c3", partials[1].CandidateID, "Expected surviving partials to keep ranking order")
	})

	t.Run("Skip failed with every candidate failing surfaces the failure", func(t *testing.T) {
		skipConfig := config
		skipConfig.PartialFailurePolicy = model.SkipFailed

		generator := &fakeGenerator{
			respond: func(prompt string) (string, error) {
				return "", errors.New("backend unavailable")
			},
		}
		synthesizer := NewSynthesizer(generator, nil)

		_, err := synthesizer.SynthesizePartials(context.Background(), "the query", []*model.RankedCandidate{
			rankedCandidate("c1", "summary one"),
			rankedCandidate("c2", "summary two"),
		}, skipConfig)
		require.Error(t, err, "Expected a broken backend to not be masked as no information")
	})

	t.Run("Concurrency stays within the configured bound", func(t *testing.T) {
		boundedConfig := config
		boundedConfig.MaxConcurrentPartials = 2

		generator := &fakeGenerator{
			respond: func(prompt string) (string, error) {
				time.Sleep(5 * time.Millisecond)
				return "ok", nil
			},
		}
		synthesizer := NewSynthesizer(generator, nil)

		ranked := make([]*model.RankedCandidate, 8)
		for i := range ranked {
			ranked[i] = rankedCandidate(fmt.Sprintf("c%d", i), fmt.Sprintf("summary %d", i))
		}

		partials, err := synthesizer.SynthesizePartials(context.Background(), "the query", ranked, boundedConfig)
		require.NoError(t, err)
		assert.Len(t, partials, 8)
		assert.LessOrEqual(t, generator.maxInUse, 2, "Expected at most MaxConcurrentPartials generations in flight")
	})
}

func TestSynthesizeFinal(t *testing.T) {
	t.Run("Combines partials into a single final generation call", func(t *testing.T) {
		generator := &fakeGenerator{
			respond: func(prompt string) (string, error) {
				return "the final answer", nil
			},
		}
		synthesizer := NewSynthesizer(generator, nil)

		answer, err := synthesizer.SynthesizeFinal(context.Background(), "the query", []model.PartialAnswer{
			{CandidateID: "c1", Text: "partial one"},
			{CandidateID: "c2", Text: "partial two"},
		})
		require.NoError(t, err)
		assert.Equal(t, "the final answer", answer)

		require.Equal(t, 1, generator.callCount())
		assert.Contains(t, generator.prompts[0], "Query: the query")
		assert.Contains(t, generator.prompts[0], "partial one\npartial two", "Expected partials joined in order")
	})

	t.Run("No partials yields the no-information answer without a call", func(t *testing.T) {
		generator := &fakeGenerator{}
		synthesizer := NewSynthesizer(generator, nil)

		answer, err := synthesizer.SynthesizeFinal(context.Background(), "the query", nil)
		require.NoError(t, err)
		assert.Equal(t, NoInformationAnswer, answer)
		assert.Equal(t, 0, generator.callCount(), "Expected no generation call without partials")
	})

	t.Run("Generation failure surfaces as synthesis error", func(t *testing.T) {
		generator := &fakeGenerator{
			respond: func(prompt string) (string, error) {
				return "", errors.New("backend unavailable")
			},
		}
		synthesizer := NewSynthesizer(generator, nil)

		_, err := synthesizer.SynthesizeFinal(context.Background(), "the query", []model.PartialAnswer{
			{CandidateID: "c1", Text: "partial"},
		})
		require.Error(t, err)

		var synthErr *Error
		assert.ErrorAs(t, err, &synthErr)
	})
}
