package synthesis

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/siherrmann/graphquery/model"
	"golang.org/x/sync/errgroup"
)

// NoInformationAnswer is returned when no partial answers could be generated
const NoInformationAnswer = "No relevant information found to answer your query.\n"

// Synthesizer runs the two-stage answer generation
type Synthesizer struct {
	generator Generator
	log       *slog.Logger
}

// NewSynthesizer creates a synthesizer around a generation client
func NewSynthesizer(generator Generator, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{
		generator: generator,
		log:       logger,
	}
}

// SynthesizePartials generates one answer draft per ranked candidate.
// The generation calls are dispatched concurrently, bounded by
// config.MaxConcurrentPartials, and the results are reassembled in ranking
// order. Candidates without any extractable summary are skipped. The failure
// policy decides whether one failed generation aborts the whole batch
// (FailFast) or only drops that draft (SkipFailed).
func (s *Synthesizer) SynthesizePartials(ctx context.Context, query string, ranked []*model.RankedCandidate, config model.QueryConfig) ([]model.PartialAnswer, error) {
	type task struct {
		candidateID string
		summary     string
	}

	tasks := make([]task, 0, len(ranked))
	for _, r := range ranked {
		summary := r.Candidate.Summary()
		if summary == "" {
			s.log.Warn("No summary could be extracted, skipping candidate", slog.String("candidate_id", r.Candidate.ID))
			continue
		}
		tasks = append(tasks, task{candidateID: r.Candidate.ID, summary: summary})
	}

	if len(tasks) == 0 {
		return []model.PartialAnswer{}, nil
	}

	limit := config.MaxConcurrentPartials
	if limit <= 0 {
		limit = 1
	}

	results := make([]*model.PartialAnswer, len(tasks))
	taskErrs := make([]error, len(tasks))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(limit)

	for i, t := range tasks {
		group.Go(func() error {
			prompt := PartialAnswerPrompt(query, t.summary)
			text, err := s.generator.Generate(groupCtx, prompt)
			if err != nil {
				taskErrs[i] = err
				if config.PartialFailurePolicy == model.SkipFailed {
					s.log.Warn("Partial answer generation failed, skipping candidate",
						slog.String("candidate_id", t.candidateID),
						slog.String("error", err.Error()),
					)
					return nil
				}
				return err
			}

			results[i] = &model.PartialAnswer{
				CandidateID: t.candidateID,
				Text:        text,
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		var synthErr *Error
		if errors.As(err, &synthErr) {
			return nil, err
		}
		return nil, newError("partial answers", err)
	}

	partials := make([]model.PartialAnswer, 0, len(tasks))
	for _, r := range results {
		if r != nil {
			partials = append(partials, *r)
		}
	}

	if len(partials) == 0 {
		// Every candidate failed, surface the first failure instead of
		// masking a broken generation backend as "no information"
		for _, err := range taskErrs {
			if err != nil {
				var synthErr *Error
				if errors.As(err, &synthErr) {
					return nil, err
				}
				return nil, newError("partial answers", err)
			}
		}
	}

	return partials, nil
}

// SynthesizeFinal combines the ordered partial answers and the query into the
// final answer with a single generation call. An empty partial-answer
// sequence yields the defined no-information answer without any call.
func (s *Synthesizer) SynthesizeFinal(ctx context.Context, query string, partials []model.PartialAnswer) (string, error) {
	if len(partials) == 0 {
		s.log.Warn("No partial answers generated, returning default response")
		return NoInformationAnswer, nil
	}

	texts := make([]string, len(partials))
	for i, p := range partials {
		texts[i] = p.Text
	}

	prompt := FinalAnswerPrompt(query, strings.Join(texts, "\n"))
	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		var synthErr *Error
		if errors.As(err, &synthErr) {
			return "", err
		}
		return "", newError("final answer", err)
	}

	return answer, nil
}
