package vocab

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dkotenko/lexibatch-backend/internal/domain"
	"github.com/dkotenko/lexibatch-backend/internal/service/vocab/match"
	"github.com/dkotenko/lexibatch-backend/pkg/fetchcache"
)

// generateOverhead is how many extra candidates are requested from the
// generator beyond the needed count, to absorb duplicate filtering losses.
const generateOverhead = 20

// rootDedupMinimum mirrors the stricter filtering cutover: above this many
// existing words, root-level deduplication kicks in.
const rootDedupMinimum = 150

// generateFetchTTL is how long a generator response stays reusable. The key
// includes the vocabulary size, so a successful persist changes the key and
// the next generation fetches fresh; within the TTL only retries of the
// same failed attempt hit the cached response.
const generateFetchTTL = 30 * time.Second

// GenerateWords produces and persists one batch worth of new vocabulary for
// the learner's current level.
//
// Candidates come first from the learner's pooled surplus of a previous
// generation, then from the external generator. Everything is filtered
// against the learner's existing vocabulary before persistence; a failure
// at any point leaves vocabulary and progression state untouched.
func (s *Service) GenerateWords(ctx context.Context, userID uuid.UUID) ([]domain.Word, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("generate words: %w", err)
	}

	level := user.CurrentLevel
	needed := s.policy.WordsPerBatch

	existing, err := s.words.ListNormalized(ctx, userID, level)
	if err != nil {
		return nil, fmt.Errorf("generate words: load existing: %w", err)
	}

	count, err := s.words.CountByLevel(ctx, userID, level)
	if err != nil {
		return nil, fmt.Errorf("generate words: count existing: %w", err)
	}
	if maxWords := s.policy.WordsPerLevel; count >= maxWords {
		return nil, fmt.Errorf("generate words: level %s already holds %d words: %w",
			level, count, domain.ErrValidation)
	}

	candidates, _ := s.cache.GetGeneratedPool(userID, level)
	if len(candidates) < needed {
		key := fmt.Sprintf("generate:%s:%s:%d", userID, level, count)
		v, err := s.requests.Do(ctx, key, generateFetchTTL, func(ctx context.Context) (any, error) {
			return fetchcache.WithTimeout(ctx, s.genTimeout, func(ctx context.Context) ([]domain.WordPair, error) {
				return s.gen.Generate(ctx, domain.GenerationRequest{
					Language:       user.Language,
					NativeLanguage: user.NativeLanguage,
					Level:          level,
					Count:          needed + generateOverhead,
					Exclude:        existing,
				})
			})
		})
		if err != nil {
			return nil, fmt.Errorf("generate words: %w", err)
		}
		pairs, _ := v.([]domain.WordPair)
		candidates = append(candidates, pairs...)
	}

	filtered := s.filter(candidates, existing, user.Language)
	if len(filtered) == 0 {
		return nil, fmt.Errorf("generate words: no candidates survived filtering: %w",
			domain.ErrGenerationMalformed)
	}

	// Never overfill the level: the final batch must end exactly at the
	// level quota, so a nearly full level gets a short batch.
	take := needed
	if remaining := s.policy.WordsPerLevel - count; take > remaining {
		take = remaining
	}
	if take > len(filtered) {
		take = len(filtered)
	}

	words := s.buildWords(user, filtered[:take], count)

	if err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.words.Create(txCtx, words)
	}); err != nil {
		return nil, fmt.Errorf("generate words: persist batch: %w", err)
	}

	// Surplus candidates survive into the next generation attempt; cached
	// views of this learner are stale now that the level grew.
	s.cache.InvalidateUser(userID)
	s.cache.SetGeneratedPool(userID, level, filtered[take:])

	s.log.Info("batch generated",
		slog.String("user_id", userID.String()),
		slog.String("level", level.String()),
		slog.Int("persisted", len(words)),
		slog.Int("pooled", len(filtered)-take),
	)

	return words, nil
}

// filter removes duplicates against the existing vocabulary, switching to
// the stricter variant once the vocabulary is large.
func (s *Service) filter(candidates []domain.WordPair, existing []string, language domain.Language) []domain.WordPair {
	if len(existing) > rootDedupMinimum {
		return match.FilterDuplicatesAdvanced(candidates, existing, language)
	}
	return match.FilterDuplicates(candidates, existing, language)
}

// buildWords turns surviving candidates into Word records, assigning batch
// numbers by filling the current partial batch before opening new ones.
func (s *Service) buildWords(user *domain.User, pairs []domain.WordPair, existingCount int) []domain.Word {
	now := s.now().UTC()
	maxBatch := s.policy.BatchesPerLevel()

	words := make([]domain.Word, 0, len(pairs))
	for i, p := range pairs {
		batch := (existingCount+i)/s.policy.WordsPerBatch + 1
		if batch > maxBatch {
			batch = maxBatch
		}

		words = append(words, domain.Word{
			ID:             uuid.New(),
			UserID:         user.ID,
			Original:       p.Original,
			Translation:    p.Translation,
			TextNormalized: match.NormalizeForLanguage(p.Original, user.Language),
			Language:       user.Language,
			NativeLanguage: user.NativeLanguage,
			Level:          user.CurrentLevel,
			BatchNumber:    batch,
			CreatedAt:      now,
		})
	}

	return words
}
