package usecase

import (
	"context"
	"log"
	"runtime"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pozmatch/backend/internal/domain"
)

// minLineLength is the shortest trimmed line (in runes) worth matching;
// shorter lines are blank rows or extraction noise.
const minLineLength = 5

// MatchConfig holds configuration for the match service
type MatchConfig struct {
	Workers            int
	EnableDebugLogging bool
}

// MatchService matches a batch of bill-of-quantities lines against the
// current catalog snapshot and produces a ranked, priced result set.
type MatchService struct {
	cache              domain.CatalogCache
	scorer             *SimilarityScorer
	workers            int
	enableDebugLogging bool
}

// NewMatchService creates a new match service with dependencies
func NewMatchService(cache domain.CatalogCache, config MatchConfig) *MatchService {
	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &MatchService{
		cache:              cache,
		scorer:             NewSimilarityScorer(),
		workers:            workers,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// MatchLines splits rawText into line items, finds the best catalog entry
// per line and returns candidates sorted by descending score. Without an
// active subscription every candidate's prices are zeroed and IsBlurred is
// set so the caller can render a paywall affordance.
func (s *MatchService) MatchLines(ctx context.Context, rawText string, hasActiveSubscription bool) ([]domain.MatchCandidate, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, domain.ErrInvalidInput
	}

	lines := splitMatchableLines(rawText)
	if s.enableDebugLogging {
		log.Printf("[MATCH] %d matchable lines, subscription=%v", len(lines), hasActiveSubscription)
	}

	snapshot := s.cache.Snapshot()
	if len(snapshot) == 0 {
		// Cold start or a store outage at boot: pull the catalog once before
		// giving up on the whole batch.
		if _, err := s.cache.Reload(ctx); err != nil {
			log.Printf("[MATCH] catalog reload failed: %v", err)
		}
		snapshot = s.cache.Snapshot()
		if len(snapshot) == 0 {
			return nil, domain.ErrEmptyCatalog
		}
	}

	results := make([]domain.MatchCandidate, len(lines))

	// Lines are independent, so scoring fans out across a bounded worker
	// pool. The per-line best-candidate reduction stays sequential.
	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = s.matchLine(lines[i], snapshot, hasActiveSubscription)
			}
		}()
	}
	for i := range lines {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	// Descending by score; stable so tied lines keep their input order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})

	return results, nil
}

// matchLine scores one line against every snapshot item and keeps the
// first-seen strict maximum. The best score starts at zero, so a line that
// matches nothing ends up with no matched item.
func (s *MatchService) matchLine(rawLine string, snapshot []domain.CatalogItem, hasActiveSubscription bool) domain.MatchCandidate {
	query := newLineQuery(rawLine)

	var bestMatch *domain.CatalogItem
	bestScore := 0.0

	for i := range snapshot {
		if !eligibleCandidate(snapshot[i]) {
			continue
		}

		score := s.scorer.scoreQuery(query, snapshot[i])
		if score > bestScore {
			bestScore = score
			bestMatch = &snapshot[i]
		}
	}

	if s.enableDebugLogging && bestMatch != nil {
		log.Printf("[MATCH] %q -> %s (score %.1f)", rawLine, bestMatch.Code, bestScore)
	}

	candidate := domain.MatchCandidate{
		ID:         uuid.NewString(),
		RawLine:    rawLine,
		MatchScore: bestScore,
		Quantity:   1,
		IsBlurred:  !hasActiveSubscription,
	}

	if bestMatch != nil {
		matched := *bestMatch
		if !hasActiveSubscription {
			matched.UnitPrice = 0
		}
		candidate.MatchedItem = &matched
		candidate.UnitPrice = matched.UnitPrice
		candidate.TotalPrice = matched.UnitPrice * candidate.Quantity
	}

	return candidate
}

// splitMatchableLines splits a text blob on line breaks and drops lines
// whose trimmed length is too short to carry a line item.
func splitMatchableLines(rawText string) []string {
	var lines []string
	for _, line := range strings.Split(rawText, "\n") {
		if utf8.RuneCountInString(strings.TrimSpace(line)) > minLineLength {
			lines = append(lines, line)
		}
	}
	return lines
}
