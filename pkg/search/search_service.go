package search

import (
	"context"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"calorie-tracker/domain"
	"calorie-tracker/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// minFetch is how many records each source is asked for, so ranking sees
// enough candidates even for small limits.
const minFetch = 100

type (
	SearchService interface {
		Search(ctx context.Context, userID string, req domain.SearchRequest) (domain.SearchResponse, error)
	}

	searchService struct {
		sources []Source
	}
)

func NewSearchService(sources ...Source) SearchService {
	return &searchService{sources: sources}
}

func (s *searchService) Search(ctx context.Context, userID string, req domain.SearchRequest) (domain.SearchResponse, error) {
	if req.Limit <= 0 {
		return domain.SearchResponse{}, domain.ErrInvalidQuery
	}

	query := strings.TrimSpace(req.Query)
	resp := domain.SearchResponse{Query: query, Results: []domain.FoodRecord{}}
	if utf8.RuneCountInString(query) < domain.MinQueryLength {
		return resp, nil
	}

	var selected []Source
	for _, src := range s.sources {
		if req.Sources.Includes(src.Provenance()) {
			selected = append(selected, src)
		}
	}
	if len(selected) == 0 {
		return domain.SearchResponse{}, domain.ErrNoSourcesAvailable
	}

	fetch := req.Limit
	if fetch < minFetch {
		fetch = minFetch
	}

	var (
		mu       sync.Mutex
		combined []domain.FoodRecord
		failed   []domain.SourceFailure
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, src := range selected {
		src := src
		g.Go(func() error {
			records, err := src.Search(gctx, userID, query, fetch)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// One failing source only narrows the results.
				logger.Warn("food source search failed",
					zap.String("source", src.Provenance().String()),
					zap.String("query", query),
					zap.Error(err),
				)
				failed = append(failed, domain.SourceFailure{Source: src.Provenance(), Error: err.Error()})
				return nil
			}
			for _, r := range records {
				r.Provenance = src.Provenance()
				combined = append(combined, r)
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failed) == len(selected) {
		return domain.SearchResponse{}, domain.ErrNoSourcesAvailable
	}

	sort.Slice(failed, func(i, j int) bool {
		return failed[i].Source.Priority() > failed[j].Source.Priority()
	})
	resp.Results = Rank(combined, query, req.Limit)
	resp.Failed = failed
	return resp, nil
}
