package hadith

import (
	"context"
	"log/slog"
)

// Service owns the mapping from upstream raw records to the stored shape and
// picks the search backend: the tokenized bleve index when configured, the
// folded substring scan otherwise.
type Service struct {
	store Store
	index *BleveIndex
}

func NewService(store Store, index *BleveIndex) *Service {
	return &Service{store: store, index: index}
}

func (s *Service) Exists(ctx context.Context) (bool, error) {
	return s.store.Exists(ctx)
}

// SaveAll transforms and persists the upstream array, then refreshes the
// search index when one is attached. The store write is the source of truth;
// an index failure is logged and does not undo the persisted corpus.
func (s *Service) SaveAll(ctx context.Context, raws []RawRecord) error {
	records, err := BuildRecords(raws)
	if err != nil {
		return err
	}
	if err := s.store.SaveAll(ctx, records); err != nil {
		return err
	}
	if s.index != nil {
		if err := s.index.Add(ctx, records); err != nil {
			slog.Error("failed to refresh hadith search index", "err", err)
		}
	}
	return nil
}

func (s *Service) GetPage(ctx context.Context, page int) ([]Record, error) {
	return s.store.GetPage(ctx, page)
}

func (s *Service) Search(ctx context.Context, query string) ([]Record, error) {
	if s.index == nil {
		return s.store.Search(ctx, query)
	}
	numbers, err := s.index.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.store.GetByNumbers(ctx, numbers)
}

// SearchRegex always goes through the store: regular expressions are a
// driver-side capability and the bleve index has no equivalent. Patterns are
// matched against the folded text, so write them in lowercase ASCII.
func (s *Service) SearchRegex(ctx context.Context, pattern string) ([]Record, error) {
	return s.store.SearchRegex(ctx, pattern)
}

func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	if s.index != nil {
		return s.index.Clear(ctx)
	}
	return nil
}
