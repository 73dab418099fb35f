package snippets

import (
	"context"
	"strings"
	"time"

	"github.com/matheuslc/snipnest_api/internal/apperrors"
)

type Store interface {
	Create(ctx context.Context, s *Snippet) error
	GetByID(ctx context.Context, id int64) (*Snippet, error)
	Update(ctx context.Context, id int64, changes UpdateSnippetRequest) (*Snippet, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*Snippet, error)
	Search(ctx context.Context, query, tag string, limit int) ([]*Snippet, error)
	DistinctTags(ctx context.Context) ([]string, error)
}

// DefaultCacheTTL bounds the staleness window for cached point lookups.
const DefaultCacheTTL = 10 * time.Minute

// Service orchestrates the store and the cache. Only point lookups are
// cached: list and search result sets are unbounded in shape and cheap to
// recompute relative to point reads. Writes invalidate rather than
// re-populate, trading one extra store round-trip on the next read for not
// having to reason about a cached value racing a concurrent update.
type Service struct {
	Store    Store
	Cache    Cache
	CacheTTL time.Duration
}

func (s *Service) cacheTTL() time.Duration {
	if s.CacheTTL > 0 {
		return s.CacheTTL
	}
	return DefaultCacheTTL
}

// Create persists the snippet and, on success, primes the cache. A failed
// insert must never leave a cache entry behind for a row that does not
// exist, so the cache write only happens after the store commits.
func (s *Service) Create(ctx context.Context, req CreateSnippetRequest) (*Snippet, error) {
	if s.Store == nil {
		return nil, apperrors.New(apperrors.KindInternal, "snippets store not configured")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "title is required")
	}

	snippet := &Snippet{
		Title:    title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     normalizeTags(req.Tags),
	}

	if err := s.Store.Create(ctx, snippet); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to create snippet", err)
	}

	if s.Cache != nil {
		s.Cache.SetByID(ctx, snippet, s.cacheTTL())
	}

	return snippet, nil
}

// GetByID serves from the cache when it can. A hit never touches the store,
// which means a read may return a value up to one TTL stale if an external
// writer bypassed invalidation. Misses load from the store and populate the
// cache; absent rows are never cached.
func (s *Service) GetByID(ctx context.Context, id int64) (*Snippet, error) {
	if s.Store == nil {
		return nil, apperrors.New(apperrors.KindInternal, "snippets store not configured")
	}

	if s.Cache != nil {
		if cached, ok := s.Cache.GetByID(ctx, id); ok {
			return cached, nil
		}
	}

	snippet, err := s.Store.GetByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, apperrors.New(apperrors.KindNotFound, "snippet not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to load snippet", err)
	}

	if s.Cache != nil {
		s.Cache.SetByID(ctx, snippet, s.cacheTTL())
	}

	return snippet, nil
}

// Update applies the partial update and invalidates the cache entry. The
// updated record is returned from the store, not re-cached here; the next
// read repopulates.
func (s *Service) Update(ctx context.Context, id int64, req UpdateSnippetRequest) (*Snippet, error) {
	if s.Store == nil {
		return nil, apperrors.New(apperrors.KindInternal, "snippets store not configured")
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.New(apperrors.KindInvalidInput, "title cannot be blank")
		}
		req.Title = &title
	}
	if req.Tags != nil {
		req.Tags = normalizeTags(req.Tags)
		if req.Tags == nil {
			req.Tags = []string{}
		}
	}

	snippet, err := s.Store.Update(ctx, id, req)
	if err != nil {
		if IsNotFound(err) {
			return nil, apperrors.New(apperrors.KindNotFound, "snippet not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to update snippet", err)
	}

	if s.Cache != nil {
		s.Cache.DeleteByID(ctx, id)
	}

	return snippet, nil
}

// Delete removes the row and invalidates the cache entry regardless of
// whether the row existed; deleting an absent key is a no-op in the adapter.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if s.Store == nil {
		return apperrors.New(apperrors.KindInternal, "snippets store not configured")
	}

	err := s.Store.Delete(ctx, id)

	if s.Cache != nil {
		s.Cache.DeleteByID(ctx, id)
	}

	if err != nil {
		if IsNotFound(err) {
			return apperrors.New(apperrors.KindNotFound, "snippet not found")
		}
		return apperrors.Wrap(apperrors.KindInternal, "failed to delete snippet", err)
	}

	return nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Snippet, error) {
	if s.Store == nil {
		return nil, apperrors.New(apperrors.KindInternal, "snippets store not configured")
	}

	list, err := s.Store.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to list snippets", err)
	}
	return list, nil
}

func (s *Service) Search(ctx context.Context, query, tag string, limit int) ([]*Snippet, error) {
	if s.Store == nil {
		return nil, apperrors.New(apperrors.KindInternal, "snippets store not configured")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "search query is required")
	}

	results, err := s.Store.Search(ctx, query, strings.TrimSpace(tag), limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to search snippets", err)
	}
	return results, nil
}

func (s *Service) Tags(ctx context.Context) ([]string, error) {
	if s.Store == nil {
		return nil, apperrors.New(apperrors.KindInternal, "snippets store not configured")
	}

	tags, err := s.Store.DistinctTags(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to list tags", err)
	}
	return tags, nil
}

func normalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	kept := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}
