package snippets

import (
	"context"
	"time"
)

// Cache is a best-effort point-lookup cache for snippets. Implementations
// must absorb every backend failure: Get reports a miss, Set and Delete
// no-op. Callers cannot tell a miss from a failure and must not need to.
type Cache interface {
	GetByID(ctx context.Context, id int64) (*Snippet, bool)
	SetByID(ctx context.Context, s *Snippet, ttl time.Duration)
	DeleteByID(ctx context.Context, id int64)
}
