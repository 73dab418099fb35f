package snippets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/matheuslc/snipnest_api/internal/db"
)

type Repository struct {
	base *db.Base
}

func NewRepository(base *db.Base) *Repository {
	return &Repository{base: base}
}

const (
	sqlSnippetInsert = `INSERT INTO snippets (title, content, category, tags)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at;`

	sqlSnippetSelectByID = `SELECT id, title, content, category, tags, created_at, updated_at
		FROM snippets
		WHERE id = $1
		LIMIT 1;`

	// COALESCE keeps the stored value for every field the caller did not
	// supply. updated_at always refreshes.
	sqlSnippetUpdate = `UPDATE snippets
		SET title = COALESCE($2, title),
		    content = COALESCE($3, content),
		    category = COALESCE($4, category),
		    tags = COALESCE($5, tags),
		    updated_at = now()
		WHERE id = $1
		RETURNING id, title, content, category, tags, created_at, updated_at;`

	sqlSnippetDelete = `DELETE FROM snippets
		WHERE id = $1;`

	sqlSnippetList = `SELECT id, title, content, category, tags, created_at, updated_at
		FROM snippets
		ORDER BY id DESC
		LIMIT $1 OFFSET $2;`

	sqlSnippetSearchBase = `SELECT id, title, content, category, tags, created_at, updated_at
		FROM snippets
		WHERE %s
		ORDER BY id DESC
		LIMIT $%d;`

	sqlSnippetTags = `SELECT tags
		FROM snippets
		WHERE tags IS NOT NULL AND tags <> '';`
)

func (r *Repository) Create(ctx context.Context, s *Snippet) error {
	return r.base.WithTx(ctx, func(ctx context.Context, q db.Queryer) error {
		return q.QueryRow(ctx, sqlSnippetInsert,
			s.Title,
			s.Content,
			s.Category,
			encodeTags(s.Tags),
		).Scan(&s.ID, &s.CreatedAt)
	})
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Snippet, error) {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	return scanSnippet(r.base.Q().QueryRow(ctx, sqlSnippetSelectByID, id))
}

func (r *Repository) Update(ctx context.Context, id int64, changes UpdateSnippetRequest) (*Snippet, error) {
	var tags *string
	if changes.Tags != nil {
		tags = encodeTags(changes.Tags)
		if tags == nil {
			// explicit clear: store the empty encoding, not NULL,
			// so COALESCE does not resurrect the old value
			empty := ""
			tags = &empty
		}
	}

	var updated *Snippet
	err := r.base.WithTx(ctx, func(ctx context.Context, q db.Queryer) error {
		s, err := scanSnippet(q.QueryRow(ctx, sqlSnippetUpdate,
			id,
			changes.Title,
			changes.Content,
			changes.Category,
			tags,
		))
		if err != nil {
			return err
		}
		updated = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.base.WithTx(ctx, func(ctx context.Context, q db.Queryer) error {
		tag, err := q.Exec(ctx, sqlSnippetDelete, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]*Snippet, error) {
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	rows, err := r.base.Q().Query(ctx, sqlSnippetList, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSnippets(rows, limit)
}

// Search matches query as a case-insensitive substring of title or content.
// The optional tag filter runs against the raw comma-joined tag column, so a
// short tag query can match inside a longer tag. That approximation is part
// of the contract.
func (r *Repository) Search(ctx context.Context, query, tag string, limit int) ([]*Snippet, error) {
	limit = clampLimit(limit)

	where := []string{"(title ILIKE $1 OR content ILIKE $1)"}
	args := []any{"%" + query + "%"}
	argPos := 2

	if tag != "" {
		where = append(where, fmt.Sprintf("tags ILIKE $%d", argPos))
		args = append(args, "%"+tag+"%")
		argPos++
	}

	args = append(args, limit)
	sql := fmt.Sprintf(sqlSnippetSearchBase, strings.Join(where, " AND "), argPos)

	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	rows, err := r.base.Q().Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSnippets(rows, limit)
}

// DistinctTags decodes every row's tag column and returns the deduplicated,
// alphabetically sorted set.
func (r *Repository) DistinctTags(ctx context.Context) ([]string, error) {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	rows, err := r.base.Q().Query(ctx, sqlSnippetTags)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := make(map[string]struct{})
	for rows.Next() {
		var enc *string
		if err := rows.Scan(&enc); err != nil {
			return nil, err
		}
		for _, t := range decodeTags(enc) {
			seen[t] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sortedTagSet(seen), nil
}

func scanSnippet(row pgx.Row) (*Snippet, error) {
	var s Snippet
	var tags *string
	err := row.Scan(
		&s.ID,
		&s.Title,
		&s.Content,
		&s.Category,
		&tags,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.Tags = decodeTags(tags)
	return &s, nil
}

func scanSnippets(rows pgx.Rows, limit int) ([]*Snippet, error) {
	snippets := make([]*Snippet, 0, min(limit, 128))
	for rows.Next() {
		var s Snippet
		var tags *string
		if err := rows.Scan(
			&s.ID,
			&s.Title,
			&s.Content,
			&s.Category,
			&tags,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		s.Tags = decodeTags(tags)
		snippets = append(snippets, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return snippets, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}
