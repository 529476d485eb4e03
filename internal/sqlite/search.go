package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpggio/planboard/internal/domain/task"
)

// SearchRepository implements task.SearchRepository for SQLite
type SearchRepository struct {
	db *DB
}

// NewSearchRepository creates a new SearchRepository
func NewSearchRepository(db *DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// Search performs a full-text search over task titles and descriptions. Every
// word of query must match, as a prefix.
func (r *SearchRepository) Search(ctx context.Context, projectID, query string, opts task.SearchOptions) ([]task.SearchResult, error) {
	match := matchExpression(query)
	if match == "" {
		return []task.SearchResult{}, nil
	}

	baseQuery := `
		SELECT ` + taskColumns + `,
			bm25(tasks_fts) AS rank,
			snippet(tasks_fts, -1, '[', ']', '...', 12) AS snippet
		FROM tasks_fts
		JOIN tasks t ON t.rowid = tasks_fts.rowid
		WHERE t.project_id = ? AND tasks_fts MATCH ?
		ORDER BY rank
	`
	args := []any{projectID, match}

	if opts.Limit > 0 {
		baseQuery += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			baseQuery += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.db.conn(ctx).QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}
	defer rows.Close()

	results := []task.SearchResult{}
	for rows.Next() {
		var result task.SearchResult
		t, err := scanTask(rows, &result.Rank, &result.Snippet)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		result.Task = *t
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search results: %w", err)
	}
	return results, nil
}

// matchExpression turns free text into an FTS5 query of quoted prefix terms,
// so user input cannot inject FTS5 operators.
func matchExpression(query string) string {
	terms := strings.Fields(query)
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		quoted = append(quoted, `"`+strings.ReplaceAll(term, `"`, `""`)+`"*`)
	}
	return strings.Join(quoted, " ")
}
