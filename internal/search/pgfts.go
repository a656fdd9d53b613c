package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"relay/api/internal/conversation"
)

// PgFTS implements Searcher using PostgreSQL full-text search as a fallback.
type PgFTS struct {
	db *sql.DB
}

// NewPgFTS creates a PostgreSQL FTS searcher.
func NewPgFTS(db *sql.DB) *PgFTS {
	return &PgFTS{db: db}
}

// Healthy always returns true — if Postgres is down, the whole app is down.
func (p *PgFTS) Healthy() bool {
	return true
}

// Search executes a UNION ALL query across conversations and workspaces
// using plainto_tsquery and ts_rank, with ts_headline for snippets.
func (p *PgFTS) Search(q Query) ([]Result, int, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, 0, nil
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	tsQuery := "plainto_tsquery('english', $1)"
	args := []any{q.Text}
	argN := 2

	var subQueries []string

	// Conversations sub-query
	if q.FilterType == "" || q.FilterType == ResultConversation {
		convWhere := "c.fts @@ " + tsQuery + " AND c.is_archived = FALSE"
		if q.FilterWorkspaceID != "" {
			convWhere += fmt.Sprintf(" AND c.workspace_id = $%d", argN)
			args = append(args, q.FilterWorkspaceID)
			argN++
		}
		if q.FilterConversationType != "" {
			if typ, err := conversation.ParseLabel(q.FilterConversationType); err == nil {
				convWhere += fmt.Sprintf(" AND c.type = $%d", argN)
				args = append(args, int(typ))
				argN++
			}
		}
		subQueries = append(subQueries, fmt.Sprintf(`
			SELECT 'conversation'::text AS type, c.id::text, c.name,
				ts_headline('english', coalesce(c.topic, '') || ' ' || coalesce(c.purpose, ''), %s, 'MaxFragments=1,MaxWords=30') AS snippet,
				c.workspace_id::text, c.type::int AS conv_type, c.is_public,
				ts_rank(c.fts, %s) AS rank
			FROM conversations c
			WHERE %s`, tsQuery, tsQuery, convWhere))
	}

	// Workspaces sub-query
	if q.FilterType == "" || q.FilterType == ResultWorkspace {
		wsWhere := "w.fts @@ " + tsQuery + " AND w.is_active = TRUE"
		if q.FilterWorkspaceID != "" {
			wsWhere += fmt.Sprintf(" AND w.id = $%d", argN)
			args = append(args, q.FilterWorkspaceID)
			argN++
		}
		subQueries = append(subQueries, fmt.Sprintf(`
			SELECT 'workspace'::text AS type, w.id::text, w.name,
				ts_headline('english', w.domain, %s, 'MaxFragments=1,MaxWords=30') AS snippet,
				w.id::text AS workspace_id, 0 AS conv_type, FALSE AS is_public,
				ts_rank(w.fts, %s) AS rank
			FROM workspaces w
			WHERE %s`, tsQuery, tsQuery, wsWhere))
	}

	if len(subQueries) == 0 {
		return nil, 0, nil
	}

	// Count query
	countSQL := fmt.Sprintf("SELECT count(*) FROM (%s) sub",
		strings.Join(subQueries, " UNION ALL "))

	// Data query
	dataSQL := fmt.Sprintf(`SELECT type, id, name, snippet, workspace_id, conv_type, is_public
		FROM (%s) sub
		ORDER BY rank DESC
		LIMIT %d OFFSET %d`,
		strings.Join(subQueries, " UNION ALL "),
		limit, offset)

	ctx := context.Background()

	var total int
	if err := p.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgfts count: %w", err)
	}

	rows, err := p.db.QueryContext(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgfts query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var typ string
		var convType int
		if err := rows.Scan(&typ, &r.ID, &r.Name, &r.Snippet, &r.WorkspaceID, &convType, &r.IsPublic); err != nil {
			return nil, 0, fmt.Errorf("pgfts scan: %w", err)
		}
		r.Type = ResultType(typ)
		if r.Type == ResultConversation {
			r.ConversationType = conversation.Type(convType).Label()
		}
		results = append(results, r)
	}

	return results, total, rows.Err()
}

// LoadAllRecords returns all searchable records for full reindexing.
func (p *PgFTS) LoadAllRecords(ctx context.Context) ([]ConversationRecord, []WorkspaceRecord, error) {
	convRows, err := p.db.QueryContext(ctx, `
		SELECT id, name, topic, purpose, workspace_id, type, is_public, is_archived
		FROM conversations
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("load conversations: %w", err)
	}
	defer convRows.Close()

	conversations := make([]ConversationRecord, 0)
	for convRows.Next() {
		var c ConversationRecord
		var convType int
		if err := convRows.Scan(&c.ID, &c.Name, &c.Topic, &c.Purpose, &c.WorkspaceID, &convType, &c.IsPublic, &c.IsArchived); err != nil {
			return nil, nil, fmt.Errorf("scan conversation: %w", err)
		}
		c.Type = conversation.Type(convType).Label()
		conversations = append(conversations, c)
	}
	if err := convRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate conversations: %w", err)
	}

	wsRows, err := p.db.QueryContext(ctx, `
		SELECT id, name, domain
		FROM workspaces
		WHERE is_active = TRUE
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("load workspaces: %w", err)
	}
	defer wsRows.Close()

	workspaces := make([]WorkspaceRecord, 0)
	for wsRows.Next() {
		var w WorkspaceRecord
		if err := wsRows.Scan(&w.ID, &w.Name, &w.Domain); err != nil {
			return nil, nil, fmt.Errorf("scan workspace: %w", err)
		}
		workspaces = append(workspaces, w)
	}
	if err := wsRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate workspaces: %w", err)
	}

	return conversations, workspaces, nil
}
