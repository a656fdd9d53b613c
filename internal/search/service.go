package search

import (
	"context"
	"log"
)

// Service is the facade that tries Meilisearch first and falls back to PG FTS.
type Service struct {
	meili *Meili
	pgfts *PgFTS
}

// NewService creates a search service. meili may be nil if Meilisearch is not configured.
func NewService(meili *Meili, pgfts *PgFTS) *Service {
	return &Service{meili: meili, pgfts: pgfts}
}

// Search tries Meilisearch if healthy, otherwise falls back to PG FTS.
func (s *Service) Search(q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		log.Printf("search: meilisearch error, falling back to pgfts: %v", err)
	}

	results, total, err := s.pgfts.Search(q)
	if err != nil {
		log.Printf("search: pgfts error: %v", err)
		return Response{Results: []Result{}, Total: 0, Query: q.Text}
	}
	return Response{Results: nonNil(results), Total: total, Query: q.Text}
}

// IndexConversation indexes a conversation (fire-and-forget to Meilisearch).
func (s *Service) IndexConversation(c ConversationRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexConversation(c); err != nil {
			log.Printf("search: index conversation %s: %v", c.ID, err)
		}
	}()
}

// IndexWorkspace indexes a workspace (fire-and-forget to Meilisearch).
func (s *Service) IndexWorkspace(w WorkspaceRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexWorkspace(w); err != nil {
			log.Printf("search: index workspace %s: %v", w.ID, err)
		}
	}()
}

// DeleteConversation removes a conversation from the search index (fire-and-forget).
func (s *Service) DeleteConversation(id string) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.DeleteConversation(id); err != nil {
			log.Printf("search: delete conversation %s: %v", id, err)
		}
	}()
}

// DeleteWorkspace removes a workspace from the search index (fire-and-forget).
func (s *Service) DeleteWorkspace(id string) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.DeleteWorkspace(id); err != nil {
			log.Printf("search: delete workspace %s: %v", id, err)
		}
	}()
}

// ReindexAll pushes the given records to Meilisearch.
func (s *Service) ReindexAll(conversations []ConversationRecord, workspaces []WorkspaceRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}

	if len(conversations) > 0 {
		if err := s.meili.IndexConversations(conversations); err != nil {
			log.Printf("search: reindex conversations: %v", err)
		}
	}
	if len(workspaces) > 0 {
		if err := s.meili.IndexWorkspaces(workspaces); err != nil {
			log.Printf("search: reindex workspaces: %v", err)
		}
	}
}

// ReindexAllFromPG reindexes all searchable entities from PostgreSQL into Meilisearch.
func (s *Service) ReindexAllFromPG(ctx context.Context) {
	if s.meili == nil || !s.meili.Healthy() || s.pgfts == nil {
		return
	}
	conversations, workspaces, err := s.pgfts.LoadAllRecords(ctx)
	if err != nil {
		log.Printf("search: reindex load failed: %v", err)
		return
	}
	s.ReindexAll(conversations, workspaces)
}

func nonNil(r []Result) []Result {
	if r == nil {
		return []Result{}
	}
	return r
}
