package search

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"
)

const (
	idxConversations = "relay_conversations"
	idxWorkspaces    = "relay_workspaces"
)

// Meili implements Searcher and Indexer via Meilisearch.
type Meili struct {
	client  meili.ServiceManager
	healthy atomic.Bool
	done    chan struct{}
}

// NewMeili creates a Meilisearch client and configures indexes.
// Returns nil if the initial connection fails (caller should proceed without it).
func NewMeili(url, apiKey string) *Meili {
	client := meili.New(url, meili.WithAPIKey(apiKey))

	m := &Meili{
		client: client,
		done:   make(chan struct{}),
	}

	// Initial health check
	if _, err := client.Health(); err != nil {
		log.Printf("search: meilisearch unavailable at %s: %v", url, err)
		m.healthy.Store(false)
	} else {
		m.healthy.Store(true)
		m.configureIndexes()
	}

	go m.healthLoop()
	return m
}

func (m *Meili) configureIndexes() {
	indexes := []struct {
		uid        string
		primaryKey string
		filterable []string
		searchable []string
	}{
		{
			uid:        idxConversations,
			primaryKey: "id",
			filterable: []string{"workspaceId", "type", "isPublic", "isArchived"},
			searchable: []string{"name", "topic", "purpose"},
		},
		{
			uid:        idxWorkspaces,
			primaryKey: "id",
			filterable: []string{"domain"},
			searchable: []string{"name", "domain"},
		},
	}

	for _, idx := range indexes {
		if _, err := m.client.CreateIndex(&meili.IndexConfig{
			Uid:        idx.uid,
			PrimaryKey: idx.primaryKey,
		}); err != nil {
			log.Printf("search: create index %s (may already exist): %v", idx.uid, err)
		}

		index := m.client.Index(idx.uid)
		filterableInterface := make([]interface{}, len(idx.filterable))
		for i, v := range idx.filterable {
			filterableInterface[i] = v
		}
		if _, err := index.UpdateFilterableAttributes(&filterableInterface); err != nil {
			log.Printf("search: update filterable attrs for %s: %v", idx.uid, err)
		}
		if _, err := index.UpdateSearchableAttributes(&idx.searchable); err != nil {
			log.Printf("search: update searchable attrs for %s: %v", idx.uid, err)
		}
	}
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				log.Println("search: meilisearch recovered, reconfiguring indexes")
				m.configureIndexes()
			}
		}
	}
}

// Close stops the background health monitor.
func (m *Meili) Close() {
	close(m.done)
}

// Healthy reports whether Meilisearch is reachable.
func (m *Meili) Healthy() bool {
	return m.healthy.Load()
}

// Search queries both indexes (or a filtered subset) and merges results.
func (m *Meili) Search(q Query) ([]Result, int, error) {
	if !m.healthy.Load() {
		return nil, 0, fmt.Errorf("meilisearch unhealthy")
	}

	limit := int64(q.Limit)
	if limit == 0 {
		limit = 20
	}

	var queries []*meili.SearchRequest
	targetIndexes := []struct {
		uid  string
		rtyp ResultType
	}{
		{idxConversations, ResultConversation},
		{idxWorkspaces, ResultWorkspace},
	}

	for _, ti := range targetIndexes {
		if q.FilterType != "" && q.FilterType != ti.rtyp {
			continue
		}
		sr := &meili.SearchRequest{
			IndexUID:              ti.uid,
			Limit:                 limit,
			Offset:                int64(q.Offset),
			AttributesToHighlight: []string{"*"},
			HighlightPreTag:       "<mark>",
			HighlightPostTag:      "</mark>",
			ShowRankingScore:      true,
		}

		var filters []string
		if ti.rtyp == ResultConversation {
			filters = append(filters, "isArchived = false")
			if q.FilterWorkspaceID != "" {
				filters = append(filters, fmt.Sprintf("workspaceId = %q", q.FilterWorkspaceID))
			}
			if q.FilterConversationType != "" {
				filters = append(filters, fmt.Sprintf("type = %q", q.FilterConversationType))
			}
		}
		if len(filters) > 0 {
			sr.Filter = filters
		}
		queries = append(queries, sr)
	}

	if len(queries) == 0 {
		return nil, 0, nil
	}

	resp, err := m.client.MultiSearch(&meili.MultiSearchRequest{
		Queries: queries,
	})
	if err != nil {
		m.healthy.Store(false)
		return nil, 0, fmt.Errorf("meilisearch multi-search: %w", err)
	}

	var results []Result
	total := 0
	for _, sr := range resp.Results {
		total += int(sr.EstimatedTotalHits)
		rtyp := indexToResultType(sr.IndexUID)
		for _, hit := range sr.Hits {
			results = append(results, hitToResult(hit, rtyp))
		}
	}

	return results, total, nil
}

func indexToResultType(uid string) ResultType {
	switch uid {
	case idxConversations:
		return ResultConversation
	case idxWorkspaces:
		return ResultWorkspace
	default:
		return ""
	}
}

func hitToResult(hit meili.Hit, rtyp ResultType) Result {
	r := Result{Type: rtyp}
	r.ID = decodeString(hit, "id")
	r.WorkspaceID = decodeString(hit, "workspaceId")

	switch rtyp {
	case ResultConversation:
		r.Name = firstNonBlank(decodeFormattedString(hit, "name"), decodeString(hit, "name"))
		r.Snippet = firstNonBlank(
			decodeFormattedString(hit, "topic"), decodeString(hit, "topic"),
			decodeFormattedString(hit, "purpose"), decodeString(hit, "purpose"),
		)
		r.ConversationType = decodeString(hit, "type")
		r.IsPublic = decodeBool(hit, "isPublic")
	case ResultWorkspace:
		r.Name = firstNonBlank(decodeFormattedString(hit, "name"), decodeString(hit, "name"))
		r.Snippet = firstNonBlank(decodeFormattedString(hit, "domain"), decodeString(hit, "domain"))
		r.WorkspaceID = r.ID // workspace's own ID
	}
	return r
}

func decodeString(hit meili.Hit, key string) string {
	raw, ok := hit[key]
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

func decodeBool(hit meili.Hit, key string) bool {
	raw, ok := hit[key]
	if !ok {
		return false
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	return false
}

func decodeFormattedString(hit meili.Hit, key string) string {
	raw, ok := hit["_formatted"]
	if !ok {
		return ""
	}
	var formatted map[string]string
	if err := json.Unmarshal(raw, &formatted); err != nil {
		return ""
	}
	return strings.TrimSpace(formatted[key])
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

// IndexConversation adds or updates a conversation in the search index.
func (m *Meili) IndexConversation(c ConversationRecord) error {
	_, err := m.client.Index(idxConversations).AddDocuments([]ConversationRecord{c}, nil)
	return err
}

// IndexWorkspace adds or updates a workspace in the search index.
func (m *Meili) IndexWorkspace(w WorkspaceRecord) error {
	_, err := m.client.Index(idxWorkspaces).AddDocuments([]WorkspaceRecord{w}, nil)
	return err
}

// DeleteConversation removes a conversation from the search index.
func (m *Meili) DeleteConversation(id string) error {
	_, err := m.client.Index(idxConversations).DeleteDocument(id, nil)
	return err
}

// DeleteWorkspace removes a workspace from the search index.
func (m *Meili) DeleteWorkspace(id string) error {
	_, err := m.client.Index(idxWorkspaces).DeleteDocument(id, nil)
	return err
}

// IndexConversations bulk-indexes conversations.
func (m *Meili) IndexConversations(conversations []ConversationRecord) error {
	if len(conversations) == 0 {
		return nil
	}
	_, err := m.client.Index(idxConversations).AddDocuments(conversations, nil)
	return err
}

// IndexWorkspaces bulk-indexes workspaces.
func (m *Meili) IndexWorkspaces(workspaces []WorkspaceRecord) error {
	if len(workspaces) == 0 {
		return nil
	}
	_, err := m.client.Index(idxWorkspaces).AddDocuments(workspaces, nil)
	return err
}
