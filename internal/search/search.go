package search

// ResultType identifies the kind of entity in a search result.
type ResultType string

const (
	ResultConversation ResultType = "conversation"
	ResultWorkspace    ResultType = "workspace"
)

// Result is a single search hit returned to the caller.
type Result struct {
	Type             ResultType `json:"type"`
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Snippet          string     `json:"snippet"`
	WorkspaceID      string     `json:"workspaceId"`
	ConversationType string     `json:"conversationType,omitempty"`
	IsPublic         bool       `json:"isPublic,omitempty"`
}

// Query describes a search request.
type Query struct {
	Text                   string
	FilterType             ResultType // empty = all types
	FilterWorkspaceID      string
	FilterConversationType string // conversation type label, empty = all
	Limit                  int
	Offset                 int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Searcher can execute a full-text search.
type Searcher interface {
	Search(q Query) ([]Result, int, error)
	Healthy() bool
}

// Indexer can push entities into a search index.
type Indexer interface {
	IndexConversation(c ConversationRecord) error
	IndexWorkspace(w WorkspaceRecord) error
	DeleteConversation(id string) error
	DeleteWorkspace(id string) error
}

// ConversationRecord is the data we index for a conversation.
type ConversationRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Topic       string `json:"topic"`
	Purpose     string `json:"purpose"`
	WorkspaceID string `json:"workspaceId"`
	Type        string `json:"type"`
	IsPublic    bool   `json:"isPublic"`
	IsArchived  bool   `json:"isArchived"`
}

// WorkspaceRecord is the data we index for a workspace.
type WorkspaceRecord struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
}
