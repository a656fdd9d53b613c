package store

import (
	"time"

	"relay/api/internal/conversation"
	"relay/api/internal/rbac"
)

type User struct {
	ID                    string
	DisplayName           string
	Email                 string
	PasswordHash          string
	IsEmailVerified       bool
	VerificationToken     string
	VerificationExpiresAt *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type Workspace struct {
	ID        string
	Name      string
	Domain    string
	CreatedBy string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Conversation is the persisted shape for every conversation kind
// (table-per-hierarchy: one row, a type discriminator, and the union of
// variant-specific optional columns).
type Conversation struct {
	ID          string
	WorkspaceID string
	Name        string
	Description string
	CreatedBy   string
	CreatedAt   time.Time
	Type        conversation.Type
	IsArchived  bool

	// Channel
	IsPublic          bool
	Topic             string
	Purpose           string
	AutoAddNewMembers bool

	// Group
	ExpiresAt *time.Time

	// TaskGroup
	Status    string
	TaskCount int
	DueDate   *time.Time
}

// Member links a user to a parent (workspace or conversation) with a role.
// Exactly one row per (user_id, parent_id); the pair is unique in storage.
type Member struct {
	UserID     string
	ParentID   string
	ParentType rbac.ParentType
	Role       rbac.Role
	JoinedAt   time.Time
	IsActive   bool
}
