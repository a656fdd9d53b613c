package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"relay/api/internal/conversation"
	"relay/api/internal/rbac"
	"relay/api/internal/store"
)

// ConversationView is the client-facing shape of a conversation.
type ConversationView struct {
	ID          string     `json:"id"`
	WorkspaceID string     `json:"workspaceId"`
	Name        string     `json:"name"`
	DisplayName string     `json:"displayName"`
	Type        string     `json:"type"`
	IsPublic    bool       `json:"isPublic"`
	IsArchived  bool       `json:"isArchived"`
	Topic       string     `json:"topic,omitempty"`
	Purpose     string     `json:"purpose,omitempty"`
	Status      string     `json:"status,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func toConversationView(c store.Conversation) ConversationView {
	view := ConversationView{
		ID:          c.ID,
		WorkspaceID: c.WorkspaceID,
		Name:        c.Name,
		DisplayName: c.Name,
		Type:        c.Type.Label(),
		IsPublic:    c.IsPublic,
		IsArchived:  c.IsArchived,
		Topic:       c.Topic,
		Purpose:     c.Purpose,
		Status:      c.Status,
		DueDate:     c.DueDate,
		ExpiresAt:   c.ExpiresAt,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
	}
	if variant, err := conversation.ForType(c.Type); err == nil {
		view.DisplayName = variant.DisplayName(conversation.Info{Name: c.Name, IsPublic: c.IsPublic})
	}
	return view
}

// VisibleConversations returns the conversations a user can see inside
// a workspace. Admins and owners see everything; members see the
// conversations they belong to plus public channels; non-members see
// nothing. typeFilter is a conversation type label, empty for all.
func (s *Service) VisibleConversations(ctx context.Context, userID, workspaceID, typeFilter string) ([]ConversationView, error) {
	var filterType conversation.Type
	if typeFilter != "" {
		parsed, err := conversation.ParseLabel(typeFilter)
		if err != nil {
			return nil, unknownConversationType(typeFilter)
		}
		filterType = parsed
	}

	member, err := s.db.GetMember(ctx, userID, workspaceID)
	if errors.Is(err, sql.ErrNoRows) {
		return []ConversationView{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load workspace membership: %w", err)
	}

	var conversations []store.Conversation
	if rbac.SeesEverything(rbac.NormalizeOrMember(string(member.Role))) {
		conversations, err = s.db.ListConversationsByWorkspace(ctx, workspaceID)
		if err != nil {
			return nil, err
		}
	} else {
		joined, err := s.db.ListMemberConversations(ctx, workspaceID, userID)
		if err != nil {
			return nil, err
		}
		public, err := s.db.ListPublicChannels(ctx, workspaceID)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]bool, len(joined))
		for _, c := range joined {
			seen[c.ID] = true
			conversations = append(conversations, c)
		}
		for _, c := range public {
			if !seen[c.ID] {
				conversations = append(conversations, c)
			}
		}
		sort.Slice(conversations, func(i, j int) bool {
			return conversations[i].Name < conversations[j].Name
		})
	}

	views := make([]ConversationView, 0, len(conversations))
	for _, c := range conversations {
		if filterType != 0 && c.Type != filterType {
			continue
		}
		views = append(views, toConversationView(c))
	}
	return views, nil
}

// GetConversationView returns one conversation if the user can see it:
// any visible conversation per the workspace rules.
func (s *Service) GetConversationView(ctx context.Context, userID, conversationID string) (ConversationView, error) {
	conv, err := s.db.GetConversation(ctx, conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return ConversationView{}, notFound("Conversation not found")
	}
	if err != nil {
		return ConversationView{}, err
	}

	ok, err := s.canSeeConversation(ctx, userID, conv)
	if err != nil {
		return ConversationView{}, err
	}
	if !ok {
		// Hidden conversations are indistinguishable from missing ones.
		return ConversationView{}, notFound("Conversation not found")
	}
	return toConversationView(conv), nil
}

func (s *Service) canSeeConversation(ctx context.Context, userID string, conv store.Conversation) (bool, error) {
	wsMember, err := s.db.GetMember(ctx, userID, conv.WorkspaceID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if rbac.SeesEverything(rbac.NormalizeOrMember(string(wsMember.Role))) {
		return true, nil
	}
	if conv.Type == conversation.TypeChannel && conv.IsPublic {
		return true, nil
	}
	_, err = s.db.GetMember(ctx, userID, conv.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CanJoinConversation decides whether a user may join a conversation.
// Workspace owners and admins always may; members who already joined
// always may; otherwise the variant rule decides. A missing
// conversation or missing workspace membership is false, not an error.
func (s *Service) CanJoinConversation(ctx context.Context, userID, conversationID string) (bool, error) {
	conv, err := s.db.GetConversation(ctx, conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	wsMember, err := s.db.GetMember(ctx, userID, conv.WorkspaceID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if rbac.SeesEverything(rbac.NormalizeOrMember(string(wsMember.Role))) {
		return true, nil
	}

	isMember := true
	if _, err := s.db.GetMember(ctx, userID, conv.ID); errors.Is(err, sql.ErrNoRows) {
		isMember = false
	} else if err != nil {
		return false, err
	}
	if isMember {
		return true, nil
	}

	variant, err := conversation.ForType(conv.Type)
	if err != nil {
		return false, unknownConversationType(int(conv.Type))
	}
	count, err := s.db.CountActiveMembers(ctx, conv.ID)
	if err != nil {
		return false, err
	}

	info := conversation.Info{Name: conv.Name, IsPublic: conv.IsPublic}
	return variant.CanJoin(info, conversation.JoinContext{IsMember: isMember, MemberCount: count}), nil
}

// ListWorkspaces returns the active workspaces a user belongs to.
func (s *Service) ListWorkspaces(ctx context.Context, userID string) ([]store.Workspace, error) {
	workspaces, err := s.db.ListWorkspacesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if workspaces == nil {
		workspaces = []store.Workspace{}
	}
	return workspaces, nil
}

// GetWorkspace returns one workspace for a member of it.
func (s *Service) GetWorkspaceView(ctx context.Context, userID, workspaceID string) (store.Workspace, error) {
	if _, err := s.requireMember(ctx, userID, workspaceID); err != nil {
		return store.Workspace{}, err
	}
	ws, err := s.db.GetWorkspace(ctx, workspaceID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Workspace{}, notFound("Workspace not found")
	}
	return ws, err
}
