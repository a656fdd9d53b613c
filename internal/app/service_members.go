package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"relay/api/internal/audit"
	"relay/api/internal/conversation"
	"relay/api/internal/memberid"
	"relay/api/internal/rbac"
	"relay/api/internal/search"
	"relay/api/internal/store"
	"relay/api/internal/util"
)

// MemberView is the client-facing shape of a membership. ID is the
// packed identifier combining user, parent and role.
type MemberView struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	ParentID           string    `json:"parentId"`
	ParentType         string    `json:"parentType"`
	Role               string    `json:"role"`
	DisplayName        string    `json:"displayName"`
	Email              string    `json:"email,omitempty"`
	JoinedAt           time.Time `json:"joinedAt"`
	AutoJoinedChannels []string  `json:"autoJoinedChannels,omitempty"`
}

func (s *Service) toMemberView(ctx context.Context, m store.Member) MemberView {
	view := MemberView{
		UserID:     m.UserID,
		ParentID:   m.ParentID,
		ParentType: string(m.ParentType),
		Role:       string(m.Role),
		JoinedAt:   m.JoinedAt,
	}
	if userUUID, ok := util.ParseID(m.UserID); ok {
		if parentUUID, ok := util.ParseID(m.ParentID); ok {
			view.ID = memberid.Encode(userUUID, parentUUID, m.Role).String()
		}
	}
	if user, err := s.db.GetUserByID(ctx, m.UserID); err == nil {
		view.DisplayName = user.DisplayName
		view.Email = user.Email
	}
	return view
}

// requireMember loads the caller's active membership on a parent.
// Missing membership reads as forbidden, not as not-found, so the
// caller learns nothing about the parent.
func (s *Service) requireMember(ctx context.Context, userID, parentID string) (store.Member, error) {
	member, err := s.db.GetMember(ctx, userID, parentID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Member{}, forbidden("You are not a member of this space")
	}
	if err != nil {
		return store.Member{}, fmt.Errorf("load membership: %w", err)
	}
	return member, nil
}

func (s *Service) requireManager(ctx context.Context, userID, parentID string) (store.Member, error) {
	member, err := s.requireMember(ctx, userID, parentID)
	if err != nil {
		return store.Member{}, err
	}
	if !rbac.CanManageMembers(rbac.NormalizeOrMember(string(member.Role))) {
		return store.Member{}, forbidden("Only owners and admins can manage members")
	}
	return member, nil
}

// CreateWorkspace creates a workspace and its owner membership as one
// unit: either both rows land or neither does.
func (s *Service) CreateWorkspace(ctx context.Context, actorID, name, domain string) (store.Workspace, error) {
	name = strings.TrimSpace(name)
	domain = strings.ToLower(strings.TrimSpace(domain))
	if name == "" {
		return store.Workspace{}, validationError("Workspace name is required")
	}
	if domain == "" {
		return store.Workspace{}, validationError("Workspace domain is required")
	}

	now := time.Now().UTC()
	ws := store.Workspace{
		ID:        util.NewID(),
		Name:      name,
		Domain:    domain,
		CreatedBy: actorID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	owner := store.Member{
		UserID:     actorID,
		ParentID:   ws.ID,
		ParentType: rbac.ParentWorkspace,
		Role:       rbac.RoleOwner,
		JoinedAt:   now,
		IsActive:   true,
	}
	if err := s.db.CreateWorkspace(ctx, ws, owner); err != nil {
		if errors.Is(err, store.ErrDuplicateDomain) {
			return store.Workspace{}, conflict("A workspace with this domain already exists")
		}
		return store.Workspace{}, err
	}

	if s.audit != nil {
		actorName := s.displayName(ctx, actorID)
		roster := []audit.RosterEntry{{
			UserID:     actorID,
			ParentID:   ws.ID,
			ParentType: string(rbac.ParentWorkspace),
			Role:       string(rbac.RoleOwner),
		}}
		if err := s.audit.EnsureWorkspaceLog(ws.ID, roster, actorName); err != nil {
			log.Printf("audit: init workspace log %s: %v", ws.ID, err)
		}
	}
	if s.search != nil {
		s.search.IndexWorkspace(search.WorkspaceRecord{ID: ws.ID, Name: ws.Name, Domain: ws.Domain})
	}
	return ws, nil
}

// DeactivateWorkspace soft-deletes a workspace. Owner only.
func (s *Service) DeactivateWorkspace(ctx context.Context, actorID, workspaceID string) error {
	member, err := s.requireMember(ctx, actorID, workspaceID)
	if err != nil {
		return err
	}
	if member.Role != rbac.RoleOwner {
		return forbidden("Only the workspace owner can deactivate it")
	}
	if err := s.db.DeactivateWorkspace(ctx, workspaceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("Workspace not found")
		}
		return err
	}
	if s.search != nil {
		s.search.DeleteWorkspace(workspaceID)
	}
	return nil
}

// DeleteWorkspace permanently removes a workspace and its conversations.
// Owner only. Workspace-level member rows survive the delete so the audit
// trail keeps its subjects.
func (s *Service) DeleteWorkspace(ctx context.Context, actorID, workspaceID string) error {
	member, err := s.requireMember(ctx, actorID, workspaceID)
	if err != nil {
		return err
	}
	if member.Role != rbac.RoleOwner {
		return forbidden("Only the workspace owner can delete it")
	}
	if err := s.db.DeleteWorkspace(ctx, workspaceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("Workspace not found")
		}
		return err
	}
	if s.search != nil {
		s.search.DeleteWorkspace(workspaceID)
	}
	return nil
}

// CreateConversationInput carries the union of per-variant fields.
type CreateConversationInput struct {
	Name              string     `json:"name"`
	Type              string     `json:"type"`
	Description       string     `json:"description"`
	Topic             string     `json:"topic"`
	Purpose           string     `json:"purpose"`
	IsPublic          bool       `json:"isPublic"`
	AutoAddNewMembers bool       `json:"autoAddNewMembers"`
	ExpiresAt         *time.Time `json:"expiresAt"`
	Status            string     `json:"status"`
	DueDate           *time.Time `json:"dueDate"`
	ParticipantIDs    []string   `json:"participantIds"`
}

// CreateConversation creates a conversation inside a workspace. The
// creator and all listed participants are enrolled in the same
// transaction as the conversation row.
func (s *Service) CreateConversation(ctx context.Context, actorID, workspaceID string, input CreateConversationInput) (ConversationView, error) {
	if _, err := s.requireMember(ctx, actorID, workspaceID); err != nil {
		return ConversationView{}, err
	}

	convType, err := conversation.ParseLabel(input.Type)
	if err != nil {
		return ConversationView{}, unknownConversationType(input.Type)
	}

	// Dedupe participants and fold the creator in.
	participants := []string{actorID}
	seen := map[string]bool{actorID: true}
	for _, id := range input.ParticipantIDs {
		if !seen[id] {
			seen[id] = true
			participants = append(participants, id)
		}
	}

	if convType == conversation.TypeDirectMessage && len(participants) != 2 {
		return ConversationView{}, invariantViolation("A direct message has exactly two participants")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" && convType != conversation.TypeDirectMessage {
		return ConversationView{}, validationError("Conversation name is required")
	}

	for _, id := range participants[1:] {
		if _, err := s.requireParticipant(ctx, id, workspaceID); err != nil {
			return ConversationView{}, err
		}
	}

	now := time.Now().UTC()
	conv := store.Conversation{
		ID:          util.NewID(),
		WorkspaceID: workspaceID,
		Name:        name,
		Description: input.Description,
		CreatedBy:   actorID,
		CreatedAt:   now,
		Type:        convType,
	}
	switch convType {
	case conversation.TypeChannel:
		conv.IsPublic = input.IsPublic
		conv.Topic = input.Topic
		conv.Purpose = input.Purpose
		conv.AutoAddNewMembers = input.AutoAddNewMembers
	case conversation.TypeGroup:
		conv.ExpiresAt = input.ExpiresAt
	case conversation.TypeTaskGroup:
		conv.Status = input.Status
		conv.DueDate = input.DueDate
	}

	members := make([]store.Member, 0, len(participants))
	for i, userID := range participants {
		role := rbac.RoleMember
		if i == 0 && convType != conversation.TypeDirectMessage {
			role = rbac.RoleOwner
		}
		members = append(members, store.Member{
			UserID:     userID,
			ParentID:   conv.ID,
			ParentType: rbac.ParentConversation,
			Role:       role,
			JoinedAt:   now,
			IsActive:   true,
		})
	}

	if err := s.db.CreateConversation(ctx, conv, members); err != nil {
		return ConversationView{}, err
	}

	if s.search != nil {
		s.search.IndexConversation(conversationRecord(conv))
	}
	s.recordMembershipEvent(ctx, workspaceID, audit.Event{
		Action:     "conversation_created",
		ActorID:    actorID,
		ActorName:  s.displayName(ctx, actorID),
		SubjectID:  conv.ID,
		ParentID:   workspaceID,
		ParentType: string(rbac.ParentWorkspace),
	})
	return toConversationView(conv), nil
}

// requireParticipant checks that an invited user belongs to the
// workspace a conversation is being created in.
func (s *Service) requireParticipant(ctx context.Context, userID, workspaceID string) (store.Member, error) {
	member, err := s.db.GetMember(ctx, userID, workspaceID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Member{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR",
			fmt.Sprintf("User %s is not a member of this workspace", userID), nil)
	}
	if err != nil {
		return store.Member{}, err
	}
	return member, nil
}

// ArchiveConversation hides a conversation from listings and search.
func (s *Service) ArchiveConversation(ctx context.Context, actorID, conversationID string) error {
	conv, err := s.db.GetConversation(ctx, conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("Conversation not found")
	}
	if err != nil {
		return err
	}
	if _, err := s.requireManager(ctx, actorID, conversationID); err != nil {
		return err
	}
	if err := s.db.ArchiveConversation(ctx, conversationID); err != nil {
		return err
	}
	if s.search != nil {
		s.search.DeleteConversation(conversationID)
	}
	s.recordMembershipEvent(ctx, conv.WorkspaceID, audit.Event{
		Action:     "conversation_archived",
		ActorID:    actorID,
		ActorName:  s.displayName(ctx, actorID),
		SubjectID:  conversationID,
		ParentID:   conv.WorkspaceID,
		ParentType: string(rbac.ParentWorkspace),
	})
	return nil
}

// DeleteConversation permanently removes a conversation; its member rows
// cascade with it. Conversation owner only, so direct messages (which have
// no owner) cannot be deleted.
func (s *Service) DeleteConversation(ctx context.Context, actorID, conversationID string) error {
	conv, err := s.db.GetConversation(ctx, conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("Conversation not found")
	}
	if err != nil {
		return err
	}
	member, err := s.requireMember(ctx, actorID, conversationID)
	if err != nil {
		return err
	}
	if member.Role != rbac.RoleOwner {
		return forbidden("Only the conversation owner can delete it")
	}
	if err := s.db.DeleteConversation(ctx, conversationID); err != nil {
		return err
	}
	if s.search != nil {
		s.search.DeleteConversation(conversationID)
	}
	s.recordMembershipEvent(ctx, conv.WorkspaceID, audit.Event{
		Action:     "conversation_deleted",
		ActorID:    actorID,
		ActorName:  s.displayName(ctx, actorID),
		SubjectID:  conversationID,
		ParentID:   conv.WorkspaceID,
		ParentType: string(rbac.ParentWorkspace),
	})
	return nil
}

// AddMember adds a user to a workspace or conversation. Only owners
// and admins of the parent may add. An unknown or missing role value
// falls back to member; nobody is added as owner because ownership is
// assigned at creation and never granted later.
func (s *Service) AddMember(ctx context.Context, actorID, parentID string, parentType rbac.ParentType, subjectID, roleValue string) (MemberView, error) {
	actor, err := s.requireManager(ctx, actorID, parentID)
	if err != nil {
		return MemberView{}, err
	}

	if parentType == rbac.ParentConversation {
		conv, err := s.db.GetConversation(ctx, parentID)
		if err == nil && conv.Type == conversation.TypeDirectMessage {
			return MemberView{}, forbidden("Direct messages are closed after creation")
		}
	}

	role := rbac.NormalizeOrMember(roleValue)
	if role == rbac.RoleOwner {
		return MemberView{}, forbidden("Ownership is assigned at creation and cannot be granted")
	}

	subject, err := s.db.GetUserByID(ctx, subjectID)
	if errors.Is(err, sql.ErrNoRows) {
		return MemberView{}, notFound("User not found")
	}
	if err != nil {
		return MemberView{}, err
	}

	now := time.Now().UTC()
	member := store.Member{
		UserID:     subjectID,
		ParentID:   parentID,
		ParentType: parentType,
		Role:       role,
		JoinedAt:   now,
		IsActive:   true,
	}

	var autoJoined []string
	if parentType == rbac.ParentWorkspace {
		autoJoined, err = s.db.InsertWorkspaceMember(ctx, member)
	} else {
		err = s.db.InsertMember(ctx, member)
	}
	if errors.Is(err, store.ErrDuplicateMember) {
		return MemberView{}, conflict("User is already a member of this space")
	}
	if err != nil {
		return MemberView{}, err
	}

	workspaceID, spaceName, spaceKind := s.describeParent(ctx, parentID, parentType)
	s.recordMembershipEvent(ctx, workspaceID, audit.Event{
		Action:     "member_added",
		ActorID:    actorID,
		ActorName:  s.displayName(ctx, actorID),
		SubjectID:  subjectID,
		ParentID:   parentID,
		ParentType: string(parentType),
		Role:       string(role),
	})
	s.notifyMemberAdded(subject, spaceName, spaceKind, s.displayName(ctx, actor.UserID))

	view := s.toMemberView(ctx, member)
	view.AutoJoinedChannels = autoJoined
	return view, nil
}

// RemoveMember removes a user from a parent. Members may remove
// themselves; removing anyone else takes a manager role. The owner
// membership is permanent for the life of the parent.
func (s *Service) RemoveMember(ctx context.Context, actorID, parentID, subjectID string) error {
	if actorID != subjectID {
		if _, err := s.requireManager(ctx, actorID, parentID); err != nil {
			return err
		}
	} else {
		if _, err := s.requireMember(ctx, actorID, parentID); err != nil {
			return err
		}
	}

	subject, err := s.db.GetMember(ctx, subjectID, parentID)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("Membership not found")
	}
	if err != nil {
		return err
	}
	if subject.Role == rbac.RoleOwner {
		return forbidden("The owner cannot be removed")
	}
	if subject.ParentType == rbac.ParentConversation {
		conv, err := s.db.GetConversation(ctx, parentID)
		if err == nil && conv.Type == conversation.TypeDirectMessage {
			return invariantViolation("A direct message keeps both participants")
		}
	}

	if err := s.db.DeleteMember(ctx, subjectID, parentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("Membership not found")
		}
		return err
	}

	workspaceID, _, _ := s.describeParent(ctx, parentID, subject.ParentType)
	action := "member_removed"
	if actorID == subjectID {
		action = "member_left"
	}
	s.recordMembershipEvent(ctx, workspaceID, audit.Event{
		Action:     action,
		ActorID:    actorID,
		ActorName:  s.displayName(ctx, actorID),
		SubjectID:  subjectID,
		ParentID:   parentID,
		ParentType: string(subject.ParentType),
	})
	return nil
}

// ChangeRole moves a member between admin and member. Only the owner
// changes roles; nobody changes their own role, nobody touches the
// owner's, and ownership transfer is not supported.
func (s *Service) ChangeRole(ctx context.Context, actorID, parentID, subjectID, roleValue string) (MemberView, error) {
	actor, err := s.requireMember(ctx, actorID, parentID)
	if err != nil {
		return MemberView{}, err
	}
	if actor.Role != rbac.RoleOwner {
		return MemberView{}, forbidden("Only the owner can change roles")
	}
	if actorID == subjectID {
		return MemberView{}, forbidden("You cannot change your own role")
	}

	role, err := rbac.ParseRole(roleValue)
	if err != nil {
		return MemberView{}, invalidRole(roleValue)
	}
	if role == rbac.RoleOwner {
		return MemberView{}, forbidden("Ownership transfer is not supported")
	}

	subject, err := s.db.GetMember(ctx, subjectID, parentID)
	if errors.Is(err, sql.ErrNoRows) {
		return MemberView{}, notFound("Membership not found")
	}
	if err != nil {
		return MemberView{}, err
	}
	if subject.Role == rbac.RoleOwner {
		return MemberView{}, forbidden("The owner's role cannot be changed")
	}

	if err := s.db.UpdateMemberRole(ctx, subjectID, parentID, role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MemberView{}, notFound("Membership not found")
		}
		return MemberView{}, err
	}
	subject.Role = role

	workspaceID, _, _ := s.describeParent(ctx, parentID, subject.ParentType)
	s.recordMembershipEvent(ctx, workspaceID, audit.Event{
		Action:     "role_changed",
		ActorID:    actorID,
		ActorName:  s.displayName(ctx, actorID),
		SubjectID:  subjectID,
		ParentID:   parentID,
		ParentType: string(subject.ParentType),
		Role:       string(role),
	})
	return s.toMemberView(ctx, subject), nil
}

// JoinConversation enrolls the caller into a conversation when its
// variant rule allows it.
func (s *Service) JoinConversation(ctx context.Context, userID, conversationID string) (MemberView, error) {
	conv, err := s.db.GetConversation(ctx, conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return MemberView{}, notFound("Conversation not found")
	}
	if err != nil {
		return MemberView{}, err
	}
	if _, err := s.requireMember(ctx, userID, conv.WorkspaceID); err != nil {
		return MemberView{}, err
	}

	ok, err := s.CanJoinConversation(ctx, userID, conversationID)
	if err != nil {
		return MemberView{}, err
	}
	if !ok {
		return MemberView{}, forbidden("This conversation cannot be joined")
	}

	member := store.Member{
		UserID:     userID,
		ParentID:   conversationID,
		ParentType: rbac.ParentConversation,
		Role:       rbac.RoleMember,
		JoinedAt:   time.Now().UTC(),
		IsActive:   true,
	}
	if err := s.db.InsertMember(ctx, member); err != nil {
		if errors.Is(err, store.ErrDuplicateMember) {
			return MemberView{}, conflict("You are already a member of this conversation")
		}
		return MemberView{}, err
	}

	s.recordMembershipEvent(ctx, conv.WorkspaceID, audit.Event{
		Action:     "member_joined",
		ActorID:    userID,
		ActorName:  s.displayName(ctx, userID),
		SubjectID:  userID,
		ParentID:   conversationID,
		ParentType: string(rbac.ParentConversation),
		Role:       string(rbac.RoleMember),
	})
	return s.toMemberView(ctx, member), nil
}

// ListMembers returns the roster of a parent for one of its members.
func (s *Service) ListMembers(ctx context.Context, actorID, parentID string) ([]MemberView, error) {
	if _, err := s.requireMember(ctx, actorID, parentID); err != nil {
		return nil, err
	}
	members, err := s.db.ListMembersByParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	views := make([]MemberView, 0, len(members))
	for _, m := range members {
		views = append(views, s.toMemberView(ctx, m))
	}
	return views, nil
}

// ListMemberships returns all of a user's own memberships of one
// parent type.
func (s *Service) ListMemberships(ctx context.Context, userID string, parentType rbac.ParentType) ([]MemberView, error) {
	members, err := s.db.ListMembershipsByUser(ctx, userID, parentType)
	if err != nil {
		return nil, err
	}
	views := make([]MemberView, 0, len(members))
	for _, m := range members {
		views = append(views, s.toMemberView(ctx, m))
	}
	return views, nil
}

// AuditHistory returns the membership change log of a workspace.
func (s *Service) AuditHistory(ctx context.Context, actorID, workspaceID string, limit int) ([]audit.Entry, error) {
	if _, err := s.requireManager(ctx, actorID, workspaceID); err != nil {
		return nil, err
	}
	if s.audit == nil {
		return []audit.Entry{}, nil
	}
	entries, err := s.audit.History(workspaceID, limit)
	if err != nil {
		return nil, fmt.Errorf("audit history: %w", err)
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	return entries, nil
}

// Search runs a full-text search over workspaces and conversations,
// then narrows the hits to what the caller may see. Filtering only
// ever removes results.
func (s *Service) Search(ctx context.Context, userID string, q search.Query) search.Response {
	if s.search == nil {
		return search.Response{Results: []search.Result{}, Query: q.Text}
	}
	resp := s.search.Search(q)
	visible := make([]search.Result, 0, len(resp.Results))
	for _, r := range resp.Results {
		switch r.Type {
		case search.ResultWorkspace:
			if _, err := s.db.GetMember(ctx, userID, r.ID); err == nil {
				visible = append(visible, r)
			}
		case search.ResultConversation:
			conv, err := s.db.GetConversation(ctx, r.ID)
			if err != nil {
				continue
			}
			if ok, err := s.canSeeConversation(ctx, userID, conv); err == nil && ok {
				visible = append(visible, r)
			}
		}
	}
	resp.Results = visible
	resp.Total = len(visible)
	return resp
}

func (s *Service) displayName(ctx context.Context, userID string) string {
	if user, err := s.db.GetUserByID(ctx, userID); err == nil {
		return user.DisplayName
	}
	return userID
}

// describeParent resolves the workspace an event belongs to and a
// human-readable name/kind for notification emails.
func (s *Service) describeParent(ctx context.Context, parentID string, parentType rbac.ParentType) (workspaceID, name, kind string) {
	if parentType == rbac.ParentWorkspace {
		if ws, err := s.db.GetWorkspace(ctx, parentID); err == nil {
			return parentID, ws.Name, "workspace"
		}
		return parentID, parentID, "workspace"
	}
	conv, err := s.db.GetConversation(ctx, parentID)
	if err != nil {
		return "", parentID, "conversation"
	}
	name = conv.Name
	if variant, err := conversation.ForType(conv.Type); err == nil {
		name = variant.DisplayName(conversation.Info{Name: conv.Name, IsPublic: conv.IsPublic})
	}
	return conv.WorkspaceID, name, conv.Type.Label()
}

// recordMembershipEvent appends an event with a fresh snapshot of the
// workspace roster. Audit failures are logged, never surfaced: the
// membership change itself already committed.
func (s *Service) recordMembershipEvent(ctx context.Context, workspaceID string, event audit.Event) {
	if s.audit == nil || workspaceID == "" {
		return
	}
	members, err := s.db.ListMembersByParent(ctx, workspaceID)
	if err != nil {
		log.Printf("audit: snapshot roster %s: %v", workspaceID, err)
		return
	}
	roster := make([]audit.RosterEntry, 0, len(members))
	for _, m := range members {
		roster = append(roster, audit.RosterEntry{
			UserID:     m.UserID,
			ParentID:   m.ParentID,
			ParentType: string(m.ParentType),
			Role:       string(m.Role),
		})
	}
	if _, err := s.audit.RecordEvent(workspaceID, roster, event); err != nil {
		log.Printf("audit: record %s on %s: %v", event.Action, workspaceID, err)
	}
}

func (s *Service) notifyMemberAdded(subject store.User, spaceName, spaceKind, addedByName string) {
	if !s.SMTPConfigured() || subject.Email == "" {
		return
	}
	go func() {
		err := s.mail.SendMemberAddedEmail(subject.Email, subject.DisplayName, spaceName, spaceKind, addedByName, s.cfg.CORSOrigin)
		if err != nil {
			log.Printf("email: member added notification to %s: %v", subject.Email, err)
		}
	}()
}

func conversationRecord(c store.Conversation) search.ConversationRecord {
	return search.ConversationRecord{
		ID:          c.ID,
		Name:        c.Name,
		Topic:       c.Topic,
		Purpose:     c.Purpose,
		WorkspaceID: c.WorkspaceID,
		Type:        c.Type.Label(),
		IsPublic:    c.IsPublic,
		IsArchived:  c.IsArchived,
	}
}
