package app

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"relay/api/internal/conversation"
	"relay/api/internal/rbac"
	"relay/api/internal/store"
)

func memberOf(parentID string, role rbac.Role) func(context.Context, string, string) (store.Member, error) {
	return func(_ context.Context, userID, gotParent string) (store.Member, error) {
		if gotParent == parentID {
			return store.Member{
				UserID:     userID,
				ParentID:   gotParent,
				ParentType: rbac.ParentWorkspace,
				Role:       role,
				IsActive:   true,
			}, nil
		}
		return store.Member{}, sql.ErrNoRows
	}
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("err = %v, want DomainError %s", err, code)
	}
	if domainErr.Code != code {
		t.Fatalf("code = %s, want %s", domainErr.Code, code)
	}
}

func TestAddMemberRequiresManager(t *testing.T) {
	fs := &fakeStore{getMemberFn: memberOf("ws-1", rbac.RoleMember)}
	svc := newTestService(fs)

	_, err := svc.AddMember(context.Background(), "actor", "ws-1", rbac.ParentWorkspace, "subject", "member")
	wantCode(t, err, "FORBIDDEN")
}

func TestAddMemberNonMemberActor(t *testing.T) {
	svc := newTestService(&fakeStore{})

	_, err := svc.AddMember(context.Background(), "stranger", "ws-1", rbac.ParentWorkspace, "subject", "member")
	wantCode(t, err, "FORBIDDEN")
}

func TestAddMemberUnknownRoleDefaultsToMember(t *testing.T) {
	var inserted store.Member
	fs := &fakeStore{
		getMemberFn: memberOf("ws-1", rbac.RoleAdmin),
		getUserByIDFn: func(_ context.Context, userID string) (store.User, error) {
			return store.User{ID: userID, DisplayName: "Sam"}, nil
		},
		insertWorkspaceMemberFn: func(_ context.Context, m store.Member) ([]string, error) {
			inserted = m
			return nil, nil
		},
	}
	svc := newTestService(fs)

	if _, err := svc.AddMember(context.Background(), "actor", "ws-1", rbac.ParentWorkspace, "subject", "superuser"); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if inserted.Role != rbac.RoleMember {
		t.Fatalf("role = %s, want member fallback", inserted.Role)
	}
}

func TestAddMemberCannotGrantOwnership(t *testing.T) {
	fs := &fakeStore{getMemberFn: memberOf("ws-1", rbac.RoleOwner)}
	svc := newTestService(fs)

	_, err := svc.AddMember(context.Background(), "actor", "ws-1", rbac.ParentWorkspace, "subject", "owner")
	wantCode(t, err, "FORBIDDEN")
}

func TestAddMemberDirectMessageClosed(t *testing.T) {
	fs := &fakeStore{
		getMemberFn: func(_ context.Context, userID, parentID string) (store.Member, error) {
			return store.Member{UserID: userID, ParentID: parentID, ParentType: rbac.ParentConversation, Role: rbac.RoleAdmin, IsActive: true}, nil
		},
		getConversationFn: func(context.Context, string) (store.Conversation, error) {
			return store.Conversation{ID: "dm-1", WorkspaceID: "ws-1", Type: conversation.TypeDirectMessage}, nil
		},
	}
	svc := newTestService(fs)

	_, err := svc.AddMember(context.Background(), "actor", "dm-1", rbac.ParentConversation, "subject", "member")
	wantCode(t, err, "FORBIDDEN")
}

func TestAddMemberDuplicateConflict(t *testing.T) {
	fs := &fakeStore{
		getMemberFn: memberOf("ws-1", rbac.RoleAdmin),
		getUserByIDFn: func(_ context.Context, userID string) (store.User, error) {
			return store.User{ID: userID, DisplayName: "Sam", Email: "sam@example.com"}, nil
		},
		insertWorkspaceMemberFn: func(context.Context, store.Member) ([]string, error) {
			return nil, store.ErrDuplicateMember
		},
	}
	svc := newTestService(fs)

	_, err := svc.AddMember(context.Background(), "actor", "ws-1", rbac.ParentWorkspace, "subject", "member")
	wantCode(t, err, "CONFLICT")
}

func TestAddMemberUnknownUser(t *testing.T) {
	fs := &fakeStore{getMemberFn: memberOf("ws-1", rbac.RoleAdmin)}
	svc := newTestService(fs)

	_, err := svc.AddMember(context.Background(), "actor", "ws-1", rbac.ParentWorkspace, "ghost", "member")
	wantCode(t, err, "NOT_FOUND")
}

func TestAddWorkspaceMemberAutoJoinsChannels(t *testing.T) {
	var inserted store.Member
	fs := &fakeStore{
		getMemberFn: memberOf("ws-1", rbac.RoleAdmin),
		getUserByIDFn: func(_ context.Context, userID string) (store.User, error) {
			return store.User{ID: userID, DisplayName: "Sam", Email: "sam@example.com"}, nil
		},
		insertWorkspaceMemberFn: func(_ context.Context, m store.Member) ([]string, error) {
			inserted = m
			return []string{"chan-general", "chan-announce"}, nil
		},
	}
	svc := newTestService(fs)

	view, err := svc.AddMember(context.Background(), "actor", "ws-1", rbac.ParentWorkspace, "subject", "")
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if inserted.Role != rbac.RoleMember {
		t.Fatalf("default role = %s, want member", inserted.Role)
	}
	if len(view.AutoJoinedChannels) != 2 {
		t.Fatalf("auto-joined %d channels, want 2", len(view.AutoJoinedChannels))
	}
	if view.DisplayName != "Sam" {
		t.Fatalf("DisplayName = %q, want Sam", view.DisplayName)
	}
}

func TestRemoveMemberOwnerImmutable(t *testing.T) {
	fs := &fakeStore{
		getMemberFn: func(_ context.Context, userID, parentID string) (store.Member, error) {
			role := rbac.RoleAdmin
			if userID == "the-owner" {
				role = rbac.RoleOwner
			}
			return store.Member{UserID: userID, ParentID: parentID, ParentType: rbac.ParentWorkspace, Role: role, IsActive: true}, nil
		},
	}
	svc := newTestService(fs)

	err := svc.RemoveMember(context.Background(), "actor", "ws-1", "the-owner")
	wantCode(t, err, "FORBIDDEN")
}

func TestRemoveMemberSelfLeave(t *testing.T) {
	var deleted bool
	fs := &fakeStore{
		getMemberFn: memberOf("ws-1", rbac.RoleMember),
		deleteMemberFn: func(context.Context, string, string) error {
			deleted = true
			return nil
		},
	}
	svc := newTestService(fs)

	if err := svc.RemoveMember(context.Background(), "user-1", "ws-1", "user-1"); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	if !deleted {
		t.Fatal("membership row was not deleted")
	}
}

func TestRemoveMemberOtherRequiresManager(t *testing.T) {
	fs := &fakeStore{getMemberFn: memberOf("ws-1", rbac.RoleMember)}
	svc := newTestService(fs)

	err := svc.RemoveMember(context.Background(), "actor", "ws-1", "someone-else")
	wantCode(t, err, "FORBIDDEN")
}

func TestRemoveMemberFromDirectMessage(t *testing.T) {
	fs := &fakeStore{
		getMemberFn: func(_ context.Context, userID, parentID string) (store.Member, error) {
			return store.Member{UserID: userID, ParentID: parentID, ParentType: rbac.ParentConversation, Role: rbac.RoleMember, IsActive: true}, nil
		},
		getConversationFn: func(context.Context, string) (store.Conversation, error) {
			return store.Conversation{ID: "dm-1", WorkspaceID: "ws-1", Type: conversation.TypeDirectMessage}, nil
		},
	}
	svc := newTestService(fs)

	err := svc.RemoveMember(context.Background(), "user-1", "dm-1", "user-1")
	wantCode(t, err, "INVARIANT_VIOLATION")
}

func TestChangeRoleSelf(t *testing.T) {
	fs := &fakeStore{getMemberFn: memberOf("ws-1", rbac.RoleOwner)}
	svc := newTestService(fs)

	_, err := svc.ChangeRole(context.Background(), "actor", "ws-1", "actor", "member")
	wantCode(t, err, "FORBIDDEN")
}

func TestChangeRoleRequiresOwner(t *testing.T) {
	fs := &fakeStore{getMemberFn: memberOf("ws-1", rbac.RoleAdmin)}
	svc := newTestService(fs)

	_, err := svc.ChangeRole(context.Background(), "actor", "ws-1", "subject", "admin")
	wantCode(t, err, "FORBIDDEN")
}

func TestChangeRoleInvalidRole(t *testing.T) {
	fs := &fakeStore{getMemberFn: memberOf("ws-1", rbac.RoleOwner)}
	svc := newTestService(fs)

	_, err := svc.ChangeRole(context.Background(), "actor", "ws-1", "subject", "superuser")
	wantCode(t, err, "INVALID_ROLE")
}

func TestChangeRoleOwnerImmutable(t *testing.T) {
	fs := &fakeStore{
		getMemberFn: func(_ context.Context, userID, parentID string) (store.Member, error) {
			role := rbac.RoleAdmin
			if userID == "the-owner" || userID == "actor" {
				role = rbac.RoleOwner
			}
			return store.Member{UserID: userID, ParentID: parentID, ParentType: rbac.ParentWorkspace, Role: role, IsActive: true}, nil
		},
	}
	svc := newTestService(fs)

	_, err := svc.ChangeRole(context.Background(), "actor", "ws-1", "the-owner", "member")
	wantCode(t, err, "FORBIDDEN")
}

func TestChangeRolePromotesToAdmin(t *testing.T) {
	var newRole rbac.Role
	fs := &fakeStore{
		getMemberFn: func(_ context.Context, userID, parentID string) (store.Member, error) {
			role := rbac.RoleMember
			if userID == "actor" {
				role = rbac.RoleOwner
			}
			return store.Member{UserID: userID, ParentID: parentID, ParentType: rbac.ParentWorkspace, Role: role, IsActive: true}, nil
		},
		updateMemberRoleFn: func(_ context.Context, _, _ string, role rbac.Role) error {
			newRole = role
			return nil
		},
	}
	svc := newTestService(fs)

	view, err := svc.ChangeRole(context.Background(), "actor", "ws-1", "subject", "admin")
	if err != nil {
		t.Fatalf("ChangeRole: %v", err)
	}
	if newRole != rbac.RoleAdmin {
		t.Fatalf("stored role = %s, want admin", newRole)
	}
	if view.Role != "admin" {
		t.Fatalf("view role = %s, want admin", view.Role)
	}
}

func TestCreateWorkspaceEnrollsOwner(t *testing.T) {
	var created store.Workspace
	var owner store.Member
	fs := &fakeStore{
		createWorkspaceFn: func(_ context.Context, ws store.Workspace, m store.Member) error {
			created = ws
			owner = m
			return nil
		},
	}
	svc := newTestService(fs)

	ws, err := svc.CreateWorkspace(context.Background(), "user-1", "Acme", "acme.test")
	if err != nil {
		t.Fatalf("CreateWorkspace: %v", err)
	}
	if owner.UserID != "user-1" || owner.Role != rbac.RoleOwner {
		t.Fatalf("owner = %+v, want user-1 as owner", owner)
	}
	if owner.ParentID != created.ID || owner.ParentType != rbac.ParentWorkspace {
		t.Fatalf("owner parent = %s/%s, want %s/workspace", owner.ParentID, owner.ParentType, created.ID)
	}
	if ws.Domain != "acme.test" {
		t.Fatalf("domain = %q, want acme.test", ws.Domain)
	}
}

func TestCreateWorkspaceDuplicateDomain(t *testing.T) {
	fs := &fakeStore{
		createWorkspaceFn: func(context.Context, store.Workspace, store.Member) error {
			return store.ErrDuplicateDomain
		},
	}
	svc := newTestService(fs)

	_, err := svc.CreateWorkspace(context.Background(), "user-1", "Acme", "acme.test")
	wantCode(t, err, "CONFLICT")
}

func TestDeleteWorkspaceOwnerOnly(t *testing.T) {
	fs := &fakeStore{getMemberFn: memberOf("ws-1", rbac.RoleAdmin)}
	svc := newTestService(fs)

	err := svc.DeleteWorkspace(context.Background(), "user-1", "ws-1")
	wantCode(t, err, "FORBIDDEN")
}

func TestDeleteWorkspaceAsOwner(t *testing.T) {
	var deleted string
	fs := &fakeStore{
		getMemberFn: memberOf("ws-1", rbac.RoleOwner),
		deleteWorkspaceFn: func(_ context.Context, workspaceID string) error {
			deleted = workspaceID
			return nil
		},
	}
	svc := newTestService(fs)

	if err := svc.DeleteWorkspace(context.Background(), "user-1", "ws-1"); err != nil {
		t.Fatalf("DeleteWorkspace: %v", err)
	}
	if deleted != "ws-1" {
		t.Fatalf("deleted workspace = %q, want ws-1", deleted)
	}
}

func TestDeleteConversationOwnerOnly(t *testing.T) {
	fs := &fakeStore{
		getConversationFn: func(context.Context, string) (store.Conversation, error) {
			return store.Conversation{ID: "c-1", WorkspaceID: "ws-1", Name: "general", Type: conversation.TypeChannel}, nil
		},
		getMemberFn: memberOf("c-1", rbac.RoleAdmin),
	}
	svc := newTestService(fs)

	err := svc.DeleteConversation(context.Background(), "user-1", "c-1")
	wantCode(t, err, "FORBIDDEN")
}

func TestDeleteConversationAsOwner(t *testing.T) {
	var deleted string
	fs := &fakeStore{
		getConversationFn: func(context.Context, string) (store.Conversation, error) {
			return store.Conversation{ID: "c-1", WorkspaceID: "ws-1", Name: "general", Type: conversation.TypeChannel}, nil
		},
		getMemberFn: memberOf("c-1", rbac.RoleOwner),
		deleteConversationFn: func(_ context.Context, conversationID string) error {
			deleted = conversationID
			return nil
		},
	}
	svc := newTestService(fs)

	if err := svc.DeleteConversation(context.Background(), "user-1", "c-1"); err != nil {
		t.Fatalf("DeleteConversation: %v", err)
	}
	if deleted != "c-1" {
		t.Fatalf("deleted conversation = %q, want c-1", deleted)
	}
}

func TestCreateConversationDirectMessagePair(t *testing.T) {
	fs := &fakeStore{getMemberFn: memberOf("ws-1", rbac.RoleMember)}
	svc := newTestService(fs)

	// Creator alone is one participant, not two.
	_, err := svc.CreateConversation(context.Background(), "user-1", "ws-1", CreateConversationInput{
		Type: "direct_message",
	})
	wantCode(t, err, "INVARIANT_VIOLATION")

	// Three participants is also not a direct message.
	_, err = svc.CreateConversation(context.Background(), "user-1", "ws-1", CreateConversationInput{
		Type:           "direct_message",
		ParticipantIDs: []string{"user-2", "user-3"},
	})
	wantCode(t, err, "INVARIANT_VIOLATION")
}

func TestCreateConversationEnrollsParticipants(t *testing.T) {
	var members []store.Member
	fs := &fakeStore{
		getMemberFn: func(_ context.Context, userID, parentID string) (store.Member, error) {
			if parentID == "ws-1" {
				return store.Member{UserID: userID, ParentID: parentID, ParentType: rbac.ParentWorkspace, Role: rbac.RoleMember, IsActive: true}, nil
			}
			return store.Member{}, sql.ErrNoRows
		},
		createConversationFn: func(_ context.Context, _ store.Conversation, m []store.Member) error {
			members = m
			return nil
		},
	}
	svc := newTestService(fs)

	view, err := svc.CreateConversation(context.Background(), "user-1", "ws-1", CreateConversationInput{
		Name:           "huddle",
		Type:           "group",
		ParticipantIDs: []string{"user-2", "user-1"},
	})
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("enrolled %d members, want 2 (creator deduped)", len(members))
	}
	if members[0].UserID != "user-1" || members[0].Role != rbac.RoleOwner {
		t.Fatalf("creator member = %+v, want user-1 as owner", members[0])
	}
	if members[1].Role != rbac.RoleMember {
		t.Fatalf("participant role = %s, want member", members[1].Role)
	}
	if view.Type != "group" {
		t.Fatalf("view type = %q, want group", view.Type)
	}
}

func TestCreateConversationTaskGroupDueDate(t *testing.T) {
	due := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	var saved store.Conversation
	fs := &fakeStore{
		getMemberFn: memberOf("ws-1", rbac.RoleMember),
		createConversationFn: func(_ context.Context, c store.Conversation, _ []store.Member) error {
			saved = c
			return nil
		},
	}
	svc := newTestService(fs)

	view, err := svc.CreateConversation(context.Background(), "user-1", "ws-1", CreateConversationInput{
		Name:    "launch",
		Type:    "task_group",
		Status:  "active",
		DueDate: &due,
	})
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if saved.DueDate == nil || !saved.DueDate.Equal(due) {
		t.Fatalf("stored due date = %v, want %v", saved.DueDate, due)
	}
	if view.DueDate == nil || !view.DueDate.Equal(due) {
		t.Fatalf("view due date = %v, want %v", view.DueDate, due)
	}
}

func TestCreateConversationUnknownType(t *testing.T) {
	fs := &fakeStore{getMemberFn: memberOf("ws-1", rbac.RoleMember)}
	svc := newTestService(fs)

	_, err := svc.CreateConversation(context.Background(), "user-1", "ws-1", CreateConversationInput{
		Name: "x",
		Type: "broadcast",
	})
	wantCode(t, err, "UNKNOWN_CONVERSATION_TYPE")
}

func TestJoinConversationPrivateChannel(t *testing.T) {
	private := store.Conversation{ID: "c-2", WorkspaceID: "ws-1", Name: "leads", Type: conversation.TypeChannel}

	fs := &fakeStore{
		getConversationFn: func(context.Context, string) (store.Conversation, error) {
			return private, nil
		},
		getMemberFn: func(_ context.Context, userID, parentID string) (store.Member, error) {
			if parentID == "ws-1" {
				return store.Member{UserID: userID, ParentID: parentID, ParentType: rbac.ParentWorkspace, Role: rbac.RoleMember, IsActive: true}, nil
			}
			return store.Member{}, sql.ErrNoRows
		},
	}
	svc := newTestService(fs)

	_, err := svc.JoinConversation(context.Background(), "user-1", "c-2")
	wantCode(t, err, "FORBIDDEN")
}

func TestJoinConversationPublicChannel(t *testing.T) {
	public := store.Conversation{ID: "c-1", WorkspaceID: "ws-1", Name: "general", Type: conversation.TypeChannel, IsPublic: true}

	var inserted store.Member
	fs := &fakeStore{
		getConversationFn: func(context.Context, string) (store.Conversation, error) {
			return public, nil
		},
		getMemberFn: func(_ context.Context, userID, parentID string) (store.Member, error) {
			if parentID == "ws-1" {
				return store.Member{UserID: userID, ParentID: parentID, ParentType: rbac.ParentWorkspace, Role: rbac.RoleMember, IsActive: true}, nil
			}
			return store.Member{}, sql.ErrNoRows
		},
		insertMemberFn: func(_ context.Context, m store.Member) error {
			inserted = m
			return nil
		},
	}
	svc := newTestService(fs)

	view, err := svc.JoinConversation(context.Background(), "user-1", "c-1")
	if err != nil {
		t.Fatalf("JoinConversation: %v", err)
	}
	if inserted.ParentType != rbac.ParentConversation || inserted.Role != rbac.RoleMember {
		t.Fatalf("inserted = %+v, want conversation member", inserted)
	}
	if view.Role != "member" {
		t.Fatalf("view role = %s, want member", view.Role)
	}
}
