package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"relay/api/internal/audit"
	"relay/api/internal/auth"
	"relay/api/internal/authpw"
	"relay/api/internal/config"
	"relay/api/internal/conversation"
	"relay/api/internal/email"
	"relay/api/internal/export"
	"relay/api/internal/rbac"
	"relay/api/internal/search"
	"relay/api/internal/session"
	"relay/api/internal/store"
	"relay/api/internal/util"
)

// Session is the pair of tokens handed to a signed-in client.
type Session struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	UserID       string    `json:"userId"`
	UserName     string    `json:"userName"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// dataStore is the slice of the persistence layer the service needs.
// *store.PostgresStore satisfies it; tests substitute a fake.
type dataStore interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, user store.User) error
	GetUserByID(ctx context.Context, userID string) (store.User, error)
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
	UpdateUserVerificationToken(ctx context.Context, userID, token string, expiresAt time.Time) error
	VerifyUserEmail(ctx context.Context, token string) error
	UpdateUserPassword(ctx context.Context, userID, passwordHash string) error
	CreatePasswordReset(ctx context.Context, userID, token string, expiresAt time.Time) error
	GetPasswordReset(ctx context.Context, token string) (string, error)
	MarkPasswordResetUsed(ctx context.Context, token string) error

	SaveRefreshSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error
	LookupRefreshSession(ctx context.Context, tokenHash string) (store.User, error)
	RevokeRefreshSession(ctx context.Context, tokenHash string) error
	RevokeAccessToken(ctx context.Context, jti string, exp time.Time) error
	IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error)

	CreateWorkspace(ctx context.Context, ws store.Workspace, owner store.Member) error
	GetWorkspace(ctx context.Context, workspaceID string) (store.Workspace, error)
	ListWorkspacesForUser(ctx context.Context, userID string) ([]store.Workspace, error)
	DeactivateWorkspace(ctx context.Context, workspaceID string) error
	DeleteWorkspace(ctx context.Context, workspaceID string) error

	CreateConversation(ctx context.Context, c store.Conversation, members []store.Member) error
	GetConversation(ctx context.Context, conversationID string) (store.Conversation, error)
	ListConversationsByWorkspace(ctx context.Context, workspaceID string) ([]store.Conversation, error)
	ListMemberConversations(ctx context.Context, workspaceID, userID string) ([]store.Conversation, error)
	ListPublicChannels(ctx context.Context, workspaceID string) ([]store.Conversation, error)
	ArchiveConversation(ctx context.Context, conversationID string) error
	DeleteConversation(ctx context.Context, conversationID string) error

	InsertMember(ctx context.Context, m store.Member) error
	InsertWorkspaceMember(ctx context.Context, m store.Member) ([]string, error)
	GetMember(ctx context.Context, userID, parentID string) (store.Member, error)
	ListMembersByParent(ctx context.Context, parentID string) ([]store.Member, error)
	CountActiveMembers(ctx context.Context, parentID string) (int, error)
	DeleteMember(ctx context.Context, userID, parentID string) error
	UpdateMemberRole(ctx context.Context, userID, parentID string, role rbac.Role) error
	ListMembershipsByUser(ctx context.Context, userID string, parentType rbac.ParentType) ([]store.Member, error)
}

// SessionStore holds refresh sessions. Backed by Redis when
// RELAY_REDIS_URL is set, by Postgres otherwise.
type SessionStore interface {
	SaveRefreshSession(ctx context.Context, tokenHash, userID, displayName string, expiresAt time.Time) error
	LookupRefreshSession(ctx context.Context, tokenHash string) (session.RefreshSession, error)
	RevokeRefreshSession(ctx context.Context, tokenHash string) error
}

// pgSessions adapts the Postgres-backed refresh session rows to the
// SessionStore shape.
type pgSessions struct {
	db dataStore
}

func (p pgSessions) SaveRefreshSession(ctx context.Context, tokenHash, userID, _ string, expiresAt time.Time) error {
	return p.db.SaveRefreshSession(ctx, tokenHash, userID, expiresAt)
}

func (p pgSessions) LookupRefreshSession(ctx context.Context, tokenHash string) (session.RefreshSession, error) {
	user, err := p.db.LookupRefreshSession(ctx, tokenHash)
	if err != nil {
		return session.RefreshSession{}, err
	}
	return session.RefreshSession{UserID: user.ID, DisplayName: user.DisplayName}, nil
}

func (p pgSessions) RevokeRefreshSession(ctx context.Context, tokenHash string) error {
	return p.db.RevokeRefreshSession(ctx, tokenHash)
}

// NewPGSessionStore returns a SessionStore backed by the relational
// store, used when no Redis URL is configured.
func NewPGSessionStore(db *store.PostgresStore) SessionStore {
	return pgSessions{db: db}
}

type Service struct {
	cfg       config.Config
	db        dataStore
	sessions  SessionStore
	passwords *authpw.Service
	mail      *email.Service
	audit     *audit.Service
	search    *search.Service
	exports   *export.Service
}

func New(cfg config.Config, db dataStore, sessions SessionStore, mail *email.Service, auditSvc *audit.Service, searchSvc *search.Service) *Service {
	if sessions == nil {
		sessions = pgSessions{db: db}
	}
	svc := &Service{
		cfg:       cfg,
		db:        db,
		sessions:  sessions,
		passwords: authpw.NewService(db),
		mail:      mail,
		audit:     auditSvc,
		search:    searchSvc,
	}
	svc.exports = export.NewService(rosterStore{svc: svc})
	return svc
}

func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// AuthPasswordService exposes the email/password flows to the HTTP layer.
func (s *Service) AuthPasswordService() *authpw.Service {
	return s.passwords
}

func (s *Service) SMTPConfigured() bool {
	return s.mail != nil && s.mail.IsConfigured()
}

// CreateSession issues an access/refresh token pair for an
// authenticated user.
func (s *Service) CreateSession(ctx context.Context, user store.User) (*Session, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.cfg.AccessTTL)
	jti := util.NewID()

	token, err := auth.IssueToken([]byte(s.cfg.JWTSecret), user.ID, user.DisplayName, jti, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	refresh, err := randomToken()
	if err != nil {
		return nil, err
	}
	if err := s.sessions.SaveRefreshSession(ctx, auth.HashToken(refresh), user.ID, user.DisplayName, now.Add(s.cfg.RefreshTTL)); err != nil {
		return nil, fmt.Errorf("save refresh session: %w", err)
	}

	return &Session{
		Token:        token,
		RefreshToken: refresh,
		UserID:       user.ID,
		UserName:     user.DisplayName,
		ExpiresAt:    expiresAt,
	}, nil
}

// Refresh exchanges a refresh token for a fresh session. The old
// refresh token is revoked so each one is single use.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	hash := auth.HashToken(refreshToken)
	sess, err := s.sessions.LookupRefreshSession(ctx, hash)
	if err != nil {
		return nil, domainError(http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired refresh token", nil)
	}

	// Best effort: a dangling old session only shortens the rotation chain.
	_ = s.sessions.RevokeRefreshSession(ctx, hash)

	user, err := s.db.GetUserByID(ctx, sess.UserID)
	if err != nil {
		return nil, domainError(http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired refresh token", nil)
	}
	return s.CreateSession(ctx, user)
}

// SessionFromToken validates an access token and rejects tokens whose
// jti has been revoked by logout.
func (s *Service) SessionFromToken(ctx context.Context, token string) (auth.Claims, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.JWTSecret), token)
	if err != nil {
		return auth.Claims{}, err
	}
	if claims.ID != "" {
		revoked, err := s.db.IsAccessTokenRevoked(ctx, claims.ID)
		if err != nil {
			return auth.Claims{}, err
		}
		if revoked {
			return auth.Claims{}, auth.ErrInvalidToken
		}
	}
	return claims, nil
}

// Logout revokes both halves of a session.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if claims, err := auth.ParseToken([]byte(s.cfg.JWTSecret), accessToken); err == nil && claims.ID != "" {
		exp := time.Now().UTC().Add(s.cfg.AccessTTL)
		if claims.ExpiresAt != nil {
			exp = claims.ExpiresAt.Time
		}
		if err := s.db.RevokeAccessToken(ctx, claims.ID, exp); err != nil {
			return fmt.Errorf("revoke access token: %w", err)
		}
	}
	if refreshToken != "" {
		if err := s.sessions.RevokeRefreshSession(ctx, auth.HashToken(refreshToken)); err != nil {
			return fmt.Errorf("revoke refresh session: %w", err)
		}
	}
	return nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// rosterStore feeds the export renderer from the live store.
type rosterStore struct {
	svc *Service
}

func (r rosterStore) GetParentName(ctx context.Context, parentID, parentType string) (string, error) {
	switch parentType {
	case string(rbac.ParentWorkspace):
		ws, err := r.svc.db.GetWorkspace(ctx, parentID)
		if err != nil {
			return "", err
		}
		return ws.Name, nil
	case string(rbac.ParentConversation):
		conv, err := r.svc.db.GetConversation(ctx, parentID)
		if err != nil {
			return "", err
		}
		variant, err := conversation.ForType(conv.Type)
		if err != nil {
			return conv.Name, nil
		}
		return variant.DisplayName(conversation.Info{Name: conv.Name, IsPublic: conv.IsPublic}), nil
	default:
		return "", fmt.Errorf("unknown parent type %q", parentType)
	}
}

func (r rosterStore) ListRoster(ctx context.Context, parentID string) ([]export.Member, error) {
	members, err := r.svc.db.ListMembersByParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	roster := make([]export.Member, 0, len(members))
	for _, m := range members {
		entry := export.Member{Role: string(m.Role), JoinedAt: m.JoinedAt}
		if user, err := r.svc.db.GetUserByID(ctx, m.UserID); err == nil {
			entry.DisplayName = user.DisplayName
			entry.Email = user.Email
		} else {
			entry.DisplayName = m.UserID
		}
		roster = append(roster, entry)
	}
	return roster, nil
}

// ExportRoster renders the member roster of a workspace or
// conversation as PDF or DOCX. Owners and admins only.
func (s *Service) ExportRoster(ctx context.Context, actorID, parentID string, parentType rbac.ParentType, format export.Format) (*export.Result, error) {
	if _, err := s.requireManager(ctx, actorID, parentID); err != nil {
		return nil, err
	}
	return s.exports.Export(ctx, export.Request{
		ParentID:   parentID,
		ParentType: string(parentType),
		Format:     format,
	})
}
