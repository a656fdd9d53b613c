package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"relay/api/internal/conversation"
	"relay/api/internal/rbac"
)

var (
	// ErrDuplicateMember is returned when an insert hits the unique
	// (user_id, parent_id) constraint. The constraint is the authority for
	// membership uniqueness: of two concurrent adds, exactly one wins.
	ErrDuplicateMember = errors.New("member already exists for this parent")
	ErrDuplicateDomain = errors.New("a workspace with this domain already exists")
	ErrDuplicateEmail  = errors.New("a user with this email already exists")
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ---------------------------------------------------------------------------
// Users

func (s *PostgresStore) CreateUser(ctx context.Context, user User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, display_name, email, password_hash, is_email_verified, verification_token)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.DisplayName, user.Email, user.PasswordHash, user.IsEmailVerified, user.VerificationToken)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

const userColumns = `id, display_name, email, password_hash, is_email_verified, verification_token, verification_expires_at, created_at, updated_at`

func scanUser(row *sql.Row) (User, error) {
	var user User
	err := row.Scan(&user.ID, &user.DisplayName, &user.Email, &user.PasswordHash,
		&user.IsEmailVerified, &user.VerificationToken, &user.VerificationExpiresAt,
		&user.CreatedAt, &user.UpdatedAt)
	return user, err
}

func (s *PostgresStore) GetUserByID(ctx context.Context, userID string) (User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, userID))
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email))
}

func (s *PostgresStore) UpdateUserVerificationToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET verification_token=$2, verification_expires_at=$3, updated_at=NOW() WHERE id=$1
	`, userID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("update verification token: %w", err)
	}
	return nil
}

func (s *PostgresStore) VerifyUserEmail(ctx context.Context, token string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET is_email_verified=TRUE, verification_token='', verification_expires_at=NULL, updated_at=NOW()
		WHERE verification_token=$1 AND verification_expires_at > NOW()
	`, token)
	if err != nil {
		return fmt.Errorf("verify email: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("verify email rows: %w", err)
	}
	if affected == 0 {
		return errors.New("invalid or expired verification token")
	}
	return nil
}

func (s *PostgresStore) UpdateUserPassword(ctx context.Context, userID, passwordHash string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash=$2, updated_at=NOW() WHERE id=$1`, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreatePasswordReset(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO password_resets (token, user_id, expires_at) VALUES ($1, $2, $3)
	`, token, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("create password reset: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPasswordReset(ctx context.Context, token string) (string, error) {
	var userID string
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id FROM password_resets WHERE token=$1 AND used_at IS NULL AND expires_at > NOW()
	`, token).Scan(&userID)
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *PostgresStore) MarkPasswordResetUsed(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE password_resets SET used_at=NOW() WHERE token=$1`, token)
	if err != nil {
		return fmt.Errorf("mark password reset used: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Refresh sessions and token revocation (Postgres fallback when Redis is
// not configured)

func (s *PostgresStore) SaveRefreshSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO refresh_sessions (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_hash) DO UPDATE SET user_id=EXCLUDED.user_id, expires_at=EXCLUDED.expires_at, revoked_at=NULL
	`, tokenHash, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("save refresh session: %w", err)
	}
	return nil
}

func (s *PostgresStore) LookupRefreshSession(ctx context.Context, tokenHash string) (User, error) {
	const query = `
		SELECT u.id, u.display_name, u.email, u.password_hash, u.is_email_verified,
		       u.verification_token, u.verification_expires_at, u.created_at, u.updated_at
		FROM refresh_sessions rs
		JOIN users u ON u.id = rs.user_id
		WHERE rs.token_hash = $1
			AND rs.revoked_at IS NULL
			AND rs.expires_at > NOW()
	`
	return scanUser(s.db.QueryRowContext(ctx, query, tokenHash))
}

func (s *PostgresStore) RevokeRefreshSession(ctx context.Context, tokenHash string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE refresh_sessions SET revoked_at=NOW() WHERE token_hash=$1`, tokenHash)
	if err != nil {
		return fmt.Errorf("revoke refresh session: %w", err)
	}
	return nil
}

func (s *PostgresStore) RevokeAccessToken(ctx context.Context, jti string, exp time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO revoked_access_tokens (jti, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING
	`, jti, exp)
	if err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}
	return nil
}

func (s *PostgresStore) IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM revoked_access_tokens WHERE jti=$1)`, jti).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return revoked, nil
}

// ---------------------------------------------------------------------------
// Workspaces

// CreateWorkspace inserts the workspace and its owner membership in one
// transaction, so a workspace can never exist without an owner.
func (s *PostgresStore) CreateWorkspace(ctx context.Context, ws Workspace, owner Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create workspace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO workspaces (id, name, domain, created_by, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
	`, ws.ID, ws.Name, ws.Domain, ws.CreatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateDomain
		}
		return fmt.Errorf("insert workspace: %w", err)
	}

	if err := insertMemberTx(ctx, tx, owner); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create workspace: %w", err)
	}
	return nil
}

const workspaceColumns = `id, name, domain, created_by, is_active, created_at, updated_at`

func (s *PostgresStore) GetWorkspace(ctx context.Context, workspaceID string) (Workspace, error) {
	var ws Workspace
	err := s.db.QueryRowContext(ctx, `SELECT `+workspaceColumns+` FROM workspaces WHERE id=$1`, workspaceID).
		Scan(&ws.ID, &ws.Name, &ws.Domain, &ws.CreatedBy, &ws.IsActive, &ws.CreatedAt, &ws.UpdatedAt)
	return ws, err
}

func (s *PostgresStore) ListWorkspacesForUser(ctx context.Context, userID string) ([]Workspace, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT w.id, w.name, w.domain, w.created_by, w.is_active, w.created_at, w.updated_at
		FROM workspaces w
		JOIN members m ON m.parent_id = w.id AND m.parent_type = 'workspace'
		WHERE m.user_id = $1 AND m.is_active AND w.is_active
		ORDER BY w.name ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list workspaces for user: %w", err)
	}
	defer rows.Close()

	var out []Workspace
	for rows.Next() {
		var ws Workspace
		if err := rows.Scan(&ws.ID, &ws.Name, &ws.Domain, &ws.CreatedBy, &ws.IsActive, &ws.CreatedAt, &ws.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		out = append(out, ws)
	}
	return out, rows.Err()
}

func (s *PostgresStore) DeactivateWorkspace(ctx context.Context, workspaceID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE workspaces SET is_active=FALSE, updated_at=NOW() WHERE id=$1`, workspaceID)
	if err != nil {
		return fmt.Errorf("deactivate workspace: %w", err)
	}
	return nil
}

// DeleteWorkspace removes the workspace and its conversations. Member rows
// of the deleted conversations go with them; workspace-level member rows
// are deliberately kept (non-cascading) so the audit history keeps its
// subjects.
func (s *PostgresStore) DeleteWorkspace(ctx context.Context, workspaceID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete workspace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM members
		WHERE parent_type = 'conversation'
			AND parent_id IN (SELECT id FROM conversations WHERE workspace_id = $1)
	`, workspaceID)
	if err != nil {
		return fmt.Errorf("delete conversation members: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM workspaces WHERE id=$1`, workspaceID); err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete workspace: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Conversations

const conversationColumns = `id, workspace_id, name, description, created_by, created_at, type, is_archived,
	is_public, topic, purpose, auto_add_new_members, expires_at, status, task_count, due_date`

func scanConversation(scanner interface{ Scan(...any) error }) (Conversation, error) {
	var c Conversation
	var convType int
	err := scanner.Scan(&c.ID, &c.WorkspaceID, &c.Name, &c.Description, &c.CreatedBy, &c.CreatedAt,
		&convType, &c.IsArchived, &c.IsPublic, &c.Topic, &c.Purpose, &c.AutoAddNewMembers,
		&c.ExpiresAt, &c.Status, &c.TaskCount, &c.DueDate)
	c.Type = conversation.Type(convType)
	return c, err
}

// CreateConversation inserts the conversation and all initial member rows
// (the creator-owner plus any invited participants) in one transaction.
func (s *PostgresStore) CreateConversation(ctx context.Context, c Conversation, members []Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create conversation: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO conversations (id, workspace_id, name, description, created_by, type,
			is_public, topic, purpose, auto_add_new_members, expires_at, status, task_count, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, c.ID, c.WorkspaceID, c.Name, c.Description, c.CreatedBy, int(c.Type),
		c.IsPublic, c.Topic, c.Purpose, c.AutoAddNewMembers, c.ExpiresAt, c.Status, c.TaskCount, c.DueDate)
	if err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}

	for _, m := range members {
		if err := insertMemberTx(ctx, tx, m); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create conversation: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetConversation(ctx context.Context, conversationID string) (Conversation, error) {
	return scanConversation(s.db.QueryRowContext(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE id=$1`, conversationID))
}

func (s *PostgresStore) listConversations(ctx context.Context, query string, args ...any) ([]Conversation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListConversationsByWorkspace returns every non-archived conversation in
// the workspace, name ascending.
func (s *PostgresStore) ListConversationsByWorkspace(ctx context.Context, workspaceID string) ([]Conversation, error) {
	return s.listConversations(ctx, `
		SELECT `+conversationColumns+` FROM conversations
		WHERE workspace_id=$1 AND NOT is_archived
		ORDER BY name ASC
	`, workspaceID)
}

// ListMemberConversations returns the non-archived conversations in the
// workspace where the user holds an active conversation-level membership.
func (s *PostgresStore) ListMemberConversations(ctx context.Context, workspaceID, userID string) ([]Conversation, error) {
	return s.listConversations(ctx, `
		SELECT `+prefixedConversationColumns("c")+` FROM conversations c
		JOIN members m ON m.parent_id = c.id AND m.parent_type = 'conversation'
		WHERE c.workspace_id=$1 AND m.user_id=$2 AND m.is_active AND NOT c.is_archived
		ORDER BY c.name ASC
	`, workspaceID, userID)
}

// ListPublicChannels returns the non-archived public channels of the
// workspace, name ascending.
func (s *PostgresStore) ListPublicChannels(ctx context.Context, workspaceID string) ([]Conversation, error) {
	return s.listConversations(ctx, `
		SELECT `+conversationColumns+` FROM conversations
		WHERE workspace_id=$1 AND type=$2 AND is_public AND NOT is_archived
		ORDER BY name ASC
	`, workspaceID, int(conversation.TypeChannel))
}

// ListAutoAddChannels returns the channels that automatically enroll new
// workspace members.
func (s *PostgresStore) ListAutoAddChannels(ctx context.Context, workspaceID string) ([]Conversation, error) {
	return s.listConversations(ctx, `
		SELECT `+conversationColumns+` FROM conversations
		WHERE workspace_id=$1 AND type=$2 AND auto_add_new_members AND NOT is_archived
		ORDER BY name ASC
	`, workspaceID, int(conversation.TypeChannel))
}

func prefixedConversationColumns(alias string) string {
	return alias + `.id, ` + alias + `.workspace_id, ` + alias + `.name, ` + alias + `.description, ` +
		alias + `.created_by, ` + alias + `.created_at, ` + alias + `.type, ` + alias + `.is_archived, ` +
		alias + `.is_public, ` + alias + `.topic, ` + alias + `.purpose, ` + alias + `.auto_add_new_members, ` +
		alias + `.expires_at, ` + alias + `.status, ` + alias + `.task_count, ` + alias + `.due_date`
}

func (s *PostgresStore) ArchiveConversation(ctx context.Context, conversationID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE conversations SET is_archived=TRUE WHERE id=$1`, conversationID)
	if err != nil {
		return fmt.Errorf("archive conversation: %w", err)
	}
	return nil
}

// DeleteConversation removes the conversation and cascades its member rows
// in the same transaction.
func (s *PostgresStore) DeleteConversation(ctx context.Context, conversationID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete conversation: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM members WHERE parent_id=$1 AND parent_type='conversation'`, conversationID); err != nil {
		return fmt.Errorf("delete conversation members: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM conversations WHERE id=$1`, conversationID); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete conversation: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Members

func insertMemberTx(ctx context.Context, tx *sql.Tx, m Member) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO members (user_id, parent_id, parent_type, role, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
	`, m.UserID, m.ParentID, string(m.ParentType), string(m.Role))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateMember
		}
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

func (s *PostgresStore) InsertMember(ctx context.Context, m Member) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO members (user_id, parent_id, parent_type, role, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
	`, m.UserID, m.ParentID, string(m.ParentType), string(m.Role))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateMember
		}
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

// InsertWorkspaceMember adds a workspace-level membership and, in the same
// transaction, enrolls the user into every auto-add channel of the
// workspace. Returns the ids of the channels joined. The auto-add inserts
// are idempotent so a user who already joined a channel by hand does not
// break the add.
func (s *PostgresStore) InsertWorkspaceMember(ctx context.Context, m Member) ([]string, error) {
	channels, err := s.ListAutoAddChannels(ctx, m.ParentID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin insert workspace member: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertMemberTx(ctx, tx, m); err != nil {
		return nil, err
	}

	var joined []string
	for _, ch := range channels {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO members (user_id, parent_id, parent_type, role, is_active)
			VALUES ($1, $2, 'conversation', $3, TRUE)
			ON CONFLICT (user_id, parent_id) DO NOTHING
		`, m.UserID, ch.ID, string(rbac.RoleMember))
		if err != nil {
			return nil, fmt.Errorf("auto-add channel member: %w", err)
		}
		if affected, err := result.RowsAffected(); err == nil && affected > 0 {
			joined = append(joined, ch.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit insert workspace member: %w", err)
	}
	return joined, nil
}

func (s *PostgresStore) GetMember(ctx context.Context, userID, parentID string) (Member, error) {
	var m Member
	var parentType, role string
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, parent_id, parent_type, role, joined_at, is_active
		FROM members WHERE user_id=$1 AND parent_id=$2 AND is_active
	`, userID, parentID).Scan(&m.UserID, &m.ParentID, &parentType, &role, &m.JoinedAt, &m.IsActive)
	if err != nil {
		return Member{}, err
	}
	m.ParentType = rbac.ParentType(parentType)
	m.Role = rbac.Role(role)
	return m, nil
}

func (s *PostgresStore) ListMembersByParent(ctx context.Context, parentID string) ([]Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, parent_id, parent_type, role, joined_at, is_active
		FROM members WHERE parent_id=$1 AND is_active
		ORDER BY joined_at ASC
	`, parentID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		var m Member
		var parentType, role string
		if err := rows.Scan(&m.UserID, &m.ParentID, &parentType, &role, &m.JoinedAt, &m.IsActive); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		m.ParentType = rbac.ParentType(parentType)
		m.Role = rbac.Role(role)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CountActiveMembers(ctx context.Context, parentID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM members WHERE parent_id=$1 AND is_active
	`, parentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return count, nil
}

// DeleteMember removes the membership row outright. Removal is terminal:
// a later re-join inserts a fresh row with a fresh joined_at.
func (s *PostgresStore) DeleteMember(ctx context.Context, userID, parentID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE user_id=$1 AND parent_id=$2`, userID, parentID)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete member rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *PostgresStore) UpdateMemberRole(ctx context.Context, userID, parentID string, role rbac.Role) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE members SET role=$3 WHERE user_id=$1 AND parent_id=$2 AND is_active
	`, userID, parentID, string(role))
	if err != nil {
		return fmt.Errorf("update member role: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update member role rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListMembershipsByUser returns the user's active memberships for one
// parent type ('workspace' or 'conversation').
func (s *PostgresStore) ListMembershipsByUser(ctx context.Context, userID string, parentType rbac.ParentType) ([]Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, parent_id, parent_type, role, joined_at, is_active
		FROM members WHERE user_id=$1 AND parent_type=$2 AND is_active
		ORDER BY joined_at ASC
	`, userID, string(parentType))
	if err != nil {
		return nil, fmt.Errorf("list memberships by user: %w", err)
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		var m Member
		var pt, role string
		if err := rows.Scan(&m.UserID, &m.ParentID, &pt, &role, &m.JoinedAt, &m.IsActive); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		m.ParentType = rbac.ParentType(pt)
		m.Role = rbac.Role(role)
		out = append(out, m)
	}
	return out, rows.Err()
}
