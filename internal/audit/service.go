// Package audit keeps a per-workspace membership audit trail. Every
// membership change commits a roster snapshot to a local git repository,
// so the full history of who was in a workspace, and who changed it,
// is recoverable without extra database tables.
package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// RosterEntry is one member row in the committed snapshot
type RosterEntry struct {
	UserID     string `json:"user_id"`
	ParentID   string `json:"parent_id"`
	ParentType string `json:"parent_type"`
	Role       string `json:"role"`
}

// Event describes a single membership change
type Event struct {
	Action     string `json:"action"`
	ActorID    string `json:"actor_id"`
	ActorName  string `json:"actor_name"`
	SubjectID  string `json:"subject_id"`
	ParentID   string `json:"parent_id"`
	ParentType string `json:"parent_type"`
	Role       string `json:"role,omitempty"`
}

// Entry is one recorded change read back from the log
type Entry struct {
	Hash      string    `json:"hash"`
	Message   string    `json:"message"`
	Actor     string    `json:"actor"`
	CreatedAt time.Time `json:"created_at"`
}

type Service struct {
	baseDir string
	lockMu  sync.Mutex
	locks   map[string]*sync.Mutex
}

func New(baseDir string) *Service {
	return &Service{
		baseDir: baseDir,
		locks:   make(map[string]*sync.Mutex),
	}
}

// EnsureWorkspaceLog initializes the audit repository for a workspace.
// Idempotent: an existing repository is left untouched.
func (s *Service) EnsureWorkspaceLog(workspaceID string, roster []RosterEntry, actorName string) error {
	lock := s.workspaceLock(workspaceID)
	lock.Lock()
	defer lock.Unlock()

	path := s.repoPath(workspaceID)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat repo path: %w", err)
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create repo dir: %w", err)
	}

	repo, err := git.PlainInit(path, false)
	if err != nil {
		return fmt.Errorf("init repo: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}
	if err := writeRoster(path, roster); err != nil {
		return err
	}
	if _, err := worktree.Add("roster.json"); err != nil {
		return fmt.Errorf("git add roster: %w", err)
	}
	hash, err := worktree.Commit("workspace created", &git.CommitOptions{
		Author: &object.Signature{
			Name:  actorName,
			Email: fmt.Sprintf("%s@local.relay.dev", sanitizeEmail(actorName)),
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("commit initial roster: %w", err)
	}
	if err := repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName("main"), hash)); err != nil {
		return fmt.Errorf("set main branch ref: %w", err)
	}
	if err := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("main"))); err != nil {
		return fmt.Errorf("set HEAD to main: %w", err)
	}
	return nil
}

// RecordEvent commits a new roster snapshot with the event encoded in the
// commit message. The repository must already exist.
func (s *Service) RecordEvent(workspaceID string, roster []RosterEntry, event Event) (Entry, error) {
	lock := s.workspaceLock(workspaceID)
	lock.Lock()
	defer lock.Unlock()

	path := s.repoPath(workspaceID)
	repo, err := git.PlainOpen(path)
	if err != nil {
		return Entry{}, fmt.Errorf("open repo: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return Entry{}, fmt.Errorf("open worktree: %w", err)
	}

	if err := writeRoster(path, roster); err != nil {
		return Entry{}, err
	}
	if _, err := worktree.Add("roster.json"); err != nil {
		return Entry{}, fmt.Errorf("git add roster: %w", err)
	}

	hash, err := worktree.Commit(eventMessage(event), &git.CommitOptions{
		// Role changes between equal rosters still record an event.
		AllowEmptyCommits: true,
		Author: &object.Signature{
			Name:  event.ActorName,
			Email: fmt.Sprintf("%s@local.relay.dev", sanitizeEmail(event.ActorName)),
			When:  time.Now(),
		},
	})
	if err != nil {
		return Entry{}, fmt.Errorf("commit roster: %w", err)
	}

	commitObj, err := repo.CommitObject(hash)
	if err != nil {
		return Entry{}, fmt.Errorf("read commit object: %w", err)
	}
	return toEntry(commitObj), nil
}

// History returns the most recent audit entries, newest first.
func (s *Service) History(workspaceID string, limit int) ([]Entry, error) {
	lock := s.workspaceLock(workspaceID)
	lock.Lock()
	defer lock.Unlock()

	repo, err := git.PlainOpen(s.repoPath(workspaceID))
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}

	ref, err := repo.Reference(plumbing.NewBranchReferenceName("main"), true)
	if err != nil {
		return nil, fmt.Errorf("resolve main branch: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{From: ref.Hash()})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	items := make([]Entry, 0, limit)
	count := 0
	err = iter.ForEach(func(commitObj *object.Commit) error {
		items = append(items, toEntry(commitObj))
		count++
		if limit > 0 && count >= limit {
			return io.EOF
		}
		return nil
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("iterate log: %w", err)
	}
	return items, nil
}

// RosterAt returns the roster snapshot at the given commit hash.
func (s *Service) RosterAt(workspaceID, hash string) ([]RosterEntry, error) {
	lock := s.workspaceLock(workspaceID)
	lock.Lock()
	defer lock.Unlock()

	repo, err := git.PlainOpen(s.repoPath(workspaceID))
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}

	resolvedHash, err := resolveHash(repo, hash)
	if err != nil {
		return nil, err
	}
	commitObj, err := repo.CommitObject(resolvedHash)
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", hash, err)
	}
	return readRosterFromCommit(commitObj)
}

func (s *Service) repoPath(workspaceID string) string {
	return filepath.Join(s.baseDir, workspaceID)
}

func (s *Service) workspaceLock(workspaceID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	lock, ok := s.locks[workspaceID]
	if ok {
		return lock
	}
	lock = &sync.Mutex{}
	s.locks[workspaceID] = lock
	return lock
}

func writeRoster(repoPath string, roster []RosterEntry) error {
	if roster == nil {
		roster = []RosterEntry{}
	}
	payload, err := json.MarshalIndent(roster, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal roster: %w", err)
	}
	if err := os.WriteFile(filepath.Join(repoPath, "roster.json"), append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("write roster.json: %w", err)
	}
	return nil
}

func readRosterFromCommit(commitObj *object.Commit) ([]RosterEntry, error) {
	file, err := commitObj.File("roster.json")
	if err != nil {
		return nil, fmt.Errorf("load roster.json from commit: %w", err)
	}
	reader, err := file.Reader()
	if err != nil {
		return nil, fmt.Errorf("open roster reader: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read roster bytes: %w", err)
	}

	var roster []RosterEntry
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	return roster, nil
}

func eventMessage(event Event) string {
	msg := fmt.Sprintf(
		"%s\n\naction=%s actor=%s subject=%s parent=%s parent_type=%s",
		event.Action,
		event.Action,
		event.ActorID,
		event.SubjectID,
		event.ParentID,
		event.ParentType,
	)
	if event.Role != "" {
		msg += " role=" + event.Role
	}
	return msg
}

func toEntry(commitObj *object.Commit) Entry {
	return Entry{
		Hash:      commitObj.Hash.String()[:7],
		Message:   commitObj.Message,
		Actor:     commitObj.Author.Name,
		CreatedAt: commitObj.Author.When,
	}
}

func sanitizeEmail(input string) string {
	bytes := make([]rune, 0, len(input))
	for _, r := range input {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			bytes = append(bytes, r)
			continue
		}
		if r == ' ' || r == '-' || r == '_' {
			bytes = append(bytes, '.')
		}
	}
	if len(bytes) == 0 {
		return "user"
	}
	return string(bytes)
}

func resolveHash(repo *git.Repository, hash string) (plumbing.Hash, error) {
	if len(hash) == 40 {
		return plumbing.NewHash(hash), nil
	}
	resolved, err := repo.ResolveRevision(plumbing.Revision(hash))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve hash %s: %w", hash, err)
	}
	return *resolved, nil
}
