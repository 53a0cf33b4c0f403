// Package audit keeps an append-only trail of privileged and
// identity-mutating actions for later admin review.
package audit

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Actions recorded in the trail.
const (
	ActionUserSignup        = "user.signup"
	ActionUserDelete        = "user.delete"
	ActionUserRoleChange    = "user.role_change"
	ActionUserStatusChange  = "user.status_change"
	ActionUserPasswordReset = "user.password_reset"
	ActionPostCreate        = "post.create"
	ActionPostDelete        = "post.delete"
	ActionCommentCreate     = "comment.create"
	ActionCommentDelete     = "comment.delete"
)

// Entry is one structured record in the audit log, stored as a single JSON
// line.
type Entry struct {
	Timestamp time.Time         `json:"timestamp"`
	Action    string            `json:"action"`
	ActorID   string            `json:"actorId"`
	SubjectID string            `json:"subjectId"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Recorder appends entries to a flat file, one JSON record per line.
// Rotation and retention are left to the operator.
type Recorder struct {
	mu   sync.Mutex
	path string
}

func NewRecorder(path string) *Recorder {
	return &Recorder{path: path}
}

// Record appends an entry. Audit failure is degraded, never fatal: errors
// are logged and swallowed so they cannot abort the operation being audited.
func (r *Recorder) Record(action string, actorID, subjectID uuid.UUID, metadata map[string]string) {
	entry := Entry{
		Timestamp: time.Now().UTC(),
		Action:    action,
		ActorID:   actorID.String(),
		SubjectID: subjectID.String(),
		Metadata:  metadata,
	}

	line, err := json.Marshal(entry)
	if err != nil {
		slog.Error("audit: failed to marshal entry", "action", action, "error", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Error("audit: failed to open log", "path", r.path, "error", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		slog.Error("audit: failed to append entry", "action", action, "error", err)
	}
}

// List parses the log back into entries, newest first. Unparseable lines are
// skipped rather than failing the whole read.
func (r *Recorder) List() ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if os.IsNotExist(err) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			slog.Warn("audit: skipping malformed log line", "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// Newest first for the admin view.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Clear truncates the log. The truncation itself is not recorded.
func (r *Recorder) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := os.Truncate(r.path, 0)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
