package audit

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	recorder := NewRecorder(path)

	actor := uuid.New()
	subject := uuid.New()

	recorder.Record(ActionPostCreate, actor, subject, map[string]string{"title": "First"})
	recorder.Record(ActionPostDelete, actor, subject, nil)

	entries, err := recorder.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, ActionPostDelete, entries[0].Action)
	assert.Equal(t, ActionPostCreate, entries[1].Action)
	assert.Equal(t, actor.String(), entries[0].ActorID)
	assert.Equal(t, subject.String(), entries[0].SubjectID)
	assert.Equal(t, "First", entries[1].Metadata["title"])
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestRecorderEmptyLog(t *testing.T) {
	recorder := NewRecorder(filepath.Join(t.TempDir(), "audit.log"))

	entries, err := recorder.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecorderClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	recorder := NewRecorder(path)

	recorder.Record(ActionUserSignup, uuid.New(), uuid.New(), nil)
	require.NoError(t, recorder.Clear())

	entries, err := recorder.List()
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Clearing an already empty (or missing) log still succeeds.
	require.NoError(t, recorder.Clear())
}
