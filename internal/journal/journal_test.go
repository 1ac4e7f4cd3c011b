package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

// fixedClock advances one second per call.
func fixedClock(j *Journal) {
	base := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	n := 0
	j.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

var info = SessionInfo{
	Mode:           ModeConsole,
	Rotors:         "I II III",
	Rings:          "AAA",
	Reflector:      "B",
	Plugboard:      "",
	StartPositions: "AAA",
}

func TestOpenAndClose(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	assert.NoError(t, j.Close())
	assert.NoError(t, (&Journal{}).Close())
}

func TestSessionTranscript(t *testing.T) {
	ctx := context.Background()
	j := openTest(t)
	fixedClock(j)

	s, err := j.BeginSession(ctx, info)
	require.NoError(t, err)
	assert.Len(t, s.ID(), 26)

	require.NoError(t, s.RecordPress(ctx, 'A', 'B', "AAB"))
	require.NoError(t, s.RecordPress(ctx, 'A', 'D', "AAC"))
	require.NoError(t, s.RecordReset(ctx, "AAA"))
	require.NoError(t, s.RecordText(ctx, "ENIGMA", "FQGAHW", []string{"AAB", "AAC", "AAD", "AAE", "AAF", "AAG"}))
	require.NoError(t, s.End(ctx))

	tr, err := j.Transcript(ctx, s.ID())
	require.NoError(t, err)

	assert.Equal(t, s.ID(), tr.Session.ID)
	assert.Equal(t, info, tr.Session.SessionInfo)
	assert.Equal(t, 8, tr.Session.Presses)
	require.NotNil(t, tr.Session.EndedAt)
	assert.True(t, tr.Session.EndedAt.After(tr.Session.StartedAt))

	require.Len(t, tr.Entries, 9)
	assert.Equal(t, Entry{Seq: 1, Kind: EntryPress, Input: 'A', Output: 'B', Positions: "AAB", At: tr.Entries[0].At}, tr.Entries[0])
	assert.Equal(t, EntryReset, tr.Entries[2].Kind)
	assert.Equal(t, "AAA", tr.Entries[2].Positions)
	assert.Equal(t, "AAG", tr.Entries[8].Positions)

	assert.Equal(t, "ENIGMA", tr.Input())
	assert.Equal(t, "FQGAHW", tr.Output())
}

func TestEndedSessionRejectsWrites(t *testing.T) {
	ctx := context.Background()
	j := openTest(t)

	s, err := j.BeginSession(ctx, info)
	require.NoError(t, err)
	require.NoError(t, s.End(ctx))
	require.NoError(t, s.End(ctx))

	assert.ErrorIs(t, s.RecordPress(ctx, 'A', 'B', "AAB"), ErrSessionEnded)
	assert.ErrorIs(t, s.RecordReset(ctx, "AAA"), ErrSessionEnded)
	assert.ErrorIs(t, s.RecordText(ctx, "A", "B", []string{"AAB"}), ErrSessionEnded)
}

func TestRecordTextLengthMismatch(t *testing.T) {
	ctx := context.Background()
	j := openTest(t)

	s, err := j.BeginSession(ctx, info)
	require.NoError(t, err)
	assert.Error(t, s.RecordText(ctx, "AB", "C", []string{"AAB", "AAC"}))

	tr, err := j.Transcript(ctx, s.ID())
	require.NoError(t, err)
	assert.Empty(t, tr.Entries)
}

func TestListSessions(t *testing.T) {
	ctx := context.Background()
	j := openTest(t)
	fixedClock(j)

	var ids []string
	for i, mode := range []Mode{ModeConsole, ModeEncode, ModeConsole} {
		si := info
		si.Mode = mode
		s, err := j.BeginSession(ctx, si)
		require.NoError(t, err)
		for k := 0; k <= i; k++ {
			require.NoError(t, s.RecordPress(ctx, 'A', 'B', "AAB"))
		}
		ids = append(ids, s.ID())
	}

	all, err := j.ListSessions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, 3, all[0].Presses)
	assert.Equal(t, ModeEncode, all[1].Mode)
	assert.Nil(t, all[0].EndedAt)

	recent, err := j.ListSessions(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
	assert.Equal(t, ids[2], recent[0].ID)
}

func TestTranscriptErrors(t *testing.T) {
	ctx := context.Background()
	j := openTest(t)

	_, err := j.Transcript(ctx, "not-a-ulid")
	assert.ErrorIs(t, err, ErrInvalidSessionID)

	_, err = j.Transcript(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteSession(t *testing.T) {
	ctx := context.Background()
	j := openTest(t)

	s, err := j.BeginSession(ctx, info)
	require.NoError(t, err)
	require.NoError(t, s.RecordPress(ctx, 'A', 'B', "AAB"))

	require.NoError(t, j.DeleteSession(ctx, s.ID()))
	_, err = j.Transcript(ctx, s.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, j.DeleteSession(ctx, s.ID()), ErrSessionNotFound)
}

func TestSessionsPersistAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(path)
	require.NoError(t, err)
	s, err := j.BeginSession(ctx, info)
	require.NoError(t, err)
	require.NoError(t, s.RecordPress(ctx, 'H', 'P', "EHS"))
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()

	tr, err := j.Transcript(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, "H", tr.Input())
	assert.Equal(t, "P", tr.Output())
}
