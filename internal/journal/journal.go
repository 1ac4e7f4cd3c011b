package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
)

var (
	// ErrSessionNotFound indicates a transcript lookup for an unknown session.
	ErrSessionNotFound = errors.New("journal: session not found")

	// ErrInvalidSessionID indicates a session ID that is not a ULID.
	ErrInvalidSessionID = errors.New("journal: invalid session id")

	// ErrSessionEnded indicates a write to a session that has been ended.
	ErrSessionEnded = errors.New("journal: session ended")
)

// Schema for the session journal.
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id              TEXT PRIMARY KEY,
    started_at      INTEGER NOT NULL,
    ended_at        INTEGER,
    mode            TEXT NOT NULL,
    rotors          TEXT NOT NULL,
    rings           TEXT NOT NULL,
    reflector       TEXT NOT NULL,
    plugboard       TEXT NOT NULL,
    start_positions TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at);

CREATE TABLE IF NOT EXISTS presses (
    session_id  TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    seq         INTEGER NOT NULL,
    kind        TEXT NOT NULL,
    input       TEXT NOT NULL,
    output      TEXT NOT NULL,
    positions   TEXT NOT NULL,
    pressed_at  INTEGER NOT NULL,
    PRIMARY KEY (session_id, seq)
);
`

// Journal is the SQLite session store.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the journal database at the given path.
func Open(path string) (*Journal, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Journal{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Session records the events of one machine session. It is safe for
// concurrent use.
type Session struct {
	j     *Journal
	id    string
	mu    sync.Mutex
	seq   int
	ended bool
}

// BeginSession stores a new session and returns a handle for recording
// into it.
func (j *Journal) BeginSession(ctx context.Context, info SessionInfo) (*Session, error) {
	now := j.now()
	id := ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO sessions (id, started_at, mode, rotors, rings, reflector, plugboard, start_positions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, now.UnixNano(), string(info.Mode), info.Rotors, info.Rings, info.Reflector, info.Plugboard, info.StartPositions,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	return &Session{j: j, id: id}, nil
}

// ID returns the session's ULID.
func (s *Session) ID() string { return s.id }

// RecordPress appends one key press and the window letters after it.
func (s *Session) RecordPress(ctx context.Context, input, output rune, positions string) error {
	return s.record(ctx, EntryPress, string(input), string(output), positions)
}

// RecordReset appends a reset marker.
func (s *Session) RecordReset(ctx context.Context, positions string) error {
	return s.record(ctx, EntryReset, "", "", positions)
}

func (s *Session) record(ctx context.Context, kind EntryKind, input, output, positions string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return ErrSessionEnded
	}

	_, err := s.j.db.ExecContext(ctx, `
		INSERT INTO presses (session_id, seq, kind, input, output, positions, pressed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.id, s.seq+1, string(kind), input, output, positions, s.j.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert %s: %w", kind, err)
	}
	s.seq++
	return nil
}

// RecordText appends a run of presses in one transaction. positions[i] is
// the window after the i-th press.
func (s *Session) RecordText(ctx context.Context, input, output string, positions []string) error {
	in, out := []rune(input), []rune(output)
	if len(in) != len(out) || len(in) != len(positions) {
		return fmt.Errorf("record text: %d inputs, %d outputs, %d positions", len(in), len(out), len(positions))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return ErrSessionEnded
	}

	tx, err := s.j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO presses (session_id, seq, kind, input, output, positions, pressed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	at := s.j.now().UnixNano()
	for i := range in {
		if _, err := stmt.ExecContext(ctx, s.id, s.seq+i+1, string(EntryPress), string(in[i]), string(out[i]), positions[i], at); err != nil {
			return fmt.Errorf("insert press: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.seq += len(in)
	return nil
}

// End marks the session finished. Further writes fail with ErrSessionEnded.
func (s *Session) End(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return nil
	}
	if _, err := s.j.db.ExecContext(ctx, `UPDATE sessions SET ended_at = ? WHERE id = ?`, s.j.now().UnixNano(), s.id); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	s.ended = true
	return nil
}

const summaryColumns = `
	s.id, s.started_at, s.ended_at, s.mode, s.rotors, s.rings, s.reflector, s.plugboard, s.start_positions,
	(SELECT COUNT(*) FROM presses p WHERE p.session_id = s.id AND p.kind = 'press')`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSummary(row rowScanner) (SessionSummary, error) {
	var (
		sum     SessionSummary
		started int64
		ended   sql.NullInt64
		mode    string
	)
	err := row.Scan(&sum.ID, &started, &ended, &mode, &sum.Rotors, &sum.Rings, &sum.Reflector,
		&sum.Plugboard, &sum.StartPositions, &sum.Presses)
	if err != nil {
		return SessionSummary{}, err
	}
	sum.StartedAt = time.Unix(0, started)
	if ended.Valid {
		t := time.Unix(0, ended.Int64)
		sum.EndedAt = &t
	}
	sum.Mode = Mode(mode)
	return sum, nil
}

// ListSessions returns the most recent sessions, newest first. limit <= 0
// returns every session.
func (j *Journal) ListSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM sessions s ORDER BY s.started_at DESC, s.id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionSummary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sum)
	}
	return sessions, rows.Err()
}

// Transcript loads a session and its entries in order.
func (j *Journal) Transcript(ctx context.Context, id string) (*Transcript, error) {
	if _, err := ulid.ParseStrict(id); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}

	row := j.db.QueryRowContext(ctx, `SELECT `+summaryColumns+` FROM sessions s WHERE s.id = ?`, id)
	sum, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, kind, input, output, positions, pressed_at
		FROM presses WHERE session_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("query presses: %w", err)
	}
	defer rows.Close()

	t := &Transcript{Session: sum}
	for rows.Next() {
		var (
			e             Entry
			kind, in, out string
			at            int64
		)
		if err := rows.Scan(&e.Seq, &kind, &in, &out, &e.Positions, &at); err != nil {
			return nil, fmt.Errorf("scan press: %w", err)
		}
		e.Kind = EntryKind(kind)
		e.Input = firstRune(in)
		e.Output = firstRune(out)
		e.At = time.Unix(0, at)
		t.Entries = append(t.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteSession removes a session and its entries.
func (j *Journal) DeleteSession(ctx context.Context, id string) error {
	res, err := j.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
