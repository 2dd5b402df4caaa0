// Package store persists sessions, conversation history, and generated
// files in SQLite.
//
// The store is the durable mirror of each session's workspace: the
// sandbox holds the live files, the store holds the copy that survives
// restarts and feeds exports. File listings are cached per session in a
// small LRU that is invalidated on every write.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ErrNotFound is returned when a session, message, or file does not exist.
var ErrNotFound = errors.New("store: not found")

// fileListCacheSize bounds the per-session file-listing cache.
const fileListCacheSize = 128

// ─── Types ───────────────────────────────────────────────────────────────────

// Session is a persisted app-building session.
type Session struct {
	ID           string `json:"id"`
	AppName      string `json:"app_name"`
	PreviewURL   string `json:"preview_url"`
	Architecture string `json:"architecture"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// SessionInfo is a session with its message and file counts, used by
// listings and the health endpoint.
type SessionInfo struct {
	Session
	MessageCount int `json:"message_count"`
	FileCount    int `json:"file_count"`
}

// Message is one turn of a session's conversation.
type Message struct {
	ID        int64  `json:"id"`
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// File is a generated file row.
type File struct {
	SessionID string `json:"session_id"`
	Path      string `json:"path"`
	Content   string `json:"content"`
	UpdatedAt string `json:"updated_at"`
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store wraps the SQLite database and the file-listing cache.
type Store struct {
	db        *sql.DB
	fileLists *lru.Cache[string, []string]

	// writeSeq orders file writes. Timestamps have one-second
	// granularity, too coarse for the recency ranking when the agent
	// writes several files in a burst.
	writeSeq atomic.Int64
}

// New opens (or creates) the database at path, applies the performance
// pragmas, and runs migrations. The parent directory is created if
// needed.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("store: create data dir: %w", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	cache, err := lru.New[string, []string](fileListCacheSize)
	if err != nil {
		return nil, fmt.Errorf("store: file cache: %w", err)
	}

	s := &Store{db: db, fileLists: cache}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("store: migration: %w", err)
	}

	var maxSeq int64
	if err := db.QueryRow(`SELECT COALESCE(MAX(write_seq), 0) FROM files`).Scan(&maxSeq); err != nil {
		return nil, fmt.Errorf("store: read write sequence: %w", err)
	}
	s.writeSeq.Store(maxSeq)

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id           TEXT PRIMARY KEY,
			app_name     TEXT NOT NULL,
			preview_url  TEXT NOT NULL DEFAULT '',
			architecture TEXT NOT NULL DEFAULT '',
			created_at   TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at   TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS messages (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			role       TEXT NOT NULL,
			content    TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_messages_session
			ON messages(session_id, id);

		CREATE TABLE IF NOT EXISTS files (
			session_id TEXT NOT NULL,
			path       TEXT NOT NULL,
			content    TEXT NOT NULL,
			write_seq  INTEGER NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now')),
			PRIMARY KEY (session_id, path),
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_files_recency
			ON files(session_id, write_seq DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ─── Sessions ────────────────────────────────────────────────────────────────

// CreateSession inserts a new session row.
func (s *Store) CreateSession(id, appName string) error {
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, app_name) VALUES (?, ?)`,
		id, appName,
	)
	if err != nil {
		return fmt.Errorf("store: create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(id string) (*Session, error) {
	row := s.db.QueryRow(
		`SELECT id, app_name, preview_url, architecture, created_at, updated_at
		 FROM sessions WHERE id = ?`, id,
	)
	var sess Session
	err := row.Scan(&sess.ID, &sess.AppName, &sess.PreviewURL, &sess.Architecture,
		&sess.CreatedAt, &sess.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get session: %w", err)
	}
	return &sess, nil
}

// ListSessions returns all sessions, newest first, with counts.
func (s *Store) ListSessions() ([]SessionInfo, error) {
	rows, err := s.db.Query(`
		SELECT s.id, s.app_name, s.preview_url, s.architecture, s.created_at, s.updated_at,
		       COUNT(DISTINCT m.id) AS message_count,
		       COUNT(DISTINCT f.path) AS file_count
		FROM sessions s
		LEFT JOIN messages m ON m.session_id = s.id
		LEFT JOIN files f ON f.session_id = s.id
		GROUP BY s.id
		ORDER BY datetime(s.created_at) DESC, s.id`)
	if err != nil {
		return nil, fmt.Errorf("store: list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []SessionInfo
	for rows.Next() {
		var info SessionInfo
		if err := rows.Scan(&info.ID, &info.AppName, &info.PreviewURL, &info.Architecture,
			&info.CreatedAt, &info.UpdatedAt, &info.MessageCount, &info.FileCount); err != nil {
			return nil, err
		}
		results = append(results, info)
	}
	return results, rows.Err()
}

// DeleteSession removes a session and, via cascade, its messages and
// files.
func (s *Store) DeleteSession(id string) error {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete session: %w", err)
	}
	s.fileLists.Remove(id)
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchSession bumps a session's updated_at, which feeds the idle reaper.
func (s *Store) TouchSession(id string) error {
	_, err := s.db.Exec(
		`UPDATE sessions SET updated_at = datetime('now') WHERE id = ?`, id,
	)
	return err
}

// SetArchitecture stores the generated architecture document.
func (s *Store) SetArchitecture(id, architecture string) error {
	return s.updateSessionField(id, "architecture", architecture)
}

// SetPreviewURL stores the sandbox preview address.
func (s *Store) SetPreviewURL(id, url string) error {
	return s.updateSessionField(id, "preview_url", url)
}

// SetAppName renames the session's app.
func (s *Store) SetAppName(id, name string) error {
	return s.updateSessionField(id, "app_name", name)
}

func (s *Store) updateSessionField(id, column, value string) error {
	// column comes from the fixed callers above, never from input.
	res, err := s.db.Exec(
		`UPDATE sessions SET `+column+` = ?, updated_at = datetime('now') WHERE id = ?`,
		value, id,
	)
	if err != nil {
		return fmt.Errorf("store: update session %s: %w", column, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountSessions returns the total number of sessions.
func (s *Store) CountSessions() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count sessions: %w", err)
	}
	return n, nil
}

// IdleSessions returns the IDs of sessions whose updated_at is older
// than the given age.
func (s *Store) IdleSessions(age time.Duration) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT id FROM sessions WHERE datetime(updated_at) < datetime('now', ?)`,
		ageExpression(age),
	)
	if err != nil {
		return nil, fmt.Errorf("store: idle sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ─── Messages ────────────────────────────────────────────────────────────────

// AddMessage appends one conversation turn and touches the session.
func (s *Store) AddMessage(sessionID, role, content string) error {
	if _, err := s.GetSession(sessionID); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`INSERT INTO messages (session_id, role, content) VALUES (?, ?, ?)`,
		sessionID, role, content,
	)
	if err != nil {
		return fmt.Errorf("store: add message: %w", err)
	}
	return s.TouchSession(sessionID)
}

// Messages returns a session's conversation in chronological order.
// limit <= 0 returns everything; otherwise the most recent limit turns,
// still oldest first.
func (s *Store) Messages(sessionID string, limit int) ([]Message, error) {
	query := `SELECT id, session_id, role, content, created_at
	          FROM messages WHERE session_id = ? ORDER BY id`
	args := []any{sessionID}
	if limit > 0 {
		query = `SELECT id, session_id, role, content, created_at FROM (
		             SELECT id, session_id, role, content, created_at
		             FROM messages WHERE session_id = ? ORDER BY id DESC LIMIT ?
		         ) ORDER BY id`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// ─── Files ───────────────────────────────────────────────────────────────────

// SaveFile upserts a generated file and invalidates the session's
// cached listing.
func (s *Store) SaveFile(sessionID, path, content string) error {
	if _, err := s.GetSession(sessionID); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`INSERT INTO files (session_id, path, content, write_seq) VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id, path)
		 DO UPDATE SET content = excluded.content,
		               write_seq = excluded.write_seq,
		               updated_at = datetime('now')`,
		sessionID, path, content, s.writeSeq.Add(1),
	)
	if err != nil {
		return fmt.Errorf("store: save file: %w", err)
	}
	s.fileLists.Remove(sessionID)
	return s.TouchSession(sessionID)
}

// GetFile returns one file's content.
func (s *Store) GetFile(sessionID, path string) (string, error) {
	var content string
	err := s.db.QueryRow(
		`SELECT content FROM files WHERE session_id = ? AND path = ?`,
		sessionID, path,
	).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("store: get file: %w", err)
	}
	return content, nil
}

// ListFiles returns a session's file paths in lexicographic order.
// Results are cached until the next write to the session.
func (s *Store) ListFiles(sessionID string) ([]string, error) {
	if paths, ok := s.fileLists.Get(sessionID); ok {
		return paths, nil
	}

	rows, err := s.db.Query(
		`SELECT path FROM files WHERE session_id = ? ORDER BY path`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	paths := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.fileLists.Add(sessionID, paths)
	return paths, nil
}

// AllFiles returns path -> content for a whole session.
func (s *Store) AllFiles(sessionID string) (map[string]string, error) {
	rows, err := s.db.Query(
		`SELECT path, content FROM files WHERE session_id = ?`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: all files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	files := map[string]string{}
	for rows.Next() {
		var path, content string
		if err := rows.Scan(&path, &content); err != nil {
			return nil, err
		}
		files[path] = content
	}
	return files, rows.Err()
}

// RecentFiles returns up to limit paths ordered newest write first,
// which seeds the relevance scorer's recency signal after a restart.
func (s *Store) RecentFiles(sessionID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT path FROM files WHERE session_id = ?
		 ORDER BY write_seq DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: recent files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func ageExpression(age time.Duration) string {
	if age <= 0 {
		age = time.Hour
	}
	minutes := int(age.Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return "-" + strconv.Itoa(minutes) + " minutes"
}
