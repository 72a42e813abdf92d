// Package library persists saved videos in a local SQLite database.
// Records are owned exclusively by the store; the extraction pipeline only
// hands results to callers, which decide whether to save them here.
package library

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"streamdock/internal/media"
)

// ErrNotFound is returned by Update and Delete when the target id is absent.
var ErrNotFound = errors.New("video not found")

// Store manages the SQLite database of saved videos.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates or opens the library database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating library dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening library database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS videos (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			thumbnail TEXT,
			source TEXT,
			date_added INTEGER NOT NULL,
			watch_progress REAL NOT NULL DEFAULT 0,
			tags TEXT,
			folder_id TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_videos_date_added ON videos(date_added DESC);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating videos table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Add inserts a new record, assigning its id and dateAdded. DateAdded is
// immutable after insert. The populated record is returned.
func (s *Store) Add(v media.LibraryVideo) (media.LibraryVideo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v.ID = uuid.NewString()
	v.DateAdded = time.Now().UTC()
	if v.WatchProgress < 0 || v.WatchProgress > 1 {
		v.WatchProgress = 0
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}

	tags, err := json.Marshal(v.Tags)
	if err != nil {
		return media.LibraryVideo{}, fmt.Errorf("encoding tags: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO videos (id, title, url, thumbnail, source, date_added, watch_progress, tags, folder_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		v.ID, v.Title, v.URL, v.Thumbnail, v.Source,
		v.DateAdded.Unix(), v.WatchProgress, string(tags), v.FolderID,
	)
	if err != nil {
		return media.LibraryVideo{}, fmt.Errorf("inserting video: %w", err)
	}

	return v, nil
}

// List returns all saved videos, newest first.
func (s *Store) List() ([]media.LibraryVideo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, title, url, thumbnail, source, date_added, watch_progress, tags, folder_id
		FROM videos
		ORDER BY date_added DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying videos: %w", err)
	}
	defer rows.Close()

	videos := make([]media.LibraryVideo, 0)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}

	return videos, rows.Err()
}

// Get returns a single record by id.
func (s *Store) Get(id string) (media.LibraryVideo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, title, url, thumbnail, source, date_added, watch_progress, tags, folder_id
		FROM videos WHERE id = ?
	`, id)

	v, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return media.LibraryVideo{}, ErrNotFound
	}
	return v, err
}

// Updates is a partial patch of mutable record fields. Nil fields are left
// untouched; dateAdded cannot be changed.
type Updates struct {
	Title         *string   `json:"title"`
	WatchProgress *float64  `json:"watchProgress"`
	Tags          *[]string `json:"tags"`
	FolderID      *string   `json:"folderId"`
}

// Update applies a partial patch to an existing record.
func (s *Store) Update(id string, u Updates) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		sets []string
		args []any
	)
	if u.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *u.Title)
	}
	if u.WatchProgress != nil {
		p := clampFraction(*u.WatchProgress)
		sets = append(sets, "watch_progress = ?")
		args = append(args, p)
	}
	if u.Tags != nil {
		tags, err := json.Marshal(*u.Tags)
		if err != nil {
			return fmt.Errorf("encoding tags: %w", err)
		}
		sets = append(sets, "tags = ?")
		args = append(args, string(tags))
	}
	if u.FolderID != nil {
		sets = append(sets, "folder_id = ?")
		args = append(args, *u.FolderID)
	}
	if len(sets) == 0 {
		// Nothing to change, but the id must still exist.
		var exists int
		err := s.db.QueryRow("SELECT 1 FROM videos WHERE id = ?", id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	args = append(args, id)
	result, err := s.db.Exec(
		"UPDATE videos SET "+joinSets(sets)+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("updating video: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// SetProgress records the playback progress fraction for a video.
func (s *Store) SetProgress(id string, fraction float64) error {
	f := clampFraction(fraction)
	return s.Update(id, Updates{WatchProgress: &f})
}

// Delete removes a record by id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec("DELETE FROM videos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting video: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (media.LibraryVideo, error) {
	var (
		v         media.LibraryVideo
		thumbnail sql.NullString
		source    sql.NullString
		tags      sql.NullString
		folderID  sql.NullString
		added     int64
	)

	err := row.Scan(&v.ID, &v.Title, &v.URL, &thumbnail, &source, &added, &v.WatchProgress, &tags, &folderID)
	if err != nil {
		return media.LibraryVideo{}, err
	}

	v.Thumbnail = thumbnail.String
	v.Source = source.String
	v.FolderID = folderID.String
	v.DateAdded = time.Unix(added, 0).UTC()
	v.Tags = []string{}
	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &v.Tags); err != nil {
			v.Tags = []string{}
		}
	}

	return v, nil
}

func clampFraction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func joinSets(sets []string) string {
	out := sets[0]
	for _, s := range sets[1:] {
		out += ", " + s
	}
	return out
}
