package library

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"streamdock/internal/media"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAddAssignsIdentity(t *testing.T) {
	store := openTestStore(t)

	saved, err := store.Add(media.LibraryVideo{
		Title: "First",
		URL:   "https://cdn.example.com/a.m3u8",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if saved.ID == "" {
		t.Error("ID not assigned")
	}
	if saved.DateAdded.IsZero() {
		t.Error("DateAdded not assigned")
	}
	if saved.Tags == nil {
		t.Error("Tags is nil, want empty slice")
	}

	got, err := store.Get(saved.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "First" || got.URL != "https://cdn.example.com/a.m3u8" {
		t.Errorf("Get = %+v", got)
	}
}

func TestAddIgnoresClientIdentity(t *testing.T) {
	store := openTestStore(t)

	saved, err := store.Add(media.LibraryVideo{
		ID:            "client-chosen",
		Title:         "X",
		URL:           "https://cdn.example.com/x.mp4",
		WatchProgress: 7, // out of range, reset on insert
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if saved.ID == "client-chosen" {
		t.Error("client-supplied ID was kept")
	}
	if saved.WatchProgress != 0 {
		t.Errorf("WatchProgress = %v, want 0", saved.WatchProgress)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openTestStore(t)

	var ids []string
	for _, title := range []string{"one", "two", "three"} {
		saved, err := store.Add(media.LibraryVideo{Title: title, URL: "https://e.com/" + title})
		if err != nil {
			t.Fatalf("Add %s: %v", title, err)
		}
		ids = append(ids, saved.ID)
	}

	videos, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(videos) != 3 {
		t.Fatalf("List returned %d videos, want 3", len(videos))
	}
	// Inserted within the same second; insertion order still decides.
	if videos[0].ID != ids[2] || videos[2].ID != ids[0] {
		t.Errorf("List order = [%s %s %s], want newest first", videos[0].Title, videos[1].Title, videos[2].Title)
	}
}

func TestListEmpty(t *testing.T) {
	store := openTestStore(t)

	videos, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if videos == nil {
		t.Error("List = nil, want empty slice")
	}
	if len(videos) != 0 {
		t.Errorf("List returned %d videos, want 0", len(videos))
	}
}

func TestUpdatePartial(t *testing.T) {
	store := openTestStore(t)

	saved, err := store.Add(media.LibraryVideo{Title: "Before", URL: "https://e.com/v"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	title := "After"
	progress := 0.5
	tags := []string{"docu", "keep"}
	if err := store.Update(saved.ID, Updates{Title: &title, WatchProgress: &progress, Tags: &tags}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := store.Get(saved.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "After" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.WatchProgress != 0.5 {
		t.Errorf("WatchProgress = %v", got.WatchProgress)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "docu" {
		t.Errorf("Tags = %v", got.Tags)
	}
	if got.URL != "https://e.com/v" {
		t.Errorf("URL changed to %q", got.URL)
	}
	if !got.DateAdded.Equal(saved.DateAdded.Truncate(time.Second)) {
		t.Errorf("DateAdded changed: %v -> %v", saved.DateAdded, got.DateAdded)
	}
}

func TestUpdateClampsProgress(t *testing.T) {
	store := openTestStore(t)

	saved, err := store.Add(media.LibraryVideo{Title: "V", URL: "https://e.com/v"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	over := 1.7
	if err := store.Update(saved.ID, Updates{WatchProgress: &over}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := store.Get(saved.ID)
	if got.WatchProgress != 1 {
		t.Errorf("WatchProgress = %v, want clamped to 1", got.WatchProgress)
	}

	under := -0.3
	if err := store.Update(saved.ID, Updates{WatchProgress: &under}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ = store.Get(saved.ID)
	if got.WatchProgress != 0 {
		t.Errorf("WatchProgress = %v, want clamped to 0", got.WatchProgress)
	}
}

func TestUpdateNotFound(t *testing.T) {
	store := openTestStore(t)

	title := "x"
	if err := store.Update("missing", Updates{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update error = %v, want ErrNotFound", err)
	}
	// Empty patch against a missing id still reports not found.
	if err := store.Update("missing", Updates{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty Update error = %v, want ErrNotFound", err)
	}
}

func TestSetProgress(t *testing.T) {
	store := openTestStore(t)

	saved, err := store.Add(media.LibraryVideo{Title: "V", URL: "https://e.com/v"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := store.SetProgress(saved.ID, 0.42); err != nil {
		t.Fatalf("SetProgress: %v", err)
	}
	got, _ := store.Get(saved.ID)
	if got.WatchProgress != 0.42 {
		t.Errorf("WatchProgress = %v, want 0.42", got.WatchProgress)
	}
}

func TestDelete(t *testing.T) {
	store := openTestStore(t)

	saved, err := store.Add(media.LibraryVideo{Title: "V", URL: "https://e.com/v"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := store.Delete(saved.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(saved.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
	if err := store.Delete(saved.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	saved, err := store.Add(media.LibraryVideo{Title: "Persist", URL: "https://e.com/p"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer store.Close()

	got, err := store.Get(saved.ID)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got.Title != "Persist" {
		t.Errorf("Title = %q", got.Title)
	}
}
