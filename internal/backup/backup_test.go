package backup

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/dearme/internal/constants"
	"github.com/julianstephens/dearme/internal/models"
	"github.com/julianstephens/dearme/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "dearme.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	defer store.Close()

	addJournal(t, store, "first")
	return dbPath
}

func addJournal(t *testing.T, store *sqlite.Store, text string) {
	t.Helper()
	_, err := store.CreateDocument(context.Background(), constants.CollectionJournals, "u1", models.JournalEntry{Entry: text})
	if err != nil {
		t.Fatalf("failed to add journal: %v", err)
	}
}

func countJournals(t *testing.T, dbPath string) int {
	t.Helper()
	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	defer store.Close()

	docs, err := store.QueryDocuments(context.Background(), constants.CollectionJournals, "u1")
	if err != nil {
		t.Fatalf("failed to query journals: %v", err)
	}
	return len(docs)
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	path, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if filepath.Dir(path) != filepath.Join(filepath.Dir(dbPath), constants.BackupDirName) {
		t.Errorf("backup written to unexpected directory: %s", path)
	}
	name := filepath.Base(path)
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		t.Errorf("unexpected backup name: %s", name)
	}
	if got := countJournals(t, path); got != 1 {
		t.Errorf("backup has %d journals, want 1", got)
	}
}

func TestCreateMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Fatal("expected error for missing database")
	}
}

func TestCreateSameSecondGetsSequence(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	mgr.now = fixedClock(time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local))

	first, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if filepath.Base(first) != "dearme-20240301-093000.db" {
		t.Errorf("first = %s", filepath.Base(first))
	}
	if filepath.Base(second) != "dearme-20240301-093000-1.db" {
		t.Errorf("second = %s", filepath.Base(second))
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 2 || backups[0].Path != second {
		t.Errorf("expected newest sequence first, got %+v", backups)
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if err := os.MkdirAll(mgr.Dir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "dearme-bad.db", "dearme-20240301-093000.db.tmp"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %d", len(backups))
	}
}

func TestListWithoutDirectory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "dearme.db"))
	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected empty list, got %d", len(backups))
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.keep = 3

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	var paths []string
	for i := 0; i < 5; i++ {
		mgr.now = fixedClock(start.Add(time.Duration(i) * time.Hour))
		path, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
		paths = append(paths, path)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups after rotation, got %d", len(backups))
	}
	for i, want := range []string{paths[4], paths[3], paths[2]} {
		if backups[i].Path != want {
			t.Errorf("backups[%d] = %s, want %s", i, backups[i].Path, want)
		}
	}
	if _, err := os.Stat(paths[0]); !os.IsNotExist(err) {
		t.Errorf("oldest backup should have been removed")
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = fixedClock(time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local))

	snapshot, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	addJournal(t, store, "second")
	store.Close()
	if got := countJournals(t, dbPath); got != 2 {
		t.Fatalf("expected 2 journals before restore, got %d", got)
	}

	mgr.now = fixedClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local))
	safety, err := mgr.Restore(snapshot)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if got := countJournals(t, dbPath); got != 1 {
		t.Errorf("expected 1 journal after restore, got %d", got)
	}
	if safety == "" {
		t.Fatal("expected a pre-restore backup")
	}
	if got := countJournals(t, safety); got != 2 {
		t.Errorf("pre-restore backup has %d journals, want 2", got)
	}
	if _, err := os.Stat(dbPath + ".restore.tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary restore file left behind")
	}
}

func TestRestoreRejectsInvalidBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.Restore(bogus); err == nil {
		t.Fatal("expected error for invalid backup")
	}
	if _, err := mgr.Restore(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Fatal("expected error for missing backup")
	}
	if got := countJournals(t, dbPath); got != 1 {
		t.Errorf("database changed after failed restore: %d journals", got)
	}
}
