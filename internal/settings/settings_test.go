package settings

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return string(data)
}

func TestLoad_MissingFileCreatesPlaceholders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "settings.jin")
	s := NewStore(path)

	created, err := s.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !created {
		t.Fatalf("created = false, want true")
	}
	want := "CHANNELS=NONE\nSYSTEMS=NONE\nCHARACTERS=NONE\n"
	if got := readFile(t, path); got != want {
		t.Fatalf("settings file = %q, want %q", got, want)
	}
	snap := s.Snapshot()
	if len(snap.Channels)+len(snap.Systems)+len(snap.Characters) != 0 {
		t.Fatalf("Snapshot = %#v, want empty lists", snap)
	}

	// Loading again treats NONE as empty and appends nothing.
	created, err = s.Load()
	if err != nil || created {
		t.Fatalf("second Load = %v, %v; want false, nil", created, err)
	}
	if got := readFile(t, path); got != want {
		t.Fatalf("settings file after reload = %q, want %q", got, want)
	}
}

func TestLoad_ParsesListsAndAppendsMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.jin")
	if err := os.WriteFile(path, []byte("CHANNELS=Local;Alliance;\r\nSYSTEMS=Jita;;Amarr\n\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	s := NewStore(path)
	if _, err := s.Load(); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	snap := s.Snapshot()
	if !reflect.DeepEqual(snap.Channels, []string{"Local", "Alliance"}) {
		t.Fatalf("Channels = %#v", snap.Channels)
	}
	if !reflect.DeepEqual(snap.Systems, []string{"Jita", "Amarr"}) {
		t.Fatalf("Systems = %#v", snap.Systems)
	}
	if snap.Characters != nil {
		t.Fatalf("Characters = %#v, want nil", snap.Characters)
	}
	if got := readFile(t, path); !strings.HasSuffix(got, "CHARACTERS=NONE\n") {
		t.Fatalf("settings file = %q, want CHARACTERS placeholder appended", got)
	}
	if strings.Count(readFile(t, path), "CHANNELS=") != 1 {
		t.Fatalf("restored category was appended again")
	}
}

func TestLoad_UnknownCategoryFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.jin")
	if err := os.WriteFile(path, []byte("CHANNELS=Local;\nSHIPS=Rifter;\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	s := NewStore(path)
	_, err := s.Load()
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("Load error = %v, want ErrUnknownCategory", err)
	}
	if snap := s.Snapshot(); snap.Channels != nil {
		t.Fatalf("Channels = %#v, want unchanged after failed load", snap.Channels)
	}
}

func TestMutationsPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.jin")
	s := NewStore(path)
	if _, err := s.Load(); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	idx, err := s.Add(Systems)
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if idx != 0 {
		t.Fatalf("Add index = %d, want 0", idx)
	}
	if err := s.Set(Systems, idx, "Jita"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if _, err := s.Add(Systems); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if err := s.Set(Systems, 1, "Amarr"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if _, err := s.Add(Channels); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	want := "CHANNELS=New Channel;\nSYSTEMS=Jita;Amarr;\nCHARACTERS=\n"
	if got := readFile(t, path); got != want {
		t.Fatalf("settings file = %q, want %q", got, want)
	}

	if err := s.Remove(Systems, 0); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	reloaded := NewStore(path)
	if _, err := reloaded.Load(); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	snap := reloaded.Snapshot()
	if !reflect.DeepEqual(snap.Systems, []string{"Amarr"}) {
		t.Fatalf("Systems = %#v, want [Amarr]", snap.Systems)
	}
	if !reflect.DeepEqual(snap.Channels, []string{"New Channel"}) {
		t.Fatalf("Channels = %#v, want [New Channel]", snap.Channels)
	}
}

func TestSet_BlankRemovesAndInvalidRejected(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "settings.jin"))
	if _, err := s.Load(); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if _, err := s.Add(Characters); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	if err := s.Set(Characters, 0, "a;b"); !errors.Is(err, ErrInvalidTerm) {
		t.Fatalf("Set with separator error = %v, want ErrInvalidTerm", err)
	}
	if err := s.Set(Characters, 3, "Bob"); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Set out of range error = %v, want ErrOutOfRange", err)
	}
	if err := s.Set(Characters, 0, "   "); err != nil {
		t.Fatalf("Set blank returned error: %v", err)
	}
	if got := s.Snapshot().Characters; len(got) != 0 {
		t.Fatalf("Characters = %#v, want empty", got)
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "settings.jin"))
	if _, err := s.Load(); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if _, err := s.Add(Characters); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	snap := s.Snapshot()
	snap.Characters[0] = "mutated"
	if got := s.Snapshot().Characters[0]; got != "New Character" {
		t.Fatalf("Snapshot should clone lists; got %q", got)
	}

	wl := s.Snapshot().Watchlist()
	if !reflect.DeepEqual(wl.Characters, []string{"New Character"}) || wl.Systems != nil {
		t.Fatalf("Watchlist = %#v", wl)
	}
}

func TestPersistFailureIsReported(t *testing.T) {
	dir := t.TempDir()
	// The store path is a directory, so the rename over it fails.
	path := filepath.Join(dir, "settings.jin")
	if err := os.MkdirAll(filepath.Join(path, "child"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	s := NewStore(path)
	if _, err := s.Add(Systems); err == nil || !strings.Contains(err.Error(), "persist settings") {
		t.Fatalf("Add error = %v, want persist settings error", err)
	}
	if got := s.Snapshot().Systems; len(got) != 1 {
		t.Fatalf("Systems = %v, want the entry kept in memory", got)
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, err := ParseCategory(c.Key())
		if err != nil || got != c {
			t.Fatalf("ParseCategory(%q) = %v, %v; want %v", c.Key(), got, err, c)
		}
	}
	if _, err := ParseCategory("channels"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("ParseCategory(lowercase) error = %v, want ErrUnknownCategory", err)
	}
}
