// Package settings persists the channel and watch-term lists.
//
// The file holds one line per category:
//
//	CHANNELS=Local;Alliance;
//	SYSTEMS=Jita;Amarr;
//	CHARACTERS=Bob;
//
// A category missing from the file is appended as CATEGORY=NONE after
// loading; NONE on its own stands for an empty list.
package settings

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/five82/intelwatch/internal/match"
)

// Category names one of the editable lists.
type Category int

const (
	Channels Category = iota
	Systems
	Characters
)

// Categories lists every category in file order.
var Categories = []Category{Channels, Systems, Characters}

const (
	placeholder = "NONE"
	separator   = ";"
)

var (
	ErrUnknownCategory = errors.New("unknown settings category")
	ErrOutOfRange      = errors.New("index out of range")
	ErrInvalidTerm     = errors.New("term may not contain ';' or line breaks")
)

// Key returns the category's name in the settings file.
func (c Category) Key() string {
	switch c {
	case Channels:
		return "CHANNELS"
	case Systems:
		return "SYSTEMS"
	case Characters:
		return "CHARACTERS"
	default:
		return ""
	}
}

// Title is the heading shown in the editor.
func (c Category) Title() string {
	switch c {
	case Channels:
		return "Channels"
	case Systems:
		return "Systems"
	case Characters:
		return "Characters"
	default:
		return ""
	}
}

// NewItem is the placeholder value of a freshly added entry.
func (c Category) NewItem() string {
	switch c {
	case Channels:
		return "New Channel"
	case Systems:
		return "New System"
	case Characters:
		return "New Character"
	default:
		return ""
	}
}

// ParseCategory maps a settings file key to its Category.
func ParseCategory(key string) (Category, error) {
	for _, c := range Categories {
		if c.Key() == key {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, key)
}

// Snapshot is a copy of all lists taken at one instant.
type Snapshot struct {
	Channels   []string
	Systems    []string
	Characters []string
}

// Values returns the list for c.
func (s Snapshot) Values(c Category) []string {
	switch c {
	case Channels:
		return s.Channels
	case Systems:
		return s.Systems
	case Characters:
		return s.Characters
	default:
		return nil
	}
}

// Watchlist returns the terms the matcher should look for.
func (s Snapshot) Watchlist() match.Watchlist {
	return match.Watchlist{Characters: s.Characters, Systems: s.Systems}
}

// Store owns the lists and their backing file. It is safe for concurrent use:
// the editor mutates it while the poller takes snapshots.
type Store struct {
	mu       sync.RWMutex
	path     string
	lists    [3][]string
	restored [3]bool
}

// NewStore returns an empty store backed by path. Call Load to read it.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings file, creating it when absent. created reports that
// a new file was written. Categories missing from the file get a placeholder
// line appended. On error the lists keep their previous contents.
func (s *Store) Load() (created bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.restored = [3]bool{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return false, fmt.Errorf("read settings: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
			return false, fmt.Errorf("create settings dir: %w", err)
		}
		s.lists = [3][]string{}
		if err := s.appendMissingLocked(); err != nil {
			return false, err
		}
		return true, nil
	}

	lists, restored, err := parse(data)
	if err != nil {
		return false, err
	}
	s.lists = lists
	s.restored = restored

	return false, s.appendMissingLocked()
}

func parse(data []byte) (lists [3][]string, restored [3]bool, err error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, _ := strings.Cut(line, "=")
		c, err := ParseCategory(strings.TrimSpace(key))
		if err != nil {
			return lists, restored, fmt.Errorf("parse settings line %d: %w", lineNo, err)
		}
		lists[c] = splitValues(value)
		restored[c] = true
	}
	if err := scanner.Err(); err != nil {
		return lists, restored, fmt.Errorf("read settings: %w", err)
	}
	return lists, restored, nil
}

func splitValues(value string) []string {
	if value == placeholder {
		return nil
	}
	var out []string
	for _, v := range strings.Split(value, separator) {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (s *Store) appendMissingLocked() error {
	var b strings.Builder
	for _, c := range Categories {
		if !s.restored[c] {
			b.WriteString(c.Key() + "=" + placeholder + "\n")
		}
	}
	if b.Len() == 0 {
		return nil
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("add missing settings: %w", err)
	}
	if _, err := f.WriteString(b.String()); err != nil {
		_ = f.Close()
		return fmt.Errorf("add missing settings: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("add missing settings: %w", err)
	}
	for _, c := range Categories {
		s.restored[c] = true
	}
	return nil
}

// Snapshot returns copies of the current lists.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Channels:   clone(s.lists[Channels]),
		Systems:    clone(s.lists[Systems]),
		Characters: clone(s.lists[Characters]),
	}
}

// Add appends the category's placeholder item and persists. It returns the
// index of the new entry.
func (s *Store) Add(c Category) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.Key() == "" {
		return 0, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	s.lists[c] = append(s.lists[c], c.NewItem())
	return len(s.lists[c]) - 1, s.persistLocked()
}

// Set replaces entry i of c and persists. A blank value removes the entry.
func (s *Store) Set(c Category, i int, value string) error {
	if strings.ContainsAny(value, separator+"\r\n") {
		return ErrInvalidTerm
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndexLocked(c, i); err != nil {
		return err
	}
	if strings.TrimSpace(value) == "" {
		s.lists[c] = removeAt(s.lists[c], i)
	} else {
		s.lists[c][i] = value
	}
	return s.persistLocked()
}

// Remove deletes entry i of c and persists.
func (s *Store) Remove(c Category, i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndexLocked(c, i); err != nil {
		return err
	}
	s.lists[c] = removeAt(s.lists[c], i)
	return s.persistLocked()
}

func (s *Store) checkIndexLocked(c Category, i int) error {
	if c.Key() == "" {
		return fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	if i < 0 || i >= len(s.lists[c]) {
		return fmt.Errorf("%w: %s[%d]", ErrOutOfRange, c.Key(), i)
	}
	return nil
}

func (s *Store) persistLocked() error {
	var b strings.Builder
	for _, c := range Categories {
		b.WriteString(c.Key() + "=")
		for _, v := range s.lists[c] {
			b.WriteString(v + separator)
		}
		b.WriteString("\n")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("persist settings: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("persist settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("persist settings: %w", err)
	}
	return nil
}

func clone(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	dup := make([]string, len(values))
	copy(dup, values)
	return dup
}

func removeAt(values []string, i int) []string {
	out := make([]string, 0, len(values)-1)
	out = append(out, values[:i]...)
	return append(out, values[i+1:]...)
}
