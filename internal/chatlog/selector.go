package chatlog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// FileTimeLayout is the layout of the creation stamp in a log file name.
const FileTimeLayout = "20060102_150405"

const (
	logExt      = ".txt"
	filePattern = "*_*" + logExt
)

// ErrNotChatLog reports a file name that does not follow the chat log naming scheme.
var ErrNotChatLog = errors.New("not a chat log name")

// LogFile is one log file selected for monitoring.
type LogFile struct {
	Path    string
	Name    string
	Channel string
	Created time.Time
}

// ParseFileName splits a name of the form <channel>_<yyyyMMdd_HHmmss>.txt.
// Newer clients append _<listener id> before the extension; that suffix is
// accepted and ignored.
func ParseFileName(name string) (channel string, created time.Time, err error) {
	split := strings.IndexByte(name, '_')
	if split <= 0 || !strings.HasSuffix(name, logExt) {
		return "", time.Time{}, ErrNotChatLog
	}
	channel = name[:split]
	rest := strings.TrimSuffix(name[split+1:], logExt)
	if len(rest) < len(FileTimeLayout) {
		return "", time.Time{}, fmt.Errorf("%w: %q", ErrNotChatLog, name)
	}
	if tail := rest[len(FileTimeLayout):]; tail != "" && !isListenerSuffix(tail) {
		return "", time.Time{}, fmt.Errorf("%w: %q", ErrNotChatLog, name)
	}
	created, err = time.ParseInLocation(FileTimeLayout, rest[:len(FileTimeLayout)], time.UTC)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %q: %v", ErrNotChatLog, name, err)
	}
	return channel, created, nil
}

func isListenerSuffix(s string) bool {
	if len(s) < 2 || s[0] != '_' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// SelectLatest keeps, for every configured channel, the file in names with the
// newest creation stamp. Names that do not parse or belong to other channels
// are skipped. On equal stamps the lexically first name wins. The result is
// ordered by channel.
func SelectLatest(dir string, names, channels []string) []LogFile {
	wanted := make(map[string]struct{}, len(channels))
	for _, ch := range channels {
		wanted[ch] = struct{}{}
	}

	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	latest := make(map[string]LogFile)
	for _, name := range sorted {
		channel, created, err := ParseFileName(name)
		if err != nil {
			continue
		}
		if _, ok := wanted[channel]; !ok {
			continue
		}
		if cur, ok := latest[channel]; ok && !created.After(cur.Created) {
			continue
		}
		latest[channel] = LogFile{
			Path:    filepath.Join(dir, name),
			Name:    name,
			Channel: channel,
			Created: created,
		}
	}

	out := make([]LogFile, 0, len(latest))
	for _, f := range latest {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Channel < out[j].Channel })
	return out
}

// ListMonitored lists the chat logs in dir and applies SelectLatest.
func ListMonitored(dir string, channels []string) ([]LogFile, error) {
	if len(channels) == 0 {
		return nil, nil
	}
	names, err := doublestar.Glob(os.DirFS(dir), filePattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return SelectLatest(dir, names, channels), nil
}
