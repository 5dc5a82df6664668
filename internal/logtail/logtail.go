package logtail

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/five82/intelwatch/internal/chatlog"
)

// DefaultChunkSize is how many bytes are read per backward step.
const DefaultChunkSize = 4096

// FileState records the newest message already processed for one file.
type FileState struct {
	Last time.Time
}

// Result is the outcome of one backward scan.
type Result struct {
	// Messages appended after the prior state, oldest first.
	Messages []chatlog.Message
	// Latest is the newest timestamp observed; valid when HasLatest is set.
	Latest    time.Time
	HasLatest bool
	// Baseline is set when there was no prior state and Latest was recorded
	// from the most recent line without emitting it.
	Baseline bool
}

// Scan walks the file at path from its end toward its start and collects the
// lines stamped strictly after prior.Last. It stops at the first line that is
// not newer, including lines without a timestamp. With a nil prior only the
// most recent line is inspected and its timestamp becomes the baseline.
func Scan(path string, prior *FileState, chunkSize int) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return Result{}, fmt.Errorf("stat log: %w", err)
	}

	lines := newBackwardLines(file, info.Size(), chunkSize)
	var res Result
	var newestFirst []chatlog.Message
	for {
		text, ok, err := lines.next()
		if err != nil {
			return Result{}, fmt.Errorf("read log: %w", err)
		}
		if !ok {
			break
		}
		msg := chatlog.NewMessage(text)

		if prior == nil {
			if msg.HasTime {
				res.Latest, res.HasLatest, res.Baseline = msg.Time, true, true
			}
			break
		}
		if !msg.HasTime || !msg.Time.After(prior.Last) {
			break
		}
		newestFirst = append(newestFirst, msg)
		if !res.HasLatest || msg.Time.After(res.Latest) {
			res.Latest, res.HasLatest = msg.Time, true
		}
	}

	if len(newestFirst) > 0 {
		res.Messages = make([]chatlog.Message, len(newestFirst))
		for i, msg := range newestFirst {
			res.Messages[len(newestFirst)-1-i] = msg
		}
	}
	return res, nil
}

// Last returns at most maxLines non-empty lines from the end of the file at
// path, oldest first. A missing file yields no lines and no error.
func Last(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log: %w", err)
	}

	lines := newBackwardLines(file, info.Size(), DefaultChunkSize)
	var out []string
	for len(out) < maxLines {
		text, ok, err := lines.next()
		if err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		if !ok {
			break
		}
		out = append(out, text)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// backwardLines yields printable lines from the end of r toward its start.
//
// A line ends at an LF that is not the last byte, or at a CR that is not one
// of the last two bytes, so a trailing LF or CRLF does not produce an empty
// final line. Bytes outside printable ASCII are dropped, which also folds
// UTF-16LE text and byte order marks into plain ASCII.
type backwardLines struct {
	r     io.ReaderAt
	last  int64
	pos   int64
	chunk int

	buf      []byte
	bufStart int64

	line []byte // bytes of the current line in reverse order
	done bool
}

func newBackwardLines(r io.ReaderAt, size int64, chunk int) *backwardLines {
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	return &backwardLines{
		r:     r,
		last:  size - 1,
		pos:   size - 1,
		chunk: chunk,
	}
}

func (b *backwardLines) next() (string, bool, error) {
	for b.pos >= 0 {
		p := b.pos
		c, err := b.byteAt(p)
		if err != nil {
			return "", false, err
		}
		b.pos--

		boundary := (c == '\n' && p < b.last) || (c == '\r' && p < b.last-1)
		if !boundary {
			b.line = append(b.line, c)
			continue
		}
		if text := b.flush(); text != "" {
			return text, true, nil
		}
	}
	if !b.done {
		b.done = true
		if text := b.flush(); text != "" {
			return text, true, nil
		}
	}
	return "", false, nil
}

func (b *backwardLines) byteAt(p int64) (byte, error) {
	if p < b.bufStart || p >= b.bufStart+int64(len(b.buf)) {
		start := p + 1 - int64(b.chunk)
		if start < 0 {
			start = 0
		}
		size := int(p + 1 - start)
		if cap(b.buf) < size {
			b.buf = make([]byte, size)
		}
		b.buf = b.buf[:size]
		n, err := b.r.ReadAt(b.buf, start)
		if n < size {
			if err == nil || errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return 0, err
		}
		b.bufStart = start
	}
	return b.buf[p-b.bufStart], nil
}

// flush restores forward order, drops non-printable bytes, and resets the
// line buffer.
func (b *backwardLines) flush() string {
	out := make([]byte, 0, len(b.line))
	for i := len(b.line) - 1; i >= 0; i-- {
		if c := b.line[i]; c >= 0x20 && c <= 0x7e {
			out = append(out, c)
		}
	}
	b.line = b.line[:0]
	return string(out)
}
