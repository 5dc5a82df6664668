package chatlog

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// MessageTimeLayout is the layout of the stamp inside a line's brackets.
const MessageTimeLayout = "2006.01.02 15:04:05"

var (
	// ErrNoTimestamp reports a line without a leading "[ yyyy.MM.dd HH:mm:ss ]".
	ErrNoTimestamp = errors.New("no timestamp")
	// ErrInvalidTimestamp reports a line shaped like a stamp that is not a valid
	// calendar time, e.g. day 32.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

var stampPattern = regexp.MustCompile(`^\[ (\d{4}\.\d{2}\.\d{2} \d{2}:\d{2}:\d{2}) \]`)

// ParseTimestamp returns the UTC time stamped at the start of line.
func ParseTimestamp(line string) (time.Time, error) {
	m := stampPattern.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, ErrNoTimestamp
	}
	ts, err := time.ParseInLocation(MessageTimeLayout, m[1], time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidTimestamp, m[1], err)
	}
	return ts, nil
}
