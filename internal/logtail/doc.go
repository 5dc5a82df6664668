// Package logtail reads newly appended chat lines from the end of growing log
// files.
//
// # Overview
//
// Chat logs are append-only and can grow to many megabytes over a session,
// while a poll only cares about the handful of lines written since the last
// one. Scan therefore starts at end-of-file and walks backward, stopping at
// the first line that is already known. A poll of an unchanged file reads a
// single chunk.
//
// # Backward Scan
//
// The file is read in fixed-size chunks (DefaultChunkSize) from the end:
//
//	1. Read the chunk ending at the current position
//	2. Walk its bytes from last to first, collecting them into a line buffer
//	3. At a line boundary, reverse the buffer and strip non-printable bytes
//	4. Hand the completed line to Scan; stop when Scan says so
//	5. At the start of the file, the remaining buffer is the first line
//
// A line boundary is an LF that is not the file's last byte, or a CR that is
// not one of its last two bytes. Trailing LF or CRLF never yields an empty
// line, and a line spanning two chunks is reassembled transparently.
//
// # Novelty
//
// Every line is compared against the file's FileState:
//
//   - No state yet: the newest stamped line becomes the baseline. Nothing is
//     emitted, so history present at startup never alerts.
//   - Stamped strictly after the state: a new message.
//   - Anything else: the scan stops; older lines were seen before.
//
// Tracker keeps one FileState per file name and only advances it after a
// successful Scan, so each line is returned at most once per process.
//
// # Error Handling
//
// Open, stat, and read failures are returned wrapped. A file that shrinks
// while it is being read reports io.ErrUnexpectedEOF. Tracker leaves state
// untouched on error so the next poll retries from the same point.
//
// # Design Rationale
//
// This package does no file selection, matching, or scheduling. Those belong
// to chatlog, match, and the app poller respectively.
package logtail
