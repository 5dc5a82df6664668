// Package chatlog understands the chat client's on-disk log conventions.
//
// Two formats are consumed, never produced:
//
//	<channel>_<yyyyMMdd_HHmmss>[_<listener id>].txt    file names
//	[ yyyy.MM.dd HH:mm:ss ] <speaker> > <text>         line prefix
//
// ParseTimestamp extracts the bracketed stamp from a line. ParseFileName and
// SelectLatest pick, per configured channel, the newest log file in a
// directory; ListMonitored does the same against the filesystem.
//
// Everything here is stateless and safe to call from any goroutine.
package chatlog
