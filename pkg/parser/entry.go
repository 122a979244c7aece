package parser

import (
	"regexp"
	"strings"
	"time"
)

// entryPattern matches "<i|o> YYYY/MM/DD HH:MM:SS[ description]".
var entryPattern = regexp.MustCompile(`^([io]) (\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2})(?:\s+(.*))?$`)

// EntryParser turns raw log lines into entries.
type EntryParser struct {
	loc *time.Location
}

// NewEntryParser creates a parser that interprets timestamps in loc.
// A nil location means time.Local.
func NewEntryParser(loc *time.Location) *EntryParser {
	if loc == nil {
		loc = time.Local
	}
	return &EntryParser{loc: loc}
}

// Parse converts one trimmed, non-blank line into an Entry.
// Returns a *MalformedLineError carrying lineNum if the line does not match.
func (p *EntryParser) Parse(text string, lineNum int) (Entry, error) {
	matches := entryPattern.FindStringSubmatch(text)
	if matches == nil {
		return Entry{}, &MalformedLineError{Line: lineNum, Text: text}
	}

	ts, err := time.ParseInLocation(TimestampLayout, matches[2], p.loc)
	if err != nil {
		return Entry{}, &MalformedLineError{Line: lineNum, Text: text, Err: err}
	}

	entry := Entry{
		IsStart:   matches[1] == "i",
		Timestamp: ts,
		Line:      lineNum,
	}
	if entry.IsStart {
		entry.Description = strings.TrimSpace(matches[3])
	}
	return entry, nil
}

// ParseEntry parses a line with timestamps in time.Local.
func ParseEntry(text string, lineNum int) (Entry, error) {
	return NewEntryParser(nil).Parse(text, lineNum)
}
