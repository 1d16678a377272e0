package diagnostic

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
)

// ReasonCompilerMessage is the cargo message reason carrying a diagnostic.
const ReasonCompilerMessage = "compiler-message"

// ErrNoPrimarySpan is returned when a diagnostic has no span flagged as primary.
var ErrNoPrimarySpan = errors.New("unable to find primary span for message")

// Record is a single message from cargo's JSON output.
type Record struct {
	Reason  string  `json:"reason"`
	Message Message `json:"message"`
}

// Message is the compiler diagnostic carried by a compiler-message record.
type Message struct {
	Code     *Code  `json:"code"`
	Level    string `json:"level"`
	Message  string `json:"message"`
	Rendered string `json:"rendered"`
	Spans    []Span `json:"spans"`
}

// Code identifies the lint or error code of a diagnostic.
type Code struct {
	Code        string `json:"code"`
	Explanation string `json:"explanation,omitempty"`
}

// UnmarshalJSON accepts both the rustc object form {"code": "..."} and a
// bare string.
func (c *Code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &c.Code)
	}
	type plain Code
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Code(p)
	return nil
}

// Span is a source region referenced by a diagnostic.
type Span struct {
	FileName    string `json:"file_name"`
	IsPrimary   bool   `json:"is_primary"`
	LineStart   int    `json:"line_start"`
	LineEnd     int    `json:"line_end"`
	ColumnStart int    `json:"column_start"`
	ColumnEnd   int    `json:"column_end"`
}

// ParseLine decodes one line of cargo output. It reports false for lines
// that should be ignored: invalid JSON, a reason other than
// "compiler-message", or a message without a code.
func ParseLine(line string) (Record, bool) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] != '{' {
		return Record{}, false
	}

	var raw struct {
		Reason  string   `json:"reason"`
		Message *Message `json:"message"`
	}
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Record{}, false
	}
	if raw.Reason != ReasonCompilerMessage || raw.Message == nil {
		return Record{}, false
	}
	if raw.Message.Code == nil {
		return Record{}, false
	}

	return Record{Reason: raw.Reason, Message: *raw.Message}, true
}

// Level returns the classified severity of the record.
func (r Record) Level() Level {
	return ParseLevel(r.Message.Level)
}

// PrimarySpan returns the first span flagged as primary.
func (r Record) PrimarySpan() (Span, error) {
	for _, s := range r.Message.Spans {
		if s.IsPrimary {
			return s, nil
		}
	}
	return Span{}, errors.Wrapf(ErrNoPrimarySpan, "%q", r.Message.Message)
}
