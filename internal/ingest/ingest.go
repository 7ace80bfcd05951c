// Package ingest incrementally decodes newline-delimited JSON from a byte
// stream that arrives in arbitrarily sized chunks.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Record is one decoded NDJSON line.
type Record struct {
	Message string // human-readable text for the line
	OK      bool   // false when the line carries an error or failed to decode
	Raw     string // the trimmed source line
	Err     error  // decode error, set only when the line was not valid JSON
}

// Decoder accumulates chunks and yields a Record per complete line. Chunk
// boundaries carry no meaning: a line split across chunks is buffered until
// its terminator arrives. Flush drains a trailing unterminated line once the
// stream has ended.
type Decoder struct {
	buf []byte
}

// Write appends chunk to the internal buffer and returns the records decoded
// from every newline-terminated line now complete. Empty lines are skipped.
func (d *Decoder) Write(chunk []byte) []Record {
	d.buf = append(d.buf, chunk...)

	var records []Record
	for {
		idx := bytes.IndexByte(d.buf, '\n')
		if idx < 0 {
			break
		}
		line := strings.TrimSpace(string(d.buf[:idx]))
		d.buf = d.buf[idx+1:]
		if line == "" {
			continue
		}
		records = append(records, decodeLine(line))
	}
	return records
}

// Flush processes any buffered remainder as a final, unterminated line.
// The decoder is empty afterwards.
func (d *Decoder) Flush() []Record {
	line := strings.TrimSpace(string(d.buf))
	d.buf = nil
	if line == "" {
		return nil
	}
	return []Record{decodeLine(line)}
}

// decodeLine parses one trimmed, non-empty line. The message prefers the
// "status" field, then "message", then the full JSON text. The line fails
// when an "error" field is present and truthy, or when it is not JSON.
func decodeLine(line string) Record {
	var value map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &value); err != nil {
		return Record{
			Message: fmt.Sprintf("Non-JSON line: %s (parse error: %v)", line, err),
			OK:      false,
			Raw:     line,
			Err:     err,
		}
	}

	message := line
	if s, ok := stringField(value, "status"); ok {
		message = s
	} else if s, ok := stringField(value, "message"); ok {
		message = s
	}

	return Record{
		Message: message,
		OK:      !truthy(value["error"]),
		Raw:     line,
	}
}

func stringField(value map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := value[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// truthy reports whether a raw JSON value marks the line as failed: absent,
// null, false, "", and 0 do not; everything else does.
func truthy(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return true
	}
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	default:
		return true
	}
}
