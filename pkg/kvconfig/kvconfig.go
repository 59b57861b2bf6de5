package kvconfig

import (
	"bytes"
)

// Scanner yields ordered key/value pairs from a line-oriented configuration
// buffer. Keys and values are separated by the first '=' on a line.
// There is no comment syntax, no quoting and no nesting.
type Scanner struct {
	buf []byte
	pos int
}

// NewScanner creates a scanner over buf. The buffer is never modified.
func NewScanner(buf []byte) *Scanner {
	return &Scanner{buf: buf}
}

// Next returns the next key/value pair and advances past the consumed line.
// Blank lines and lines without a separator are skipped. Surrounding
// whitespace of both key and value is trimmed. Returned strings are copies,
// valid after the source buffer is gone. ok is false at end of input.
func (s *Scanner) Next() (key, value string, ok bool) {
	for s.pos < len(s.buf) {
		line := s.nextLine()
		sep := bytes.IndexByte(line, '=')
		if sep < 0 {
			continue
		}
		k := string(bytes.TrimSpace(line[:sep]))
		if k == "" {
			continue
		}
		return k, string(bytes.TrimSpace(line[sep+1:])), true
	}
	return "", "", false
}

func (s *Scanner) nextLine() []byte {
	start := s.pos
	end := bytes.IndexByte(s.buf[start:], '\n')
	if end < 0 {
		s.pos = len(s.buf)
		return s.buf[start:]
	}
	s.pos = start + end + 1
	return s.buf[start : start+end]
}
