package amount

import (
	"strings"
	"sync"
	"unicode"
)

// State of the amount buffer
type State int

const (
	Empty State = iota
	Integer
	Point
	Fraction
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Integer:
		return "integer"
	case Point:
		return "point"
	case Fraction:
		return "fraction"
	}

	return "unknown"
}

// StateOf classifies an already sanitized buffer
func StateOf(buf string) State {
	switch idx := strings.IndexByte(buf, '.'); {
	case buf == "":
		return Empty
	case idx < 0:
		return Integer
	case idx == len(buf)-1:
		return Point
	default:
		return Fraction
	}
}

// Sanitize keeps digits and the decimal point. ok is false when the result holds more than one point
func Sanitize(raw string) (string, bool) {
	var b strings.Builder
	b.Grow(len(raw))

	points := 0
	for _, r := range raw {
		switch {
		case r == '.':
			points++
			b.WriteRune(r)
		case r < unicode.MaxASCII && unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}

	if points > 1 {
		return "", false
	}

	return b.String(), true
}

// Sanitizer holds the amount a user is typing
type Sanitizer struct {
	mtx sync.Mutex
	buf string
}

func New(initial string) *Sanitizer {
	s := &Sanitizer{}
	s.Apply(initial)

	return s
}

// Apply replaces the buffer with the sanitized raw value. A value with a second point is
// rejected and the previous buffer is kept
func (s *Sanitizer) Apply(raw string) (string, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.apply(raw)
}

// Type appends one keystroke
func (s *Sanitizer) Type(key string) (string, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.apply(s.buf + key)
}

func (s *Sanitizer) apply(raw string) (string, bool) {
	clean, ok := Sanitize(raw)
	if !ok {
		return s.buf, false
	}

	s.buf = clean

	return s.buf, true
}

func (s *Sanitizer) Value() string {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.buf
}

func (s *Sanitizer) State() State {
	return StateOf(s.Value())
}
