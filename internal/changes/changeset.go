// Package changes describes text mutations as ordered region replacements
// and maps positions through them.
package changes

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/iudanet/txtpresence/internal/models"
)

var (
	// ErrInvalidEdit indicates an edit that is out of bounds or out of order
	ErrInvalidEdit = errors.New("invalid edit")

	// ErrLengthMismatch indicates that a change set was applied to a text of a different length
	ErrLengthMismatch = errors.New("change set length does not match text")
)

// Assoc selects which side of an insertion a position sticks to when the
// insertion happens exactly at that position.
type Assoc int

const (
	AssocBefore Assoc = -1 // позиция остается перед вставленным текстом
	AssocAfter  Assoc = 1  // позиция сдвигается за вставленный текст
)

// Edit replaces the runes [From, To) of the old text with Insert.
type Edit struct {
	Insert string `json:"insert,omitempty"`
	From   int    `json:"from"`
	To     int    `json:"to"`
}

// ChangeSet is an edit description: an ordered list of non-overlapping
// replacements expressed against a text of Length runes.
type ChangeSet struct {
	Edits  []Edit `json:"edits"`
	Length int    `json:"length"`
}

// New validates edits against a text of the given length.
func New(length int, edits ...Edit) (ChangeSet, error) {
	if length < 0 {
		return ChangeSet{}, fmt.Errorf("%w: negative length %d", ErrInvalidEdit, length)
	}

	prevEnd := 0
	for i, e := range edits {
		if e.From < 0 || e.To < e.From || e.To > length {
			return ChangeSet{}, fmt.Errorf("%w: edit %d [%d, %d) outside [0, %d]", ErrInvalidEdit, i, e.From, e.To, length)
		}
		if e.From < prevEnd {
			return ChangeSet{}, fmt.Errorf("%w: edit %d overlaps previous edit", ErrInvalidEdit, i)
		}
		prevEnd = e.To
	}

	out := make([]Edit, len(edits))
	copy(out, edits)
	return ChangeSet{Length: length, Edits: out}, nil
}

// Insert creates a change set inserting text at position at.
func Insert(length, at int, text string) (ChangeSet, error) {
	return New(length, Edit{From: at, To: at, Insert: text})
}

// Delete creates a change set deleting the runes [from, to).
func Delete(length, from, to int) (ChangeSet, error) {
	return New(length, Edit{From: from, To: to})
}

// Replace creates a change set replacing the runes [from, to) with text.
func Replace(length, from, to int, text string) (ChangeSet, error) {
	return New(length, Edit{From: from, To: to, Insert: text})
}

// Validate re-checks a change set received from the outside (for example decoded from JSON).
func (cs ChangeSet) Validate() error {
	_, err := New(cs.Length, cs.Edits...)
	return err
}

// Diff describes the transformation of oldText into newText as a single
// replacement of the region between their common prefix and suffix.
func Diff(oldText, newText string) ChangeSet {
	a, b := []rune(oldText), []rune(newText)

	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	cs := ChangeSet{Length: len(a), Edits: []Edit{}}
	if prefix == len(a) && prefix == len(b) {
		return cs
	}
	cs.Edits = append(cs.Edits, Edit{
		From:   prefix,
		To:     len(a) - suffix,
		Insert: string(b[prefix : len(b)-suffix]),
	})
	return cs
}

// NewLength returns the length of the text after the change.
func (cs ChangeSet) NewLength() int {
	n := cs.Length
	for _, e := range cs.Edits {
		n += utf8.RuneCountInString(e.Insert) - (e.To - e.From)
	}
	return n
}

// Empty reports whether the change set leaves the text untouched.
func (cs ChangeSet) Empty() bool {
	for _, e := range cs.Edits {
		if e.From != e.To || e.Insert != "" {
			return false
		}
	}
	return true
}

// Apply applies the change set to text.
func (cs ChangeSet) Apply(text string) (string, error) {
	runes := []rune(text)
	if len(runes) != cs.Length {
		return "", fmt.Errorf("%w: expected %d runes, got %d", ErrLengthMismatch, cs.Length, len(runes))
	}

	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for _, e := range cs.Edits {
		b.WriteString(string(runes[pos:e.From]))
		b.WriteString(e.Insert)
		pos = e.To
	}
	b.WriteString(string(runes[pos:]))

	return b.String(), nil
}

// MapPos maps a position in the old text to the new text.
//
// Insertions before pos shift it forward by the inserted length, deletions
// and replacements spanning pos collapse it to their start, edits after pos
// leave it unchanged. assoc only decides an insertion exactly at pos.
func (cs ChangeSet) MapPos(pos int, assoc Assoc) int {
	shift := 0
	for _, e := range cs.Edits {
		ins := utf8.RuneCountInString(e.Insert)

		if pos < e.From {
			break
		}

		// Чистая вставка в позиции pos
		if e.From == e.To && pos == e.From {
			if assoc == AssocBefore {
				break
			}
			shift += ins
			continue
		}

		if pos >= e.To {
			shift += ins - (e.To - e.From)
			continue
		}

		// pos внутри заменяемой области [From, To): схлопываем к началу замены
		// независимо от assoc, иначе точки и диапазоны меняются местами
		return e.From + shift
	}

	return pos + shift
}

// MapRange maps a selection range through the change set. Non-empty ranges
// do not grow when text is inserted exactly at their edges. The result is
// clamped to the new length and keeps From <= To.
func (cs ChangeSet) MapRange(r models.SelectionRange) models.SelectionRange {
	newLen := cs.NewLength()

	if r.Empty() {
		pos := cs.MapPos(r.From, AssocBefore)
		return models.Cursor(pos).Clamp(newLen)
	}

	from := cs.MapPos(r.From, AssocAfter)
	to := cs.MapPos(r.To, AssocBefore)
	if from > to {
		from, to = to, from
	}

	mapped := models.SelectionRange{From: from, To: to}
	if r.Anchor <= r.Head {
		mapped.Anchor, mapped.Head = from, to
	} else {
		mapped.Anchor, mapped.Head = to, from
	}

	return mapped.Clamp(newLen)
}

// String returns a compact human readable form, used in logs.
func (cs ChangeSet) String() string {
	parts := make([]string, 0, len(cs.Edits))
	for _, e := range cs.Edits {
		parts = append(parts, fmt.Sprintf("[%d,%d)=%q", e.From, e.To, e.Insert))
	}
	return fmt.Sprintf("len=%d %s", cs.Length, strings.Join(parts, " "))
}
