package models

import "sort"

// DecorationKind различает маркер-точку и маркер-диапазон
type DecorationKind string

const (
	DecorationPoint DecorationKind = "point" // пустое выделение (курсор)
	DecorationSpan  DecorationKind = "span"  // непустое выделение [From, To)
)

// Decoration is a visual overlay for one remote peer's selection.
// Identity is PeerID plus Revision: a decoration keeps its Revision while only
// its position is remapped, and gets a new one when the peer announces a new range.
type Decoration struct {
	PeerID   string         `json:"peer_id"`
	Kind     DecorationKind `json:"kind"`
	From     int            `json:"from"`
	To       int            `json:"to"`
	Revision uint64         `json:"revision"`
}

// DecorationFor builds a decoration for range r: a point when r is empty,
// a span otherwise.
func DecorationFor(peerID string, r SelectionRange, revision uint64) Decoration {
	d := Decoration{PeerID: peerID, From: r.From, To: r.To, Revision: revision}
	if r.Empty() {
		d.Kind = DecorationPoint
		d.To = d.From
	} else {
		d.Kind = DecorationSpan
	}
	return d
}

// DecorationSet is an ordered collection of decorations.
type DecorationSet []Decoration

// Sort упорядочивает декорации по From, затем по PeerID
func (s DecorationSet) Sort() {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].From != s[j].From {
			return s[i].From < s[j].From
		}
		return s[i].PeerID < s[j].PeerID
	})
}

// ForPeer returns the decorations owned by peerID.
func (s DecorationSet) ForPeer(peerID string) DecorationSet {
	var out DecorationSet
	for _, d := range s {
		if d.PeerID == peerID {
			out = append(out, d)
		}
	}
	return out
}

// Count returns the number of decorations of the given kind.
func (s DecorationSet) Count(kind DecorationKind) int {
	n := 0
	for _, d := range s {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// SamePlace reports whether d and other draw the same marker; Revision is ignored.
func (d Decoration) SamePlace(other Decoration) bool {
	return d.PeerID == other.PeerID && d.Kind == other.Kind && d.From == other.From && d.To == other.To
}

// Equal reports whether two sets render identically. Revisions are not compared.
func (s DecorationSet) Equal(other DecorationSet) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !s[i].SamePlace(other[i]) {
			return false
		}
	}
	return true
}

// Clone возвращает копию набора
func (s DecorationSet) Clone() DecorationSet {
	if s == nil {
		return nil
	}
	out := make(DecorationSet, len(s))
	copy(out, s)
	return out
}
