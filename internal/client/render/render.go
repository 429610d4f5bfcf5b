// Package render draws a document with the selections of remote peers.
package render

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/iudanet/txtpresence/internal/models"
)

const (
	ansiReset   = "\x1b[0m"
	ansiReverse = "\x1b[7m"
)

// Цвета пиров: красный, зеленый, желтый, синий, пурпурный, голубой
var palette = []string{"\x1b[31m", "\x1b[32m", "\x1b[33m", "\x1b[34m", "\x1b[35m", "\x1b[36m"}

// Renderer draws decorations either with ANSI colors or with plain markers:
// "[" and "]" around spans and "|" for points.
type Renderer struct {
	color bool
}

// New creates a Renderer. color enables ANSI sequences.
func New(color bool) *Renderer {
	return &Renderer{color: color}
}

type marker struct {
	peer  string
	pos   int
	order int // закрытие диапазона, точка, открытие диапазона
	kind  byte
}

// Document returns text with the decorations drawn in.
func (r *Renderer) Document(text string, set models.DecorationSet) string {
	runes := []rune(text)

	markers := make([]marker, 0, 2*len(set))
	for _, d := range set {
		from := min(max(d.From, 0), len(runes))
		to := min(max(d.To, from), len(runes))
		switch d.Kind {
		case models.DecorationPoint:
			markers = append(markers, marker{peer: d.PeerID, pos: from, order: 1, kind: '|'})
		case models.DecorationSpan:
			markers = append(markers,
				marker{peer: d.PeerID, pos: from, order: 2, kind: '['},
				marker{peer: d.PeerID, pos: to, order: 0, kind: ']'},
			)
		}
	}
	sort.SliceStable(markers, func(i, j int) bool {
		if markers[i].pos != markers[j].pos {
			return markers[i].pos < markers[j].pos
		}
		if markers[i].order != markers[j].order {
			return markers[i].order < markers[j].order
		}
		return markers[i].peer < markers[j].peer
	})

	var b strings.Builder
	depth := 0
	next := 0
	for pos := 0; pos <= len(runes); pos++ {
		for ; next < len(markers) && markers[next].pos == pos; next++ {
			m := markers[next]
			switch m.kind {
			case '[':
				depth++
			case ']':
				depth--
			}
			r.writeMarker(&b, m, depth)
		}
		if pos < len(runes) {
			b.WriteRune(runes[pos])
		}
	}
	if r.color && depth > 0 {
		b.WriteString(ansiReset)
	}
	return b.String()
}

func (r *Renderer) writeMarker(b *strings.Builder, m marker, depth int) {
	if !r.color {
		b.WriteByte(m.kind)
		return
	}

	switch m.kind {
	case '|':
		b.WriteString(colorOf(m.peer) + "|" + ansiReset)
		if depth > 0 {
			b.WriteString(ansiReverse)
		}
	case '[':
		b.WriteString(colorOf(m.peer) + ansiReverse)
	case ']':
		b.WriteString(ansiReset)
		if depth > 0 {
			b.WriteString(ansiReverse)
		}
	}
}

// Legend lists the decorations one per line.
func (r *Renderer) Legend(set models.DecorationSet) string {
	var b strings.Builder
	for _, d := range set {
		name := d.PeerID
		if r.color {
			name = colorOf(d.PeerID) + d.PeerID + ansiReset
		}
		if d.Kind == models.DecorationPoint {
			fmt.Fprintf(&b, "  %s: cursor at %d\n", name, d.From)
		} else {
			fmt.Fprintf(&b, "  %s: selection %d..%d\n", name, d.From, d.To)
		}
	}
	return b.String()
}

func colorOf(peer string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(peer))
	return palette[h.Sum32()%uint32(len(palette))]
}
