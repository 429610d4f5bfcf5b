package models

// SelectionRange представляет один диапазон выделения в тексте документа.
// Все смещения считаются в рунах (Unicode code points) текущего текста.
// Инвариант: From <= To; Anchor и Head совпадают с From/To в некотором порядке.
type SelectionRange struct {
	From   int `json:"from"`   // From начало диапазона
	To     int `json:"to"`     // To конец диапазона (не включительно)
	Head   int `json:"head"`   // Head подвижный конец выделения (позиция курсора)
	Anchor int `json:"anchor"` // Anchor неподвижный конец выделения
}

// NewRange creates a range from an anchor and a head, in either order.
func NewRange(anchor, head int) SelectionRange {
	r := SelectionRange{From: anchor, To: head, Head: head, Anchor: anchor}
	if r.From > r.To {
		r.From, r.To = r.To, r.From
	}
	return r
}

// Cursor creates an empty range at pos.
func Cursor(pos int) SelectionRange {
	return SelectionRange{From: pos, To: pos, Head: pos, Anchor: pos}
}

// Empty reports whether the range selects no text.
func (r SelectionRange) Empty() bool {
	return r.From == r.To
}

// Clamp ограничивает все смещения отрезком [0, length] и восстанавливает
// инвариант From <= To.
func (r SelectionRange) Clamp(length int) SelectionRange {
	r.From = clamp(r.From, length)
	r.To = clamp(r.To, length)
	r.Head = clamp(r.Head, length)
	r.Anchor = clamp(r.Anchor, length)
	if r.From > r.To {
		r.From, r.To = r.To, r.From
	}
	return r
}

func clamp(pos, length int) int {
	if length < 0 {
		length = 0
	}
	if pos < 0 {
		return 0
	}
	if pos > length {
		return length
	}
	return pos
}

// Selection is the full local selection state, possibly multi-range.
type Selection struct {
	Ranges []SelectionRange `json:"ranges"`
	Main   int              `json:"main"` // Main индекс основного диапазона
}

// SingleSelection wraps one range into a selection.
func SingleSelection(r SelectionRange) Selection {
	return Selection{Ranges: []SelectionRange{r}}
}

// Clone создает копию выделения, не разделяющую slice с оригиналом
func (s Selection) Clone() Selection {
	ranges := make([]SelectionRange, len(s.Ranges))
	copy(ranges, s.Ranges)
	return Selection{Ranges: ranges, Main: s.Main}
}

// Clamp applies SelectionRange.Clamp to every range.
func (s Selection) Clamp(length int) Selection {
	out := s.Clone()
	for i := range out.Ranges {
		out.Ranges[i] = out.Ranges[i].Clamp(length)
	}
	if out.Main >= len(out.Ranges) {
		out.Main = 0
	}
	return out
}
