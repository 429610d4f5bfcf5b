package presence

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/iudanet/txtpresence/internal/changes"
	"github.com/iudanet/txtpresence/internal/models"
)

// Overlay holds the rendered decorations of remote peers, one per peer.
//
// Decorations are remapped through every document change on their own, so a
// peer that stays silent keeps an anchored marker until it expires.
type Overlay struct {
	decorations map[string]models.Decoration
}

// NewOverlay creates an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{decorations: make(map[string]models.Decoration)}
}

// Map remaps every decoration through cs. It must run before any registry
// state is folded in for the same change. Reports whether anything moved.
func (o *Overlay) Map(cs changes.ChangeSet) bool {
	if cs.Empty() {
		return false
	}

	newLen := cs.NewLength()
	changed := false
	for id, d := range o.decorations {
		mapped := mapDecoration(d, cs, newLen)
		if mapped != d {
			o.decorations[id] = mapped
			changed = true
		}
	}
	return changed
}

func mapDecoration(d models.Decoration, cs changes.ChangeSet, newLen int) models.Decoration {
	if d.Kind == models.DecorationPoint {
		pos := cs.MapPos(d.From, changes.AssocBefore)
		r := models.Cursor(pos).Clamp(newLen)
		d.From, d.To = r.From, r.To
		return d
	}

	// Диапазон не растет при вставке ровно на его границах
	from := cs.MapPos(d.From, changes.AssocAfter)
	to := cs.MapPos(d.To, changes.AssocBefore)
	r := models.SelectionRange{From: from, To: to}.Clamp(newLen)
	d.From, d.To = r.From, r.To
	if r.Empty() {
		d.Kind = models.DecorationPoint
	}
	return d
}

// Fold reconciles the overlay with the live registry records. Peers absent
// from live lose their decoration, peers whose revision is unchanged keep it
// and peers with a new revision get a fresh one built from the registry
// range. Reports whether the rendered set changed: a new revision that
// re-announces the marker already drawn does not count.
func (o *Overlay) Fold(live []PeerRange, textLen int) bool {
	liveIDs := mapset.NewThreadUnsafeSet[string]()
	changed := false

	for _, rec := range live {
		liveIDs.Add(rec.PeerID)

		cur, ok := o.decorations[rec.PeerID]
		if ok && cur.Revision == rec.Revision {
			continue
		}
		fresh := models.DecorationFor(rec.PeerID, rec.Range.Clamp(textLen), rec.Revision)
		o.decorations[rec.PeerID] = fresh
		if ok && fresh.SamePlace(cur) {
			continue
		}
		changed = true
	}

	for id := range o.decorations {
		if !liveIDs.Contains(id) {
			delete(o.decorations, id)
			changed = true
		}
	}

	return changed
}

// Set returns the decorations sorted by position, then by peer id.
func (o *Overlay) Set() models.DecorationSet {
	set := make(models.DecorationSet, 0, len(o.decorations))
	for _, d := range o.decorations {
		set = append(set, d)
	}
	set.Sort()
	return set
}

// Len returns the number of decorations.
func (o *Overlay) Len() int {
	return len(o.decorations)
}
