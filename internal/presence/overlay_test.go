package presence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/txtpresence/internal/changes"
	"github.com/iudanet/txtpresence/internal/models"
)

func TestOverlay_FoldClassification(t *testing.T) {
	tests := []struct {
		name     string
		rng      models.SelectionRange
		textLen  int
		wantKind models.DecorationKind
		wantFrom int
		wantTo   int
	}{
		{name: "cursor is point", rng: models.Cursor(4), textLen: 10, wantKind: models.DecorationPoint, wantFrom: 4, wantTo: 4},
		{name: "selection is span", rng: models.NewRange(2, 5), textLen: 10, wantKind: models.DecorationSpan, wantFrom: 2, wantTo: 5},
		{name: "backward selection is span", rng: models.NewRange(7, 3), textLen: 10, wantKind: models.DecorationSpan, wantFrom: 3, wantTo: 7},
		{name: "point past end clamped", rng: models.Cursor(40), textLen: 10, wantKind: models.DecorationPoint, wantFrom: 10, wantTo: 10},
		{name: "span clamped to end", rng: models.NewRange(8, 20), textLen: 10, wantKind: models.DecorationSpan, wantFrom: 8, wantTo: 10},
		{name: "span entirely past end collapses", rng: models.NewRange(12, 20), textLen: 10, wantKind: models.DecorationPoint, wantFrom: 10, wantTo: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOverlay()
			changed := o.Fold([]PeerRange{{PeerID: "peer-a", Range: tt.rng, Revision: 1}}, tt.textLen)
			require.True(t, changed)

			set := o.Set()
			require.Len(t, set, 1)
			assert.Equal(t, tt.wantKind, set[0].Kind)
			assert.Equal(t, tt.wantFrom, set[0].From)
			assert.Equal(t, tt.wantTo, set[0].To)
			assert.LessOrEqual(t, set[0].To, tt.textLen)
		})
	}
}

func TestOverlay_FoldStableIdentity(t *testing.T) {
	o := NewOverlay()
	live := []PeerRange{
		{PeerID: "peer-a", Range: models.Cursor(1), Revision: 1},
		{PeerID: "peer-b", Range: models.NewRange(2, 4), Revision: 2},
	}

	require.True(t, o.Fold(live, 10))
	assert.False(t, o.Fold(live, 10), "same revisions must not re-render")

	// peer-b объявил новый диапазон, peer-a пропал
	live = []PeerRange{{PeerID: "peer-b", Range: models.NewRange(5, 6), Revision: 3}}
	require.True(t, o.Fold(live, 10))

	set := o.Set()
	require.Len(t, set, 1)
	assert.Equal(t, models.Decoration{PeerID: "peer-b", Kind: models.DecorationSpan, From: 5, To: 6, Revision: 3}, set[0])

	require.True(t, o.Fold(nil, 10))
	assert.Equal(t, 0, o.Len())
}

func TestOverlay_MapPoint(t *testing.T) {
	// Вставка трех символов в начало сдвигает курсор 5 -> 8
	o := NewOverlay()
	o.Fold([]PeerRange{{PeerID: "peer-b", Range: models.Cursor(5), Revision: 1}}, 10)

	cs, err := changes.Insert(10, 0, "abc")
	require.NoError(t, err)
	require.True(t, o.Map(cs))

	set := o.Set()
	require.Len(t, set, 1)
	assert.Equal(t, models.DecorationPoint, set[0].Kind)
	assert.Equal(t, 8, set[0].From)
	assert.Equal(t, 8, set[0].To)
	assert.Equal(t, uint64(1), set[0].Revision)
}

func TestOverlay_MapSpan(t *testing.T) {
	tests := []struct {
		name     string
		cs       func() (changes.ChangeSet, error)
		wantKind models.DecorationKind
		wantFrom int
		wantTo   int
	}{
		{
			name:     "insert at start edge does not grow",
			cs:       func() (changes.ChangeSet, error) { return changes.Insert(10, 2, "xx") },
			wantKind: models.DecorationSpan, wantFrom: 4, wantTo: 7,
		},
		{
			name:     "insert at end edge does not grow",
			cs:       func() (changes.ChangeSet, error) { return changes.Insert(10, 5, "xx") },
			wantKind: models.DecorationSpan, wantFrom: 2, wantTo: 5,
		},
		{
			name:     "insert inside grows",
			cs:       func() (changes.ChangeSet, error) { return changes.Insert(10, 3, "xx") },
			wantKind: models.DecorationSpan, wantFrom: 2, wantTo: 7,
		},
		{
			name:     "delete covering span collapses to point",
			cs:       func() (changes.ChangeSet, error) { return changes.Delete(10, 1, 6) },
			wantKind: models.DecorationPoint, wantFrom: 1, wantTo: 1,
		},
		{
			name:     "delete after span",
			cs:       func() (changes.ChangeSet, error) { return changes.Delete(10, 7, 10) },
			wantKind: models.DecorationSpan, wantFrom: 2, wantTo: 5,
		},
		{
			name:     "replace whole text collapses to point",
			cs:       func() (changes.ChangeSet, error) { return changes.Replace(10, 0, 10, "ab") },
			wantKind: models.DecorationPoint, wantFrom: 0, wantTo: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOverlay()
			o.Fold([]PeerRange{{PeerID: "peer-a", Range: models.NewRange(2, 5), Revision: 1}}, 10)

			cs, err := tt.cs()
			require.NoError(t, err)
			o.Map(cs)

			set := o.Set()
			require.Len(t, set, 1)
			assert.Equal(t, tt.wantKind, set[0].Kind)
			assert.Equal(t, tt.wantFrom, set[0].From)
			assert.Equal(t, tt.wantTo, set[0].To)
			assert.LessOrEqual(t, set[0].To, cs.NewLength())
		})
	}
}

// Перемапленная декорация совпадает с декорацией, построенной из перемапленного реестра
func TestOverlay_MapAgreesWithRegistry(t *testing.T) {
	now := time.Unix(1700000000, 0)
	reg := NewRegistry(DefaultTTL)
	reg.Upsert("peer-a", models.Cursor(3), now)
	reg.Upsert("peer-b", models.NewRange(6, 2), now)
	reg.Upsert("peer-c", models.NewRange(8, 9), now)

	o := NewOverlay()
	o.Fold(reg.Sweep(now), 10)

	cs, err := changes.New(10,
		changes.Edit{From: 0, To: 0, Insert: "hello"},
		changes.Edit{From: 4, To: 7},
		changes.Edit{From: 9, To: 9, Insert: "!"},
	)
	require.NoError(t, err)

	o.Map(cs)
	reg.Remap(cs)

	fresh := NewOverlay()
	fresh.Fold(reg.Sweep(now), cs.NewLength())

	assert.Equal(t, fresh.Set(), o.Set())
	assert.False(t, o.Fold(reg.Sweep(now), cs.NewLength()))
}

func TestOverlay_SetOrdering(t *testing.T) {
	o := NewOverlay()
	o.Fold([]PeerRange{
		{PeerID: "zed", Range: models.Cursor(1), Revision: 1},
		{PeerID: "amy", Range: models.NewRange(4, 6), Revision: 2},
		{PeerID: "bob", Range: models.Cursor(1), Revision: 3},
	}, 10)

	set := o.Set()
	require.Len(t, set, 3)
	assert.Equal(t, "bob", set[0].PeerID)
	assert.Equal(t, "zed", set[1].PeerID)
	assert.Equal(t, "amy", set[2].PeerID)
	assert.Equal(t, 2, set.Count(models.DecorationPoint))
	assert.Equal(t, 1, set.Count(models.DecorationSpan))
}

func TestOverlay_MapEmptyChange(t *testing.T) {
	o := NewOverlay()
	o.Fold([]PeerRange{{PeerID: "peer-a", Range: models.Cursor(2), Revision: 1}}, 5)

	cs, err := changes.New(5)
	require.NoError(t, err)
	assert.False(t, o.Map(cs))
}

// Начало диапазона и точка внутри одной замены не меняются местами
func TestOverlay_MapKeepsOrderInsideReplacement(t *testing.T) {
	o := NewOverlay()
	o.Fold([]PeerRange{
		{PeerID: "peer-a", Range: models.NewRange(5, 10), Revision: 1},
		{PeerID: "peer-b", Range: models.Cursor(6), Revision: 2},
	}, 20)

	cs, err := changes.Replace(20, 4, 7, "xyz")
	require.NoError(t, err)
	require.True(t, o.Map(cs))

	set := o.Set()
	require.Len(t, set, 2)
	assert.Equal(t, models.Decoration{PeerID: "peer-a", Kind: models.DecorationSpan, From: 4, To: 10, Revision: 1}, set[0])
	assert.Equal(t, models.Decoration{PeerID: "peer-b", Kind: models.DecorationPoint, From: 4, To: 4, Revision: 2}, set[1])
	assert.LessOrEqual(t, set[0].From, set[1].From)
}

func TestOverlay_FoldReannouncedRangeIsNotAChange(t *testing.T) {
	o := NewOverlay()
	require.True(t, o.Fold([]PeerRange{{PeerID: "peer-a", Range: models.NewRange(2, 4), Revision: 1}}, 10))

	// Периодическое объявление того же диапазона дает новую ревизию
	assert.False(t, o.Fold([]PeerRange{{PeerID: "peer-a", Range: models.NewRange(2, 4), Revision: 2}}, 10))
	assert.Equal(t, uint64(2), o.Set()[0].Revision)

	assert.True(t, o.Fold([]PeerRange{{PeerID: "peer-a", Range: models.NewRange(2, 5), Revision: 3}}, 10))
}
