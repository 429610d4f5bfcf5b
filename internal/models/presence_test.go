package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRange(t *testing.T) {
	tests := []struct {
		name     string
		anchor   int
		head     int
		expected SelectionRange
	}{
		{
			name:     "forward selection",
			anchor:   2,
			head:     5,
			expected: SelectionRange{From: 2, To: 5, Head: 5, Anchor: 2},
		},
		{
			name:     "backward selection",
			anchor:   5,
			head:     2,
			expected: SelectionRange{From: 2, To: 5, Head: 2, Anchor: 5},
		},
		{
			name:     "cursor",
			anchor:   3,
			head:     3,
			expected: SelectionRange{From: 3, To: 3, Head: 3, Anchor: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewRange(tt.anchor, tt.head))
		})
	}
}

func TestSelectionRange_Clamp(t *testing.T) {
	tests := []struct {
		name     string
		input    SelectionRange
		length   int
		expected SelectionRange
	}{
		{
			name:     "inside bounds unchanged",
			input:    NewRange(1, 3),
			length:   10,
			expected: NewRange(1, 3),
		},
		{
			name:     "past the end",
			input:    NewRange(4, 12),
			length:   6,
			expected: SelectionRange{From: 4, To: 6, Head: 6, Anchor: 4},
		},
		{
			name:     "negative offsets",
			input:    SelectionRange{From: -3, To: 2, Head: 2, Anchor: -3},
			length:   6,
			expected: SelectionRange{From: 0, To: 2, Head: 2, Anchor: 0},
		},
		{
			name:     "swapped offsets restored",
			input:    SelectionRange{From: 5, To: 1, Head: 1, Anchor: 5},
			length:   6,
			expected: SelectionRange{From: 1, To: 5, Head: 1, Anchor: 5},
		},
		{
			name:     "empty document",
			input:    NewRange(2, 4),
			length:   0,
			expected: Cursor(0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.input.Clamp(tt.length)
			assert.Equal(t, tt.expected, got)
			assert.LessOrEqual(t, got.From, got.To)
		})
	}
}

func TestSelection_CloneAndClamp(t *testing.T) {
	original := Selection{Ranges: []SelectionRange{NewRange(0, 2), NewRange(8, 9)}, Main: 1}

	clone := original.Clone()
	clone.Ranges[0] = Cursor(1)
	assert.Equal(t, NewRange(0, 2), original.Ranges[0])

	clamped := original.Clamp(5)
	assert.Equal(t, Cursor(5), clamped.Ranges[1])
	assert.Equal(t, NewRange(8, 9), original.Ranges[1])
	assert.Equal(t, 1, clamped.Main)
}

func TestDecorationFor(t *testing.T) {
	point := DecorationFor("peer-a", Cursor(4), 1)
	assert.Equal(t, DecorationPoint, point.Kind)
	assert.Equal(t, 4, point.From)
	assert.Equal(t, 4, point.To)

	span := DecorationFor("peer-a", NewRange(2, 5), 2)
	assert.Equal(t, DecorationSpan, span.Kind)
	assert.Equal(t, 2, span.From)
	assert.Equal(t, 5, span.To)
	assert.Equal(t, uint64(2), span.Revision)
}

func TestDecorationSet_SortAndQueries(t *testing.T) {
	set := DecorationSet{
		DecorationFor("b", Cursor(5), 1),
		DecorationFor("a", NewRange(5, 7), 1),
		DecorationFor("c", Cursor(1), 1),
	}
	set.Sort()

	assert.Equal(t, []string{"c", "a", "b"}, []string{set[0].PeerID, set[1].PeerID, set[2].PeerID})
	assert.Equal(t, 2, set.Count(DecorationPoint))
	assert.Equal(t, 1, set.Count(DecorationSpan))
	assert.Len(t, set.ForPeer("a"), 1)
	assert.Empty(t, set.ForPeer("zzz"))

	clone := set.Clone()
	assert.True(t, set.Equal(clone))
	clone[0].From = 99
	assert.False(t, set.Equal(clone))
}
