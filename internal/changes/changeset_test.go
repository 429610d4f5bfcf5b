package changes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/txtpresence/internal/models"
)

func mustNew(t *testing.T, length int, edits ...Edit) ChangeSet {
	t.Helper()
	cs, err := New(length, edits...)
	require.NoError(t, err)
	return cs
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		edits   []Edit
		length  int
		wantErr bool
	}{
		{name: "single insert", length: 5, edits: []Edit{{From: 5, To: 5, Insert: "x"}}},
		{name: "adjacent edits", length: 5, edits: []Edit{{From: 0, To: 2}, {From: 2, To: 3, Insert: "y"}}},
		{name: "no edits", length: 0},
		{name: "negative from", length: 5, edits: []Edit{{From: -1, To: 2}}, wantErr: true},
		{name: "to before from", length: 5, edits: []Edit{{From: 3, To: 2}}, wantErr: true},
		{name: "past the end", length: 5, edits: []Edit{{From: 4, To: 6}}, wantErr: true},
		{name: "overlap", length: 5, edits: []Edit{{From: 0, To: 3}, {From: 2, To: 4}}, wantErr: true},
		{name: "unordered", length: 5, edits: []Edit{{From: 3, To: 3}, {From: 1, To: 1}}, wantErr: true},
		{name: "negative length", length: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.length, tt.edits...)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidEdit)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestChangeSet_Apply(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		cs       ChangeSet
		expected string
	}{
		{
			name:     "insert at start",
			text:     "hello",
			cs:       mustNew(t, 5, Edit{From: 0, To: 0, Insert: "oh "}),
			expected: "oh hello",
		},
		{
			name:     "delete middle",
			text:     "hello world",
			cs:       mustNew(t, 11, Edit{From: 5, To: 11}),
			expected: "hello",
		},
		{
			name:     "multiple replacements",
			text:     "abcdef",
			cs:       mustNew(t, 6, Edit{From: 0, To: 1, Insert: "A"}, Edit{From: 3, To: 5, Insert: "XYZ"}),
			expected: "AbcXYZf",
		},
		{
			name:     "unicode runes",
			text:     "привет",
			cs:       mustNew(t, 6, Edit{From: 6, To: 6, Insert: "!"}, Edit{From: 6, To: 6, Insert: "?"}),
			expected: "привет!?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cs.Apply(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, len([]rune(tt.expected)), tt.cs.NewLength())
		})
	}
}

func TestChangeSet_ApplyLengthMismatch(t *testing.T) {
	cs := mustNew(t, 3, Edit{From: 0, To: 0, Insert: "x"})
	_, err := cs.Apply("hello")
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestChangeSet_MapPos(t *testing.T) {
	tests := []struct {
		name     string
		cs       ChangeSet
		pos      int
		assoc    Assoc
		expected int
	}{
		{name: "insert before shifts forward", cs: mustNew(t, 10, Edit{From: 0, To: 0, Insert: "abc"}), pos: 5, assoc: AssocBefore, expected: 8},
		{name: "insert after unchanged", cs: mustNew(t, 10, Edit{From: 7, To: 7, Insert: "abc"}), pos: 5, assoc: AssocBefore, expected: 5},
		{name: "insert at pos assoc before", cs: mustNew(t, 10, Edit{From: 5, To: 5, Insert: "abc"}), pos: 5, assoc: AssocBefore, expected: 5},
		{name: "insert at pos assoc after", cs: mustNew(t, 10, Edit{From: 5, To: 5, Insert: "abc"}), pos: 5, assoc: AssocAfter, expected: 8},
		{name: "delete before shifts back", cs: mustNew(t, 10, Edit{From: 0, To: 3}), pos: 5, assoc: AssocBefore, expected: 2},
		{name: "delete spanning collapses", cs: mustNew(t, 10, Edit{From: 3, To: 8}), pos: 5, assoc: AssocBefore, expected: 3},
		{name: "replace spanning collapses with assoc after", cs: mustNew(t, 10, Edit{From: 3, To: 8, Insert: "xy"}), pos: 5, assoc: AssocAfter, expected: 3},
		{name: "replace starting at pos assoc after", cs: mustNew(t, 10, Edit{From: 5, To: 8, Insert: "xy"}), pos: 5, assoc: AssocAfter, expected: 5},
		{name: "delete ending at pos", cs: mustNew(t, 10, Edit{From: 2, To: 5}), pos: 5, assoc: AssocBefore, expected: 2},
		{name: "delete starting at pos", cs: mustNew(t, 10, Edit{From: 5, To: 7}), pos: 5, assoc: AssocBefore, expected: 5},
		{name: "several edits", cs: mustNew(t, 10, Edit{From: 0, To: 2}, Edit{From: 3, To: 3, Insert: "1234"}, Edit{From: 9, To: 10}), pos: 6, assoc: AssocBefore, expected: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cs.MapPos(tt.pos, tt.assoc))
		})
	}
}

// Отображение позиций не должно менять их взаимный порядок
func TestChangeSet_MapPosPreservesOrdering(t *testing.T) {
	sets := []ChangeSet{
		mustNew(t, 20, Edit{From: 0, To: 0, Insert: "abc"}),
		mustNew(t, 20, Edit{From: 4, To: 12}),
		mustNew(t, 20, Edit{From: 4, To: 12, Insert: "q"}),
		mustNew(t, 20, Edit{From: 2, To: 3, Insert: "zz"}, Edit{From: 10, To: 10, Insert: "yyy"}, Edit{From: 15, To: 20}),
		mustNew(t, 20, Edit{From: 7, To: 7, Insert: "x"}, Edit{From: 7, To: 9, Insert: "long text"}),
	}

	for _, cs := range sets {
		for _, assoc := range []Assoc{AssocBefore, AssocAfter} {
			prev := -1
			for pos := 0; pos <= 20; pos++ {
				mapped := cs.MapPos(pos, assoc)
				assert.GreaterOrEqual(t, mapped, prev, "cs=%s pos=%d", cs, pos)
				assert.LessOrEqual(t, mapped, cs.NewLength())
				prev = mapped
			}
		}
	}
}

// Точка и начало диапазона отображаются с разным assoc, но их порядок сохраняется
func TestChangeSet_MapPosPreservesOrderingAcrossAssoc(t *testing.T) {
	sets := []ChangeSet{
		mustNew(t, 20, Edit{From: 4, To: 7, Insert: "xyz"}),
		mustNew(t, 20, Edit{From: 4, To: 12, Insert: "q"}),
		mustNew(t, 20, Edit{From: 6, To: 6, Insert: "ab"}, Edit{From: 8, To: 15, Insert: "long text"}),
		mustNew(t, 20, Edit{From: 0, To: 20, Insert: "x"}),
	}

	for _, cs := range sets {
		for p1 := 0; p1 <= 20; p1++ {
			for p2 := p1 + 1; p2 <= 20; p2++ {
				for _, a1 := range []Assoc{AssocBefore, AssocAfter} {
					for _, a2 := range []Assoc{AssocBefore, AssocAfter} {
						m1, m2 := cs.MapPos(p1, a1), cs.MapPos(p2, a2)
						assert.LessOrEqual(t, m1, m2, "cs=%s p1=%d/%d p2=%d/%d", cs, p1, a1, p2, a2)
					}
				}
			}
		}
	}
}

func TestChangeSet_MapRange(t *testing.T) {
	tests := []struct {
		name     string
		cs       ChangeSet
		input    models.SelectionRange
		expected models.SelectionRange
	}{
		{
			name:     "cursor shifted by insert",
			cs:       mustNew(t, 10, Edit{From: 0, To: 0, Insert: "abc"}),
			input:    models.Cursor(5),
			expected: models.Cursor(8),
		},
		{
			name:     "span does not grow at its edges",
			cs:       mustNew(t, 10, Edit{From: 2, To: 2, Insert: "a"}, Edit{From: 5, To: 5, Insert: "b"}),
			input:    models.NewRange(2, 5),
			expected: models.NewRange(3, 6),
		},
		{
			name:     "backward span keeps direction",
			cs:       mustNew(t, 10, Edit{From: 0, To: 1}),
			input:    models.NewRange(6, 3),
			expected: models.NewRange(5, 2),
		},
		{
			name:     "fully deleted span collapses",
			cs:       mustNew(t, 10, Edit{From: 1, To: 9}),
			input:    models.NewRange(2, 5),
			expected: models.Cursor(1),
		},
		{
			name:     "replaced span collapses to replacement start",
			cs:       mustNew(t, 10, Edit{From: 1, To: 9, Insert: "xyz"}),
			input:    models.NewRange(2, 5),
			expected: models.Cursor(1),
		},
		{
			name:     "span end inside replacement is cut at its start",
			cs:       mustNew(t, 10, Edit{From: 4, To: 8, Insert: "xyz"}),
			input:    models.NewRange(2, 6),
			expected: models.NewRange(2, 4),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cs.MapRange(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.LessOrEqual(t, got.From, got.To)
			assert.LessOrEqual(t, got.To, tt.cs.NewLength())
		})
	}
}

func TestChangeSet_JSON(t *testing.T) {
	cs := mustNew(t, 4, Edit{From: 1, To: 2, Insert: "x"})

	data, err := json.Marshal(cs)
	require.NoError(t, err)
	assert.JSONEq(t, `{"length":4,"edits":[{"from":1,"to":2,"insert":"x"}]}`, string(data))

	var decoded ChangeSet
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.NoError(t, decoded.Validate())
	assert.Equal(t, cs, decoded)
}

func TestChangeSet_Empty(t *testing.T) {
	assert.True(t, mustNew(t, 3).Empty())
	assert.True(t, mustNew(t, 3, Edit{From: 1, To: 1}).Empty())
	assert.False(t, mustNew(t, 3, Edit{From: 1, To: 2}).Empty())
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		oldText  string
		newText  string
		expected []Edit
	}{
		{name: "identical", oldText: "hello", newText: "hello", expected: []Edit{}},
		{name: "insert in the middle", oldText: "hello", newText: "heXllo", expected: []Edit{{From: 2, To: 2, Insert: "X"}}},
		{name: "repeated runes", oldText: "aa", newText: "aaa", expected: []Edit{{From: 2, To: 2, Insert: "a"}}},
		{name: "delete suffix", oldText: "hello world", newText: "hello", expected: []Edit{{From: 5, To: 11}}},
		{name: "replace unicode", oldText: "héllo", newText: "hallo", expected: []Edit{{From: 1, To: 2, Insert: "a"}}},
		{name: "from empty", oldText: "", newText: "abc", expected: []Edit{{From: 0, To: 0, Insert: "abc"}}},
		{name: "to empty", oldText: "abc", newText: "", expected: []Edit{{From: 0, To: 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := Diff(tt.oldText, tt.newText)
			require.NoError(t, cs.Validate())
			assert.Equal(t, tt.expected, cs.Edits)

			got, err := cs.Apply(tt.oldText)
			require.NoError(t, err)
			assert.Equal(t, tt.newText, got)
		})
	}
}
