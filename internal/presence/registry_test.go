package presence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/txtpresence/internal/changes"
	"github.com/iudanet/txtpresence/internal/models"
)

func TestRegistry_UpsertIsIdempotentPerPeer(t *testing.T) {
	reg := NewRegistry(DefaultTTL)
	start := time.Unix(1700000000, 0)
	rng := models.NewRange(2, 5)

	for i := 0; i < 10; i++ {
		reg.Upsert("peer-a", rng, start.Add(time.Duration(i)*100*time.Millisecond))
		assert.Equal(t, 1, reg.Len())
	}

	rec, ok := reg.Get("peer-a")
	require.True(t, ok)
	assert.Equal(t, rng, rec.Range)
	assert.Equal(t, start.Add(900*time.Millisecond), rec.ReceivedAt)
}

func TestRegistry_UpsertLastWriteWins(t *testing.T) {
	reg := NewRegistry(DefaultTTL)
	now := time.Unix(1700000000, 0)

	reg.Upsert("peer-a", models.Cursor(1), now)
	first, _ := reg.Get("peer-a")
	reg.Upsert("peer-a", models.Cursor(7), now)
	second, _ := reg.Get("peer-a")

	assert.Equal(t, models.Cursor(7), second.Range)
	assert.Greater(t, second.Revision, first.Revision)
}

func TestRegistry_SweepTTL(t *testing.T) {
	start := time.Unix(1700000000, 0)

	tests := []struct {
		name    string
		elapsed time.Duration
		live    bool
	}{
		{name: "fresh", elapsed: 0, live: true},
		{name: "just under ttl", elapsed: 1999 * time.Millisecond, live: true},
		{name: "exactly ttl", elapsed: 2000 * time.Millisecond, live: true},
		{name: "past ttl", elapsed: 2001 * time.Millisecond, live: false},
		{name: "long gone", elapsed: time.Minute, live: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry(DefaultTTL)
			reg.Upsert("peer-a", models.Cursor(3), start)

			live := reg.Sweep(start.Add(tt.elapsed))
			if tt.live {
				require.Len(t, live, 1)
				assert.Equal(t, "peer-a", live[0].PeerID)
				assert.Equal(t, 1, reg.Len())
				return
			}
			assert.Empty(t, live)
			assert.Equal(t, 0, reg.Len())
		})
	}
}

// После Sweep(now) каждая оставшаяся запись моложе TTL
func TestRegistry_SweepInvariant(t *testing.T) {
	reg := NewRegistry(DefaultTTL)
	start := time.Unix(1700000000, 0)

	for i := 0; i < 50; i++ {
		peer := string(rune('a' + i%26))
		reg.Upsert(peer, models.Cursor(i), start.Add(time.Duration(i)*97*time.Millisecond))
	}

	for step := 0; step < 20; step++ {
		now := start.Add(time.Duration(step) * 450 * time.Millisecond)
		live := reg.Sweep(now)
		for _, rec := range live {
			assert.LessOrEqual(t, now.Sub(rec.ReceivedAt), DefaultTTL)
		}
		assert.Equal(t, len(live), reg.Len())
	}
}

func TestRegistry_SweepOrdersByPeer(t *testing.T) {
	reg := NewRegistry(0)
	now := time.Unix(1700000000, 0)
	reg.Upsert("carol", models.Cursor(1), now)
	reg.Upsert("alice", models.Cursor(2), now)
	reg.Upsert("bob", models.Cursor(3), now)

	live := reg.Sweep(now)
	require.Len(t, live, 3)
	assert.Equal(t, []string{"alice", "bob", "carol"}, []string{live[0].PeerID, live[1].PeerID, live[2].PeerID})
	assert.Equal(t, DefaultTTL, reg.TTL())
}

func TestRegistry_Remap(t *testing.T) {
	reg := NewRegistry(DefaultTTL)
	now := time.Unix(1700000000, 0)
	reg.Upsert("peer-b", models.Cursor(5), now)
	before, _ := reg.Get("peer-b")

	cs, err := changes.Insert(10, 0, "abc")
	require.NoError(t, err)
	reg.Remap(cs)

	after, ok := reg.Get("peer-b")
	require.True(t, ok)
	assert.Equal(t, models.Cursor(8), after.Range)
	assert.Equal(t, before.Revision, after.Revision)
	assert.Equal(t, before.ReceivedAt, after.ReceivedAt)
}
