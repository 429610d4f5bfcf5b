package presence

import (
	"sort"
	"time"

	"github.com/iudanet/txtpresence/internal/changes"
	"github.com/iudanet/txtpresence/internal/models"
)

// DefaultTTL is how long a peer announcement stays live.
const DefaultTTL = 2000 * time.Millisecond

// PeerRange is one live registry record.
type PeerRange struct {
	ReceivedAt time.Time
	PeerID     string
	Range      models.SelectionRange
	Revision   uint64 // Revision меняется при каждом Upsert
}

// Registry maps peer ids to their last announced range.
//
// Registry is not safe for concurrent use: it is owned by the session event
// loop and discarded wholesale when the document changes.
type Registry struct {
	records      map[string]PeerRange
	ttl          time.Duration
	lastRevision uint64
}

// NewRegistry creates an empty registry. A non-positive ttl selects DefaultTTL.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{
		records: make(map[string]PeerRange),
		ttl:     ttl,
	}
}

// Upsert unconditionally overwrites the record of peerID (last write wins).
func (r *Registry) Upsert(peerID string, rng models.SelectionRange, now time.Time) {
	r.lastRevision++
	r.records[peerID] = PeerRange{
		PeerID:     peerID,
		Range:      rng,
		ReceivedAt: now,
		Revision:   r.lastRevision,
	}
}

// Sweep removes every record older than the TTL and returns the live
// records ordered by peer id.
func (r *Registry) Sweep(now time.Time) []PeerRange {
	live := make([]PeerRange, 0, len(r.records))
	for id, rec := range r.records {
		// Запись устарела, если с момента получения прошло больше TTL
		if now.Sub(rec.ReceivedAt) > r.ttl {
			delete(r.records, id)
			continue
		}
		live = append(live, rec)
	}

	sort.Slice(live, func(i, j int) bool {
		return live[i].PeerID < live[j].PeerID
	})
	return live
}

// Remap moves every stored range through a document change. Timestamps and
// revisions are kept: a remap is not a new announcement.
func (r *Registry) Remap(cs changes.ChangeSet) {
	for id, rec := range r.records {
		rec.Range = cs.MapRange(rec.Range)
		r.records[id] = rec
	}
}

// Get returns the record of peerID without sweeping.
func (r *Registry) Get(peerID string) (PeerRange, bool) {
	rec, ok := r.records[peerID]
	return rec, ok
}

// Len returns the number of records, including ones not swept yet.
func (r *Registry) Len() int {
	return len(r.records)
}

// TTL returns the liveness TTL of the registry.
func (r *Registry) TTL() time.Duration {
	return r.ttl
}
