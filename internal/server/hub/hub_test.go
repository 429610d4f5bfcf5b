package hub

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/txtpresence/internal/changes"
	"github.com/iudanet/txtpresence/internal/models"
	"github.com/iudanet/txtpresence/internal/replica"
	"github.com/iudanet/txtpresence/internal/server/storage"
	"github.com/iudanet/txtpresence/internal/server/storage/sqlite"
	"github.com/iudanet/txtpresence/pkg/api"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStorage(t *testing.T) *sqlite.Storage {
	t.Helper()
	s, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func createDocument(t *testing.T, s storage.DocumentStorage, text string) string {
	t.Helper()
	now := time.Now()
	doc := &models.Document{
		Locator:   replica.NewLocator().String(),
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreateDocument(context.Background(), doc))
	return doc.Locator
}

// memBus доставляет сообщения всем подписчикам в пределах процесса
type memBus struct {
	subs map[string]map[int]func([]byte)
	next int
	mu   sync.Mutex
}

func newMemBus() *memBus {
	return &memBus{subs: make(map[string]map[int]func([]byte))}
}

func (b *memBus) Publish(_ context.Context, locator string, msg []byte) error {
	b.mu.Lock()
	fns := make([]func([]byte), 0, len(b.subs[locator]))
	for _, fn := range b.subs[locator] {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(msg)
	}
	return nil
}

func (b *memBus) Subscribe(_ context.Context, locator string, fn func([]byte)) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[locator] == nil {
		b.subs[locator] = make(map[int]func([]byte))
	}
	id := b.next
	b.next++
	b.subs[locator][id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[locator], id)
	}, nil
}

func (b *memBus) Close() error { return nil }

var upgrader = websocket.Upgrader{}

func startRelay(t *testing.T, h *Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		locator := strings.TrimPrefix(r.URL.Path, "/ws/")
		_ = h.Serve(r.Context(), conn, locator, r.URL.Query().Get("peer"))
	}))
	t.Cleanup(func() {
		h.Close()
		srv.Close()
	})
	return srv
}

func dial(t *testing.T, srv *httptest.Server, locator, peer string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + locator + "?peer=" + peer
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) api.Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var f api.Frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func sendChange(t *testing.T, conn *websocket.Conn, id string, base int64, cs changes.ChangeSet) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(api.Frame{Type: api.FrameChange, ID: id, Version: base, Change: &cs}))
}

func TestHub_SnapshotOnJoin(t *testing.T) {
	store := newTestStorage(t)
	locator := createDocument(t, store, "hello")
	srv := startRelay(t, New(store, nil, newTestLogger()))

	conn := dial(t, srv, locator, "alice")

	f := readFrame(t, conn)
	assert.Equal(t, api.FrameSnapshot, f.Type)
	assert.Equal(t, "hello", f.Text)
	assert.Equal(t, int64(0), f.Version)
}

func TestHub_ChangeIsSequencedAndPersisted(t *testing.T) {
	store := newTestStorage(t)
	locator := createDocument(t, store, "hello")
	srv := startRelay(t, New(store, nil, newTestLogger()))

	alice := dial(t, srv, locator, "alice")
	readFrame(t, alice)
	bob := dial(t, srv, locator, "bob")
	readFrame(t, bob)

	cs, err := changes.Insert(5, 0, "abc")
	require.NoError(t, err)
	sendChange(t, alice, "c1", 0, cs)

	for _, conn := range []*websocket.Conn{alice, bob} {
		f := readFrame(t, conn)
		assert.Equal(t, api.FrameChange, f.Type)
		assert.Equal(t, "c1", f.ID)
		assert.Equal(t, "alice", f.Sender)
		assert.Equal(t, int64(1), f.Version)
		require.NotNil(t, f.Change)
		assert.Equal(t, cs, *f.Change)
	}

	doc, err := store.GetDocument(context.Background(), locator)
	require.NoError(t, err)
	assert.Equal(t, "abchello", doc.Text)
	assert.Equal(t, int64(1), doc.Version)
}

func TestHub_StaleChangeIsRejected(t *testing.T) {
	store := newTestStorage(t)
	locator := createDocument(t, store, "hello")
	srv := startRelay(t, New(store, nil, newTestLogger()))

	alice := dial(t, srv, locator, "alice")
	readFrame(t, alice)

	first, err := changes.Insert(5, 5, "!")
	require.NoError(t, err)
	sendChange(t, alice, "c1", 0, first)
	readFrame(t, alice)

	tests := []struct {
		name string
		base int64
		cs   changes.ChangeSet
	}{
		{name: "old base version", base: 0, cs: first},
		{name: "length mismatch", base: 1, cs: first},
		{name: "out of bounds edit", base: 1, cs: changes.ChangeSet{Length: 6, Edits: []changes.Edit{{From: 4, To: 9}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sendChange(t, alice, "stale", tt.base, tt.cs)

			f := readFrame(t, alice)
			assert.Equal(t, api.FrameReject, f.Type)
			assert.Equal(t, "stale", f.ID)
			assert.Equal(t, "hello!", f.Text)
			assert.Equal(t, int64(1), f.Version)
		})
	}
}

func TestHub_EphemeralStampsSender(t *testing.T) {
	store := newTestStorage(t)
	locator := createDocument(t, store, "hello")
	srv := startRelay(t, New(store, nil, newTestLogger()))

	alice := dial(t, srv, locator, "alice")
	readFrame(t, alice)
	bob := dial(t, srv, locator, "bob")
	readFrame(t, bob)

	require.NoError(t, alice.WriteJSON(api.Frame{
		Type:    api.FrameEphemeral,
		Sender:  "mallory",
		Payload: []byte(`{"$type":"hello"}`),
	}))

	f := readFrame(t, bob)
	assert.Equal(t, api.FrameEphemeral, f.Type)
	assert.Equal(t, "alice", f.Sender)
	assert.JSONEq(t, `{"$type":"hello"}`, string(f.Payload))
}

func TestHub_RelaysAcrossInstances(t *testing.T) {
	store := newTestStorage(t)
	locator := createDocument(t, store, "hello")
	bus := newMemBus()

	first := New(store, bus, newTestLogger())
	second := New(store, bus, newTestLogger())
	srv1 := startRelay(t, first)
	srv2 := startRelay(t, second)

	alice := dial(t, srv1, locator, "alice")
	readFrame(t, alice)
	bob := dial(t, srv2, locator, "bob")
	readFrame(t, bob)

	cs, err := changes.Insert(5, 5, " world")
	require.NoError(t, err)
	sendChange(t, alice, "c1", 0, cs)
	readFrame(t, alice)

	f := readFrame(t, bob)
	assert.Equal(t, api.FrameChange, f.Type)
	assert.Equal(t, "alice", f.Sender)
	assert.Equal(t, int64(1), f.Version)

	// Второй экземпляр продолжает последовательность версий
	next, err := changes.Insert(11, 11, "!")
	require.NoError(t, err)
	sendChange(t, bob, "c2", 1, next)
	f = readFrame(t, bob)
	assert.Equal(t, api.FrameChange, f.Type)
	assert.Equal(t, int64(2), f.Version)

	f = readFrame(t, alice)
	assert.Equal(t, "c2", f.ID)
	assert.Equal(t, "bob", f.Sender)

	require.NoError(t, bob.WriteJSON(api.Frame{Type: api.FrameEphemeral, Payload: []byte(`{"$type":"hello"}`)}))
	f = readFrame(t, alice)
	assert.Equal(t, api.FrameEphemeral, f.Type)
	assert.Equal(t, "bob", f.Sender)

	doc, err := store.GetDocument(context.Background(), locator)
	require.NoError(t, err)
	assert.Equal(t, "hello world!", doc.Text)
}

func TestHub_ResyncsAfterMissedRemoteChange(t *testing.T) {
	store := newTestStorage(t)
	locator := createDocument(t, store, "hello")
	srv := startRelay(t, New(store, nil, newTestLogger()))

	alice := dial(t, srv, locator, "alice")
	readFrame(t, alice)

	// Другой экземпляр записал версию 1 в обход этого
	require.NoError(t, store.UpdateDocument(context.Background(), &models.Document{
		Locator:   locator,
		Text:      "hello there",
		Version:   1,
		UpdatedAt: time.Now(),
	}))

	cs, err := changes.Insert(5, 0, ">")
	require.NoError(t, err)
	sendChange(t, alice, "c1", 0, cs)

	f := readFrame(t, alice)
	assert.Equal(t, api.FrameSnapshot, f.Type)
	assert.Equal(t, "hello there", f.Text)

	f = readFrame(t, alice)
	assert.Equal(t, api.FrameReject, f.Type)
	assert.Equal(t, int64(1), f.Version)
}

func TestHub_RoomLifecycle(t *testing.T) {
	store := newTestStorage(t)
	locator := createDocument(t, store, "hello")
	h := New(store, nil, newTestLogger())
	srv := startRelay(t, h)

	_, err := h.join(context.Background(), replica.NewLocator().String())
	require.ErrorIs(t, err, storage.ErrDocumentNotFound)

	alice := dial(t, srv, locator, "alice")
	readFrame(t, alice)
	assert.Equal(t, 1, h.Rooms())

	require.NoError(t, alice.Close())
	assert.Eventually(t, func() bool { return h.Rooms() == 0 }, 5*time.Second, 10*time.Millisecond)
}
