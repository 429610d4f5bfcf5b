package presence

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/iudanet/txtpresence/internal/changes"
	"github.com/iudanet/txtpresence/internal/models"
	"github.com/iudanet/txtpresence/internal/replica"
)

// DefaultBroadcastInterval is the period of re-announcements and overlay refreshes.
const DefaultBroadcastInterval = 1000 * time.Millisecond

// Config configures a Session.
type Config struct {
	Now               func() time.Time
	TTL               time.Duration
	BroadcastInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.BroadcastInterval <= 0 {
		c.BroadcastInterval = DefaultBroadcastInterval
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// RenderFunc receives the decoration set each time it changes.
type RenderFunc func(set models.DecorationSet)

// Stats counts presence traffic of a session.
type Stats struct {
	Received  int `json:"received"`
	Sent      int `json:"sent"`
	Malformed int `json:"malformed"`
	Stale     int `json:"stale"`
}

// State is a snapshot of the session, used by debug tooling.
type State struct {
	Locator     replica.Locator      `json:"locator"`
	Peers       []PeerRange          `json:"peers"`
	Decorations models.DecorationSet `json:"decorations"`
	Selection   models.Selection     `json:"selection"`
	Generation  uint64               `json:"generation"`
	TextLength  int                  `json:"text_length"`
	Stats       Stats                `json:"stats"`
}

// Session runs the presence protocol for the active document handle.
//
// All presence state is owned by the goroutine running Run. Handle callbacks,
// selection updates and handle switches are queued to it, so registry and
// overlay need no locking. Each Switch starts a new generation; callbacks
// registered under an older generation are dropped as stale.
type Session struct {
	cfg     Config
	logger  *slog.Logger
	mailbox *mailbox
	render  replica.Subscribers[RenderFunc]
	done    chan struct{}

	// Состояние ниже принадлежит горутине Run
	handle     replica.Handle
	protocol   *Protocol
	registry   *Registry
	overlay    *Overlay
	unsubs     []replica.Unsubscribe
	rendered   models.DecorationSet
	selection  models.Selection
	generation uint64
	textLen    int
	sentBefore int
	stats      Stats
}

// NewSession creates a session without an active handle.
func NewSession(cfg Config, logger *slog.Logger) *Session {
	cfg = cfg.withDefaults()
	return &Session{
		cfg:       cfg,
		logger:    logger,
		mailbox:   newMailbox(),
		done:      make(chan struct{}),
		registry:  NewRegistry(cfg.TTL),
		overlay:   NewOverlay(),
		selection: models.SingleSelection(models.Cursor(0)),
	}
}

// Run processes session events until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.BroadcastInterval)
	defer func() {
		ticker.Stop()
		s.mailbox.close()
		s.unsubscribe()
		s.render.Close()
		close(s.done)
	}()

	s.logger.Debug("Presence session started", "interval", s.cfg.BroadcastInterval, "ttl", s.cfg.TTL)

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Presence session stopped")
			return ctx.Err()
		case <-ticker.C:
			s.tick()
		case <-s.mailbox.notify:
			for _, task := range s.mailbox.drain() {
				task()
			}
		}
	}
}

// Done is closed after Run returns.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Switch makes h the active handle. Subscriptions bound to the previous
// handle are cancelled and the registry and overlay start empty. The caller
// keeps ownership of both handles. A nil handle detaches the session.
func (s *Session) Switch(h replica.Handle) error {
	return s.enqueue(func() { s.switchTo(h) })
}

// SetSelection replaces the local selection and announces it.
func (s *Session) SetSelection(sel models.Selection) error {
	sel = sel.Clone()
	return s.enqueue(func() {
		s.selection = sel.Clamp(s.textLen)
		if s.protocol != nil {
			s.protocol.Announce(s.selection)
		}
	})
}

// OnRender registers fn to be called from the event loop whenever the
// decoration set changes. fn must not block on the session.
func (s *Session) OnRender(fn RenderFunc) replica.Unsubscribe {
	return s.render.Add(fn)
}

// Decorations returns the current decoration set.
func (s *Session) Decorations(ctx context.Context) (models.DecorationSet, error) {
	var out models.DecorationSet
	err := s.call(ctx, func() { out = s.rendered.Clone() })
	return out, err
}

// Selection returns the current local selection.
func (s *Session) Selection(ctx context.Context) (models.Selection, error) {
	var out models.Selection
	err := s.call(ctx, func() { out = s.selection.Clone() })
	return out, err
}

// State returns a snapshot of the session.
func (s *Session) State(ctx context.Context) (State, error) {
	var out State
	err := s.call(ctx, func() {
		// Снимок реестра и декораций берется после одного и того же sweep
		live := s.refresh(false)
		out = State{
			Generation:  s.generation,
			Peers:       live,
			Decorations: s.rendered.Clone(),
			Selection:   s.selection.Clone(),
			TextLength:  s.textLen,
			Stats:       s.stats,
		}
		out.Stats.Sent = s.sentBefore
		if s.protocol != nil {
			out.Stats.Sent += s.protocol.Sent()
		}
		if s.handle != nil {
			out.Locator = s.handle.Locator()
		}
	})
	return out, err
}

func (s *Session) enqueue(task func()) error {
	if !s.mailbox.push(task) {
		return ErrSessionClosed
	}
	return nil
}

// call runs task on the event loop and waits for it to finish.
func (s *Session) call(ctx context.Context, task func()) error {
	finished := make(chan struct{})
	if err := s.enqueue(func() {
		task()
		close(finished)
	}); err != nil {
		return err
	}

	select {
	case <-finished:
		return nil
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) switchTo(h replica.Handle) {
	s.unsubscribe()
	if s.protocol != nil {
		s.sentBefore += s.protocol.Sent()
	}

	s.generation++
	gen := s.generation
	s.handle = h
	s.protocol = nil
	s.registry = NewRegistry(s.cfg.TTL)
	s.overlay = NewOverlay()
	s.selection = models.SingleSelection(models.Cursor(0))
	s.textLen = 0

	if h == nil {
		s.refresh(true)
		return
	}

	logger := s.logger.With("locator", h.Locator().String())
	s.protocol = NewProtocol(h, logger)

	s.unsubs = append(s.unsubs,
		h.OnChange(func(cs changes.ChangeSet) {
			s.mailbox.push(func() { s.handleChange(gen, cs) })
		}),
		h.OnEphemeral(func(senderID string, payload []byte) {
			data := append([]byte(nil), payload...)
			s.mailbox.push(func() { s.handleEphemeral(gen, senderID, data) })
		}),
	)
	// Длину читаем после подписки: изменение между ними придет событием
	s.textLen = utf8.RuneCountInString(h.Text())

	logger.Info("Presence attached to document", "generation", gen, "text_length", s.textLen)

	s.protocol.Hello()
	s.refresh(true)
}

func (s *Session) unsubscribe() {
	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil
}

func (s *Session) stale(gen uint64, kind string) bool {
	if gen == s.generation {
		return false
	}
	s.stats.Stale++
	s.logger.Debug("Dropping stale handle event", "kind", kind, "generation", gen, "current", s.generation)
	return true
}

func (s *Session) handleChange(gen uint64, cs changes.ChangeSet) {
	if s.stale(gen, "change") {
		return
	}
	if cs.Length != s.textLen {
		s.logger.Warn("Change set length differs from tracked text length",
			"expected", s.textLen, "got", cs.Length)
	}

	// Сначала переносим уже отрисованные декорации, затем состояние реестра
	changed := s.overlay.Map(cs)
	s.registry.Remap(cs)

	for i, r := range s.selection.Ranges {
		s.selection.Ranges[i] = cs.MapRange(r)
	}
	s.textLen = cs.NewLength()
	s.selection = s.selection.Clamp(s.textLen)

	s.refresh(changed)
}

func (s *Session) handleEphemeral(gen uint64, senderID string, payload []byte) {
	if s.stale(gen, "ephemeral") {
		return
	}
	s.stats.Received++

	switch s.protocol.Receive(senderID, payload, s.registry, s.cfg.Now(), s.selection) {
	case InboundMalformed:
		s.stats.Malformed++
	case InboundRange:
		s.refresh(false)
	}
}

func (s *Session) tick() {
	if s.protocol != nil {
		s.protocol.Announce(s.selection)
	}
	s.refresh(false)
}

// refresh sweeps the registry, folds it into the overlay and notifies
// renderers when the visible set differs from the last rendered one.
// It returns the live records the overlay was folded from.
func (s *Session) refresh(changed bool) []PeerRange {
	live := s.registry.Sweep(s.cfg.Now())
	if s.overlay.Fold(live, s.textLen) {
		changed = true
	}

	set := s.overlay.Set()
	notify := changed && (s.rendered == nil || !set.Equal(s.rendered))
	s.rendered = set
	if notify {
		for _, fn := range s.render.Snapshot() {
			fn(set.Clone())
		}
	}
	return live
}
