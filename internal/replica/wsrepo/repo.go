// Package wsrepo is a replica.Repo backed by the relay server: documents are
// created over HTTP and opened over a websocket that carries changes and
// ephemeral messages.
package wsrepo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iudanet/txtpresence/internal/client/api"
	"github.com/iudanet/txtpresence/internal/replica"
)

// ErrConnectionLost indicates that the websocket of a handle was closed by the relay or the network
var ErrConnectionLost = errors.New("connection to relay lost")

// Repo opens documents on a relay server.
type Repo struct {
	api    *api.Client
	dialer *websocket.Dialer
	logger *slog.Logger
	wsBase string
	peer   string
}

var _ replica.Repo = (*Repo)(nil)

// New creates a Repo for the relay at baseURL (http or https) acting as peer.
func New(baseURL, peer string, logger *slog.Logger) (*Repo, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}

	return &Repo{
		api: api.NewClient(strings.TrimRight(baseURL, "/")),
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		logger: logger,
		wsBase: strings.TrimRight(u.String(), "/"),
		peer:   peer,
	}, nil
}

// Create creates a document on the relay and waits until its handle is synchronized.
func (r *Repo) Create(ctx context.Context, initialText string) (replica.Handle, error) {
	doc, err := r.api.CreateDocument(ctx, initialText)
	if err != nil {
		return nil, err
	}

	h := r.open(replica.Locator(doc.Locator))
	if err := h.WhenReady(ctx); err != nil {
		_ = h.Close()
		return nil, err
	}

	r.logger.Debug("Document created", "locator", doc.Locator)
	return h, nil
}

// Find opens a document. The connection is established in the background;
// WhenReady reports replica.ErrDocumentNotFound for unknown documents.
func (r *Repo) Find(_ context.Context, locator replica.Locator) (replica.Handle, error) {
	if !r.IsValidLocator(locator.String()) {
		return nil, fmt.Errorf("%w: %q", replica.ErrInvalidLocator, locator)
	}
	return r.open(locator), nil
}

// IsValidLocator implements replica.Repo.
func (r *Repo) IsValidLocator(s string) bool {
	return replica.IsValidLocator(s)
}

// PeerID implements replica.Repo.
func (r *Repo) PeerID() string {
	return r.peer
}

func (r *Repo) open(locator replica.Locator) *Handle {
	h := newHandle(locator, r.logger.With("locator", locator.String()))

	target := r.wsBase + "/ws/" + url.PathEscape(locator.String()) + "?peer=" + url.QueryEscape(r.peer)
	go h.connect(r.dialer, target)

	return h
}
