// Package cli implements the interactive terminal client: a line oriented
// editor of the active document that shows the selections of remote peers.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/iudanet/txtpresence/internal/client/iocli"
	"github.com/iudanet/txtpresence/internal/client/render"
	"github.com/iudanet/txtpresence/internal/client/storage"
	"github.com/iudanet/txtpresence/internal/discovery"
	"github.com/iudanet/txtpresence/internal/models"
	"github.com/iudanet/txtpresence/internal/presence"
	"github.com/iudanet/txtpresence/internal/replica"
)

// ErrNoDocument indicates that no document is open yet
var ErrNoDocument = errors.New("no document is open")

// Presence is the part of the presence session used by the commands
type Presence interface {
	SetSelection(sel models.Selection) error
	State(ctx context.Context) (presence.State, error)
}

// Documents returns the active document handle
type Documents interface {
	Handle() replica.Handle
}

// BrowseFunc finds relay servers on the local network
type BrowseFunc func(ctx context.Context) ([]discovery.Service, error)

// Config holds the dependencies of the client commands.
type Config struct {
	IO        iocli.IO
	Presence  Presence
	Documents Documents
	Store     storage.DocumentStorage
	Browse    BrowseFunc
	Logger    *slog.Logger
	PeerName  string
}

type Cli struct {
	io        iocli.IO
	presence  Presence
	documents Documents
	store     storage.DocumentStorage
	browse    BrowseFunc
	renderer  *render.Renderer
	logger    *slog.Logger
	peerName  string
	commands  map[string]command
}

type command struct {
	run   func(ctx context.Context, args string) error
	usage string
	help  string
}

func New(cfg Config) *Cli {
	c := &Cli{
		io:        cfg.IO,
		presence:  cfg.Presence,
		documents: cfg.Documents,
		store:     cfg.Store,
		browse:    cfg.Browse,
		renderer:  render.New(cfg.IO.IsTerminal()),
		logger:    cfg.Logger,
		peerName:  cfg.PeerName,
	}
	c.commands = c.registerCommands()
	return c
}

// Run reads commands until quit, end of input or ctx cancellation.
func (c *Cli) Run(ctx context.Context) error {
	c.io.Printf("Connected as %s. Type 'help' for commands.\n", c.peerName)

	for {
		line, err := c.io.ReadInput("> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read command: %w", err)
		}
		if ctx.Err() != nil {
			return nil
		}

		quit, err := c.Execute(ctx, line)
		if err != nil {
			c.io.Printf("Error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// Execute runs one command line. quit is true for the quit command.
func (c *Cli) Execute(ctx context.Context, line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}

	name, args, _ := strings.Cut(line, " ")
	switch name {
	case "quit", "exit":
		return true, nil
	}

	cmd, ok := c.commands[name]
	if !ok {
		return false, fmt.Errorf("unknown command: %s. Type 'help' for commands", name)
	}
	return false, cmd.run(ctx, strings.TrimSpace(args))
}

// handle возвращает активный документ или ErrNoDocument
func (c *Cli) handle() (replica.Handle, error) {
	h := c.documents.Handle()
	if h == nil {
		return nil, ErrNoDocument
	}
	return h, nil
}
