package cli

import (
	"context"
	"fmt"
	"text/template"
	"time"

	"github.com/sanity-io/litter"
)

const peersTemplate = `Peers on {{.Locator}}:
{{- range .Peers}}
  {{.PeerID}}  {{.Range.From}}..{{.Range.To}}  seen {{age .ReceivedAt}} ago
{{- else}}
  no live peers
{{- end}}
`

var peersTmpl = template.Must(template.New("peers").Funcs(template.FuncMap{
	"age": func(t time.Time) time.Duration {
		return time.Since(t).Round(time.Millisecond)
	},
}).Parse(peersTemplate))

func (c *Cli) runPeers(ctx context.Context, _ string) error {
	if _, err := c.handle(); err != nil {
		return err
	}
	state, err := c.presence.State(ctx)
	if err != nil {
		return err
	}
	return peersTmpl.Execute(c.io, state)
}

var dumper = litter.Options{
	HidePrivateFields: true,
	StripPackageNames: true,
}

func (c *Cli) runDebug(ctx context.Context, _ string) error {
	state, err := c.presence.State(ctx)
	if err != nil {
		return err
	}
	c.io.Println(dumper.Sdump(state))
	return nil
}

// discoverTimeout время сбора mDNS-ответов
const discoverTimeout = 3 * time.Second

const servicesTemplate = `Relay servers:
{{- range .}}
  {{.Instance}}  {{.URL}}{{if .Version}}  ({{.Version}}){{end}}
{{- else}}
  none found
{{- end}}
`

var servicesTmpl = template.Must(template.New("services").Parse(servicesTemplate))

func (c *Cli) runDiscover(ctx context.Context, _ string) error {
	if c.browse == nil {
		return fmt.Errorf("discovery is not available")
	}

	c.io.Println("Browsing the local network...")
	ctx, cancel := context.WithTimeout(ctx, discoverTimeout)
	defer cancel()

	services, err := c.browse(ctx)
	if err != nil {
		return err
	}
	return servicesTmpl.Execute(c.io, services)
}
