// Package discovery advertises relay servers on the local network over mDNS
// and lets clients find them.
package discovery

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type of relay servers
	ServiceType = "_txtpresence._tcp"
	// Domain is the mDNS domain browsed and advertised in
	Domain = "local."
)

// Advertiser keeps a relay server registered on the local network.
type Advertiser struct {
	server *zeroconf.Server
}

// Advertise registers the relay listening on port under instance name.
func Advertise(instance string, port int, version string) (*Advertiser, error) {
	server, err := zeroconf.Register(instance, ServiceType, Domain, port, []string{"version=" + version}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}
	return &Advertiser{server: server}, nil
}

// Shutdown withdraws the advertisement.
func (a *Advertiser) Shutdown() {
	a.server.Shutdown()
}

// Service is a relay server found on the local network.
type Service struct {
	Instance string
	Host     string
	Version  string
	Port     int
}

// URL returns the HTTP base URL of the relay.
func (s Service) URL() string {
	return "http://" + net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

func toService(e *zeroconf.ServiceEntry) Service {
	s := Service{
		Instance: e.Instance,
		Host:     strings.TrimSuffix(e.HostName, "."),
		Port:     e.Port,
	}
	// IPv4 надежнее имени хоста: .local резолвится не везде
	if len(e.AddrIPv4) > 0 {
		s.Host = e.AddrIPv4[0].String()
	} else if len(e.AddrIPv6) > 0 {
		s.Host = e.AddrIPv6[0].String()
	}
	for _, txt := range e.Text {
		if v, ok := strings.CutPrefix(txt, "version="); ok {
			s.Version = v
		}
	}
	return s
}

// Browse collects relays announced until ctx is done, sorted by instance name.
func Browse(ctx context.Context) ([]Service, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry, 16)
	if err := resolver.Browse(ctx, ServiceType, Domain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse mDNS services: %w", err)
	}

	found := make(map[string]Service)
	for {
		select {
		case e, ok := <-entries:
			if !ok {
				return sortServices(found), nil
			}
			found[e.Instance] = toService(e)
		case <-ctx.Done():
			return sortServices(found), nil
		}
	}
}

func sortServices(found map[string]Service) []Service {
	out := make([]Service, 0, len(found))
	for _, s := range found {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Instance < out[j].Instance })
	return out
}
