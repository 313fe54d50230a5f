package api

import (
	"fmt"
	"net"
	"strings"

	"github.com/libp2p/zeroconf/v2"
)

const (
	DefaultServiceName = "_chex._tcp"
	DefaultDomain      = "local."
)

// Advertiser announces a running server over mDNS so editors on the local
// network can find it.
type Advertiser struct {
	server *zeroconf.Server
}

// StartAdvertiser registers instance on port. Empty names use the defaults.
func StartAdvertiser(instance string, port int, txt []string) (*Advertiser, error) {
	if strings.TrimSpace(instance) == "" {
		instance = "chex"
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid advertise port: %d", port)
	}

	server, err := zeroconf.Register(instance, DefaultServiceName, DefaultDomain, port, txt, pickInterfaces())
	if err != nil {
		return nil, fmt.Errorf("start mdns advertiser: %w", err)
	}
	return &Advertiser{server: server}, nil
}

// Close withdraws the announcement.
func (a *Advertiser) Close() error {
	if a == nil || a.server == nil {
		return nil
	}
	a.server.Shutdown()
	return nil
}

// pickInterfaces returns the up, non-loopback interfaces, or nil to let
// zeroconf use all of them.
func pickInterfaces() []net.Interface {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil
	}
	out := make([]net.Interface, 0, len(ifaces))
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		out = append(out, iface)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
