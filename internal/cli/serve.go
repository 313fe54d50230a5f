package cli

import (
	"fmt"
	"io"
	"log"
	"net"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aezell/chex/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the chex parser and view.

Endpoints:
  GET  /health     - Health check
  POST /api/parse  - Parse saved cargo output into diagnostics
  GET  /api/ws     - WebSocket for interactive view sessions`,
	RunE: runServe,
}

// startAdvertiser is swapped out by tests.
var startAdvertiser = defaultStartAdvertiser

func defaultStartAdvertiser(instance string, port int, txt []string) (io.Closer, error) {
	adv, err := api.StartAdvertiser(instance, port, txt)
	if err != nil {
		return nil, err
	}
	return adv, nil
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "127.0.0.1", "address to listen on")
	serveCmd.Flags().IntP("port", "p", 7411, "port to listen on")
	serveCmd.Flags().Bool("advertise", false, "announce the server over mDNS as "+api.DefaultServiceName)
	serveCmd.Flags().String("instance", "", "mDNS instance name (default chex)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	port, _ := cmd.Flags().GetInt("port")

	if advertise, _ := cmd.Flags().GetBool("advertise"); advertise {
		if isLoopbackHost(addr) {
			log.Printf("mDNS advertisement disabled: listen address %s is loopback-only (use --addr 0.0.0.0)", addr)
		} else {
			instance, _ := cmd.Flags().GetString("instance")
			adv, err := startAdvertiser(instance, port, []string{"version=" + version})
			if err != nil {
				return err
			}
			defer adv.Close()
			log.Printf("advertising %s on port %d", api.DefaultServiceName, port)
		}
	}

	listen := net.JoinHostPort(addr, fmt.Sprint(port))
	srv := api.New(listen)
	return srv.Run(cmd.Context())
}

// isLoopbackHost reports whether a listen host is reachable only from this
// machine. The empty host listens on every interface.
func isLoopbackHost(host string) bool {
	host = strings.Trim(host, "[]")
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
