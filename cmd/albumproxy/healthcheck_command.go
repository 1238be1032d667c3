package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// newHealthcheckCommand probes a running server. It does not load the
// configuration so it works in minimal container images.
func newHealthcheckCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:         "healthcheck",
		Short:       "Check the /health endpoint of a running server",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = os.Getenv("ALBUMPROXY_LISTEN")
			}
			if addr == "" {
				addr = ":3000"
			}

			url, err := healthURL(addr)
			if err != nil {
				return err
			}

			client := &http.Client{Timeout: 2 * time.Second}
			resp, err := client.Get(url)
			if err != nil {
				return fmt.Errorf("healthcheck request failed: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Server address (default $ALBUMPROXY_LISTEN or :3000)")
	return cmd
}

// healthURL turns a listen address into a loopback URL for /health.
func healthURL(addr string) (string, error) {
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return strings.TrimRight(addr, "/") + "/health", nil
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("invalid address %q: %w", addr, err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + "/health", nil
}
