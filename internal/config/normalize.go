package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// applyEnv overrides file values with environment variables that are set.
func (c *Config) applyEnv() error {
	if value, ok := os.LookupEnv("IMMICH_URL"); ok {
		c.Upstream.URL = value
	}
	if value, ok := os.LookupEnv("IMMICH_API_KEY"); ok {
		c.Upstream.APIKey = value
	}
	if value, ok := os.LookupEnv("ALBUMPROXY_LISTEN"); ok {
		c.Server.Listen = value
	}
	if value, ok := os.LookupEnv("ALBUMPROXY_BASE_PATH"); ok {
		c.Server.BasePath = value
	}
	if value, ok := os.LookupEnv("LOG_LEVEL"); ok {
		c.Logging.Level = value
	}
	if value, ok := os.LookupEnv("OTEL_ENABLED"); ok {
		enabled, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("OTEL_ENABLED: %w", err)
		}
		c.Tracing.Enabled = enabled
	}
	if value, ok := os.LookupEnv("OTEL_EXPORTER_OTLP_ENDPOINT"); ok {
		c.Tracing.Endpoint = value
	}
	return nil
}

func (c *Config) normalize() {
	c.normalizeServer()
	c.normalizeUpstream()
	c.normalizeLogging()
	c.normalizeTracing()
}

func (c *Config) normalizeServer() {
	c.Server.Listen = strings.TrimSpace(c.Server.Listen)
	if c.Server.Listen == "" {
		c.Server.Listen = defaultListen
	}
	c.Server.BasePath = NormalizeBasePath(c.Server.BasePath)
}

// NormalizeBasePath returns p with one leading slash and no trailing slash.
// The root path normalizes to "".
func NormalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

func (c *Config) normalizeUpstream() {
	c.Upstream.URL = strings.TrimRight(strings.TrimSpace(c.Upstream.URL), "/")
	c.Upstream.APIKey = strings.TrimSpace(c.Upstream.APIKey)
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.Level == "warning" {
		c.Logging.Level = "warn"
	}
}

func (c *Config) normalizeTracing() {
	c.Tracing.Endpoint = strings.TrimRight(strings.TrimSpace(c.Tracing.Endpoint), "/")
	if c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = defaultTracingEndpoint
	}
	c.Tracing.ServiceName = strings.TrimSpace(c.Tracing.ServiceName)
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = defaultTracingServiceName
	}
}
