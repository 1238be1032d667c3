package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/Sternrassler/album-proxy/pkg/logging"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateUpstream(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateTracing(); err != nil {
		return err
	}
	if err := c.validateCheck(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Listen == "" {
		return errors.New("server.listen must be set")
	}
	if strings.ContainsAny(c.Server.BasePath, "?#:* ") {
		return fmt.Errorf("server.base_path %q must be a plain path", c.Server.BasePath)
	}
	if c.Server.ShutdownTimeoutSeconds <= 0 {
		return errors.New("server.shutdown_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateUpstream() error {
	if c.Upstream.URL == "" {
		return fmt.Errorf("upstream.url is required. Set IMMICH_URL env var or edit %s (create with 'albumproxy config init')", configHint())
	}
	u, err := url.Parse(c.Upstream.URL)
	if err != nil {
		return fmt.Errorf("upstream.url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("upstream.url %q must be an absolute http(s) URL", c.Upstream.URL)
	}
	if c.Upstream.APIKey == "" {
		return fmt.Errorf("upstream.api_key is required. Set IMMICH_API_KEY env var or edit %s", configHint())
	}
	if c.Upstream.TimeoutSeconds <= 0 {
		return errors.New("upstream.timeout_seconds must be positive")
	}
	if c.Upstream.MaxAttempts < 1 || c.Upstream.MaxAttempts > 10 {
		return errors.New("upstream.max_attempts must be between 1 and 10")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateTracing() error {
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return errors.New("tracing.sample_ratio must be between 0 and 1")
	}
	if !c.Tracing.Enabled {
		return nil
	}
	u, err := url.Parse(c.Tracing.Endpoint)
	if err != nil || u.Host == "" {
		return fmt.Errorf("tracing.endpoint %q must be an absolute URL when tracing.enabled is true", c.Tracing.Endpoint)
	}
	return nil
}

func (c *Config) validateCheck() error {
	if c.Check.Concurrency < 1 || c.Check.Concurrency > 64 {
		return errors.New("check.concurrency must be between 1 and 64")
	}
	if c.Check.TimeoutSeconds <= 0 {
		return errors.New("check.timeout_seconds must be positive")
	}
	return nil
}

func configHint() string {
	path, err := DefaultConfigPath()
	if err != nil {
		return "~/.config/albumproxy/config.toml"
	}
	return path
}
