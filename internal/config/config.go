package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/Sternrassler/album-proxy/pkg/logging"
	"github.com/Sternrassler/album-proxy/pkg/upstream"
)

//go:embed sample_config.toml
var sampleConfig string

// Server contains the HTTP listener settings.
type Server struct {
	Listen                 string `toml:"listen"`
	BasePath               string `toml:"base_path"`
	ShutdownTimeoutSeconds int    `toml:"shutdown_timeout_seconds"`
}

// Upstream contains the photo service connection.
type Upstream struct {
	URL            string `toml:"url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxAttempts    int    `toml:"max_attempts"`
}

// Logging contains configuration for log output. A nil Pretty selects
// console output when stderr is a terminal.
type Logging struct {
	Level  string `toml:"level"`
	Pretty *bool  `toml:"pretty,omitempty"`
}

// Tracing contains the OpenTelemetry exporter settings.
type Tracing struct {
	Enabled     bool    `toml:"enabled"`
	Endpoint    string  `toml:"endpoint"`
	ServiceName string  `toml:"service_name"`
	SampleRatio float64 `toml:"sample_ratio"`
}

// Check contains settings for the `check` command's worker pool.
type Check struct {
	Concurrency    int `toml:"concurrency"`
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Config encapsulates all configuration values for the album proxy.
//
// Configuration sections by subsystem:
//   - Server: listen address, mount path and shutdown grace
//   - Upstream: photo service URL, API key, timeout and retries
//   - Logging: level and output format
//   - Tracing: OTLP export
//   - Check: media verification worker pool
type Config struct {
	Server   Server   `toml:"server"`
	Upstream Upstream `toml:"upstream"`
	Logging  Logging  `toml:"logging"`
	Tracing  Tracing  `toml:"tracing"`
	Check    Check    `toml:"check"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/albumproxy/config.toml")
}

// Load locates, parses, and validates a configuration file. It returns the
// resolved path and whether a file was found there; a missing file is not an
// error as long as the environment supplies the required values.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, "", false, err
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = os.Getenv("ALBUMPROXY_CONFIG")
	}

	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("albumproxy.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ShutdownTimeout is the grace period for in-flight requests on shutdown.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}

// CheckTimeout bounds each fetch of the check command.
func (c *Config) CheckTimeout() time.Duration {
	return time.Duration(c.Check.TimeoutSeconds) * time.Second
}

// UpstreamClientConfig converts the upstream section for upstream.New.
func (c *Config) UpstreamClientConfig() upstream.Config {
	cfg := upstream.DefaultConfig(c.Upstream.URL, c.Upstream.APIKey)
	cfg.Timeout = time.Duration(c.Upstream.TimeoutSeconds) * time.Second
	cfg.Retry.MaxAttempts = c.Upstream.MaxAttempts
	return cfg
}

// LoggingConfig converts the logging section for logging.Setup.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(c.Logging.Level)
	if c.Logging.Pretty != nil {
		cfg.Pretty = *c.Logging.Pretty
	}
	return cfg
}

// Redacted returns a copy safe to print: the API key keeps only its last four
// characters.
func (c *Config) Redacted() Config {
	out := *c
	out.Upstream.APIKey = RedactSecret(c.Upstream.APIKey)
	if c.Logging.Pretty != nil {
		pretty := *c.Logging.Pretty
		out.Logging.Pretty = &pretty
	}
	return out
}

// RedactSecret masks all but the last four characters of s.
func RedactSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

// Encode writes the configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(true)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
