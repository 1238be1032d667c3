package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/album-proxy/internal/config"
	"github.com/Sternrassler/album-proxy/pkg/logging"
	"github.com/Sternrassler/album-proxy/pkg/proxy"
	"github.com/Sternrassler/album-proxy/pkg/upstream"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads the configuration once and installs the global logger.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		logging.Setup(cfg.LoggingConfig())
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// newService builds the upstream client and the media service on top of it.
// The caller closes the returned client.
func (c *commandContext) newService() (*proxy.Service, *upstream.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	client, err := upstream.New(cfg.UpstreamClientConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("create upstream client: %w", err)
	}
	return proxy.NewService(client), client, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
