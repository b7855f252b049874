package cli

import (
	"fmt"
	"strings"
	"sync"

	"github.com/nconklindev/sheetrelay/internal/config"
	"github.com/nconklindev/sheetrelay/internal/logging"
	"github.com/nconklindev/sheetrelay/internal/relay"

	"go.uber.org/zap"
)

// commandContext lazily builds the config, logger and relay shared by
// subcommands.
type commandContext struct {
	configFlag *string
	serverFlag *string

	once   sync.Once
	config *config.Config
	logger *zap.Logger
	relay  *relay.Relay
	err    error
}

func newCommandContext(configFlag, serverFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		serverFlag: serverFlag,
	}
}

func (c *commandContext) ensure() (*relay.Relay, error) {
	c.once.Do(func() {
		if err := config.LoadDotEnv(".env"); err != nil {
			c.err = err
			return
		}

		cfg, _, _, err := config.Load(strings.TrimSpace(*c.configFlag))
		if err != nil {
			c.err = err
			return
		}
		if server := strings.TrimSpace(*c.serverFlag); server != "" {
			cfg.Service.URL = strings.TrimRight(server, "/")
			if err := cfg.Validate(); err != nil {
				c.err = err
				return
			}
		}

		logger, err := logging.New(cfg.Paths.LogFile, cfg.Logging.Level)
		if err != nil {
			c.err = err
			return
		}

		store, err := relay.NewStore(cfg.Paths.OutputDir)
		if err != nil {
			c.err = err
			return
		}

		r, err := relay.New(relay.Options{
			BaseURL: cfg.Service.URL,
			Timeout: cfg.Timeout(),
			Store:   store,
			Logger:  logger,
		})
		if err != nil {
			c.err = fmt.Errorf("create relay: %w", err)
			return
		}

		c.config = cfg
		c.logger = logger
		c.relay = r
	})
	return c.relay, c.err
}

func (c *commandContext) close() {
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}
