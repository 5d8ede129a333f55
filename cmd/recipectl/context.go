package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/rasoihub/recipeops/client"
)

// cliConfig is the on-disk CLI configuration, stored as TOML at
// ~/.config/recipectl/config.toml. Token is written back after login.
type cliConfig struct {
	Server        string `toml:"server"`
	OperatorEmail string `toml:"operator_email"`
	Token         string `toml:"token"`
}

const defaultServer = "http://localhost:8080"

type commandContext struct {
	serverFlag   *string
	configFlag   *string
	operatorFlag *string

	configOnce sync.Once
	config     *cliConfig
	configPath string
	configErr  error
}

func newCommandContext(serverFlag, configFlag, operatorFlag *string) *commandContext {
	return &commandContext{
		serverFlag:   serverFlag,
		configFlag:   configFlag,
		operatorFlag: operatorFlag,
	}
}

func defaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "recipectl", "config.toml"), nil
}

func (c *commandContext) ensureConfig() (*cliConfig, error) {
	c.configOnce.Do(func() {
		path := ""
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		if path == "" {
			var err error
			path, err = defaultConfigPath()
			if err != nil {
				c.configErr = err
				return
			}
		}
		c.configPath = path

		cfg := &cliConfig{Server: defaultServer}
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				c.configErr = fmt.Errorf("parse %s: %w", path, err)
				return
			}
		case errors.Is(err, fs.ErrNotExist):
			// First run, defaults apply.
		default:
			c.configErr = fmt.Errorf("read %s: %w", path, err)
			return
		}

		if cfg.Server == "" {
			cfg.Server = defaultServer
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// saveConfig writes the configuration back, creating the directory on first
// use. The file holds a token, so it is not group or world readable.
func (c *commandContext) saveConfig(cfg *cliConfig) error {
	if c.configPath == "" {
		return errors.New("config path not resolved")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(c.configPath, data, 0o600)
}

func (c *commandContext) serverURL(cfg *cliConfig) string {
	if c.serverFlag != nil && strings.TrimSpace(*c.serverFlag) != "" {
		return strings.TrimSpace(*c.serverFlag)
	}
	return cfg.Server
}

func (c *commandContext) operatorEmail(cfg *cliConfig) string {
	if c.operatorFlag != nil && strings.TrimSpace(*c.operatorFlag) != "" {
		return strings.TrimSpace(*c.operatorFlag)
	}
	return cfg.OperatorEmail
}

// apiClient builds a client from flags and config. Most commands need a
// stored token; login is the exception and calls withoutToken.
func (c *commandContext) apiClient() (*client.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Token == "" {
		return nil, errors.New("not logged in; run `recipectl login` first")
	}
	return client.New(c.serverURL(cfg),
		client.WithToken(cfg.Token),
		client.WithOperatorEmail(c.operatorEmail(cfg)),
	), nil
}

func (c *commandContext) anonymousClient() (*client.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return client.New(c.serverURL(cfg)), nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
