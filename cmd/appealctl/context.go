package main

import (
	"sync"

	"github.com/noah-isme/appeal-routing-api/pkg/config"
)

type commandContext struct {
	load func() (*config.Config, error)

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(load func() (*config.Config, error)) *commandContext {
	return &commandContext{load: load}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		c.config, c.configErr = c.load()
	})
	return c.config, c.configErr
}
