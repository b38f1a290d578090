package httpclient

import (
	"context"
	"fmt"

	"github.com/kbukum/kanko/component"
)

// Component builds the Client on Start, so config errors surface during
// startup, and drops idle connections on Stop.
type Component struct {
	cfg    Config
	client *Client
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

func NewComponent(cfg Config) *Component {
	return &Component{cfg: cfg}
}

// Name is Config.Name, or "http-client".
func (c *Component) Name() string {
	if c.cfg.Name != "" {
		return c.cfg.Name
	}
	return "http-client"
}

func (c *Component) Start(context.Context) error {
	cl, err := New(c.cfg)
	if err != nil {
		return err
	}
	c.client = cl
	return nil
}

func (c *Component) Stop(context.Context) error {
	if c.client != nil {
		c.client.hc.CloseIdleConnections()
	}
	return nil
}

// Health is unhealthy until Start succeeded.
func (c *Component) Health(context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if c.client == nil {
		h.Status = component.StatusUnhealthy
	}
	return h
}

func (c *Component) Describe() component.Description {
	cfg := c.cfg
	cfg.ApplyDefaults()
	return component.Description{Name: c.Name(), Type: "http-client", Details: fmt.Sprintf("timeout=%s", cfg.Timeout)}
}

// Client is nil before Start.
func (c *Component) Client() *Client {
	return c.client
}

// Fetch delegates to the started client.
func (c *Component) Fetch(ctx context.Context, url string) ([]byte, error) {
	if c.client == nil {
		return nil, NewValidationError(fmt.Sprintf("%s: component not started", c.Name()))
	}
	return c.client.Fetch(ctx, url)
}
