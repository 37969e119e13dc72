package cli

import (
	"bufio"
	"context"
	"io"

	"github.com/dmitrijs2005/secretsanta/internal/client/client"
	"github.com/dmitrijs2005/secretsanta/internal/client/config"
)

// App carries what every santactl command needs: settings, the admin client
// and the terminal streams.
type App struct {
	config    *config.Config
	client    client.Client
	newClient func(*config.Config) (client.Client, error)
	reader    *bufio.Reader
	out       io.Writer
}

func NewApp(c *config.Config, in io.Reader, out io.Writer) *App {
	return &App{
		config: c,
		newClient: func(c *config.Config) (client.Client, error) {
			return client.NewAdminClient(c.ServerEndpointAddr, c.AdminToken)
		},
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// connect lazily builds the admin client so flags parsed by cobra are
// already applied to the config.
func (a *App) connect() (client.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	c, err := a.newClient(a.config)
	if err != nil {
		return nil, err
	}
	a.client = c
	return c, nil
}

func (a *App) close() error {
	if a.client == nil {
		return nil
	}
	err := a.client.Close()
	a.client = nil
	return err
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
