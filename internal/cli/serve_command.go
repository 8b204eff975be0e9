package cli

import (
	"context"
	"fmt"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"timestrap/internal/logging"
	"timestrap/internal/server"
)

// ServeCommand runs the HTTP server until the process is interrupted
type ServeCommand struct {
	app *App
}

// NewServeCommand creates a new serve command handler
func NewServeCommand(app *App) *ServeCommand {
	return &ServeCommand{app: app}
}

// Execute starts the server and blocks until a graceful shutdown completes
func (c *ServeCommand) Execute(ctx context.Context, args []string) error {
	businessAPI, err := c.app.BusinessAPI(ctx)
	if err != nil {
		return err
	}

	cfg := c.app.config.Server
	srv := server.New(businessAPI, c.app.Tokens(), cfg, logging.Component("http"))

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- srv.Listen(cfg.Addr)
	}()

	wait := gfshutdown.GracefulShutdown(ctx, cfg.ShutdownTimeout, map[string]gfshutdown.Operation{
		"http-server": srv.Shutdown,
	})

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.Addr, err)
		}
		return nil
	case code := <-wait:
		if code != 0 {
			return fmt.Errorf("shutdown finished with exit code %d", code)
		}
		fmt.Fprintln(c.app.out, "Server stopped.")
		return nil
	}
}
