package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/lcleigh/page-hoppers-frontend/internal/server"
	"github.com/lcleigh/page-hoppers-frontend/internal/shared"
	"github.com/lcleigh/page-hoppers-frontend/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve runs the web app until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		cfg.Port = int(port)
	}
	open := cmd.Bool("open")

	app, err := web.New(web.Options{
		Engine:  r.engine,
		Session: r.config.Session,
		Logger:  r.logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx, cfg.Addr(), app.Handler(), r.logger, func(addr string) {
		url := "http://" + browserAddr(cfg.Host, addr)
		r.writePlain("Page Hoppers is running at %s\n", url)
		if !open {
			return
		}
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("could not open browser", "url", url, "error", err)
		}
	})
}

// browserAddr swaps a wildcard listen host for localhost.
func browserAddr(host, addr string) string {
	switch host {
	case "", "0.0.0.0", "::":
		_, port, err := net.SplitHostPort(addr)
		if err != nil {
			return addr
		}
		return net.JoinHostPort("localhost", port)
	default:
		return addr
	}
}
