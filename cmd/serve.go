package cmd

import (
	"github.com/df07/go-pathcore/web/server"
	"github.com/urfave/cli"
)

// Serve progressive renders over HTTP.
func Serve(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	return server.NewServer(ctx.Int("port"), ctx.Int("workers")).Start()
}
