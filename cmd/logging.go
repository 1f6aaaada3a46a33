package cmd

import (
	"github.com/df07/go-pathcore/pkg/log"
	"github.com/urfave/cli"
)

var logger = log.New("pathcore")

// setupLogging applies --log-level first so -v and -vv can still raise it.
func setupLogging(ctx *cli.Context) error {
	if name := ctx.GlobalString("log-level"); name != "" {
		level, err := log.ParseLevel(name)
		if err != nil {
			return err
		}
		if err := log.SetLevel(level); err != nil {
			return err
		}
	}

	if ctx.GlobalBool("vv") {
		return log.SetLevel(log.Debug)
	}
	if ctx.GlobalBool("v") {
		return log.SetLevel(log.Info)
	}
	return nil
}
