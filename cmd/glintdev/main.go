//go:build !js

// glintdev is the development tool for glint wasm apps: it serves a
// js/wasm build over HTTP with rebuild-on-save and live browser
// reload, and can emit a static site for deployment.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/gekko3d/glint"
	"github.com/gekko3d/glint/devserver"
)

func main() {
	app := &cli.App{
		Name:  "glintdev",
		Usage: "development server for glint wasm apps",
		Commands: []*cli.Command{
			serveCommand(),
			buildCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "build the app for js/wasm and serve it with live reload",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: ":8080", Usage: "listen address"},
			&cli.StringFlag{Name: "app", Value: "./cmd/spincube", Usage: "main package directory to build"},
			&cli.StringFlag{Name: "title", Value: "glint", Usage: "page title"},
			&cli.BoolFlag{Name: "no-watch", Usage: "disable rebuild-on-save and live reload"},
			&cli.BoolFlag{Name: "debug", Usage: "verbose logging"},
		},
		Action: func(ctx *cli.Context) error {
			log := glint.NewDefaultLogger("glintdev", ctx.Bool("debug"))

			srv, err := devserver.New(devserver.Config{
				Addr:   ctx.String("addr"),
				AppDir: ctx.String("app"),
				Title:  ctx.String("title"),
				Watch:  !ctx.Bool("no-watch"),
			}, log)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(runCtx)
		},
	}
}

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "write a static site (index.html, wasm_exec.js, main.wasm)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "app", Value: "./cmd/spincube", Usage: "main package directory to build"},
			&cli.StringFlag{Name: "out", Value: "dist", Usage: "output directory"},
			&cli.StringFlag{Name: "title", Value: "glint", Usage: "page title"},
			&cli.BoolFlag{Name: "debug", Usage: "verbose logging"},
		},
		Action: func(ctx *cli.Context) error {
			log := glint.NewDefaultLogger("glintdev", ctx.Bool("debug"))
			return devserver.BuildSite(ctx.String("app"), ctx.String("out"), ctx.String("title"), log)
		},
	}
}
