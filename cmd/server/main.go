package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	_ "github.com/joho/godotenv/autoload"
)

type CLI struct {
	Config string `short:"c" help:"Optional config file (yaml, toml or json). Environment variables override it." type:"path"`

	Serve  ServeCmd  `cmd:"" default:"1" help:"Run the HTTP server (default)."`
	Export ExportCmd `cmd:"" help:"Page through a TMDB list and write one JSON result per line."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("server"),
		kong.Description("Movie and TV discovery front-end backed by TMDB."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err := kctx.Run(&cli); err != nil {
		fmt.Println("Error:", err.Error())
		stop()
		os.Exit(1)
	}
}
