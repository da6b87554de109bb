package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/tendant/simple-tenancy/cmd/simple-tenancy/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		EnvFile string `help:"Load environment variables from this file if present." default:".env" type:"path"`
		Debug   bool   `help:"Enable debug logging."`
		Version kong.VersionFlag

		Serve   commands.ServeCmd   `cmd:"" default:"1" help:"Start the HTTP server"`
		Migrate commands.MigrateCmd `cmd:"" help:"Manage the database schema"`
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("simple-tenancy"),
		kong.Description("Multi-tenant tenant and user service."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{EnvFile: cli.EnvFile, Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
