package main

import (
	"context"
	"os"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/server"

	"github.com/vela-grid/vela/cmd/velad/cmd"
)

// velacli is the client-only entry point. It shares velad's command tree but
// skips the daemon's telemetry and health sidecars, so it registers its own
// home flag instead of going through the server command executor.
func main() {
	rootCmd := cmd.NewRootCmd(true)

	srvCtx := server.NewDefaultContext()
	ctx := context.WithValue(context.Background(), server.ServerContextKey, srvCtx)
	ctx = context.WithValue(ctx, client.ClientContextKey, &client.Context{})

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
