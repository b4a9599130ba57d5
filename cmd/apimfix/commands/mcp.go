package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/apimfix/internal/cliutil"
	"github.com/erraggy/apimfix/internal/mcpserver"
)

// HandleMCP starts the MCP server over stdio and blocks until the client
// disconnects or the process is interrupted.
func HandleMCP(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: apimfix mcp\n\n")
		cliutil.Writef(fs.Output(), "Serve the normalize, bundle and parse tools over stdio.\n\n")
		cliutil.Writef(fs.Output(), "Environment:\n")
		cliutil.Writef(fs.Output(), "  APIMFIX_DOWNGRADE         rewrite the openapi field (default true)\n")
		cliutil.Writef(fs.Output(), "  APIMFIX_TARGET_VERSION    version written when downgrading (default 3.0.1)\n")
		cliutil.Writef(fs.Output(), "  APIMFIX_HTTP_TIMEOUT      timeout per fetch (default 30s)\n")
		cliutil.Writef(fs.Output(), "  APIMFIX_MAX_FILE_SIZE     size limit per fetched document in bytes\n")
		cliutil.Writef(fs.Output(), "  APIMFIX_ALLOW_PRIVATE_IPS allow fetching from private addresses (default false)\n")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("mcp command takes no arguments")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mcpserver.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
