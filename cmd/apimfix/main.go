package main

import (
	"fmt"
	"os"

	"github.com/erraggy/apimfix"
	"github.com/erraggy/apimfix/cmd/apimfix/commands"
	"github.com/erraggy/apimfix/internal/cliutil"
)

// commandNames lists the top-level commands, used for typo suggestions.
var commandNames = []string{"fix", "mcp", "version", "help"}

func main() {
	cliutil.ConfigureColor()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		cliutil.Writef(os.Stdout, "apimfix v%s\n", apimfix.Version())
	case "help", "-h", "--help":
		printUsage()
	case "fix":
		if err := commands.HandleFix(os.Args[2:]); err != nil {
			commands.ReportError(os.Stderr, err)
			os.Exit(1)
		}
	case "mcp":
		if err := commands.HandleMCP(os.Args[2:]); err != nil {
			cliutil.Writef(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		cliutil.Writef(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			cliutil.Writef(os.Stderr, "Did you mean '%s'?\n", suggestion)
		}
		cliutil.Writef(os.Stderr, "\n")
		printUsage()
		os.Exit(1)
	}
}

// suggestCommand returns the known command closest to input, or "" when
// none is within two edits.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := editDistance(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	usage := `apimfix - make Azure OpenAI specifications importable into Azure API Management

Usage:
  apimfix <command> [flags]

Commands:
  fix        Download a specification and write an APIM-compatible copy
  mcp        Serve the normalization pipeline as MCP tools over stdio
  version    Show version information
  help       Show this help message

Examples:
  apimfix fix
  apimfix fix --url https://example.com/specs/2025-05-01-preview/inference.json
  apimfix fix -o my_fixed_spec.json --no-downgrade
  apimfix mcp

Run 'apimfix <command> --help' for more information on a command.
`
	_, _ = fmt.Fprint(os.Stdout, usage)
}
