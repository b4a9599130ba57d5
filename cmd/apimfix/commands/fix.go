package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/erraggy/apimfix"
	"github.com/erraggy/apimfix/internal/cliutil"
	"github.com/erraggy/apimfix/internal/fileutil"
	"github.com/erraggy/apimfix/normalizer"
	"github.com/erraggy/apimfix/parser"
)

// DefaultSpecURL is the Azure OpenAI inference description fixed when no
// --url is given.
const DefaultSpecURL = "https://raw.githubusercontent.com/Azure/azure-rest-api-specs/main/" +
	"specification/cognitiveservices/data-plane/AzureOpenAI/inference/" +
	"preview/2025-04-01-preview/inference.json"

const (
	// DefaultOutputFile is where the fixed document is written
	DefaultOutputFile = "inference_fixed.json"
	// DefaultDownloadedFile is where the raw download is saved
	DefaultDownloadedFile = "inference_downloaded.json"
)

// FixFlags contains flags for the fix command
type FixFlags struct {
	URL            string
	Output         string
	DownloadedFile string
	KeepDownloaded bool
	NoDowngrade    bool
	Quiet          bool
	Verbose        bool
	Timeout        time.Duration
}

// SetupFixFlags creates and configures a FlagSet for the fix command.
// Returns the FlagSet and a FixFlags struct with bound flag variables.
func SetupFixFlags() (*flag.FlagSet, *FixFlags) {
	fs := flag.NewFlagSet("fix", flag.ContinueOnError)
	flags := &FixFlags{}

	fs.StringVar(&flags.URL, "u", DefaultSpecURL, "URL of the Azure OpenAI spec to fix (defaults to 2025-04-01-preview)")
	fs.StringVar(&flags.URL, "url", DefaultSpecURL, "URL of the Azure OpenAI spec to fix (defaults to 2025-04-01-preview)")
	fs.StringVar(&flags.Output, "o", DefaultOutputFile, "output filename for the fixed spec")
	fs.StringVar(&flags.Output, "output", DefaultOutputFile, "output filename for the fixed spec")
	fs.StringVar(&flags.DownloadedFile, "downloaded-file", DefaultDownloadedFile, "where the downloaded original spec is saved")
	fs.BoolVar(&flags.KeepDownloaded, "k", false, "keep the downloaded original spec file")
	fs.BoolVar(&flags.KeepDownloaded, "keep-downloaded", false, "keep the downloaded original spec file")
	fs.BoolVar(&flags.NoDowngrade, "no-downgrade", !normalizer.DefaultDowngrade, "keep the source openapi version instead of writing 3.0.1")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only report errors")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only report errors")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log debug details to stderr")
	fs.DurationVar(&flags.Timeout, "timeout", parser.DefaultHTTPTimeout, "timeout for each HTTP request")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: apimfix fix [flags]\n\n")
		cliutil.Writef(fs.Output(), "Download an Azure OpenAI spec and fix it for APIM compatibility.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nFixes Applied:\n")
		cliutil.Writef(fs.Output(), "  - External $refs are bundled in; internal $refs are kept as references\n")
		cliutil.Writef(fs.Output(), "  - Discriminator properties are added to each alternative's required list\n")
		cliutil.Writef(fs.Output(), "  - Object-valued descriptions are replaced with their JSON text\n")
		cliutil.Writef(fs.Output(), "  - The openapi version is set to 3.0.1 (unless --no-downgrade)\n")
		cliutil.Writef(fs.Output(), "  - $recursiveAnchor, $recursiveRef and propertyNames are removed\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  apimfix fix\n")
		cliutil.Writef(fs.Output(), "  apimfix fix --url https://.../2025-05-01-preview/inference.json\n")
		cliutil.Writef(fs.Output(), "  apimfix fix --output my_fixed_spec.json\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    Fixed spec written\n")
		cliutil.Writef(fs.Output(), "  1    Download, parse or fix failed; the output file is not written\n")
	}

	return fs, flags
}

// HandleFix executes the fix command
func HandleFix(args []string) error {
	fs, flags := SetupFixFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("fix command takes no positional arguments, got %q", fs.Arg(0))
	}
	if flags.Output == "" {
		return fmt.Errorf("output file cannot be empty")
	}

	return RunFix(flags, os.Stdout, os.Stderr)
}

// RunFix downloads flags.URL, normalizes it and writes the result to
// flags.Output. Progress goes to out and debug logs to logOut. Failures of
// the download or the pipeline are returned as *PipelineError; in that
// case the output file is left untouched.
func RunFix(flags *FixFlags, out, logOut io.Writer) error {
	progress := out
	if flags.Quiet {
		progress = io.Discard
	}
	logger := newLogger(logOut, flags.Verbose)
	client := &http.Client{Timeout: flags.Timeout}

	data, err := download(flags, client, progress)
	if err != nil {
		return &PipelineError{Err: err}
	}

	opts := []normalizer.Option{
		normalizer.WithBytes(data, flags.URL),
		normalizer.WithDowngrade(!flags.NoDowngrade),
		normalizer.WithHTTPClient(client),
		normalizer.WithUserAgent(apimfix.UserAgent()),
		normalizer.WithOutput(progress),
	}
	if logger != nil {
		opts = append(opts, normalizer.WithLogger(logger))
	}
	result, err := normalizer.NormalizeWithOptions(opts...)
	if err != nil {
		return &PipelineError{Err: err}
	}

	cliutil.Writef(progress, "Saving fixed spec to %s...\n", flags.Output)
	if err := fileutil.WriteFileAtomic(flags.Output, result.Data, fileutil.ReadableByAll); err != nil {
		return &PipelineError{Err: fmt.Errorf("writing output file: %w", err)}
	}
	cliutil.Writef(progress, "Fixed spec saved to %s\n", flags.Output)

	cliutil.Writef(progress, "Original size: %s bytes\n", cliutil.FormatCount(int64(len(data))))
	cliutil.Writef(progress, "Fixed size: %s bytes\n", cliutil.FormatCount(result.OutputSize))
	cliutil.Writef(progress, "Ready for APIM import!\n")

	cliutil.Successf(progress, "\nSuccess! Use %s in your APIM import.\n", flags.Output)
	if abs, err := filepath.Abs(flags.Output); err == nil {
		cliutil.Writef(progress, "The fixed specification is ready at: %s\n", abs)
	}

	if !flags.KeepDownloaded {
		removed, err := fileutil.RemoveIfExists(flags.DownloadedFile)
		if err != nil {
			cliutil.Warnf(progress, "Could not remove temporary file %s: %v\n", flags.DownloadedFile, err)
		} else if removed {
			cliutil.Writef(progress, "Cleaned up temporary file: %s\n", flags.DownloadedFile)
		}
	}
	return nil
}

// download fetches the source document and saves a raw copy to
// flags.DownloadedFile.
func download(flags *FixFlags, client *http.Client, progress io.Writer) ([]byte, error) {
	cliutil.Writef(progress, "Downloading spec from %s...\n", flags.URL)
	fetch := parser.NewDefaultFetcher(client, apimfix.UserAgent())
	data, err := fetch(flags.URL)
	if err != nil {
		return nil, err
	}
	if flags.DownloadedFile != "" {
		if err := fileutil.WriteFileAtomic(flags.DownloadedFile, data, fileutil.ReadableByAll); err != nil {
			return nil, fmt.Errorf("saving downloaded spec: %w", err)
		}
		cliutil.Writef(progress, "Downloaded to %s\n", flags.DownloadedFile)
	}
	return data, nil
}
