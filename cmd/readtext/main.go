package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/readtext"
	"github.com/fwojciec/readtext/crawl"
	"github.com/fwojciec/readtext/fs"
	"github.com/fwojciec/readtext/goquery"
	"github.com/fwojciec/readtext/htmltomarkdown"
	readtexthttp "github.com/fwojciec/readtext/http"
	"github.com/fwojciec/readtext/rod"
	readtextslog "github.com/fwojciec/readtext/slog"
	"github.com/fwojciec/readtext/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used when --db is set.
	DB *sqlite.DB

	// Fetcher used to read pages. Set before calling Run() to bypass the
	// fetcher selected by flags.
	Fetcher readtext.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var err error
	if m.Fetcher != nil {
		err = m.Fetcher.Close()
	}
	if m.DB != nil {
		if cerr := m.DB.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("readtext"),
		kong.Description("Extract the article text of web pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no URLs provided. Run 'readtext --help' for usage")
	}
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	urls, err := cli.inputURLs()
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs provided and no .html files found")
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: newLogger(stderr, cli.Verbose),
	}

	if m.Fetcher == nil {
		if m.Fetcher, err = newFetcher(cli, deps.Logger); err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed to use --render")
			return fmt.Errorf("failed to start browser: %w", err)
		}
	}
	defer m.Close()

	writers, err := m.writers(cli, deps)
	if err != nil {
		return err
	}

	reader := &crawl.Reader{
		Fetcher:      readtextslog.NewLoggingFetcher(m.Fetcher, deps.Logger),
		Extractor:    readtextslog.NewLoggingExtractor(&goquery.Extractor{Logger: deps.Logger}, deps.Logger),
		ReadAllPages: cli.AllPages,
		MaxPages:     cli.MaxPages,
	}
	// Local files need no spacing.
	if cli.Dir == "" {
		reader.RateLimiter = crawl.NewHostLimiter(requestsPerSecond)
	}

	deps.Batch = &crawl.Batch{
		Reader:      readtextslog.NewLoggingReader(reader, deps.Logger),
		Writers:     writers,
		Concurrency: cli.Concurrency,
	}
	if cli.Format == formatMarkdown {
		deps.Batch.Converter = htmltomarkdown.NewConverter()
	}

	cmd := &ReadCmd{URLs: urls}
	return cmd.Run(deps)
}

// requestsPerSecond is the fetch rate allowed per host.
const requestsPerSecond = 2.0

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newFetcher selects the page source: files under --dir, a headless
// browser with --render, plain HTTP otherwise.
func newFetcher(cli *CLI, logger *slog.Logger) (readtext.Fetcher, error) {
	switch {
	case cli.Dir != "":
		return fs.NewFetcher(cli.Dir), nil
	case cli.Render:
		return rod.NewFetcher(rod.WithTimeout(cli.Timeout))
	default:
		return readtexthttp.NewFetcher(
			readtexthttp.WithTimeout(cli.Timeout),
			readtexthttp.WithRespectServerEncoding(cli.RespectServerEncoding),
			readtexthttp.WithRetryDelays(readtexthttp.DefaultRetryDelays()),
			readtexthttp.WithLogger(logger),
		), nil
	}
}

// writers builds the document destinations. Documents go to stdout unless
// they are written to --out or --db.
func (m *Main) writers(cli *CLI, deps *Dependencies) ([]readtext.DocumentWriter, error) {
	var writers []readtext.DocumentWriter

	if cli.Out != "" {
		writers = append(writers, readtextslog.NewLoggingDocumentWriter(fs.NewWriter(cli.Out), "dir", deps.Logger))
	}

	if cli.DB != "" {
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Set READTEXT_DB to use a different database path")
			return nil, fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		writers = append(writers, readtextslog.NewLoggingDocumentWriter(sqlite.NewDocumentService(m.DB), "sqlite", deps.Logger))
	}

	if len(writers) == 0 {
		writers = append(writers, readtextslog.NewLoggingDocumentWriter(NewStdoutWriter(deps.Stdout, cli.Format), "stdout", deps.Logger))
	}
	return writers, nil
}

// inputURLs returns the URLs given on the command line or, in directory
// mode without URLs, one file URL per HTML file in the directory.
func (c *CLI) inputURLs() ([]string, error) {
	if len(c.URLs) > 0 || c.Dir == "" {
		return c.URLs, nil
	}

	var urls []string
	for _, pattern := range []string{"*.html", "*.htm"} {
		matches, err := filepath.Glob(filepath.Join(c.Dir, pattern))
		if err != nil {
			return nil, err
		}
		for _, match := range matches {
			urls = append(urls, "file:///"+filepath.Base(match))
		}
	}
	slices.Sort(urls)
	return urls, nil
}
