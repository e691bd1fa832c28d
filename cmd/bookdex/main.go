package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"google.golang.org/genai"

	"bookdex"
	"bookdex/deliver"
	"bookdex/gemini"
	bookhttp "bookdex/http"
	bookslog "bookdex/slog"
	"bookdex/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	Catalog bookdex.CatalogService
	Cursors bookdex.CursorService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// A .env file is optional.
	_ = godotenv.Load()

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("bookdex"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'bookdex --help' to see available commands")
	}

	if first := args[0]; first == "help" || first == "--help" || first == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// The selected command comes from the parsed result, not args[0]:
	// global flags may precede the command name.
	cmd := kongCtx.Selected().Name

	deps.Logger = newLogger(stderr, cli.Verbose)

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set BOOKDEX_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	m.Catalog = bookslog.NewLoggingCatalog(sqlite.NewCatalogService(m.DB), deps.Logger)
	m.Cursors = sqlite.NewCursorService(m.DB)
	deps.DB = m.DB
	deps.Catalog = m.Catalog
	deps.Cursors = m.Cursors

	// Wire command-specific dependencies based on command
	if cmd == "index" || cmd == "find" {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		deps.Normalizer = gemini.NewNormalizer(client, defaultModel, deps.Logger)
		deps.Resolver = bookslog.NewLoggingResolver(
			gemini.NewResolver(client, deps.Catalog, defaultModel),
			deps.Logger,
		)
	}

	if cmd == "get" {
		fetcher := bookhttp.NewFetcher()
		defer fetcher.Close()
		deps.Deliver = deliver.NewDispatcher(fetcher, &printForwarder{w: stdout})
	}

	return kongCtx.Run(deps)
}

const defaultModel = "gemini-3-flash-preview"

func defaultDBPath() string {
	if path := os.Getenv("BOOKDEX_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "bookdex.db"
	}
	dir := filepath.Join(home, ".bookdex")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "bookdex.db")
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, nil))
}

// printForwarder stands in for the chat-transport forwarder when running
// from the command line: it reports the re-emission request instead of
// performing it, since the transport runs outside this process.
type printForwarder struct {
	w io.Writer
}

func (f *printForwarder) Forward(_ context.Context, sourceID string, recordID int64) error {
	_, err := fmt.Fprintf(f.w, "requested re-emission of record %d from archive %q\n", recordID, sourceID)
	return err
}
