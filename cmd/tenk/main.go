package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/tenk"
	"github.com/fwojciec/tenk/yaml"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// EnvFile is loaded into the environment before flags are parsed.
	// A missing file is ignored.
	EnvFile string

	// Getenv reads provider API keys. Defaults to os.Getenv.
	Getenv func(string) string

	app *app
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{EnvFile: ".env", Getenv: os.Getenv}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.app != nil {
		return m.app.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if m.EnvFile != "" {
		if err := godotenv.Load(m.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", m.EnvFile, err)
		}
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("tenk"),
		kong.Description("Ask questions about annual 10-K filings."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'tenk --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := yaml.LoadConfig(cli.Config)
	if err != nil {
		return fmt.Errorf("failed to load config %q: %s", cli.Config, tenk.ErrorMessage(err))
	}
	cli.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %s", tenk.ErrorMessage(err))
	}

	logger := newLogger(stderr, cli.Verbose)
	out := newPrinter(stderr)

	cred := tenk.CaptureCredential(m.apiKey(cli.APIKey, cfg.LLM.Provider), out.Warn)

	command := strings.Fields(kongCtx.Command())[0]
	// Only a long-running server can react to changed filings.
	cfg.Watch = cfg.Watch && command == "serve"

	m.app, err = wire(cfg, logger)
	if err != nil {
		return err
	}
	defer m.Close()

	if command == "build" {
		m.app.Indexer.Progress = progressPrinter(out)
	}

	deps.Logger = logger
	deps.Config = cfg
	deps.Credential = cred
	deps.Queries = m.app.Queries
	deps.Indexes = m.app.Indexer
	deps.Graphs = m.app.Aggregator
	deps.Server = m.app.Server
	deps.Watcher = m.app.Watcher

	return kongCtx.Run(deps)
}

// apiKey returns the key given on the command line, or the provider's
// environment variable.
func (m *Main) apiKey(flag, provider string) string {
	if flag != "" {
		return flag
	}
	getenv := m.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	switch provider {
	case tenk.ProviderGemini:
		return getenv("GEMINI_API_KEY")
	default:
		return getenv("OPENAI_API_KEY")
	}
}

// apply overrides cfg with the flags that were set.
func (c *CLI) apply(cfg *tenk.Config) {
	if c.DataDir != "" {
		cfg.DataDir = c.DataDir
	}
	if c.Provider != "" {
		cfg.LLM.Provider = c.Provider
	}
	if c.Engine != "" {
		cfg.Engine = c.Engine
	}
	if c.Store != "" {
		cfg.Store = c.Store
	}
	if c.GraphRoot != "" {
		cfg.GraphRoot = c.GraphRoot
	}
	if c.Serve.Addr != "" {
		cfg.Addr = c.Serve.Addr
	}
	if c.Serve.Watch {
		cfg.Watch = true
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
