package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/jmendel/docpack"
	"github.com/jmendel/docpack/devdocs"
	docslog "github.com/jmendel/docpack/slog"
	"github.com/jmendel/docpack/sqlite"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// ConfigPath points at the optional YAML config file read before
	// flags. Set before calling Run().
	ConfigPath string

	// DB is the local search index, opened for commands that use it.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPath: defaultConfigPath(),
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
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Flag defaults come from the config file and environment, so
	// explicit flags always win over both.
	vars, err := loadVars(m.ConfigPath)
	if err != nil {
		return err
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name(docpack.Name),
		kong.Description("Turns DevDocs documentation sets into offline archives."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		vars,
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help and version flags before dispatch
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docpack --help' to see available commands")
	}

	switch args[0] {
	case "help", "--help", "-h":
		_, _ = parser.Parse([]string{"--help"})
		return nil
	case "version", "--version":
		fmt.Fprintf(stdout, "%s %s\n", docpack.Name, docpack.Version)
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cmd := kongCtx.Command()
	if i := strings.IndexByte(cmd, ' '); i >= 0 {
		cmd = cmd[:i]
	}

	// Wire the DevDocs client for commands that talk to the deployment
	if cmd == "build" || cmd == "list" {
		opts := []devdocs.Option{
			devdocs.WithFrontendURL(cli.FrontendURL),
			devdocs.WithDocumentsURL(cli.DocumentsURL),
		}
		if cli.RateLimit > 0 {
			opts = append(opts, devdocs.WithRateLimit(cli.RateLimit))
		}

		client := docpack.Client(devdocs.NewClient(opts...))
		if cli.Debug {
			client = docslog.NewLoggingClient(client, deps.Logger)
		}
		deps.Client = client
	}

	// Wire the search index for commands that record or query it
	if cmd == "search" || (cmd == "build" && !cli.Build.NoIndex) {
		_ = os.MkdirAll(filepath.Dir(cli.Index), 0755)
		m.DB = sqlite.NewDB(cli.Index)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set DOCPACK_INDEX or --index to use a different index path\n")
			return fmt.Errorf("failed to open index at %q: %w", cli.Index, err)
		}
		defer m.Close()

		docsets := docpack.DocsetIndex(sqlite.NewDocsetService(m.DB))
		if cli.Debug {
			docsets = docslog.NewLoggingDocsetIndex(docsets, deps.Logger)
		}
		deps.Docsets = docsets
	}

	return kongCtx.Run(deps)
}

// defaultConfigPath returns the config file location, which does not
// have to exist.
func defaultConfigPath() string {
	if path := os.Getenv("DOCPACK_CONFIG"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".docpack", "config.yml")
}

// defaultIndexPath returns the search index location. The directory is
// created when the index is opened, not here.
func defaultIndexPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "docpack.db"
	}
	return filepath.Join(home, ".docpack", "index.db")
}
