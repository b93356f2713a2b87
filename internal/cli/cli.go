// Package cli implements the chessdash command line: schema management,
// game fetching, listing and the dashboard server.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"chessdash/internal/chesscom"
	"chessdash/internal/config"
	"chessdash/internal/core"
	"chessdash/internal/dashboard"
	"chessdash/internal/ingest"
	"chessdash/internal/lichess"
	"chessdash/internal/storage"
)

// Run is the entry point for the CLI
func Run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, fetch, list, serve, console, or delete")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:])
	case "fetch":
		return runFetch(args[1:])
	case "list":
		return runList(args[1:])
	case "serve":
		return runServe(args[1:])
	case "console":
		return runConsole(args[1:])
	case "delete":
		return runDelete(args[1:])
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

// dbFlag registers the shared -db flag, defaulting to the configured path
func dbFlag(fs *flag.FlagSet, cfg *config.Config) *string {
	return fs.String("db", cfg.DBPath, "Database file path")
}

// openStore opens the database and initializes the schema. Initialization
// is idempotent, so every subcommand may call it defensively.
func openStore(path string) (*storage.Store, error) {
	store, err := storage.NewStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if err := store.InitDB(); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return store, nil
}

func runInit(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	path := dbFlag(fs, cfg)

	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Printf("Database initialized at: %s\n", *path)
	return nil
}

func runFetch(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	path := dbFlag(fs, cfg)
	platform := fs.String("platform", "", "Platform to fetch from: lichess or chesscom (required)")
	max := fs.Int("max", 0, "Maximum games to load (0 = unlimited)")
	year := fs.Int("year", 0, "Restrict chesscom archives to a year")
	month := fs.Int("month", 0, "Restrict chesscom archives to a month")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if !core.ValidPlatform(*platform) {
		return fmt.Errorf("platform required: one of %s", strings.Join(core.KnownPlatforms(), ", "))
	}

	username := fs.Arg(0)
	if username == "" {
		// Fall back to the configured username for the platform
		username = cfg.Usernames()[*platform]
	}
	if username == "" {
		return fmt.Errorf("username required (argument or .env)")
	}

	var fetcher ingest.Fetcher
	switch *platform {
	case core.PlatformLichess:
		c := lichess.New()
		c.MaxGames = *max
		fetcher = c
	case core.PlatformChesscom:
		c := chesscom.New()
		c.Year = *year
		c.Month = *month
		fetcher = c
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Printf("Fetching games for %s from %s...\n", username, *platform)

	loader := ingest.NewLoader(store)
	stats, err := loader.Run(context.Background(), fetcher, username, *max)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	fmt.Printf("Done: %d game(s) loaded, %d duplicate(s) skipped (run %s).\n",
		stats.Loaded, stats.Skipped, stats.RunID)
	return nil
}

func runList(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	path := dbFlag(fs, cfg)
	platform := fs.String("platform", "", "Filter by platform (optional)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *platform != "" && !core.ValidPlatform(*platform) {
		return fmt.Errorf("unknown platform: %s", *platform)
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	games, err := store.ListGames(*platform)
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	if len(games) == 0 {
		fmt.Println("No games stored. Use 'chessdash fetch -platform <platform> <username>' to fetch games.")
		return nil
	}

	printGames(os.Stdout, games)
	fmt.Printf("\nFound %d game(s)\n", len(games))
	return nil
}

func runServe(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	path := dbFlag(fs, cfg)
	host := fs.String("host", cfg.Host, "Dashboard bind host")
	port := fs.Int("port", cfg.Port, "Dashboard bind port")

	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Printf("Dashboard listening on http://%s:%d\n", *host, *port)
	return dashboard.New(store).Listen(*host, *port)
}

func runDelete(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	path := dbFlag(fs, cfg)

	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := storage.NewStore(*path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Printf("Database deleted: %s\n", *path)
	return nil
}

// printGames renders listing rows in tabular format, truncating usernames
// to the terminal width
func printGames(out *os.File, games []storage.GameRow) {
	width := nameColumnWidth(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWhite\tBlack\tDate\tResult\tECO\tTC\tSource")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, g := range games {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			g.ID,
			truncate(g.White, width),
			truncate(g.Black, width),
			formatDate(g.Year, g.Month, g.Day),
			g.Result,
			strOrDash(g.ECO),
			strOrDash(g.TimeControl),
			g.Source,
		)
	}
	w.Flush()
}

// nameColumnWidth sizes the username columns to the terminal, with a
// conservative default when output is not a terminal
func nameColumnWidth(out *os.File) int {
	const base = 20
	fd := int(out.Fd())
	if !term.IsTerminal(fd) {
		return base
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 100 {
		return base
	}
	width := base + (w-100)/4
	if width > 40 {
		width = 40
	}
	return width
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func strOrDash(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}

// formatDate renders a possibly-partial date; unknown components show as "?"
func formatDate(year, month, day *int) string {
	if year == nil {
		return "-"
	}
	out := fmt.Sprintf("%04d", *year)
	if month != nil {
		out += fmt.Sprintf("-%02d", *month)
	} else {
		out += "-??"
	}
	if day != nil {
		out += fmt.Sprintf("-%02d", *day)
	} else {
		out += "-??"
	}
	return out
}
