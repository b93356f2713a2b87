package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/chzyer/readline"

	"chessdash/internal/config"
	"chessdash/internal/core"
	"chessdash/internal/storage"
)

// runConsole starts an interactive shell over the stored games
func runConsole(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("console", flag.ContinueOnError)
	path := dbFlag(fs, cfg)

	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "chessdash> ",
		HistoryFile:     historyFile(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to start console: %w", err)
	}
	defer rl.Close()

	fmt.Printf("Chess Dashboard Console\n")
	fmt.Printf("Database: %s\n", *path)
	fmt.Printf("Type 'help' for commands\n\n")

	for {
		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		fields := strings.Fields(line)
		cmd, rest := fields[0], fields[1:]

		if err := runConsoleCommand(store, cmd, rest); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
	return nil
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chessdash_history"
	}
	return filepath.Join(home, ".chessdash_history")
}

func runConsoleCommand(store *storage.Store, cmd string, args []string) error {
	platform := ""
	if len(args) > 0 {
		platform = args[0]
		if !core.ValidPlatform(platform) {
			return fmt.Errorf("unknown platform: %s", platform)
		}
	}

	switch cmd {
	case "help":
		printConsoleHelp()
		return nil
	case "list":
		games, err := store.ListGames(platform)
		if err != nil {
			return err
		}
		if len(games) == 0 {
			fmt.Println("No games stored.")
			return nil
		}
		printGames(os.Stdout, games)
		return nil
	case "stats":
		return printStats(store, platform)
	case "players":
		return printPlayers(store, platform)
	case "openings":
		return printOpenings(store, platform)
	case "recent":
		games, err := store.RecentGames(platform, 10)
		if err != nil {
			return err
		}
		if len(games) == 0 {
			fmt.Println("No games stored.")
			return nil
		}
		printGames(os.Stdout, games)
		return nil
	default:
		return fmt.Errorf("unknown command: %s (try 'help')", cmd)
	}
}

func printConsoleHelp() {
	fmt.Print(`Commands:
  list [platform]      List all games, oldest first
  recent [platform]    Show the 10 most recent games
  stats [platform]     Show summary counts
  players [platform]   Show per-player win/loss/draw breakdown
  openings [platform]  Show most played openings
  help                 Show this help
  exit                 Leave the console
`)
}

func printStats(store *storage.Store, platform string) error {
	summary, err := store.GetSummary(platform)
	if err != nil {
		return err
	}
	fmt.Printf("Games:    %d\n", summary.Games)
	fmt.Printf("Players:  %d\n", summary.Players)
	fmt.Printf("Openings: %d\n", summary.Openings)
	for _, source := range core.KnownPlatforms() {
		fmt.Printf("  %-9s %d\n", source+":", summary.SourceCounts[source])
	}
	return nil
}

func printPlayers(store *storage.Store, platform string) error {
	stats, err := store.GetPlayerStats(platform)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No games stored.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Player\tGames\tW\tL\tD")
	for _, p := range stats {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", p.Username, p.Games, p.Wins, p.Losses, p.Draws)
	}
	return w.Flush()
}

func printOpenings(store *storage.Store, platform string) error {
	stats, err := store.GetOpeningStats(platform, 20)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No openings recorded.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ECO\tName\tGames\tWhite wins")
	for _, o := range stats {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", o.ECO, strOrDash(o.Name), o.Games, o.WhiteWins)
	}
	return w.Flush()
}
