package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	savemymind "github.com/TheReal-Flo/SaveMyMind"
)

var (
	verbose  bool
	dataDir  string
	adapter  string
	cfgPath  string
	cfg      appConfig
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "savemymind",
	Short: "A local-first personal note store with debounced auto-save",
	Long: `SaveMyMind keeps your notes in a local embedded database.
Every change is written through to durable storage before it is
acknowledged, and the list view groups notes by when you last touched them.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		loaded, err := loadConfig(cfgPath)
		if err != nil {
			fatal("Failed to load config", err)
		}
		cfg = loaded
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (defaults to the user config dir)")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "", "Storage adapter: badger, sqlite, fs, memory")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file path")
}

// openApp builds the app from flags and config. Flags win over config.
func openApp(ctx context.Context) *savemymind.App {
	name := cfg.Adapter
	if adapter != "" {
		name = adapter
	}

	opts := []savemymind.Option{
		savemymind.WithLogger(slog.Default()),
	}
	if name != "" {
		opts = append(opts, savemymind.WithAdapter(name))
	}
	if cfg.DebounceMS > 0 {
		opts = append(opts, savemymind.WithDebounce(time.Duration(cfg.DebounceMS)*time.Millisecond))
	}
	if cfg.Asset.URL != "" {
		opts = append(opts, savemymind.WithAsset(cfg.Asset.URL, cfg.Asset.Version, cfg.Asset.Path))
	}
	opts = append(opts, savemymind.WithAuthenticator(&consoleAuthenticator{}))

	app, err := savemymind.Open(ctx, dataDir, opts...)
	if err != nil {
		fatal("Failed to open the note store", err)
	}
	if err := app.LoadErr(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load saved notes, starting empty: %v\n", err)
	}
	return app
}
