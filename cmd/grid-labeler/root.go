package main

import (
	"context"
	"fmt"
	"io"

	"grid-labeler/internal/app"
	"grid-labeler/internal/catalog"
	"grid-labeler/internal/config"
	"grid-labeler/internal/logger"
	"grid-labeler/internal/shutdown"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const nothingToLabel = "No images to label. Either:\n" +
	"\t1) All images are already labeled,\n" +
	"\t2) You need to initialize the db (pass --init) or, \n" +
	"\t3) No images are available to label in the provided directory."

func newRootCmd() *cobra.Command {
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:   "grid-labeler",
		Short: "Label a directory of images by clicking through a grid",
		Long: `grid-labeler shows unlabeled images from a directory in an N x N grid.

Press Enter to save the page: images still shown get the positive label and
hidden ones the negative label (swapped with --hide_positive). Click an image
to hide or show it. Escape asks whether to save the current page, then exits.
Labels are stored in images.db inside the directory.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLabel(cmd.Context(), cmd.OutOrStdout(), applyEnvironment(cmd, cfg))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.Directory, "directory", cfg.Directory, "Directory to scan for images and hold images.db")
	flags.StringVar(&cfg.PositiveLabel, "positive_label", cfg.PositiveLabel, "Label for the positive class")
	flags.StringVar(&cfg.NegativeLabel, "negative_label", cfg.NegativeLabel, "Label for the negative class")
	flags.BoolVar(&cfg.HidePositive, "hide_positive", cfg.HidePositive, "Clicking hides positive images instead of negative ones")
	flags.BoolVar(&cfg.Init, "init", cfg.Init, "Scan the directory and add new images before labeling")
	flags.IntVar(&cfg.NumImages, "num_images", cfg.NumImages, "Grid side; each page shows num_images^2 images")
	flags.Float64Var(&cfg.DPI, "dpi", cfg.DPI, "Display density used to size the grid (env LABELER_DPI)")
	flags.StringVar(&cfg.Screen, "screen", cfg.Screen, "Screen resolution WIDTHxHEIGHT (env LABELER_SCREEN)")
	flags.StringVar(&cfg.Resampler, "resampler", cfg.Resampler, "Resize filter: lanczos or catmullrom")
	flags.StringVar(&cfg.Prompt, "prompt", cfg.Prompt, "Where Escape asks to save: console or dialog")

	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newStatsCmd())

	return cmd
}

// applyEnvironment re-reads LABELER_DPI and LABELER_SCREEN after .env has
// been loaded. Explicit flags win.
func applyEnvironment(cmd *cobra.Command, cfg config.Config) config.Config {
	env := config.Default()
	if !cmd.Flags().Changed("dpi") {
		cfg.DPI = env.DPI
	}
	if !cmd.Flags().Changed("screen") {
		cfg.Screen = env.Screen
	}
	return cfg
}

func runLabel(ctx context.Context, out io.Writer, cfg config.Config) error {
	log := logger.FromEnvironment()

	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := catalog.Open(cfg.Directory, log)
	if err != nil {
		return err
	}
	manager := shutdown.NewManager(log)
	manager.Register(store)
	defer manager.Shutdown()

	if cfg.Init {
		added, err := store.Initialize(ctx, cfg.Directory)
		if err != nil {
			return err
		}
		log.Info("Catalog", "directory scanned", map[string]interface{}{
			"directory": cfg.Directory,
			"added":     added,
		})
	}

	paths, err := store.UnlabeledPaths(ctx, cfg.Directory)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Fprintln(out, nothingToLabel)
		return nil
	}

	application, err := app.NewApplication(manager.Context(), cfg, store, paths, version, log)
	if err != nil {
		return err
	}
	// Registered after the store, so it runs before the store closes.
	manager.Register(shutdown.Func(func() { logSummary(ctx, store, log) }))
	manager.Listen(application.Quit)

	return application.Run()
}

// logSummary reports label counts. It runs after an interrupt has
// cancelled ctx, so the query ignores cancellation.
func logSummary(ctx context.Context, store *catalog.Store, log logger.Logger) {
	counts, err := store.Summary(context.WithoutCancel(ctx))
	if err != nil {
		log.Warning("Catalog", "summary unavailable", map[string]interface{}{"error": err.Error()})
		return
	}
	fields := make(map[string]interface{}, len(counts))
	for _, c := range counts {
		fields[c.Label] = c.Count
	}
	log.Info("Catalog", "label summary", fields)
}
