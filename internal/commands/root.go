// Package commands is the pagebuilder command line.
package commands

import (
	"github.com/spf13/cobra"

	"pagebuilder/internal/app"
	"pagebuilder/internal/config"
)

var (
	dataDir      string
	dbPath       string
	templatesDir string
	autosave     string
	publicBase   string
	jsonOutput   bool

	appCtx *app.App
)

func Execute() error {
	root := &cobra.Command{
		Use:          "pagebuilder",
		Short:        "Campaign landing page builder",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			applyFlags(cmd, &cfg)

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			appCtx = a
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appCtx != nil {
				appCtx.Close()
				appCtx = nil
			}
		},
	}

	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.local/share/pagebuilder)")
	root.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default <data-dir>/pagebuilder.db)")
	root.PersistentFlags().StringVar(&templatesDir, "templates-dir", "", "directory of custom page templates")
	root.PersistentFlags().StringVar(&autosave, "autosave", "", `autosave schedule, e.g. "@every 30s" ("off" disables)`)
	root.PersistentFlags().StringVar(&publicBase, "public-base", "", "base URL of published pages")
	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")

	root.AddCommand(
		serveMCPCmd(),
		serveHTTPCmd(),
		campaignCmd(),
		pageCmd(),
		templateCmd(),
		approvalsCmd(),
	)
	return root.Execute()
}

// applyFlags lets explicitly set flags win over the environment.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		*cfg = config.WithDataDir(*cfg, dataDir)
	}
	if flags.Changed("db") {
		cfg.DBPath = dbPath
	}
	if flags.Changed("templates-dir") {
		cfg.TemplatesDir = templatesDir
	}
	if flags.Changed("autosave") {
		cfg.Autosave = autosave
		if autosave == "off" {
			cfg.Autosave = ""
		}
	}
	if flags.Changed("public-base") {
		cfg.PublicBase = publicBase
	}
}
