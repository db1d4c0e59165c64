package cmd

import (
	"os"

	"semdex/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagConfig string
	flagDB     string
	flagOllama string
	flagModel  string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "semdex",
	Short: "Semantic search over a local codebase index",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		godotenv.Load() // best-effort .env loading

		var err error
		if flagConfig != "" {
			cfg, err = config.Load(flagConfig)
		} else {
			cfg, _, err = config.LoadDefault()
		}
		if err != nil {
			return err
		}

		// Flags override the config file.
		if flagDB != "" {
			cfg.DBPath = flagDB
		}
		if flagOllama != "" {
			cfg.Ollama.URL = flagOllama
		}
		if flagModel != "" {
			cfg.Ollama.Model = flagModel
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ./semdex.yaml, then ~/.config/semdex/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default <project>/.semdex/index.db)")
	rootCmd.PersistentFlags().StringVar(&flagOllama, "ollama", "", "ollama base URL")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "ollama embedding model")
}
