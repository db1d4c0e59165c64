package cmd

import (
	"semdex/internal/tui"

	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive search over the index",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func runTUI() error {
	st, err := openExistingStore()
	if err != nil {
		return err
	}
	defer st.Close()

	emb, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	return tui.Run(st, emb)
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
