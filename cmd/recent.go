package cmd

import (
	"fmt"

	"semdex/internal/search"

	"github.com/spf13/cobra"
)

var flagDays int

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List indexed files modified within a recency window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openExistingStore()
		if err != nil {
			return err
		}
		defer st.Close()

		files, err := search.RecentFiles(st, flagDays)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Printf("No files modified in the last %d days.\n", flagDays)
			return nil
		}

		for _, f := range files {
			fmt.Printf("%s  %8d B  %s\n", f.ModifiedAt.Format("2006-01-02 15:04"), f.SizeBytes, f.Path)
		}
		return nil
	},
}

func init() {
	recentCmd.Flags().IntVar(&flagDays, "days", 7, "recency window in days")
	rootCmd.AddCommand(recentCmd)
}
