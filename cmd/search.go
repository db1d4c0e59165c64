package cmd

import (
	"fmt"
	"strings"

	"semdex/internal/search"

	"github.com/spf13/cobra"
)

var flagLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the index with a natural language query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openExistingStore()
		if err != nil {
			return err
		}
		defer st.Close()

		emb, err := newEmbedder(cfg)
		if err != nil {
			return err
		}

		results, err := search.New(st, emb).Search(cmd.Context(), args[0], flagLimit)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No results.")
			return nil
		}

		for i, r := range results {
			fmt.Printf("%2d. %s  (score %.3f, modified %s)\n",
				i+1, r.FilePath, r.Score, r.ModifiedAt.Format("2006-01-02 15:04"))
			for _, line := range strings.Split(r.Content, "\n") {
				fmt.Printf("    %s\n", line)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVar(&flagLimit, "limit", 10, "maximum number of results")
	rootCmd.AddCommand(searchCmd)
}
