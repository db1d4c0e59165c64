package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"semdex/internal/index"
	"semdex/internal/store"
	"semdex/internal/walker"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index <path>",
	Short: "Index a directory for semantic search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		dbPath := resolveDBPath(root)
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return fmt.Errorf("create db directory: %w", err)
		}

		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		emb, err := newEmbedder(cfg)
		if err != nil {
			return err
		}

		files, err := walker.Walk(root)
		if err != nil {
			return fmt.Errorf("walk %s: %w", root, err)
		}

		fmt.Printf("Indexing %s (%d files)...\n", root, len(files))
		start := time.Now()

		ix := index.New(st, emb, index.Config{
			ChunkSize: cfg.ChunkSize,
			BatchSize: cfg.BatchSize,
		})
		n, err := ix.IndexFiles(cmd.Context(), files)

		fmt.Printf("Indexed %d/%d files in %s\n", n, len(files), time.Since(start).Round(time.Millisecond))
		return err
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
