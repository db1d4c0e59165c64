package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"semdex/internal/config"
	"semdex/internal/embedder"
	"semdex/internal/index"
	"semdex/internal/search"
	"semdex/internal/store"
	"semdex/internal/walker"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing indexing, search, and recency tools",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	dbPath := resolveDBPath(wd)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer st.Close()

	emb, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	s := mcpserver.NewMCPServer("semdex", "1.0.0", mcpserver.WithToolCapabilities(false))

	s.AddTool(indexDirectoryTool(), makeIndexHandler(st, emb, cfg))
	s.AddTool(searchCodebaseTool(), makeSearchHandler(st, emb))
	s.AddTool(recentFilesTool(), makeRecentHandler(st))

	return mcpserver.ServeStdio(s)
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// --- Tool schema builders ---

var readOnlyAnnotation = mcp.ToolAnnotation{
	ReadOnlyHint:    mcp.ToBoolPtr(true),
	DestructiveHint: mcp.ToBoolPtr(false),
	IdempotentHint:  mcp.ToBoolPtr(true),
	OpenWorldHint:   mcp.ToBoolPtr(false),
}

var indexAnnotation = mcp.ToolAnnotation{
	ReadOnlyHint:    mcp.ToBoolPtr(false),
	DestructiveHint: mcp.ToBoolPtr(false),
	IdempotentHint:  mcp.ToBoolPtr(true),
	OpenWorldHint:   mcp.ToBoolPtr(false),
}

func indexDirectoryTool() mcp.Tool {
	return mcp.NewTool("index_directory",
		mcp.WithDescription("Index every text file under a directory into the semantic search index. Re-indexing a file replaces its previous chunks."),
		mcp.WithToolAnnotation(indexAnnotation),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Directory to index"),
		),
	)
}

func searchCodebaseTool() mcp.Tool {
	return mcp.NewTool("search_codebase",
		mcp.WithDescription("Semantically search the indexed files using vector similarity. Returns the most relevant chunks with file paths and similarity scores."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Natural language query to search the indexed files"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of chunks to return (default 10)"),
		),
	)
}

func recentFilesTool() mcp.Tool {
	return mcp.NewTool("recent_files",
		mcp.WithDescription("List indexed files modified within the last N days, newest first."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithNumber("days",
			mcp.Description("Recency window in days (default 7)"),
		),
	)
}

// --- Handler factories ---

func makeIndexHandler(st store.Store, emb embedder.Embedder, cfg *config.Config) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := req.GetString("path", "")
		if path == "" {
			return mcp.NewToolResultError("path is required"), nil
		}

		files, err := walker.Walk(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("walk %s: %v", path, err)), nil
		}

		ix := index.New(st, emb, index.Config{
			ChunkSize: cfg.ChunkSize,
			BatchSize: cfg.BatchSize,
		})
		n, err := ix.IndexFiles(ctx, files)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("indexing failed after %d of %d files: %v", n, len(files), err)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Indexed %d of %d files under %s", n, len(files), path)), nil
	}
}

func makeSearchHandler(st store.Store, emb embedder.Embedder) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return mcp.NewToolResultError("query is required"), nil
		}
		limit := req.GetInt("limit", 10)

		results, err := search.New(st, emb).Search(ctx, query, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}

		return mcp.NewToolResultText(formatSearchResults(query, results)), nil
	}
}

func makeRecentHandler(st store.Store) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		days := req.GetInt("days", 7)

		files, err := search.RecentFiles(st, days)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("recent files failed: %v", err)), nil
		}

		return mcp.NewToolResultText(formatRecentFiles(days, files)), nil
	}
}

// --- Formatting helpers ---

func formatSearchResults(query string, results []search.Result) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results found for query: %q", query)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Search results for %q (%d chunks)\n\n", query, len(results))

	for i, r := range results {
		fmt.Fprintf(&sb, "### Result %d: `%s`\n\n", i+1, r.FilePath)
		fmt.Fprintf(&sb, "**Score:** %.4f  \n**Modified:** %s\n\n",
			r.Score, r.ModifiedAt.Format(time.RFC3339))
		fmt.Fprintf(&sb, "```\n%s\n```\n\n", r.Content)
	}

	return sb.String()
}

func formatRecentFiles(days int, files []store.FileRecord) string {
	if len(files) == 0 {
		return fmt.Sprintf("No files modified in the last %d days.", days)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Files modified in the last %d days (%d)\n\n", days, len(files))
	for _, f := range files {
		fmt.Fprintf(&sb, "- **%s** — modified %s, %d bytes\n",
			f.Path, f.ModifiedAt.Format(time.RFC3339), f.SizeBytes)
	}
	return sb.String()
}
