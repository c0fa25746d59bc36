package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/claude/hevyplan/internal/builder"
	"github.com/claude/hevyplan/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the validation tools over MCP (stdio)",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadMatcher()
		if err != nil {
			return err
		}
		s := mcp.New(m, builder.Options{
			TitlePrefix: cfg.Submit.TitlePrefix,
			Notes:       cfg.Submit.Notes,
		}, version, log)

		log.Info("MCP server starting on stdio", "exercises", m.Catalog().Len())
		return server.ServeStdio(s)
	},
}
