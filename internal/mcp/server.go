package mcp

import (
	"log/slog"

	"github.com/claude/hevyplan/internal/builder"
	"github.com/claude/hevyplan/internal/matcher"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
// Tools never touch the Hevy API; they validate and preview locally.
func New(m *matcher.Matcher, opts builder.Options, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("hevyplan", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("hevyplan program validator. Check workout programs against the Hevy exercise catalog, resolve exercise names to template IDs, and preview the routines a program would create."),
	)

	h := &handlers{m: m, opts: opts, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolValidateProgram, Handler: h.validateProgram},
		server.ServerTool{Tool: toolResolveExercise, Handler: h.resolveExercise},
		server.ServerTool{Tool: toolSearchExercises, Handler: h.searchExercises},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resProgramFormat, Handler: h.programFormat},
		server.ServerResource{Resource: resCatalogInfo, Handler: h.catalogInfo},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	m    *matcher.Matcher
	opts builder.Options
	log  *slog.Logger
}

// --- Resource definitions ---

var resProgramFormat = mcp.NewResource(
	"hevyplan://program_format",
	"Program Format",
	mcp.WithResourceDescription("Description of the JSON program document accepted by validate_program"),
	mcp.WithMIMEType("text/markdown"),
)

var resCatalogInfo = mcp.NewResource(
	"hevyplan://catalog_info",
	"Catalog Info",
	mcp.WithResourceDescription("Size of the loaded exercise catalog and the active matching settings"),
	mcp.WithMIMEType("application/json"),
)
