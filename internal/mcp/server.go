// Package mcp implements the Model Context Protocol server for leadsegment.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ajitpratap0/leadsegment/internal/dataset"
	"github.com/ajitpratap0/leadsegment/internal/geo"
	"github.com/ajitpratap0/leadsegment/internal/metrics"
	"github.com/ajitpratap0/leadsegment/internal/models"
	"github.com/ajitpratap0/leadsegment/internal/segment"
	"github.com/ajitpratap0/leadsegment/pkg/textnorm"
)

// Server wraps an MCPServer with leadsegment dependencies.
type Server struct {
	mcp     *mcpserver.MCPServer
	engine  *segment.Engine
	geo     geo.Config
	states  textnorm.AliasTable
	options segment.Options
	logger  *slog.Logger
}

// NewServer creates a new MCP server. geoCfg, states and opts are the
// defaults every tool call starts from.
func NewServer(eng *segment.Engine, geoCfg geo.Config, states textnorm.AliasTable, opts segment.Options, logger *slog.Logger) *Server {
	s := &Server{
		engine:  eng,
		geo:     geoCfg,
		states:  states,
		options: opts,
		logger:  logger,
	}

	mcpSrv := mcpserver.NewMCPServer(
		"leadsegment",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
	)

	mcpSrv.AddTool(buildSegmentTool(), s.handleSegment)
	mcpSrv.AddTool(buildValidateTool(), s.handleValidate)
	mcpSrv.AddTool(buildGeoConfigTool(), s.handleGeoConfig)

	s.mcp = mcpSrv
	return s
}

// MCPServer returns the underlying mcp-go MCPServer for use with ServeStdio.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

// HandleSegment is the exported handler for the "segment" tool.
// It is exposed for direct testing without the mcp-go transport layer.
func (s *Server) HandleSegment(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleSegment(ctx, req)
}

// HandleValidate is the exported handler for the "validate" tool.
func (s *Server) HandleValidate(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleValidate(ctx, req)
}

// HandleGeoConfig is the exported handler for the "geo_config" tool.
func (s *Server) HandleGeoConfig(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleGeoConfig(ctx, req)
}

// --- helpers ---

// toolResultJSON marshals v to JSON and returns it as a tool text result.
func toolResultJSON(v any) (*mcpgo.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mcp: marshaling result: %w", err)
	}
	return mcpgo.NewToolResultText(string(b)), nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// --- tool definitions ---

func buildSegmentTool() mcpgo.Tool {
	return mcpgo.NewTool("segment",
		mcpgo.WithDescription("Segment a HubSpot contact export (CSV) into one of three clusterings and return the run metadata and aggregate report."),
		mcpgo.WithString("path",
			mcpgo.Required(),
			mcpgo.Description("Path to the CSV export"),
		),
		mcpgo.WithString("cluster",
			mcpgo.Required(),
			mcpgo.Description("Cluster: 1/social, 2/geo or 3/channel"),
		),
		mcpgo.WithString("home_country",
			mcpgo.Description("Override the configured home country"),
		),
		mcpgo.WithString("local_region",
			mcpgo.Description("Override the configured local region"),
		),
		mcpgo.WithString("local_aliases",
			mcpgo.Description("Comma-separated aliases for the local region"),
		),
		mcpgo.WithString("periods",
			mcpgo.Description("Comma-separated academic periods to keep, e.g. \"2025 Fall\""),
		),
		mcpgo.WithString("closure",
			mcpgo.Description("Closure filter: all, closed or open (default: all)"),
		),
		mcpgo.WithBoolean("include_rows",
			mcpgo.Description("Include per-contact rows in the result (default: false)"),
		),
	)
}

func buildValidateTool() mcpgo.Tool {
	return mcpgo.NewTool("validate",
		mcpgo.WithDescription("Check whether a CSV export has the columns each cluster needs."),
		mcpgo.WithString("path",
			mcpgo.Required(),
			mcpgo.Description("Path to the CSV export"),
		),
	)
}

func buildGeoConfigTool() mcpgo.Tool {
	return mcpgo.NewTool("geo_config",
		mcpgo.WithDescription("Return the active geographic configuration and example configurations for other regions."),
	)
}

// --- handlers ---

// segmentResult is the JSON payload of the segment tool.
type segmentResult struct {
	Run    models.RunInfo `json:"run"`
	Report any            `json:"report"`
	Rows   any            `json:"rows,omitempty"`
}

func (s *Server) handleSegment(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	metrics.Inc(metrics.MCPCalls)
	if s.engine == nil {
		return mcpgo.NewToolResultError("segmentation engine is unavailable"), nil
	}

	path := req.GetString("path", "")
	if path == "" {
		return mcpgo.NewToolResultError("path is required and must not be empty"), nil
	}
	cluster, err := models.ParseCluster(req.GetString("cluster", ""))
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}

	cfg := s.geo
	if v := req.GetString("home_country", ""); v != "" {
		cfg.HomeCountry = v
	}
	if v := req.GetString("local_region", ""); v != "" {
		cfg.LocalRegion = v
	}
	if v := req.GetString("local_aliases", ""); v != "" {
		cfg.LocalAliases = geo.ParseAliases(v)
	}
	closure, err := segment.ParseClosure(req.GetString("closure", ""))
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}

	tbl, err := dataset.LoadFile(path)
	if err != nil {
		return mcpgo.NewToolResultErrorf("load failed: %s", err.Error()), nil
	}

	res, err := s.engine.Run(ctx, segment.Request{
		Cluster: cluster,
		Table:   tbl,
		Geo:     cfg,
		States:  s.states,
		Options: s.options,
		Filters: segment.Filters{
			Periods: splitList(req.GetString("periods", "")),
			Closure: closure,
		},
	})
	if err != nil {
		if errors.Is(err, dataset.ErrMissingIDColumn) {
			return mcpgo.NewToolResultErrorf("invalid export: %s", err.Error()), nil
		}
		s.logger.Error("mcp: segment run failed", "path", path, "error", err)
		return mcpgo.NewToolResultErrorf("segmentation failed: %s", err.Error()), nil
	}

	out := segmentResult{Run: res.Run, Report: res.Report}
	if req.GetBool("include_rows", false) {
		switch cluster {
		case models.ClusterSocial:
			out.Rows = res.Social
		case models.ClusterGeo:
			out.Rows = res.Geo
		case models.ClusterChannel:
			out.Rows = res.Channel
		}
	}
	return toolResultJSON(out)
}

func (s *Server) handleValidate(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	metrics.Inc(metrics.MCPCalls)
	path := req.GetString("path", "")
	if path == "" {
		return mcpgo.NewToolResultError("path is required and must not be empty"), nil
	}
	tbl, err := dataset.LoadFile(path)
	if err != nil {
		return mcpgo.NewToolResultErrorf("load failed: %s", err.Error()), nil
	}
	return toolResultJSON(dataset.Validate(tbl, dataset.DefaultVocabulary))
}

// geoConfigResult is the JSON payload of the geo_config tool.
type geoConfigResult struct {
	Active    geo.Config        `json:"active"`
	TierNames map[string]string `json:"tier_names"`
	Examples  []geo.Example     `json:"examples"`
}

func (s *Server) handleGeoConfig(_ context.Context, _ mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	metrics.Inc(metrics.MCPCalls)
	names := make(map[string]string, len(models.ValidGeoTiers))
	for _, t := range models.ValidGeoTiers {
		names[string(t)] = s.geo.TierName(t)
	}
	return toolResultJSON(geoConfigResult{Active: s.geo, TierNames: names, Examples: geo.Examples})
}
