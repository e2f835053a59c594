package mcp

import (
	"github.com/2beens/adherence/internal/telemetry/metrics"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "adherence"
	serverVersion = "1.0.0"

	toolGetDayAdherence        = "get_day_adherence"
	toolGetMicrocycleAdherence = "get_microcycle_adherence"
	toolEvaluateDay            = "evaluate_day"
)

// NewServer builds an MCP server with the adherence tools: day, microcycle and evaluate.
// Served over stdio by cmd/adherence_mcp and mounted at /mcp by the main service.
func NewServer(svc adherenceService, metricsManager *metrics.Manager) *server.MCPServer {
	h := NewHandler(svc, metricsManager)
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithLogging(),
	)

	s.AddTool(mcp.NewTool(toolGetDayAdherence,
		mcp.WithDescription("Scores how closely a user followed their nutrition, training, sleep and supplement plan on one day. Returns a diagnostic report followed by the per domain and per item scores as JSON."),
		mcp.WithString("user", mcp.Description("User id."), mcp.Required()),
		mcp.WithString("date", mcp.Description("Day to score (YYYY-MM-DD)."), mcp.Required()),
	), h.GetDayAdherenceTool())

	s.AddTool(mcp.NewTool(toolGetMicrocycleAdherence,
		mcp.WithDescription("Scores plan adherence over a date range (a microcycle, usually a week): average accuracy, best and worst day, domain averages and recurring misses. Falls back to a sample dataset when the user has too few logged days; the result then has isSample set."),
		mcp.WithString("user", mcp.Description("User id."), mcp.Required()),
		mcp.WithString("from_date", mcp.Description("First day of the range (YYYY-MM-DD)."), mcp.Required()),
		mcp.WithString("to_date", mcp.Description("Last day of the range, included (YYYY-MM-DD)."), mcp.Required()),
	), h.GetMicrocycleAdherenceTool())

	s.AddTool(mcp.NewTool(toolEvaluateDay,
		mcp.WithDescription("Scores a day from logs supplied by the caller instead of stored ones. Use to check what-if scenarios, e.g. how an extra set or an earlier bedtime changes the score."),
		mcp.WithString("logs",
			mcp.Description("Day logs as JSON: date, goals, meals, exercises, sets, sleep, supplements, intakes, and optional weights {nutrition, training, sleep, supplements} summing to 1."),
			mcp.Required(),
		),
	), h.EvaluateDayTool())

	return s
}
