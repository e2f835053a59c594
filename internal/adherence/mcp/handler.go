package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/adherence/internal/adherence"
	"github.com/2beens/adherence/internal/adherence/narrative"
	"github.com/2beens/adherence/internal/adherence/service"
	"github.com/2beens/adherence/internal/telemetry/metrics"
	"github.com/2beens/adherence/pkg"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// adherenceService is what the tools need from service.Service.
type adherenceService interface {
	Day(ctx context.Context, userID string, date time.Time) (*service.DayResult, error)
	Microcycle(ctx context.Context, userID string, from, to time.Time) (*service.MicrocycleResult, error)
	Evaluate(ctx context.Context, logs adherence.DayLogs, weights *adherence.Weights) (*service.DayResult, error)
}

// Handler parses tool arguments, calls the service and formats the tool result:
// the narrative report first, then the full scores as JSON.
type Handler struct {
	service        adherenceService
	metricsManager *metrics.Manager
}

func NewHandler(service adherenceService, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:        service,
		metricsManager: metricsManager,
	}
}

// GetDayAdherenceTool returns the tool handler for get_day_adherence.
func (h *Handler) GetDayAdherenceTool() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID := request.GetString("user", "")
		if userID == "" {
			return h.toolError(toolGetDayAdherence, "Missing user"), nil
		}
		date, err := pkg.ParseDate(request.GetString("date", ""))
		if err != nil {
			return h.toolError(toolGetDayAdherence, "Invalid date: use YYYY-MM-DD"), nil
		}

		res, err := h.service.Day(ctx, userID, date)
		if err != nil {
			return h.toolError(toolGetDayAdherence, "Error scoring day: "+err.Error()), nil
		}
		return h.toolResult(toolGetDayAdherence, res.Report, res)
	}
}

// GetMicrocycleAdherenceTool returns the tool handler for get_microcycle_adherence.
func (h *Handler) GetMicrocycleAdherenceTool() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID := request.GetString("user", "")
		if userID == "" {
			return h.toolError(toolGetMicrocycleAdherence, "Missing user"), nil
		}
		from, err := pkg.ParseDate(request.GetString("from_date", ""))
		if err != nil {
			return h.toolError(toolGetMicrocycleAdherence, "Invalid from_date: use YYYY-MM-DD"), nil
		}
		to, err := pkg.ParseDate(request.GetString("to_date", ""))
		if err != nil {
			return h.toolError(toolGetMicrocycleAdherence, "Invalid to_date: use YYYY-MM-DD"), nil
		}

		res, err := h.service.Microcycle(ctx, userID, from, to)
		if err != nil {
			return h.toolError(toolGetMicrocycleAdherence, "Error scoring microcycle: "+err.Error()), nil
		}
		return h.toolResult(toolGetMicrocycleAdherence, res.Report, res)
	}
}

// EvaluateDayTool returns the tool handler for evaluate_day.
func (h *Handler) EvaluateDayTool() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logsJson := request.GetString("logs", "")
		if strings.TrimSpace(logsJson) == "" {
			return h.toolError(toolEvaluateDay, "Missing logs"), nil
		}

		var req service.EvaluateRequest
		if err := json.Unmarshal([]byte(logsJson), &req); err != nil {
			return h.toolError(toolEvaluateDay, "Invalid logs json: "+err.Error()), nil
		}

		res, err := h.service.Evaluate(ctx, req.DayLogs, req.Weights)
		if err != nil {
			return h.toolError(toolEvaluateDay, "Error evaluating day: "+err.Error()), nil
		}
		return h.toolResult(toolEvaluateDay, res.Report, res)
	}
}

func (h *Handler) toolResult(tool string, report narrative.Report, v any) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return h.toolError(tool, "Error encoding response: "+err.Error()), nil
	}
	h.count(tool, "ok")
	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", report.String(), raw)), nil
}

func (h *Handler) toolError(tool, text string) *mcp.CallToolResult {
	h.count(tool, "error")
	return mcp.NewToolResultError(text)
}

func (h *Handler) count(tool, status string) {
	if h.metricsManager != nil {
		h.metricsManager.CounterMCPToolCalls.WithLabelValues(tool, status).Inc()
	}
}
