// Package tools exposes the gateway's callable operations over MCP.
// Each tool composes registry resolution, the HTTP fetch and response
// normalization, and shapes either a metrics payload or a structured
// {kind, message} error for the calling boundary.
package tools

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mozilla-ai/glanced/internal/contracts"
	"github.com/mozilla-ai/glanced/internal/errors"
	"github.com/mozilla-ai/glanced/internal/glances"
)

// toolError is the structured error payload returned by every tool on failure.
// Raw exception text and stack traces are never exposed; the kind tag is stable.
type toolError struct {
	Kind        errors.Kind `json:"kind"`
	Message     string      `json:"message"`
	Status      int         `json:"status,omitempty"`
	BodyExcerpt string      `json:"body_excerpt,omitempty"`
}

// categoryTool declares one per-category tool of the facade.
type categoryTool struct {
	name        string
	category    glances.Category
	description string
}

var categoryTools = []categoryTool{
	{"get_cpu_info", glances.CategoryCPU, "Get detailed CPU usage for a server (total, user, system, idle, iowait)."},
	{"get_memory_info", glances.CategoryMem, "Get memory usage for a server (total, used, free, percent)."},
	{"get_swap_info", glances.CategoryMemSwap, "Get swap usage for a server."},
	{"get_load_average", glances.CategoryLoad, "Get load average for a server (1/5/15 minutes and core count)."},
	{"get_network_info", glances.CategoryNetwork, "Get per-interface network counters and rates for a server."},
	{"get_disk_io_info", glances.CategoryDiskIO, "Get per-device disk I/O counters for a server."},
	{"get_fs_info", glances.CategoryFS, "Get filesystem usage per mount point for a server."},
	{"get_sensors_info", glances.CategorySensors, "Get hardware sensor readings (temperatures, fans) for a server."},
	{"get_process_list", glances.CategoryProcessList, "Get the list of running processes with CPU and memory usage for a server."},
	{"get_process_count", glances.CategoryProcessCount, "Get process count statistics for a server (total, running, sleeping, threads)."},
	{"get_quicklook", glances.CategoryQuicklook, "Get a quick overview of key metrics for a server (CPU, memory, swap, load)."},
	{"get_uptime", glances.CategoryUptime, "Get the uptime of a server."},
	{"get_alert_info", glances.CategoryAlert, "Get current alerts raised by a server's monitoring agent."},
	{"get_ip_addresses", glances.CategoryIP, "Get IP address information for a server."},
	{"get_connections_info", glances.CategoryConnections, "Get network connection statistics for a server."},
	{"get_gpu_info", glances.CategoryGPU, "Get GPU utilization and memory usage for a server."},
	{"get_containers_info", glances.CategoryContainers, "Get the list of running containers with CPU and memory usage for a server."},
	{"get_plugins_list", glances.CategoryPluginsList, "Get the list of plugins enabled on a server's monitoring agent."},
	{"get_version_info", glances.CategoryVersion, "Get the version of a server's monitoring agent."},
	{"get_system_info", glances.CategorySystem, "Get system information for a server (hostname, OS, platform)."},
}

// Manager registers the gateway's tools on an MCP server and handles their calls.
type Manager struct {
	fetcher contracts.MetricsFetcher
	logger  hclog.Logger
}

// NewManager creates a tool manager backed by the given metrics fetcher.
func NewManager(fetcher contracts.MetricsFetcher, logger hclog.Logger) (*Manager, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher cannot be nil")
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Manager{
		fetcher: fetcher,
		logger:  logger.Named("tools"),
	}, nil
}

// RegisterTools registers every gateway tool on the MCP server.
func (m *Manager) RegisterTools(s *server.MCPServer) {
	s.AddTool(
		mcp.NewTool("list_servers",
			mcp.WithDescription("List all configured servers with their id, name, URL and description."),
		),
		m.handleListServers,
	)

	for _, ct := range categoryTools {
		s.AddTool(
			mcp.NewTool(ct.name,
				mcp.WithDescription(ct.description),
				mcp.WithString("server_id",
					mcp.Required(),
					mcp.Description("Logical id of the configured server, e.g. 'server1'."),
				),
				mcp.WithString("path",
					mcp.Description("Optional sub-resource path appended to the category, e.g. 'total'."),
				),
			),
			m.handleCategory(ct.category),
		)
	}

	s.AddTool(
		mcp.NewTool("get_snapshot",
			mcp.WithDescription(
				"Fetch a combined snapshot of several metric categories from one server. "+
					"Categories that fail carry their own error slot; the rest of the snapshot is still returned.",
			),
			mcp.WithString("server_id",
				mcp.Required(),
				mcp.Description("Logical id of the configured server."),
			),
			mcp.WithString("categories",
				mcp.Description("Optional comma-separated category names (default: cpu,mem,memswap,load,network,diskio,fs,uptime,system)."),
			),
		),
		m.handleSnapshot,
	)
}

func (m *Manager) handleListServers(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.jsonResult(m.fetcher.Registry().List())
}

func (m *Manager) handleCategory(category glances.Category) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("server_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		subPath := req.GetString("path", "")

		value, err := m.fetcher.FetchCategoryPath(ctx, id, category, subPath)
		if err != nil {
			return m.errorResult(string(category), id, err), nil
		}

		return m.jsonResult(value)
	}
}

func (m *Manager) handleSnapshot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("server_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var categories []glances.Category
	if raw := strings.TrimSpace(req.GetString("categories", "")); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				categories = append(categories, glances.Category(name))
			}
		}
	}

	snap, err := m.fetcher.Snapshot(ctx, id, categories)
	if err != nil {
		return m.errorResult("snapshot", id, err), nil
	}

	return m.jsonResult(snap)
}

// jsonResult shapes a successful payload as indented JSON text content.
func (m *Manager) jsonResult(value any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult converts any fetch failure into the structured error payload.
func (m *Manager) errorResult(op string, id string, err error) *mcp.CallToolResult {
	te := toolError{
		Kind:    errors.KindOf(err),
		Message: err.Error(),
	}

	var fe *errors.FetchError
	if stdErrors.As(err, &fe) {
		te.Message = fe.Message
		te.Status = fe.StatusCode
		te.BodyExcerpt = fe.BodyExcerpt
	}

	m.logger.Warn("tool call failed", "operation", op, "server", id, "kind", te.Kind, "message", te.Message)

	data, marshalErr := json.Marshal(te)
	if marshalErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf(`{"kind": "%s", "message": "marshalling failed"}`, te.Kind))
	}
	return mcp.NewToolResultError(string(data))
}
