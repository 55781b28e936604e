// Package mcpserver exposes read-only bank inspection as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/james-see/emubank/pkg/bank"
	"github.com/james-see/emubank/pkg/bank/devices"
	"github.com/james-see/emubank/pkg/report"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

type handlers struct {
	capacity int
	log      *slog.Logger
}

// New builds the MCP server with every tool registered.
func New(capacity int, log *slog.Logger) *server.MCPServer {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if capacity <= 0 {
		capacity = bank.DefaultCapacity
	}
	h := &handlers{capacity: capacity, log: log}

	s := server.NewMCPServer(
		"emubank",
		Version,
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool("bank_devices",
		mcp.WithDescription("Lists the sampler device types banks can be created for, with their preset and sample limits."),
	), h.devices)

	s.AddTool(mcp.NewTool("bank_summary",
		mcp.WithDescription("Returns the header, presets, samples and consistency warnings of a bank file as JSON."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the bank file.")),
	), h.summary)

	s.AddTool(mcp.NewTool("bank_zones",
		mcp.WithDescription("Returns the zones of one preset with every parameter decoded to physical units."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the bank file.")),
		mcp.WithNumber("preset", mcp.Required(), mcp.Description("Preset index, starting at 0.")),
	), h.zones)

	return s
}

// Serve runs the server on stdin and stdout until the client disconnects.
func Serve(capacity int, log *slog.Logger) error {
	log.Info("starting MCP server", "version", Version)
	return server.ServeStdio(New(capacity, log))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (h *handlers) open(request mcp.CallToolRequest) (*bank.Bank, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return nil, err
	}
	return bank.Open(path, bank.WithCapacity(h.capacity), bank.WithLogger(h.log))
}

func (h *handlers) devices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type device struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		MaxPresets int    `json:"max_presets"`
		MaxSamples int    `json:"max_samples"`
	}
	var out []device
	for _, d := range devices.All() {
		out = append(out, device{d.ID(), d.Name(), d.Format().MaxPresets, d.Format().MaxSamples})
	}
	return jsonResult(out)
}

func (h *handlers) summary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.log.Debug("[mcp] bank_summary")
	b, err := h.open(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s, err := report.Summarize(b)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s)
}

func (h *handlers) zones(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.log.Debug("[mcp] bank_zones")
	preset, err := request.RequireInt("preset")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	b, err := h.open(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	zones, err := report.Zones(b, preset)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(zones)
}
