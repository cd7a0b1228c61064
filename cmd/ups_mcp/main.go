// ups_mcp exposes a Megatec UPS to MCP clients over stdio. Shutdown is
// deliberately not exposed; a tool caller must not be able to cut power to
// the loads.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	megatec "github.com/piotrmaciejbednarski/megatec-ups-control"
	"github.com/piotrmaciejbednarski/megatec-ups-control/pkg/protocol"
)

const serverVersion = "0.1.0"

var (
	vendorID  = flag.String("vid", "0x0001", "vendor id of the UPS")
	productID = flag.String("pid", "0x0000", "product id of the UPS")
)

// upsDevice is the device surface the tool handlers need. *megatec.UPS
// satisfies it.
type upsDevice interface {
	Name() (string, error)
	Status() (*protocol.Status, error)
	StatusNoAck() (*protocol.Status, error)
	RatingInfo() (*protocol.Rating, error)
	Test() error
	TestUntilBatteryLow() error
	TestWithTime(minutes int) error
	AbortTest() error
	ToggleBeep() error
}

var _ upsDevice = (*megatec.UPS)(nil)

type upsTools struct {
	dev upsDevice
}

type registration struct {
	tool    mcp.Tool
	handler server.ToolHandlerFunc
}

func (t *upsTools) registrations() []registration {
	return []registration{
		{
			tool: mcp.NewTool("ups_name",
				mcp.WithDescription("Read the UPS identification string."),
			),
			handler: t.handleName,
		},
		{
			tool: mcp.NewTool("ups_status",
				mcp.WithDescription("Query UPS input and output voltage, load, input frequency, battery voltage and temperature."),
				mcp.WithBoolean("no_ack", mcp.Description("Skip the acknowledgment handshake and accept possibly stale values.")),
			),
			handler: t.handleStatus,
		},
		{
			tool: mcp.NewTool("ups_rating",
				mcp.WithDescription("Read the UPS nameplate rating information."),
			),
			handler: t.handleRating,
		},
		{
			tool: mcp.NewTool("ups_test",
				mcp.WithDescription("Run a battery self test. Without arguments the firmware's 10 second test is started."),
				mcp.WithNumber("minutes", mcp.Description("Timed test duration in minutes (1-99).")),
				mcp.WithBoolean("until_battery_low", mcp.Description("Discharge until the battery low point.")),
			),
			handler: t.handleTest,
		},
		{
			tool: mcp.NewTool("ups_abort_test",
				mcp.WithDescription("Cancel a running self test."),
			),
			handler: t.handleAbortTest,
		},
		{
			tool: mcp.NewTool("ups_beep",
				mcp.WithDescription("Toggle the UPS beeper."),
			),
			handler: t.handleBeep,
		},
	}
}

func (t *upsTools) handleName(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := t.dev.Name()
	if err != nil {
		return nil, fmt.Errorf("identification read failed: %w", err)
	}
	return mcp.NewToolResultText(name), nil
}

func (t *upsTools) handleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	read := t.dev.Status
	if req.GetBool("no_ack", false) {
		read = t.dev.StatusNoAck
	}
	status, err := read()
	if err != nil {
		return nil, fmt.Errorf("status query failed: %w", err)
	}
	return jsonResult(map[string]float64{
		"input_voltage":       status.InputVoltage,
		"input_fault_voltage": status.InputFaultVoltage,
		"output_voltage":      status.OutputVoltage,
		"load_percent":        status.OutputCurrent,
		"input_frequency":     status.InputFrequency,
		"battery_voltage":     status.BatteryVoltage,
		"temperature":         status.Temperature,
	})
}

func (t *upsTools) handleRating(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rating, err := t.dev.RatingInfo()
	if err != nil {
		return nil, fmt.Errorf("rating read failed: %w", err)
	}
	return jsonResult(map[string]float64{
		"voltage":         rating.Voltage,
		"current":         rating.Current,
		"battery_voltage": rating.BatteryVoltage,
		"frequency":       rating.Frequency,
	})
}

func (t *upsTools) handleTest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	minutes := req.GetInt("minutes", 0)
	untilLow := req.GetBool("until_battery_low", false)
	if minutes > 0 && untilLow {
		return mcp.NewToolResultError("choose either minutes or until_battery_low, not both"), nil
	}

	var err error
	switch {
	case untilLow:
		err = t.dev.TestUntilBatteryLow()
	case minutes > 0:
		err = t.dev.TestWithTime(minutes)
	default:
		err = t.dev.Test()
	}
	if err != nil {
		return nil, fmt.Errorf("self test failed: %w", err)
	}
	return mcp.NewToolResultText("self test started"), nil
}

func (t *upsTools) handleAbortTest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := t.dev.AbortTest(); err != nil {
		return nil, fmt.Errorf("abort failed: %w", err)
	}
	return mcp.NewToolResultText("self test aborted"), nil
}

func (t *upsTools) handleBeep(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := t.dev.ToggleBeep(); err != nil {
		return nil, fmt.Errorf("beeper toggle failed: %w", err)
	}
	return mcp.NewToolResultText("beeper toggled"), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func main() {
	flag.Parse()

	vid, err := parseID(*vendorID)
	if err != nil {
		log.Fatalf("Invalid vendor id %q: %v", *vendorID, err)
	}
	pid, err := parseID(*productID)
	if err != nil {
		log.Fatalf("Invalid product id %q: %v", *productID, err)
	}

	ups, err := megatec.Open(vid, pid)
	if err != nil {
		log.Fatalf("Failed to open UPS: %v", err)
	}
	defer ups.Close()

	tools := &upsTools{dev: ups}

	s := server.NewMCPServer("megatec-ups", serverVersion,
		server.WithToolCapabilities(false),
	)
	for _, reg := range tools.registrations() {
		s.AddTool(reg.tool, reg.handler)
	}

	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func parseID(s string) (uint16, error) {
	id, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, err
	}
	return uint16(id), nil
}
