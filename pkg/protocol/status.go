package protocol

import (
	"strconv"
	"strings"
)

// statusFields is the token count of a status reply.
const statusFields = 7

// Status is one parsed status reply, fields in wire order.
type Status struct {
	InputVoltage      float64 // Vac
	InputFaultVoltage float64 // Vac, input level at the last fault
	OutputVoltage     float64 // Vac
	OutputCurrent     float64 // percent of rated maximum
	InputFrequency    float64 // Hz
	BatteryVoltage    float64 // Vdc
	Temperature       float64 // degrees Celsius
}

// ParseStatus parses a decoded status reply. The reply must carry at least
// seven whitespace separated numeric tokens; tokens past the seventh (the
// firmware's status flag bits, on models that send them) are ignored. A
// short or non-numeric reply fails wholesale with ErrInvalidResponse, never
// partially.
func ParseStatus(s string) (*Status, error) {
	fields := strings.Fields(s)
	if len(fields) < statusFields {
		return nil, ErrInvalidResponse
	}
	var values [statusFields]float64
	for i, field := range fields[:statusFields] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, ErrInvalidResponse
		}
		values[i] = v
	}
	return &Status{
		InputVoltage:      values[0],
		InputFaultVoltage: values[1],
		OutputVoltage:     values[2],
		OutputCurrent:     values[3],
		InputFrequency:    values[4],
		BatteryVoltage:    values[5],
		Temperature:       values[6],
	}, nil
}
