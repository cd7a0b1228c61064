package protocol

import (
	"strconv"
	"strings"
)

// ratingFields is the token count of a rating information reply.
const ratingFields = 4

// Rating is one parsed rating information reply: the nameplate values the
// UPS was built to, not a live measurement.
type Rating struct {
	Voltage        float64 // nominal output Vac
	Current        float64 // rated output current, A
	BatteryVoltage float64 // nominal battery Vdc
	Frequency      float64 // nominal Hz
}

// ParseRating parses a decoded rating reply, "#MMM.M QQQ SS.SS RR.R" on the
// wire. The '#' start marker is stripped if the firmware sent one; the four
// tokens must all parse or the reply fails with ErrInvalidResponse.
func ParseRating(s string) (*Rating, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	fields := strings.Fields(s)
	if len(fields) < ratingFields {
		return nil, ErrInvalidResponse
	}
	var values [ratingFields]float64
	for i, field := range fields[:ratingFields] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, ErrInvalidResponse
		}
		values[i] = v
	}
	return &Rating{
		Voltage:        values[0],
		Current:        values[1],
		BatteryVoltage: values[2],
		Frequency:      values[3],
	}, nil
}
