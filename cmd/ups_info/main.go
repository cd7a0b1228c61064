package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"

	megatec "github.com/piotrmaciejbednarski/megatec-ups-control"
	"github.com/piotrmaciejbednarski/megatec-ups-control/pkg/protocol"
)

var (
	vendorID  = flag.String("vid", "0x0001", "vendor id of the UPS")
	productID = flag.String("pid", "0x0000", "product id of the UPS")
	noAck     = flag.Bool("no-ack", false, "skip the status acknowledgment handshake")
)

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

	name, err := ups.Name()
	if err != nil {
		log.Fatalf("Failed to read name: %v", err)
	}
	fmt.Printf("UPS name: %s\n", name)

	if rating, err := ups.RatingInfo(); err != nil {
		log.Printf("Rating read failed: %v", err)
	} else {
		fmt.Printf("Rated: %.1fV %.0fA, battery %.2fV, %.1fHz\n",
			rating.Voltage, rating.Current, rating.BatteryVoltage, rating.Frequency)
	}

	status, err := readStatus(ups)
	if err != nil {
		log.Fatalf("Failed to read status: %v", err)
	}

	fmt.Println("\nUPS status:")
	fmt.Printf("  Input voltage:       %.1f V\n", status.InputVoltage)
	fmt.Printf("  Input fault voltage: %.1f V\n", status.InputFaultVoltage)
	fmt.Printf("  Output voltage:      %.1f V\n", status.OutputVoltage)
	fmt.Printf("  Load:                %.0f %%\n", status.OutputCurrent)
	fmt.Printf("  Input frequency:     %.1f Hz\n", status.InputFrequency)
	fmt.Printf("  Battery voltage:     %.2f V\n", status.BatteryVoltage)
	fmt.Printf("  Temperature:         %.1f C\n", status.Temperature)
}

func readStatus(ups *megatec.UPS) (*protocol.Status, error) {
	if *noAck {
		return ups.StatusNoAck()
	}
	return ups.Status()
}

// parseID parses a vendor or product id, accepting 0x prefixed hex or
// decimal.
func parseID(s string) (uint16, error) {
	id, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, err
	}
	return uint16(id), nil
}
