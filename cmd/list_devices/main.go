package main

import (
	"flag"
	"fmt"
	"log"

	usb "github.com/kevmo314/go-usb"
	megatec "github.com/piotrmaciejbednarski/megatec-ups-control"
	"github.com/piotrmaciejbednarski/megatec-ups-control/pkg/protocol"
	"github.com/piotrmaciejbednarski/megatec-ups-control/pkg/transfers"
)

var all = flag.Bool("all", false, "list every USB device, not only UPS candidates")

func main() {
	flag.Parse()

	devices, err := usb.DeviceList()
	if err != nil {
		log.Fatalf("Failed to list devices: %v", err)
	}

	if len(devices) == 0 {
		fmt.Println("No USB devices found")
		return
	}

	matched := 0
	for _, dev := range devices {
		candidate := dev.Descriptor.VendorID == megatec.DefaultVendorID &&
			dev.Descriptor.ProductID == megatec.DefaultProductID
		if !candidate && !*all {
			continue
		}
		matched++

		fmt.Printf("Device %s:\n", dev.Path)
		fmt.Printf("  VID:PID: %04x:%04x\n", dev.Descriptor.VendorID, dev.Descriptor.ProductID)
		if dev.SysfsStrings != nil {
			if dev.SysfsStrings.Manufacturer != "" {
				fmt.Printf("  Manufacturer: %s\n", dev.SysfsStrings.Manufacturer)
			}
			if dev.SysfsStrings.Product != "" {
				fmt.Printf("  Product: %s\n", dev.SysfsStrings.Product)
			}
		}

		if candidate {
			fmt.Printf("  ** VID:PID matches a Megatec/Krauler UPS board **\n")
			probe(dev)
		}
		fmt.Println()
	}

	if matched == 0 {
		fmt.Printf("No devices matching %04x:%04x found (run with -all to list everything)\n",
			megatec.DefaultVendorID, megatec.DefaultProductID)
	}
}

// probe opens the device and reads the identification descriptor, which only
// a real Megatec board answers with protocol text.
func probe(dev *usb.Device) {
	handle, err := dev.Open()
	if err != nil {
		fmt.Printf("  (Could not open: %v)\n", err)
		return
	}
	defer handle.Close()

	reader := transfers.NewDescriptorReader(handle)
	raw, err := reader.ReadCommand(protocol.CommandName.Request())
	if err != nil {
		fmt.Printf("  (Identification read failed: %v)\n", err)
		return
	}
	fmt.Printf("  UPS name: %s\n", protocol.Decode(raw))
}
