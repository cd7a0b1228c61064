//go:build !gousb

package megatec

import (
	"fmt"

	usb "github.com/kevmo314/go-usb"
	"github.com/piotrmaciejbednarski/megatec-ups-control/pkg/protocol"
)

// Open opens the first device matching vendorID and productID. The returned
// UPS owns the handle until Close. A missing device reports
// protocol.ErrInvalidResponse, matching how the firmware's absence looks at
// every other layer.
func Open(vendorID, productID uint16) (*UPS, error) {
	devices, err := usb.DeviceList()
	if err != nil {
		return nil, fmt.Errorf("list usb devices: %w", err)
	}
	for _, dev := range devices {
		if dev.Descriptor.VendorID != vendorID || dev.Descriptor.ProductID != productID {
			continue
		}
		handle, err := dev.Open()
		if err != nil {
			return nil, fmt.Errorf("open %04x:%04x: %w", vendorID, productID, err)
		}
		return newUPS(handle), nil
	}
	return nil, fmt.Errorf("no device %04x:%04x: %w", vendorID, productID, protocol.ErrInvalidResponse)
}

// NewUPS wraps an already open usbfs file descriptor, for callers that do
// their own discovery or receive the descriptor from a platform service.
func NewUPS(fd uintptr) (*UPS, error) {
	handle, err := usb.WrapSysDevice(int(fd))
	if err != nil {
		return nil, err
	}
	return newUPS(handle), nil
}
