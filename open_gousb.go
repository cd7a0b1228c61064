//go:build gousb

package megatec

import (
	"fmt"
	"time"

	"github.com/google/gousb"
	"github.com/piotrmaciejbednarski/megatec-ups-control/pkg/protocol"
)

// gousbHandle adapts a gousb device, and the context that owns it, to the
// control transfer surface the descriptor reader needs.
type gousbHandle struct {
	ctx *gousb.Context
	dev *gousb.Device
}

func (h *gousbHandle) ControlTransfer(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error) {
	h.dev.ControlTimeout = timeout
	return h.dev.Control(requestType, request, value, index, data)
}

func (h *gousbHandle) Close() error {
	err := h.dev.Close()
	if cerr := h.ctx.Close(); err == nil {
		err = cerr
	}
	return err
}

// Open opens the first device matching vendorID and productID through
// libusb. A missing device reports protocol.ErrInvalidResponse, matching
// how the firmware's absence looks at every other layer.
func Open(vendorID, productID uint16) (*UPS, error) {
	ctx := gousb.NewContext()
	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vendorID), gousb.ID(productID))
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("open %04x:%04x: %w", vendorID, productID, err)
	}
	if dev == nil {
		ctx.Close()
		return nil, fmt.Errorf("no device %04x:%04x: %w", vendorID, productID, protocol.ErrInvalidResponse)
	}
	return newUPS(&gousbHandle{ctx: ctx, dev: dev}), nil
}

// NewUPS wraps an already open usbfs file descriptor.
func NewUPS(fd uintptr) (*UPS, error) {
	ctx := gousb.NewContext()
	dev, err := ctx.OpenDeviceWithFileDescriptor(fd)
	if err != nil {
		ctx.Close()
		return nil, err
	}
	return newUPS(&gousbHandle{ctx: ctx, dev: dev}), nil
}
