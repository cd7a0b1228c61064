package requests

type RequestType uint8

const (
	// RequestTypeStandardDeviceIn is an inbound, standard, device-recipient
	// request (the only composition this protocol uses).
	RequestTypeStandardDeviceIn  RequestType = 0b10000000
	RequestTypeStandardDeviceOut RequestType = 0b00000000
)

type RequestCode uint8

const (
	RequestCodeGetStatus        RequestCode = 0x00
	RequestCodeClearFeature     RequestCode = 0x01
	RequestCodeSetFeature       RequestCode = 0x03
	RequestCodeSetAddress       RequestCode = 0x05
	RequestCodeGetDescriptor    RequestCode = 0x06
	RequestCodeSetDescriptor    RequestCode = 0x07
	RequestCodeGetConfiguration RequestCode = 0x08
	RequestCodeSetConfiguration RequestCode = 0x09
)

type DescriptorType uint8

const (
	DescriptorTypeDevice    DescriptorType = 0x01
	DescriptorTypeConfig    DescriptorType = 0x02
	DescriptorTypeString    DescriptorType = 0x03
	DescriptorTypeInterface DescriptorType = 0x04
	DescriptorTypeEndpoint  DescriptorType = 0x05
)

// StringDescriptorValue composes the wValue of a GET_DESCRIPTOR request for
// the string descriptor at index: descriptor type in the high byte, index in
// the low byte.
func StringDescriptorValue(index uint8) uint16 {
	return uint16(DescriptorTypeString)<<8 | uint16(index)
}
