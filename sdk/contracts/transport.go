package contracts

// Direction fixes what an interface does for its whole lifetime.
type Direction int

const (
	// DirectionIn receives raw bytes from a transport and decodes them.
	DirectionIn Direction = iota
	// DirectionOut encodes events and hands frames to a send handler.
	DirectionOut
)

// String returns the direction name for logging.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "in"
	case DirectionOut:
		return "out"
	default:
		return "invalid"
	}
}

// DeviceInfo describes a MIDI device exposed by a transport.
type DeviceInfo struct {
	Name         string // Device name.
	Manufacturer string // Device manufacturer.
	EntityName   string // Name of the entity the device belongs to.
}

// Packet is one transport read: raw wire bytes, unsegmented. The engine's
// decoder performs message segmentation, so a packet may contain partial
// messages, several messages, or interleaved real-time bytes.
type Packet struct {
	Timestamp uint64 // Receipt time in nanoseconds since the Unix epoch.
	Data      []byte // Raw MIDI bytes.
}

// Transport is a platform byte source for MIDI input. Implementations
// deliver packets on the capture channel; feeding those bytes into an IN
// interface is the caller's job.
type Transport interface {
	Stop() error                        // Stops capture and releases resources.
	ListDevices() ([]DeviceInfo, error) // Lists available MIDI devices.
	SelectDevice(deviceID int) error    // Connects to a device by ID.
	StartCapture(packets chan Packet)   // Starts delivering raw packets.
}
