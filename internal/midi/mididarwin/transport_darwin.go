//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leandrodaf/midiwire/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Error definitions for MIDI connection and capture issues.
var (
	ErrNoMIDIDevices       = errors.New("no MIDI devices found")
	ErrInvalidMIDIDevice   = errors.New("invalid MIDI device")
	ErrMIDIConnectionError = errors.New("error connecting to MIDI device")
	ErrCreateInputPort     = errors.New("error creating input port")
)

// internalPortConnection is an interface for handling disconnection from a
// MIDI port.
type internalPortConnection interface {
	Disconnect()
}

// Transport moves raw MIDI bytes between CoreMIDI and the caller on macOS.
// Packets are forwarded unsegmented; message framing, running status, and
// real-time interleaving are the decoder's job, so partial packets are
// passed through untouched.
type Transport struct {
	logger     contracts.Logger
	packets    atomic.Value           // Capture channel, stored atomically for callback safety.
	client     coremidi.Client        // CoreMIDI client instance.
	inputPort  coremidi.InputPort     // Input port for receiving MIDI packets.
	portConn   internalPortConnection // Connection to the MIDI port.
	mu         sync.Mutex             // Guards connection state.
	capturing  bool                   // Whether capture is currently active.
	inCallback sync.WaitGroup         // Tracks in-flight packet deliveries.
	stopOnce   sync.Once              // Ensures Stop() runs once.
}

// NewTransport initializes a CoreMIDI-backed transport.
func NewTransport(options *contracts.EngineOptions) (contracts.Transport, error) {
	client, err := coremidi.NewClient(options.ClientName)
	if err != nil {
		return nil, err
	}
	options.Logger.Info("CoreMIDI transport created",
		options.Logger.Field().String("clientName", options.ClientName))

	return &Transport{
		logger: options.Logger,
		client: client,
	}, nil
}

// ListDevices retrieves and returns available MIDI sources.
func (t *Transport) ListDevices() ([]contracts.DeviceInfo, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	if len(sources) == 0 {
		t.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(sources))
	for i, source := range sources {
		sourceEntity := source.Entity()
		devices[i] = contracts.DeviceInfo{
			Name:         source.Name(),
			EntityName:   sourceEntity.Name(),
			Manufacturer: sourceEntity.Manufacturer(),
		}
	}
	return devices, nil
}

// SelectDevice connects to a MIDI source by ID, disconnecting any
// previously selected one.
func (t *Transport) SelectDevice(deviceID int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	sources, err := coremidi.AllSources()
	if err != nil {
		return fmt.Errorf("error retrieving MIDI sources: %w", err)
	}
	if deviceID < 0 || deviceID >= len(sources) {
		t.logger.Error(ErrInvalidMIDIDevice.Error())
		return ErrInvalidMIDIDevice
	}

	if t.portConn != nil {
		t.portConn.Disconnect()
		t.portConn = nil
	}

	source := sources[deviceID]
	t.logger.Info("MIDI device selected",
		t.logger.Field().Int("deviceID", deviceID),
		t.logger.Field().String("deviceName", source.Name()))

	t.inputPort, err = coremidi.NewInputPort(t.client, "Input Port", t.handlePacket)
	if err != nil {
		t.logger.Error(ErrCreateInputPort.Error())
		return fmt.Errorf("%w: %v", ErrCreateInputPort, err)
	}

	t.portConn, err = t.inputPort.Connect(source)
	if err != nil {
		t.logger.Error(ErrMIDIConnectionError.Error())
		return fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
	}

	t.logger.Info("MIDI device successfully connected")
	return nil
}

// handlePacket forwards a CoreMIDI packet's bytes to the capture channel.
// Bytes are copied because the packet buffer belongs to CoreMIDI.
func (t *Transport) handlePacket(source coremidi.Source, packet coremidi.Packet) {
	t.inCallback.Add(1)
	defer t.inCallback.Done()

	packets, _ := t.packets.Load().(chan contracts.Packet)
	if packets == nil {
		t.logger.Warn("packet channel not initialized; dropping MIDI packet")
		return
	}
	if len(packet.Data) == 0 {
		return
	}

	data := make([]byte, len(packet.Data))
	copy(data, packet.Data)
	p := contracts.Packet{
		Timestamp: uint64(time.Now().UTC().UnixNano()),
		Data:      data,
	}

	select {
	case packets <- p:
	default:
		t.logger.Warn("packet buffer full; dropping MIDI packet")
	}
}

// StartCapture begins delivering raw packets to the given channel,
// stopping any capture already in progress.
func (t *Transport) StartCapture(packets chan contracts.Packet) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if packets == nil {
		t.logger.Error("StartCapture called with nil packet channel")
		return
	}

	if t.capturing {
		t.logger.Warn("capture already started; attempting to stop existing capture")
		if err := t.Stop(); err != nil {
			t.logger.Error("failed to stop existing capture",
				t.logger.Field().Error("error", err))
		}
	}

	t.logger.Info("starting MIDI capture")
	t.packets.Store(packets)
	t.capturing = true
}

// Stop halts capture, disconnects from the device, and waits for in-flight
// packet deliveries to complete. Runs at most once.
func (t *Transport) Stop() error {
	t.stopOnce.Do(func() {
		t.logger.Info("stopping MIDI capture")
		t.mu.Lock()
		defer t.mu.Unlock()

		if t.capturing {
			t.capturing = false

			if t.portConn != nil {
				t.portConn.Disconnect()
				t.portConn = nil
			}

			// Swap in a dummy channel so late callbacks never write to the
			// caller's channel after Stop returns.
			t.packets.Store(make(chan contracts.Packet))

			t.logger.Info("MIDI capture stopped")
			t.inCallback.Wait()
		}
	})
	return nil
}
