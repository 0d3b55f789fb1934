//go:build windows
// +build windows

package midiwindows

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/leandrodaf/midiwire/sdk/contracts"
	"golang.org/x/sys/windows"
)

// HMIDIIN is a winmm MIDI input device handle.
type HMIDIIN windows.Handle

// Constants for callback flags
const (
	CALLBACK_FUNCTION = 0x00030000 // The callback parameter is a function.
	MIDI_IO_STATUS    = 0x00000020 // Deliver MIM_DATA for status bytes too.
)

// Constants for MIDI input messages
const (
	MIM_OPEN      = 0x3C1 // MIDI device opened
	MIM_CLOSE     = 0x3C2 // MIDI device closed
	MIM_DATA      = 0x3C3 // MIDI data received
	MIM_ERROR     = 0x3C5 // MIDI error
	MIM_LONGERROR = 0x3C6 // Long MIDI error
	MIM_MOREDATA  = 0x3CC // More MIDI data available
)

// midiInCaps mirrors the winmm MIDIINCAPSW structure.
type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

// Transport moves raw MIDI bytes from winmm to the caller on Windows.
// winmm hands over whole short messages, but they are still forwarded as
// raw bytes so the engine's decoder owns segmentation and running status.
type Transport struct {
	logger   contracts.Logger
	packets  atomic.Value // Capture channel, stored atomically for callback safety.
	handle   HMIDIIN
	portConn bool
	mu       sync.Mutex
	callback uintptr
}

// Load the winmm.dll library and required functions
var (
	winmm                = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen       = winmm.NewProc("midiInOpen")
	procMidiInStart      = winmm.NewProc("midiInStart")
	procMidiInStop       = winmm.NewProc("midiInStop")
	procMidiInClose      = winmm.NewProc("midiInClose")
)

// NewTransport initializes a winmm-backed transport.
func NewTransport(options *contracts.EngineOptions) (contracts.Transport, error) {
	options.Logger.Info("winmm MIDI transport created",
		options.Logger.Field().String("clientName", options.ClientName))

	return &Transport{
		logger: options.Logger,
	}, nil
}

// ListDevices lists the available MIDI input devices.
func (t *Transport) ListDevices() ([]contracts.DeviceInfo, error) {
	r0, _, _ := procMidiInGetNumDevs.Call()
	numDevices := uint32(r0)
	if numDevices == 0 {
		t.logger.Warn("no MIDI devices found")
		return nil, errors.New("no MIDI devices found")
	}

	devices := make([]contracts.DeviceInfo, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps midiInCaps
		r1, _, _ := procMidiInGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != 0 {
			t.logger.Warn(fmt.Sprintf("failed to get information for MIDI device %d", i))
			continue
		}
		deviceName := windows.UTF16ToString(caps.szPname[:])
		devices[i] = contracts.DeviceInfo{
			Name:         deviceName,
			EntityName:   deviceName,
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		}
	}
	return devices, nil
}

// SelectDevice opens a MIDI input device by ID.
func (t *Transport) SelectDevice(deviceID int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.portConn {
		if err := t.stopCapture(); err != nil {
			return fmt.Errorf("failed to stop previous MIDI capture: %w", err)
		}
	}

	t.callback = windows.NewCallback(midiInCallback)
	fdwOpen := CALLBACK_FUNCTION | MIDI_IO_STATUS

	r1, _, err := procMidiInOpen.Call(
		uintptr(unsafe.Pointer(&t.handle)),
		uintptr(deviceID),
		t.callback,
		uintptr(unsafe.Pointer(t)),
		uintptr(fdwOpen),
	)
	if r1 != 0 {
		t.logger.Error(fmt.Sprintf("failed to open MIDI device %d: %v", deviceID, err))
		return fmt.Errorf("failed to open MIDI device %d: %v", deviceID, err)
	}

	t.portConn = true
	t.logger.Info(fmt.Sprintf("MIDI device %d connected", deviceID))
	return nil
}

// StartCapture begins delivering raw packets to the given channel.
func (t *Transport) StartCapture(packets chan contracts.Packet) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.portConn {
		t.logger.Error("cannot start capture: no MIDI device selected")
		return
	}

	if _, ok := t.packets.Load().(chan contracts.Packet); ok {
		t.logger.Warn("capture already started")
		return
	}

	t.packets.Store(packets)

	if t.handle == 0 {
		t.logger.Error("invalid MIDI device handle")
		return
	}

	r1, _, err := procMidiInStart.Call(uintptr(t.handle))
	if r1 != 0 {
		t.logger.Error(fmt.Sprintf("failed to start MIDI capture: %v", err))
		return
	}

	t.logger.Info("MIDI capture started")
}

// shortMessageLen gives the byte count of a winmm short message from its
// status byte: real-time statuses are bare, program change and channel
// aftertouch carry one data byte, everything else two.
func shortMessageLen(status byte) int {
	if status >= 0xF8 {
		return 1
	}
	switch status & 0xF0 {
	case 0xC0, 0xD0:
		return 2
	default:
		return 3
	}
}

// midiInCallback forwards winmm short messages as raw packets.
func midiInCallback(hMidiIn uintptr, wMsg uint32, dwInstance uintptr, dwParam1 uintptr, dwParam2 uintptr) uintptr {
	t := (*Transport)(unsafe.Pointer(dwInstance))

	switch wMsg {
	case MIM_OPEN:
		t.logger.Info("MIDI device opened")
	case MIM_CLOSE:
		t.logger.Info("MIDI device closed")
	case MIM_DATA:
		// dwParam1 packs the message, low byte first: status, data1, data2.
		status := byte(dwParam1 & 0xFF)
		data1 := byte((dwParam1 >> 8) & 0xFF)
		data2 := byte((dwParam1 >> 16) & 0xFF)

		raw := [3]byte{status, data1, data2}
		p := contracts.Packet{
			Timestamp: uint64(time.Now().UTC().UnixNano()),
			Data:      raw[:shortMessageLen(status)],
		}

		if ch, ok := t.packets.Load().(chan contracts.Packet); ok && ch != nil {
			select {
			case ch <- p:
			default:
				t.logger.Warn("packet buffer full; dropping MIDI packet")
			}
		}
	case MIM_ERROR, MIM_LONGERROR:
		t.logger.Error(fmt.Sprintf("MIDI error: msg=0x%X", wMsg))
	case MIM_MOREDATA:
		t.logger.Debug("received MIM_MOREDATA message; ignored")
	default:
		t.logger.Warn(fmt.Sprintf("unknown MIDI message: 0x%X", wMsg))
	}

	return 0
}

// Stop terminates capture and closes the device.
func (t *Transport) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.portConn {
		t.logger.Warn("no MIDI device is connected")
		return nil
	}

	if err := t.stopCapture(); err != nil {
		return fmt.Errorf("failed to stop MIDI capture: %w", err)
	}
	t.logger.Info("MIDI capture stopped and device closed")
	return nil
}

// stopCapture stops the capture and releases the device handle.
func (t *Transport) stopCapture() error {
	if t.handle == 0 {
		return fmt.Errorf("invalid MIDI device handle")
	}

	r1, _, err := procMidiInStop.Call(uintptr(t.handle))
	if r1 != 0 {
		t.logger.Error(fmt.Sprintf("failed to stop MIDI capture: %v", err))
		return err
	}

	r1, _, err = procMidiInClose.Call(uintptr(t.handle))
	if r1 != 0 {
		t.logger.Error(fmt.Sprintf("failed to close MIDI device: %v", err))
		return err
	}

	t.handle = 0
	t.portConn = false
	return nil
}
