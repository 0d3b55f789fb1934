//go:build !darwin
// +build !darwin

package mididarwin

import (
	"fmt"

	"github.com/leandrodaf/midiwire/sdk/contracts"
)

type dummyTransport struct {
	logger contracts.Logger
}

// NewTransport initializes a dummy transport for non-macOS systems.
func NewTransport(options *contracts.EngineOptions) (contracts.Transport, error) {
	options.Logger.Info("using dummy MIDI transport for non-macOS system")
	return &dummyTransport{
		logger: options.Logger,
	}, nil
}

func (t *dummyTransport) ListDevices() ([]contracts.DeviceInfo, error) {
	t.logger.Warn("ListDevices called on dummy MIDI transport")
	return nil, fmt.Errorf("MIDI transport is not available on this platform")
}

func (t *dummyTransport) SelectDevice(deviceID int) error {
	t.logger.Warn("SelectDevice called on dummy MIDI transport")
	return fmt.Errorf("MIDI transport is not available on this platform")
}

func (t *dummyTransport) StartCapture(packets chan contracts.Packet) {
	t.logger.Warn("StartCapture called on dummy MIDI transport")
}

func (t *dummyTransport) Stop() error {
	t.logger.Warn("Stop called on dummy MIDI transport")
	return nil
}
