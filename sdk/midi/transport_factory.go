package midi

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/leandrodaf/midiwire/internal/midi/mididarwin"
	"github.com/leandrodaf/midiwire/internal/midi/midiwindows"
	"github.com/leandrodaf/midiwire/sdk/contracts"
)

// ErrUnsupportedOS is returned when no transport exists for the current
// operating system.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// transportInitializers maps OS names to platform transport constructors.
var transportInitializers = map[string]func(*contracts.EngineOptions) (contracts.Transport, error){
	"darwin":  mididarwin.NewTransport,  // macOS CoreMIDI transport.
	"windows": midiwindows.NewTransport, // Windows winmm transport.
}

// NewTransport creates a raw-byte transport for the current operating
// system. The transport only moves bytes; pair it with an IN interface by
// feeding captured packets into Interface.Receive.
//
// Returns ErrUnsupportedOS on platforms without a native MIDI backend.
func NewTransport(opts ...contracts.Option) (contracts.Transport, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	if options.ClientName == "" {
		options.ClientName = "midiwire"
	}

	if initializer, exists := transportInitializers[runtime.GOOS]; exists {
		return initializer(&options)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, runtime.GOOS)
}
