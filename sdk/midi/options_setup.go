package midi

import (
	"errors"

	"github.com/leandrodaf/midiwire/internal/logger"
	"github.com/leandrodaf/midiwire/sdk/contracts"
)

// DefaultCapacity is the interface pool size used when none is configured.
const DefaultCapacity = 8

// Error definitions for configuration issues.
var (
	ErrInvalidCapacity      = errors.New("pool capacity must be positive")
	ErrIncompletePrimitives = errors.New("primitive table must provide clear and copy")
)

// applyDefaultOptions sets default values for EngineOptions if not
// explicitly provided.
//
// opts ...contracts.Option: A variadic list of option functions that can
// modify EngineOptions.
//
// Returns:
//   - contracts.EngineOptions: The finalized options with defaults applied.
//   - error: An error if the resulting options are unusable.
func applyDefaultOptions(opts ...contracts.Option) (contracts.EngineOptions, error) {
	options := &contracts.EngineOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Set defaults if options are not provided
	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.Capacity == 0 {
		options.Capacity = DefaultCapacity
	}
	if options.Capacity < 0 {
		return contracts.EngineOptions{}, ErrInvalidCapacity
	}
	if options.Primitives == nil {
		options.Primitives = contracts.Builtin()
	}
	if !options.Primitives.Complete() {
		return contracts.EngineOptions{}, ErrIncompletePrimitives
	}

	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}
