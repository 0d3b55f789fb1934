package contracts

// EngineOptions defines the configuration options for the MIDI engine.
type EngineOptions struct {
	Logger      Logger       // Logger for engine events and errors.
	LogLevel    LogLevel     // Level of logging to use.
	Capacity    int          // Number of interface slots in the pool.
	Primitives  *Primitives  // Memory operations used internally.
	EventFilter *EventFilter // Optional filter for decoded events.
	Assertions  bool         // Enables contract-violation assertions.
	ClientName  string       // Name reported to platform MIDI services.
}

// Option is a function that modifies EngineOptions.
type Option func(*EngineOptions)

// WithLogger sets the logger for the engine.
func WithLogger(l Logger) Option {
	return func(opts *EngineOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the engine.
func WithLogLevel(level LogLevel) Option {
	return func(opts *EngineOptions) {
		opts.LogLevel = level
	}
}

// WithCapacity sets the interface pool capacity.
func WithCapacity(n int) Option {
	return func(opts *EngineOptions) {
		opts.Capacity = n
	}
}

// WithPrimitives sets the memory primitive table.
func WithPrimitives(p Primitives) Option {
	return func(opts *EngineOptions) {
		opts.Primitives = &p
	}
}

// WithEventFilter sets the decode-side event filter.
func WithEventFilter(filter EventFilter) Option {
	return func(opts *EngineOptions) {
		opts.EventFilter = &filter
	}
}

// WithClientName sets the name platform transports register with the
// system MIDI service.
func WithClientName(name string) Option {
	return func(opts *EngineOptions) {
		opts.ClientName = name
	}
}

// WithAssertions enables runtime checking of caller contracts. Violations
// panic instead of going undetected; leave disabled in production.
func WithAssertions() Option {
	return func(opts *EngineOptions) {
		opts.Assertions = true
	}
}
