// Package midi implements a synchronous MIDI wire-protocol engine: a
// fixed-capacity pool of IN/OUT interface handles, an outbound event
// encoder, and an inbound running-status decoder. The engine allocates its
// pool once at construction and never afterwards; all operations run to
// completion on the caller's goroutine.
//
// The engine performs no locking. Callers that share an engine or an
// interface across goroutines must serialize access themselves.
package midi

import (
	"errors"

	"github.com/leandrodaf/midiwire/internal/assert"
	"github.com/leandrodaf/midiwire/sdk/contracts"
)

// Error definitions for engine and interface lifecycle issues.
var (
	ErrPoolFull              = errors.New("no free interface slots")
	ErrStaleInterface        = errors.New("stale or destroyed interface")
	ErrWrongDirection        = errors.New("operation does not match interface direction")
	ErrNilHandler            = errors.New("nil handler")
	ErrNoSendHandler         = errors.New("no send handler registered")
	ErrNoEventHandler        = errors.New("no event handler registered")
	ErrInvalidChannelMessage = errors.New("invalid channel message")
	ErrNotImplemented        = errors.New("system common messages are not implemented")
	ErrUnknownEvent          = errors.New("unknown event")
	ErrInvalidDirection      = errors.New("invalid interface direction")
)

// EventHandler receives each fully decoded event from an IN interface.
// For channel events msg points to decoder-owned storage that is only
// valid for the duration of the call; copy it if retained. For real-time
// events msg is nil.
type EventHandler func(iface *Interface, evt contracts.Event, msg *contracts.ChannelMessage)

// SendHandler receives each encoded frame from an OUT interface. The
// buffer is only valid for the duration of the call and must be copied if
// retained.
type SendHandler func(frame []byte)

// slot is the pool-resident storage behind an interface handle.
type slot struct {
	index      int // position in the pool when live, -1 when free
	generation uint64
	direction  contracts.Direction

	onEvent EventHandler
	send    SendHandler

	// Inbound decoder state, DirectionIn only.
	runningStatus byte // last channel status byte, 0 when none
	pending       [2]byte
	pendingLen    int
	pendingWant   int

	// scratch backs the msg pointer handed to the event handler.
	scratch contracts.ChannelMessage
}

// Interface is a handle to one pool slot. It is only operable while the
// slot it names is live and of the generation it was created with; a
// destroyed or recreated slot invalidates all prior handles.
type Interface struct {
	engine     *Engine
	index      int
	generation uint64
}

// Engine owns the interface pool and the codec state. Create one per
// independent MIDI context; engines share nothing.
type Engine struct {
	logger contracts.Logger
	prim   contracts.Primitives
	filter *contracts.EventFilter

	slots []slot
	free  []int // free slot indices, top of stack is next allocation
}

// NewEngine creates an engine with the specified options, applying
// defaults for anything not provided.
func NewEngine(opts ...contracts.Option) (*Engine, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	assert.SetEnabled(options.Assertions)

	e := &Engine{
		logger: options.Logger,
		prim:   *options.Primitives,
		filter: options.EventFilter,
		slots:  make([]slot, options.Capacity),
		free:   make([]int, options.Capacity),
	}
	for i := range e.slots {
		e.slots[i].index = -1
		// Lowest index on top so allocation order matches slot order.
		e.free[i] = options.Capacity - 1 - i
	}

	e.logger.Debug("engine initialized",
		e.logger.Field().Int("capacity", options.Capacity))
	return e, nil
}

// Capacity returns the fixed size of the interface pool.
func (e *Engine) Capacity() int {
	return len(e.slots)
}

// Active returns the number of live interfaces.
func (e *Engine) Active() int {
	return len(e.slots) - len(e.free)
}

// Create allocates an interface of the given direction from the pool.
// Returns ErrPoolFull when every slot is live.
func (e *Engine) Create(dir contracts.Direction) (*Interface, error) {
	assert.That(dir == contracts.DirectionIn || dir == contracts.DirectionOut,
		"invalid direction")
	if dir != contracts.DirectionIn && dir != contracts.DirectionOut {
		return nil, ErrInvalidDirection
	}
	if len(e.free) == 0 {
		e.logger.Warn("interface pool exhausted",
			e.logger.Field().Int("capacity", len(e.slots)))
		return nil, ErrPoolFull
	}

	idx := e.free[len(e.free)-1]
	e.free = e.free[:len(e.free)-1]

	s := &e.slots[idx]
	gen := s.generation + 1
	e.resetSlot(s)
	s.generation = gen
	s.index = idx
	s.direction = dir

	e.logger.Debug("interface created",
		e.logger.Field().Int("slot", idx),
		e.logger.Field().String("direction", dir.String()))
	return &Interface{engine: e, index: idx, generation: gen}, nil
}

// Destroy returns an interface's slot to the pool. A nil, foreign, stale,
// or already destroyed handle is a silent no-op; the corresponding
// handle-validity assertion fires only when assertions are enabled.
func (e *Engine) Destroy(iface *Interface) {
	s := e.lookup(iface)
	assert.That(s != nil, "destroy of invalid interface")
	if s == nil {
		e.logger.Debug("destroy ignored for invalid interface handle")
		return
	}

	idx := s.index
	s.index = -1
	e.free = append(e.free, idx)
	e.logger.Debug("interface destroyed", e.logger.Field().Int("slot", idx))
}

// resetSlot clears a slot before reuse, preserving its generation.
func (e *Engine) resetSlot(s *slot) {
	gen := s.generation
	*s = slot{index: -1, generation: gen}
	e.prim.Clear(s.pending[:])
	e.prim.Clear(s.scratch.Data[:])
}

// lookup resolves a handle to its slot. A handle is valid only while its
// stored index still names a live slot of the same generation.
func (e *Engine) lookup(iface *Interface) *slot {
	if iface == nil || iface.engine != e {
		return nil
	}
	if iface.index < 0 || iface.index >= len(e.slots) {
		return nil
	}
	s := &e.slots[iface.index]
	if s.index != iface.index || s.generation != iface.generation {
		return nil
	}
	return s
}

// resolve validates the handle and its direction before an operation.
func (i *Interface) resolve(dir contracts.Direction) (*slot, error) {
	if i == nil || i.engine == nil {
		assert.That(false, "nil interface")
		return nil, ErrStaleInterface
	}
	s := i.engine.lookup(i)
	assert.That(s != nil, "stale or destroyed interface")
	if s == nil {
		return nil, ErrStaleInterface
	}
	assert.That(s.direction == dir, "operation does not match interface direction")
	if s.direction != dir {
		return nil, ErrWrongDirection
	}
	return s, nil
}

// Direction returns the interface direction, or an error for a handle
// that is no longer valid.
func (i *Interface) Direction() (contracts.Direction, error) {
	if i == nil || i.engine == nil {
		return 0, ErrStaleInterface
	}
	s := i.engine.lookup(i)
	if s == nil {
		return 0, ErrStaleInterface
	}
	return s.direction, nil
}

// RegisterEventHandler installs the decoded-event callback on an IN
// interface. Decoding is meaningless until a handler is registered.
func (i *Interface) RegisterEventHandler(fn EventHandler) error {
	s, err := i.resolve(contracts.DirectionIn)
	if err != nil {
		return err
	}
	assert.That(fn != nil, "nil event handler")
	if fn == nil {
		return ErrNilHandler
	}
	s.onEvent = fn
	return nil
}

// RegisterSendHandler installs the encoded-frame callback on an OUT
// interface. Report operations fail until a handler is registered.
func (i *Interface) RegisterSendHandler(fn SendHandler) error {
	s, err := i.resolve(contracts.DirectionOut)
	if err != nil {
		return err
	}
	assert.That(fn != nil, "nil send handler")
	if fn == nil {
		return ErrNilHandler
	}
	s.send = fn
	return nil
}
