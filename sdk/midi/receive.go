package midi

import (
	"github.com/leandrodaf/midiwire/internal/assert"
	"github.com/leandrodaf/midiwire/internal/wire"
	"github.com/leandrodaf/midiwire/sdk/contracts"
)

// Receive feeds raw wire bytes into an IN interface's decoder, invoking
// the event handler synchronously for every completed message. The stream
// may be split at arbitrary points across calls; decoder state carries
// over. Malformed or unsupported bytes never produce an error, only a
// resynchronization to the next recognized status byte.
func (i *Interface) Receive(data []byte) error {
	s, err := i.resolve(contracts.DirectionIn)
	if err != nil {
		return err
	}
	assert.That(s.onEvent != nil, "no event handler registered")
	if s.onEvent == nil {
		return ErrNoEventHandler
	}

	for _, b := range data {
		i.engine.decodeByte(i, s, b)
	}
	return nil
}

// decodeByte advances the running-status state machine by one byte.
func (e *Engine) decodeByte(i *Interface, s *slot, b byte) {
	if wire.IsStatusByte(b) {
		if wire.IsRealtimeStatus(b) {
			// Real-time bytes interleave anywhere without disturbing the
			// message in progress.
			evt, _ := wire.RealtimeEvent(b)
			e.emit(i, s, evt, nil)
			return
		}
		if evt, ok := wire.ChannelEvent(b); ok {
			s.runningStatus = b
			s.pendingLen = 0
			s.pendingWant = wire.DataLen(evt)
			return
		}
		// System common or unrecognized: drop the running status so
		// trailing data bytes are discarded until the next channel status.
		if s.runningStatus != 0 {
			e.logger.Debug("decoder resynchronizing",
				e.logger.Field().Uint8("status", b))
		}
		s.runningStatus = 0
		s.pendingLen = 0
		s.pendingWant = 0
		return
	}

	if s.runningStatus == 0 || s.pendingWant == 0 {
		// No message in progress.
		return
	}

	s.pending[s.pendingLen] = b
	s.pendingLen++
	s.pendingWant--
	if s.pendingWant > 0 {
		return
	}

	evt, _ := wire.ChannelEvent(s.runningStatus)
	s.scratch.Channel = wire.Channel(s.runningStatus)
	e.prim.Clear(s.scratch.Data[:])
	e.prim.Copy(s.scratch.Data[:], s.pending[:s.pendingLen])
	e.emit(i, s, evt, &s.scratch)

	// Running status is retained: the next data bytes decode as another
	// message of the same kind and channel.
	s.pendingLen = 0
	s.pendingWant = wire.DataLen(evt)
}

// emit delivers one decoded event through the filter, if any.
func (e *Engine) emit(i *Interface, s *slot, evt contracts.Event, msg *contracts.ChannelMessage) {
	if !e.filter.Allows(evt) {
		return
	}
	s.onEvent(i, evt, msg)
}
