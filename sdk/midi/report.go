package midi

import (
	"github.com/leandrodaf/midiwire/internal/assert"
	"github.com/leandrodaf/midiwire/internal/wire"
	"github.com/leandrodaf/midiwire/sdk/contracts"
)

// Report encodes evt on an OUT interface and hands the frame to the send
// handler. Channel events require msg and emit [status|channel-1, data0]
// followed by data1 for two-data-byte kinds; real-time events ignore msg
// and emit their single status byte. The send handler is invoked exactly
// once on success and not at all on failure.
func (i *Interface) Report(evt contracts.Event, msg *contracts.ChannelMessage) error {
	s, err := i.resolve(contracts.DirectionOut)
	if err != nil {
		return err
	}
	assert.That(s.send != nil, "no send handler registered")
	if s.send == nil {
		return ErrNoSendHandler
	}

	var frame [3]byte
	switch evt.Class() {
	case contracts.ClassChannel:
		if !wire.ValidChannelMessage(msg) {
			return ErrInvalidChannelMessage
		}
		base, _ := wire.StatusBase(evt)
		frame[0] = base | (msg.Channel - 1)
		// One-data-byte kinds must not emit the ignored second byte: a
		// decoder holding this running status would read it as the start
		// of another message.
		n := wire.DataLen(evt)
		i.engine.prim.Copy(frame[1:], msg.Data[:n])
		s.send(frame[:1+n])
		return nil

	case contracts.ClassSystemRealtime:
		frame[0], _ = wire.StatusBase(evt)
		s.send(frame[:1])
		return nil

	case contracts.ClassSystemCommon:
		// Reserved in the taxonomy; no wire format is defined yet.
		return ErrNotImplemented

	default:
		return ErrUnknownEvent
	}
}

// ReportNote sends a note-on or note-off for note on channel (1-16) with
// the given velocity.
func (i *Interface) ReportNote(channel uint8, on bool, note, velocity uint8) error {
	assert.That(channel >= 1 && channel <= 16, "channel out of range")
	evt := contracts.EventNoteOff
	if on {
		evt = contracts.EventNoteOn
	}
	return i.Report(evt, &contracts.ChannelMessage{
		Channel: channel,
		Data:    [2]uint8{note, velocity},
	})
}

// ReportControlChange sends a control change for controller on channel
// (1-16) with the given value.
func (i *Interface) ReportControlChange(channel, controller, value uint8) error {
	assert.That(channel >= 1 && channel <= 16, "channel out of range")
	return i.Report(contracts.EventControlChange, &contracts.ChannelMessage{
		Channel: channel,
		Data:    [2]uint8{controller, value},
	})
}
