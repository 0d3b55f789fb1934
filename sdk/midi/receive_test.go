package midi

import (
	"errors"
	"testing"

	"github.com/leandrodaf/midiwire/sdk/contracts"
)

// decodedEvent is one event captured from an event handler, with the
// payload copied out of the decoder's scratch storage.
type decodedEvent struct {
	evt contracts.Event
	msg *contracts.ChannelMessage
}

// eventRecorder captures every event emitted by an IN interface.
type eventRecorder struct {
	events []decodedEvent
}

func (r *eventRecorder) handler() EventHandler {
	return func(_ *Interface, evt contracts.Event, msg *contracts.ChannelMessage) {
		var copied *contracts.ChannelMessage
		if msg != nil {
			m := *msg
			copied = &m
		}
		r.events = append(r.events, decodedEvent{evt: evt, msg: copied})
	}
}

func newInInterface(t *testing.T, opts ...contracts.Option) (*Interface, *eventRecorder) {
	t.Helper()
	e := newTestEngine(t, append(opts, contracts.WithCapacity(2))...)
	in := mustCreate(t, e, contracts.DirectionIn)
	rec := &eventRecorder{}
	if err := in.RegisterEventHandler(rec.handler()); err != nil {
		t.Fatalf("register event handler: %v", err)
	}
	return in, rec
}

func feed(t *testing.T, in *Interface, data []byte) {
	t.Helper()
	if err := in.Receive(data); err != nil {
		t.Fatalf("receive % X: %v", data, err)
	}
}

func TestRoundTripChannelEvents(t *testing.T) {
	channelEvents := []contracts.Event{
		contracts.EventNoteOff,
		contracts.EventNoteOn,
		contracts.EventPolyAftertouch,
		contracts.EventControlChange,
		contracts.EventProgramChange,
		contracts.EventAftertouch,
		contracts.EventPitchBend,
	}
	dataSamples := [][2]uint8{{0, 0}, {64, 32}, {127, 127}}

	e := newTestEngine(t, contracts.WithCapacity(2))
	out := mustCreate(t, e, contracts.DirectionOut)
	in := mustCreate(t, e, contracts.DirectionIn)

	rec := &eventRecorder{}
	if err := in.RegisterEventHandler(rec.handler()); err != nil {
		t.Fatalf("register event handler: %v", err)
	}
	// Wire encode directly to decode.
	if err := out.RegisterSendHandler(func(frame []byte) {
		if err := in.Receive(frame); err != nil {
			t.Fatalf("receive: %v", err)
		}
	}); err != nil {
		t.Fatalf("register send handler: %v", err)
	}

	for _, evt := range channelEvents {
		for channel := uint8(1); channel <= 16; channel++ {
			for _, data := range dataSamples {
				rec.events = rec.events[:0]
				msg := contracts.ChannelMessage{Channel: channel, Data: data}
				if err := out.Report(evt, &msg); err != nil {
					t.Fatalf("%v ch=%d: report: %v", evt, channel, err)
				}
				if len(rec.events) != 1 {
					t.Fatalf("%v ch=%d: %d events decoded, want 1", evt, channel, len(rec.events))
				}
				got := rec.events[0]
				if got.evt != evt {
					t.Fatalf("%v ch=%d: decoded %v", evt, channel, got.evt)
				}
				if got.msg == nil || got.msg.Channel != channel {
					t.Fatalf("%v ch=%d: decoded message %+v", evt, channel, got.msg)
				}
				wantData := data
				if evt == contracts.EventProgramChange || evt == contracts.EventAftertouch {
					wantData[1] = 0 // second byte is not on the wire
				}
				if got.msg.Data != wantData {
					t.Fatalf("%v ch=%d: data %v, want %v", evt, channel, got.msg.Data, wantData)
				}
			}
		}
	}
}

func TestRoundTripRealtimeEvents(t *testing.T) {
	e := newTestEngine(t, contracts.WithCapacity(2))
	out := mustCreate(t, e, contracts.DirectionOut)
	in := mustCreate(t, e, contracts.DirectionIn)

	rec := &eventRecorder{}
	if err := in.RegisterEventHandler(rec.handler()); err != nil {
		t.Fatalf("register event handler: %v", err)
	}
	if err := out.RegisterSendHandler(func(frame []byte) {
		if err := in.Receive(frame); err != nil {
			t.Fatalf("receive: %v", err)
		}
	}); err != nil {
		t.Fatalf("register send handler: %v", err)
	}

	for evt := contracts.EventTimingClock; evt <= contracts.EventReset; evt++ {
		rec.events = rec.events[:0]
		if err := out.Report(evt, nil); err != nil {
			t.Fatalf("%v: report: %v", evt, err)
		}
		if len(rec.events) != 1 {
			t.Fatalf("%v: %d events decoded, want 1", evt, len(rec.events))
		}
		if rec.events[0].evt != evt {
			t.Fatalf("decoded %v, want %v", rec.events[0].evt, evt)
		}
		if rec.events[0].msg != nil {
			t.Fatalf("%v: real-time event carried a payload", evt)
		}
	}
}

func TestRealtimeInterleaving(t *testing.T) {
	in, rec := newInInterface(t)

	// Timing clock lands between the note-on status and its data bytes.
	feed(t, in, []byte{0x90, 0xF8, 60, 100})

	if len(rec.events) != 2 {
		t.Fatalf("%d events decoded, want 2", len(rec.events))
	}
	if rec.events[0].evt != contracts.EventTimingClock || rec.events[0].msg != nil {
		t.Fatalf("first event %+v, want bare timing clock", rec.events[0])
	}
	note := rec.events[1]
	if note.evt != contracts.EventNoteOn {
		t.Fatalf("second event %v, want note-on", note.evt)
	}
	if note.msg.Channel != 1 || note.msg.Data != [2]uint8{60, 100} {
		t.Fatalf("note-on payload %+v", note.msg)
	}
}

func TestRealtimeDoesNotDisturbPendingBytes(t *testing.T) {
	in, rec := newInInterface(t)

	// Clock arrives after the first data byte: the pending byte must
	// survive and complete with the second one.
	feed(t, in, []byte{0x90, 60, 0xF8, 100})

	if len(rec.events) != 2 {
		t.Fatalf("%d events decoded, want 2", len(rec.events))
	}
	if rec.events[0].evt != contracts.EventTimingClock {
		t.Fatalf("first event %v, want timing clock", rec.events[0].evt)
	}
	if rec.events[1].msg.Data != [2]uint8{60, 100} {
		t.Fatalf("note-on payload %+v", rec.events[1].msg)
	}
}

func TestRunningStatusCompression(t *testing.T) {
	in, rec := newInInterface(t)

	// Two note-ons, the second without a status byte.
	feed(t, in, []byte{0x90, 60, 100, 62, 101})

	if len(rec.events) != 2 {
		t.Fatalf("%d events decoded, want 2", len(rec.events))
	}
	for i, want := range [][2]uint8{{60, 100}, {62, 101}} {
		evt := rec.events[i]
		if evt.evt != contracts.EventNoteOn {
			t.Fatalf("event %d: %v, want note-on", i, evt.evt)
		}
		if evt.msg.Channel != 1 || evt.msg.Data != want {
			t.Fatalf("event %d: payload %+v, want data %v", i, evt.msg, want)
		}
	}
}

func TestRunningStatusAcrossCalls(t *testing.T) {
	in, rec := newInInterface(t)

	// Message split across three reads, continuation in a fourth.
	feed(t, in, []byte{0x93})
	feed(t, in, []byte{60})
	feed(t, in, []byte{100})
	feed(t, in, []byte{61, 99})

	if len(rec.events) != 2 {
		t.Fatalf("%d events decoded, want 2", len(rec.events))
	}
	if rec.events[0].msg.Channel != 4 || rec.events[0].msg.Data != [2]uint8{60, 100} {
		t.Fatalf("first payload %+v", rec.events[0].msg)
	}
	if rec.events[1].msg.Channel != 4 || rec.events[1].msg.Data != [2]uint8{61, 99} {
		t.Fatalf("second payload %+v", rec.events[1].msg)
	}
}

func TestSingleDataByteKinds(t *testing.T) {
	in, rec := newInInterface(t)

	feed(t, in, []byte{0xC5, 42})     // program change, channel 6
	feed(t, in, []byte{0xD0, 77})     // channel aftertouch, channel 1
	feed(t, in, []byte{0xC5, 42, 43}) // running status: two program changes

	if len(rec.events) != 4 {
		t.Fatalf("%d events decoded, want 4", len(rec.events))
	}
	if rec.events[0].evt != contracts.EventProgramChange ||
		rec.events[0].msg.Channel != 6 ||
		rec.events[0].msg.Data != [2]uint8{42, 0} {
		t.Fatalf("program change decoded as %+v", rec.events[0])
	}
	if rec.events[1].evt != contracts.EventAftertouch ||
		rec.events[1].msg.Channel != 1 ||
		rec.events[1].msg.Data != [2]uint8{77, 0} {
		t.Fatalf("aftertouch decoded as %+v", rec.events[1])
	}
	if rec.events[3].evt != contracts.EventProgramChange ||
		rec.events[3].msg.Data != [2]uint8{43, 0} {
		t.Fatalf("running-status program change decoded as %+v", rec.events[3])
	}
}

func TestResynchronizationOnSystemCommon(t *testing.T) {
	in, rec := newInInterface(t)

	// A system common status aborts the note-on in progress; the data
	// bytes that follow must be discarded until the next channel status.
	feed(t, in, []byte{0x90, 0xF0, 60, 100})
	if len(rec.events) != 0 {
		t.Fatalf("%d events decoded after resync, want 0", len(rec.events))
	}

	// A fresh status recovers the stream.
	feed(t, in, []byte{0x92, 64, 90})
	if len(rec.events) != 1 {
		t.Fatalf("%d events decoded after recovery, want 1", len(rec.events))
	}
	if rec.events[0].msg.Channel != 3 || rec.events[0].msg.Data != [2]uint8{64, 90} {
		t.Fatalf("recovered payload %+v", rec.events[0].msg)
	}
}

func TestDataBytesWithoutStatusAreDiscarded(t *testing.T) {
	in, rec := newInInterface(t)
	feed(t, in, []byte{60, 100, 12, 0x7F})
	if len(rec.events) != 0 {
		t.Fatalf("%d events decoded from orphan data bytes, want 0", len(rec.events))
	}
}

func TestRealtimeDuringResyncStillEmits(t *testing.T) {
	in, rec := newInInterface(t)

	// Even with running status cleared, real-time bytes pass through.
	feed(t, in, []byte{0xF1, 0xF8, 55})

	if len(rec.events) != 1 {
		t.Fatalf("%d events decoded, want 1", len(rec.events))
	}
	if rec.events[0].evt != contracts.EventTimingClock {
		t.Fatalf("decoded %v, want timing clock", rec.events[0].evt)
	}
}

func TestEventFilter(t *testing.T) {
	in, rec := newInInterface(t, contracts.WithEventFilter(contracts.EventFilter{
		Events: []contracts.Event{contracts.EventNoteOn},
	}))

	feed(t, in, []byte{0x80, 60, 0})  // note off, filtered
	feed(t, in, []byte{0xF8})         // timing clock, filtered
	feed(t, in, []byte{0x90, 60, 99}) // note on, reported

	if len(rec.events) != 1 {
		t.Fatalf("%d events passed the filter, want 1", len(rec.events))
	}
	if rec.events[0].evt != contracts.EventNoteOn {
		t.Fatalf("filtered stream produced %v", rec.events[0].evt)
	}
}

func TestReceiveWithoutEventHandler(t *testing.T) {
	e := newTestEngine(t, contracts.WithCapacity(1))
	in := mustCreate(t, e, contracts.DirectionIn)
	if err := in.Receive([]byte{0xF8}); !errors.Is(err, ErrNoEventHandler) {
		t.Fatalf("receive without handler: %v, want ErrNoEventHandler", err)
	}
}

func TestReceiveEmptyInput(t *testing.T) {
	in, rec := newInInterface(t)
	feed(t, in, nil)
	feed(t, in, []byte{})
	if len(rec.events) != 0 {
		t.Fatalf("empty input produced %d events", len(rec.events))
	}
}
