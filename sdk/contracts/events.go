package contracts

// Event identifies a MIDI event the engine can encode or decode.
//
// The enumeration is closed: system real-time kinds come first, channel
// kinds second, and every member maps to a fixed status byte (real-time)
// or status-byte base (channel).
type Event int

const (
	// System real-time events. Each occupies exactly one status byte on the
	// wire and may interleave with any other message.
	EventTimingClock Event = iota // 0xF8
	EventReservedF9               // 0xF9, reserved by the MIDI spec
	EventSeqStart                 // 0xFA
	EventSeqContinue              // 0xFB
	EventSeqStop                  // 0xFC
	EventReservedFD               // 0xFD, reserved by the MIDI spec
	EventActiveSense              // 0xFE
	EventReset                    // 0xFF

	// Channel events. Each encodes as a status byte carrying the channel in
	// its low nibble, followed by one or two data bytes.
	EventNoteOff        // 0x8n
	EventNoteOn         // 0x9n
	EventPolyAftertouch // 0xAn
	EventControlChange  // 0xBn
	EventProgramChange  // 0xCn
	EventAftertouch     // 0xDn
	EventPitchBend      // 0xEn

	// EventCount is the total number of defined events.
	EventCount
)

const (
	firstRealtimeEvent = EventTimingClock
	lastRealtimeEvent  = EventReset
	firstChannelEvent  = EventNoteOff
	lastChannelEvent   = EventPitchBend
)

// EventClass partitions events by wire format.
type EventClass int

const (
	// ClassChannel covers events scoped to one of 16 channels.
	ClassChannel EventClass = iota
	// ClassSystemRealtime covers single-byte transport/timing events.
	ClassSystemRealtime
	// ClassSystemCommon is reserved. No event resolves to it yet; the
	// encoder reports it as not implemented rather than guessing a format.
	ClassSystemCommon
	// ClassUnknown covers values outside the enumeration.
	ClassUnknown
)

// Class reports the wire-format class of e. The mapping is total: every
// value, including out-of-range ones, resolves to a class.
func (e Event) Class() EventClass {
	switch {
	case e >= firstChannelEvent && e <= lastChannelEvent:
		return ClassChannel
	case e >= firstRealtimeEvent && e <= lastRealtimeEvent:
		return ClassSystemRealtime
	default:
		return ClassUnknown
	}
}

// String returns the event name for logging.
func (e Event) String() string {
	names := [...]string{
		EventTimingClock:    "timing-clock",
		EventReservedF9:     "realtime-reserved-f9",
		EventSeqStart:       "sequence-start",
		EventSeqContinue:    "sequence-continue",
		EventSeqStop:        "sequence-stop",
		EventReservedFD:     "realtime-reserved-fd",
		EventActiveSense:    "active-sense",
		EventReset:          "reset",
		EventNoteOff:        "note-off",
		EventNoteOn:         "note-on",
		EventPolyAftertouch: "poly-aftertouch",
		EventControlChange:  "control-change",
		EventProgramChange:  "program-change",
		EventAftertouch:     "channel-aftertouch",
		EventPitchBend:      "pitch-bend",
	}
	if e < 0 || int(e) >= len(names) {
		return "unknown"
	}
	return names[e]
}

// ChannelMessage carries the payload of a channel event.
//
// Channel is 1-16 (encoded on the wire as 0-15); both data bytes must keep
// the high bit clear. Program change and channel aftertouch use Data[0]
// only; Data[1] is ignored for those kinds.
type ChannelMessage struct {
	Channel uint8    // MIDI channel, 1-16.
	Data    [2]uint8 // Data bytes, each 0-127.
}

// EventFilter restricts which decoded events an IN interface reports.
// An empty or nil filter reports everything.
type EventFilter struct {
	Events []Event // Events to report.
}

// Allows reports whether e passes the filter.
func (f *EventFilter) Allows(e Event) bool {
	if f == nil || len(f.Events) == 0 {
		return true
	}
	for _, allowed := range f.Events {
		if e == allowed {
			return true
		}
	}
	return false
}
