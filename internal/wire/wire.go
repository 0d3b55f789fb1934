// Package wire holds the MIDI byte-level constants and lookup tables shared
// by the encoder and the decoder: status-byte bases per event, data-byte
// arity per channel kind, and the range predicates for channels and data
// bytes.
package wire

import "github.com/leandrodaf/midiwire/sdk/contracts"

const (
	// StatusFlag is the high bit distinguishing status bytes from data bytes.
	StatusFlag = 0x80
	// TypeMask extracts the message type nibble from a channel status byte.
	TypeMask = 0xF0
	// ChannelMask extracts the channel nibble from a channel status byte.
	ChannelMask = 0x0F

	// System common range, 0xF0-0xF7. Reserved in the taxonomy, never
	// produced or consumed.
	statusSysCommonMin = 0xF0
	// System real-time range, 0xF8-0xFF.
	statusRealtimeMin = 0xF8
)

// statusBase maps each event to its status byte: the full byte for
// real-time kinds, the high-nibble base for channel kinds.
var statusBase = [contracts.EventCount]byte{
	contracts.EventTimingClock: 0xF8, /* 11111000 */
	contracts.EventReservedF9:  0xF9, /* 11111001 */
	contracts.EventSeqStart:    0xFA, /* 11111010 */
	contracts.EventSeqContinue: 0xFB, /* 11111011 */
	contracts.EventSeqStop:     0xFC, /* 11111100 */
	contracts.EventReservedFD:  0xFD, /* 11111101 */
	contracts.EventActiveSense: 0xFE, /* 11111110 */
	contracts.EventReset:       0xFF, /* 11111111 */

	contracts.EventNoteOff:        0x80, /* 1000nnnn */
	contracts.EventNoteOn:         0x90, /* 1001nnnn */
	contracts.EventPolyAftertouch: 0xA0, /* 1010nnnn */
	contracts.EventControlChange:  0xB0, /* 1011nnnn */
	contracts.EventProgramChange:  0xC0, /* 1100nnnn */
	contracts.EventAftertouch:     0xD0, /* 1101nnnn */
	contracts.EventPitchBend:      0xE0, /* 1110nnnn */
}

// dataLen gives the data-byte arity of each channel event.
var dataLen = [contracts.EventCount]int{
	contracts.EventNoteOff:        2,
	contracts.EventNoteOn:         2,
	contracts.EventPolyAftertouch: 2,
	contracts.EventControlChange:  2,
	contracts.EventProgramChange:  1,
	contracts.EventAftertouch:     1,
	contracts.EventPitchBend:      2,
}

// StatusBase returns the status byte (or base) for evt.
func StatusBase(evt contracts.Event) (byte, bool) {
	if evt < 0 || evt >= contracts.EventCount {
		return 0, false
	}
	return statusBase[evt], true
}

// DataLen returns the number of data bytes a channel event carries.
func DataLen(evt contracts.Event) int {
	if evt < 0 || evt >= contracts.EventCount {
		return 0
	}
	return dataLen[evt]
}

// IsStatusByte reports whether b is a status byte (high bit set).
func IsStatusByte(b byte) bool {
	return b&StatusFlag != 0
}

// IsDataByte reports whether b is a data byte (high bit clear).
func IsDataByte(b byte) bool {
	return b&StatusFlag == 0
}

// IsRealtimeStatus reports whether b is a system real-time status byte.
func IsRealtimeStatus(b byte) bool {
	return b >= statusRealtimeMin
}

// IsSysCommonStatus reports whether b is a system common status byte.
func IsSysCommonStatus(b byte) bool {
	return b >= statusSysCommonMin && b < statusRealtimeMin
}

// RealtimeEvent resolves a system real-time status byte to its event.
func RealtimeEvent(status byte) (contracts.Event, bool) {
	if !IsRealtimeStatus(status) {
		return 0, false
	}
	return contracts.EventTimingClock + contracts.Event(status-statusRealtimeMin), true
}

// ChannelEvent resolves the type nibble of a channel status byte to its
// event. Returns false for system statuses and data bytes.
func ChannelEvent(status byte) (contracts.Event, bool) {
	if !IsStatusByte(status) || status >= statusSysCommonMin {
		return 0, false
	}
	base := status & TypeMask
	evt := contracts.EventNoteOff + contracts.Event((base-0x80)>>4)
	return evt, true
}

// Channel extracts the 1-based channel number from a channel status byte.
func Channel(status byte) uint8 {
	return status&ChannelMask + 1
}

// ValidChannelMessage reports whether msg is encodable: channel in 1-16 and
// both data bytes with the high bit clear.
func ValidChannelMessage(msg *contracts.ChannelMessage) bool {
	return msg != nil &&
		msg.Channel >= 1 && msg.Channel <= 16 &&
		IsDataByte(msg.Data[0]) && IsDataByte(msg.Data[1])
}
