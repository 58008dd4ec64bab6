package codec

import (
	"encoding/binary"
	"sync"
)

// headerLen is the size of the plain (never masked) frame header.
const headerLen = 8

// crcLen is the size of the trailing Modbus-16 CRC.
const crcLen = 2

// RawFrame is an immutable view over one Growatt wire frame with
// derived header accessors. Decryption is lazy and memoized per
// instance — never shared across frames.
type RawFrame struct {
	raw []byte

	decryptOnce sync.Once
	decrypted   []byte
}

// Parse builds a RawFrame from raw wire bytes. Parsing never fails;
// callers validate length/CRC separately via ValidLength/ValidCRC.
func Parse(raw []byte) *RawFrame {
	return &RawFrame{raw: raw}
}

// Bytes returns the raw, still-masked wire bytes.
func (f *RawFrame) Bytes() []byte { return f.raw }

func (f *RawFrame) field(off int) uint16 {
	if off+2 > len(f.raw) {
		return 0
	}
	return binary.BigEndian.Uint16(f.raw[off : off+2])
}

// SeqNo returns the sequence number (bytes 0..2).
func (f *RawFrame) SeqNo() uint16 { return f.field(0) }

// ProtocolVersion returns the protocol version (bytes 2..4).
func (f *RawFrame) ProtocolVersion() uint16 { return f.field(2) }

// DeclaredLength returns the declared payload length (bytes 4..6),
// counting bytes from offset 6 through just before the CRC.
func (f *RawFrame) DeclaredLength() uint16 { return f.field(4) }

// MessageType returns the raw message type word (bytes 6..8).
func (f *RawFrame) MessageType() uint16 { return f.field(6) }

// PacketType classifies MessageType into the closed PacketType set,
// falling back to PacketUnknown for anything unrecognized.
func (f *RawFrame) PacketType() PacketType { return parsePacketType(f.MessageType()) }

// CRC returns the trailing u16 CRC.
func (f *RawFrame) CRC() uint16 {
	if len(f.raw) < crcLen {
		return 0
	}
	return binary.BigEndian.Uint16(f.raw[len(f.raw)-crcLen:])
}

// lengthFieldOffset is where declared-length counting starts: the
// message_type field at offset 6, through just before the CRC.
const lengthFieldOffset = 6

// ValidLength reports whether the frame's actual length matches its
// declared payload length: declared_payload_length counts bytes from
// offset 6 (message_type) through just before the CRC, so
// len(raw) == 6 + declared_payload_length + 2.
func (f *RawFrame) ValidLength() bool {
	return len(f.raw) == lengthFieldOffset+int(f.DeclaredLength())+crcLen
}

// ValidCRC reports whether the trailing CRC matches modbus16 computed
// over every preceding byte. CRC is computed over the raw, still
// masked bytes — masking never touches header or CRC.
func (f *RawFrame) ValidCRC() bool {
	if len(f.raw) < crcLen {
		return false
	}
	body := f.raw[:len(f.raw)-crcLen]
	return modbus16(body) == f.CRC()
}

// WellFormed reports whether both ValidLength and ValidCRC hold.
func (f *RawFrame) WellFormed() bool {
	return f.ValidLength() && f.ValidCRC()
}

// Decrypt returns the DecryptedFrame view of this frame, unmasking
// bytes [8:-2] with the cyclic "Growatt" key when the protocol version
// is masked (5 or 6). The result is memoized on f; repeated calls
// return the same bytes without recomputation.
func (f *RawFrame) Decrypt() *DecryptedFrame {
	f.decryptOnce.Do(func() {
		if len(f.raw) < headerLen+crcLen || !isMaskedVersion(f.ProtocolVersion()) {
			f.decrypted = f.raw
			return
		}
		body := f.raw[headerLen : len(f.raw)-crcLen]
		unmasked := xorMask(body)
		out := make([]byte, len(f.raw))
		copy(out[:headerLen], f.raw[:headerLen])
		copy(out[headerLen:headerLen+len(unmasked)], unmasked)
		copy(out[headerLen+len(unmasked):], f.raw[len(f.raw)-crcLen:])
		f.decrypted = out
	})
	return &DecryptedFrame{RawFrame: f, bytes: f.decrypted}
}

// DecryptedFrame is the unmasked view of a RawFrame, with accessors
// for the data-bearing body conventions described in spec §6.
type DecryptedFrame struct {
	*RawFrame
	bytes []byte
}

// Bytes returns the decrypted wire bytes (header and CRC unchanged,
// body unmasked when applicable).
func (d *DecryptedFrame) Bytes() []byte { return d.bytes }

// DataloggerSerial returns the 10-byte ASCII datalogger serial at
// offset 8..18, the decrypted body's first field.
func (d *DecryptedFrame) DataloggerSerial() string {
	if len(d.bytes) < 18 {
		return ""
	}
	return string(d.bytes[8:18])
}

// InverterSerial returns the inverter serial, at bytes[18:28] for
// protocol version 5 and bytes[38:48] for version 6, and only for
// packet types {InverterReport, LiveData, BufferedData}; empty
// otherwise.
func (d *DecryptedFrame) InverterSerial() string {
	if !d.PacketType().IsDataBearing() {
		return ""
	}
	var start, end int
	switch d.ProtocolVersion() {
	case 5:
		start, end = 18, 28
	case 6:
		start, end = 38, 48
	default:
		return ""
	}
	if len(d.bytes) < end {
		return ""
	}
	return string(d.bytes[start:end])
}
