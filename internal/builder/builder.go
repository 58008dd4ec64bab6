// Package builder constructs Growatt command frames (read-holding and
// write-holding) for protocol versions 5 and 6.
package builder

import (
	"encoding/binary"
	"fmt"

	"growatt-proxy/internal/codec"
)

// fixedSeqNo is the sequence number stamped on every injected frame.
// Command-response correlation is type-based, not sequence-based
// (spec §9), so a constant value is sufficient and deliberate.
const fixedSeqNo uint16 = 1

// padLength returns the pad byte count between the serial and the
// address field: 1 byte for protocol v5, 20 bytes for v6.
func padLength(protocolVersion uint16) (int, error) {
	switch protocolVersion {
	case 5:
		return 1, nil
	case 6:
		return 20, nil
	default:
		return 0, fmt.Errorf("builder: unsupported protocol version %d", protocolVersion)
	}
}

func build(protocolVersion uint16, packetType codec.PacketType, serial string, address, tail uint16) ([]byte, error) {
	pad, err := padLength(protocolVersion)
	if err != nil {
		return nil, err
	}
	if len(serial) != 10 {
		return nil, fmt.Errorf("builder: datalogger serial must be 10 bytes, got %d", len(serial))
	}

	body := make([]byte, 10+pad+2+2)
	copy(body[0:10], serial)
	// pad bytes are already zero-valued
	binary.BigEndian.PutUint16(body[10+pad:10+pad+2], address)
	binary.BigEndian.PutUint16(body[10+pad+2:10+pad+4], tail)

	maskedBody := body
	if protocolVersion == 5 || protocolVersion == 6 {
		maskedBody = codec.Mask(body)
	}

	declaredLength := 2 + len(maskedBody) // message_type (2) + body

	frame := make([]byte, 8+len(maskedBody)+2)
	binary.BigEndian.PutUint16(frame[0:2], fixedSeqNo)
	binary.BigEndian.PutUint16(frame[2:4], protocolVersion)
	binary.BigEndian.PutUint16(frame[4:6], uint16(declaredLength))
	binary.BigEndian.PutUint16(frame[6:8], uint16(packetType))
	copy(frame[8:8+len(maskedBody)], maskedBody)

	crc := codec.Modbus16(frame[:8+len(maskedBody)])
	binary.BigEndian.PutUint16(frame[8+len(maskedBody):], crc)

	return frame, nil
}

// ReadHolding builds a ReadHolding command frame. The tail repeats
// address, requesting a single register (spec §4.3).
func ReadHolding(protocolVersion uint16, serial string, address uint16) ([]byte, error) {
	return build(protocolVersion, codec.PacketRegisterRead, serial, address, address)
}

// SetHolding builds a SetHolding command frame writing value to address.
func SetHolding(protocolVersion uint16, serial string, address, value uint16) ([]byte, error) {
	return build(protocolVersion, codec.PacketRegisterSet, serial, address, value)
}
