package registermap

import "growatt-proxy/internal/codec"

// InverterType is the auto-detected inverter family. Detection drives
// which static register map (03/04 × 45/125) applies to a frame.
type InverterType string

const (
	InverterMAC     InverterType = "mac"
	InverterMAX     InverterType = "max"
	InverterMID     InverterType = "mid"
	InverterMIN     InverterType = "min"
	InverterMIX     InverterType = "mix"
	InverterSPA     InverterType = "spa"
	InverterSPF     InverterType = "spf"
	InverterSPH     InverterType = "sph"
	InverterUnknown InverterType = "unk"
)

// headerSearchNibbles bounds how far into the hex representation of the
// decrypted frame a window-header signature is searched for.
const headerSearchNibbles = 158

// detect implements the exact decision table of spec §4.2: signatures
// are lowercase hex substrings searched within the first 158 header
// hex-nibbles; ambiguous cases look ahead to the next window header at
// a fixed 500-nibble (125-register) stride.
//
// On a match it records the nibble offset immediately following the
// matched signature as dataStartNibble, exactly as the window header
// it matched describes.
func detect(frame *codec.DecryptedFrame, hexPacket string) (InverterType, int) {
	pt := frame.PacketType()
	isDataOrBuffered := pt == codec.PacketLiveData || pt == codec.PacketBufferedData
	isReport := pt == codec.PacketInverterReport

	v5 := frame.ProtocolVersion() == 5

	if isDataOrBuffered {
		if pos, ok := inHeader(hexPacket, "020bb80c34"); ok {
			return InverterMIN, pos
		}
		if pos, ok := inHeader(hexPacket, "0203e80464"); ok {
			return InverterSPA, pos
		}
		if pos, ok := inHeader(hexPacket, "030000002c"); ok {
			return InverterSPF, pos
		}
		if pos, ok := inHeader(hexPacket, "020000002c"); ok {
			return InverterSPF, pos
		}
		if pos, ok := inHeader(hexPacket, "020000007c"); ok {
			nextMap := pos + 500
			switch lookahead(hexPacket, nextMap) {
			case "007d00f9":
				if v5 {
					return InverterMID, pos
				}
				return InverterMAX, pos
			case "03e80464":
				return InverterSPH, pos
			}
		}
		if pos, ok := inHeader(hexPacket, "030000007c"); ok {
			return InverterSPH, pos
		}
	}

	if isReport {
		if pos, ok := inHeader(hexPacket, "020000002c"); ok {
			return InverterSPF, pos
		}
		if pos, ok := inHeader(hexPacket, "030000002c"); ok {
			return InverterSPF, pos
		}
		if pos, ok := inHeader(hexPacket, "020000007c"); ok {
			nextMap := pos + 500
			switch lookahead(hexPacket, nextMap) {
			case "0bb80c34":
				return InverterMIN, pos
			case "007d00f9":
				if v5 {
					return InverterMID, pos
				}
				return InverterMAX, pos
			case "03e80464":
				return InverterSPH, pos
			}
		}
		if pos, ok := inHeader(hexPacket, "030000007c"); ok {
			return InverterSPH, pos
		}
	}

	return InverterUnknown, 0
}

// inHeader searches for hexStr within the first headerSearchNibbles hex
// characters of hexPacket. On a match it returns the nibble offset
// immediately after the matched signature (the data_start of spec
// §4.2) and true.
func inHeader(hexPacket, hexStr string) (int, bool) {
	limit := len(hexPacket)
	if limit > headerSearchNibbles {
		limit = headerSearchNibbles
	}
	idx := indexWithinLimit(hexPacket, hexStr, limit)
	if idx < 0 {
		return 0, false
	}
	return idx + len(hexStr), true
}

func indexWithinLimit(s, substr string, limit int) int {
	head := s
	if len(head) > limit {
		head = head[:limit]
	}
	for i := 0; i+len(substr) <= len(head); i++ {
		if head[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

func lookahead(hexPacket string, nibbleOffset int) string {
	if nibbleOffset < 0 || nibbleOffset+8 > len(hexPacket) {
		return ""
	}
	return hexPacket[nibbleOffset : nibbleOffset+8]
}
