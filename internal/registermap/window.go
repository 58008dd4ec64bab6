package registermap

// Window describes one contiguous register range embedded in a data
// frame: the register ids it covers and the nibble offset (into the
// hex representation of the decrypted frame) where its first
// register's data begins.
type Window struct {
	FromReg       int
	ToReg         int
	DataFromNibble int
}

// SectionWidth is the number of registers in the window: to - from + 1.
func (w Window) SectionWidth() int { return w.ToReg - w.FromReg + 1 }

// discoverWindows implements map_extractor: starting from the first
// window header already located by detect() at
// [dataStartNibble-10 : dataStartNibble], it walks forward by
// section_width*4 nibbles, reading each subsequent window header (a
// plain 4-byte (from_reg, to_reg) pair, no leading type byte) until
// the remaining payload is shorter than a header.
func discoverWindows(hexPacket string, dataStartNibble int) []Window {
	marker := dataStartNibble - 10
	if marker < 0 || marker+10 > len(hexPacket) {
		return nil
	}
	fromReg, toReg, ok := unpackRegPair(hexPacket[marker+2 : marker+10])
	if !ok {
		return nil
	}

	windows := []Window{{FromReg: fromReg, ToReg: toReg, DataFromNibble: marker + 10}}
	numRegisters := toReg - fromReg + 1
	cursor := marker + 10

	for {
		next := numRegisters*4 + cursor
		if next+8 > len(hexPacket) {
			break
		}
		fromReg, toReg, ok = unpackRegPair(hexPacket[next : next+8])
		if !ok {
			break
		}
		if toReg > fromReg {
			windows = append(windows, Window{FromReg: fromReg, ToReg: toReg, DataFromNibble: next + 8})
		}
		cursor = next + 8
		numRegisters = toReg - fromReg + 1
	}

	return windows
}

// unpackRegPair parses 8 hex nibbles as two big-endian signed 16-bit
// register bounds, matching struct.unpack('>hh', ...) in the original.
func unpackRegPair(hex8 string) (fromReg, toReg int, ok bool) {
	if len(hex8) != 8 {
		return 0, 0, false
	}
	a, ok1 := parseHexInt16(hex8[0:4])
	b, ok2 := parseHexInt16(hex8[4:8])
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	return a, b, true
}

func parseHexInt16(hex4 string) (int, bool) {
	var v int
	for _, c := range hex4 {
		d := hexDigit(c)
		if d < 0 {
			return 0, false
		}
		v = v*16 + d
	}
	// struct '>h' is signed 16-bit.
	if v > 0x7fff {
		v -= 0x10000
	}
	return v, true
}

func hexDigit(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return -1
	}
}

// findWindow returns the window containing register id reg, and the
// nibble offset of its 4-nibble (2-byte) value, or ok=false if reg
// falls outside every discovered window (InvalidRegister, spec §7).
func findWindow(windows []Window, reg int) (nibbleOffset int, ok bool) {
	for _, w := range windows {
		if reg >= w.FromReg && reg <= w.ToReg {
			return w.DataFromNibble + (reg-w.FromReg)*4, true
		}
	}
	return 0, false
}
