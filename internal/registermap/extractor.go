package registermap

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"growatt-proxy/internal/codec"
)

// ErrInvalidRegister is returned when a register id falls outside
// every window discovered in a frame.
var ErrInvalidRegister = errors.New("registermap: register not present in this frame")

// Extractor discovers register windows in a decrypted data frame and
// exposes typed reads by register id. It is pure: repeated reads
// against the same Extractor return equal results.
type Extractor struct {
	hexPacket    string
	inverterType InverterType
	dataStart    int // nibble offset, set only when inverterType != Unknown
	windows      []Window
}

// NewExtractor runs inverter auto-detection and window discovery over
// a decrypted frame. It never fails: an unrecognized inverter type
// yields an Extractor with no windows, and reads against it return
// ErrInvalidRegister rather than crashing (spec §9).
func NewExtractor(frame *codec.DecryptedFrame) *Extractor {
	hexPacket := hex.EncodeToString(frame.Bytes())
	inverterType, dataStart := detect(frame, hexPacket)

	e := &Extractor{hexPacket: hexPacket, inverterType: inverterType, dataStart: dataStart}
	if inverterType != InverterUnknown {
		e.windows = discoverWindows(hexPacket, dataStart)
	}
	return e
}

// InverterType returns the auto-detected inverter family.
func (e *Extractor) InverterType() InverterType { return e.inverterType }

// Windows returns the discovered register windows, outermost first.
func (e *Extractor) Windows() []Window { return e.windows }

// SectionWidth returns the first window's section width, or 0 if no
// window was discovered.
func (e *Extractor) SectionWidth() int {
	if len(e.windows) == 0 {
		return 0
	}
	return e.windows[0].SectionWidth()
}

// IntAt reads a 4-nibble (2-byte) big-endian unsigned value at reg.
func (e *Extractor) IntAt(reg int) (int, error) {
	off, ok := findWindow(e.windows, reg)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRegister, reg)
	}
	if off+4 > len(e.hexPacket) {
		return 0, fmt.Errorf("%w: %d (truncated)", ErrInvalidRegister, reg)
	}
	v, ok := parseHexUint(e.hexPacket[off : off+4])
	if !ok {
		return 0, fmt.Errorf("%w: %d (malformed)", ErrInvalidRegister, reg)
	}
	return v, nil
}

// LongAt reads an 8-nibble (4-byte) big-endian signed value at reg.
func (e *Extractor) LongAt(reg int) (int64, error) {
	off, ok := findWindow(e.windows, reg)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRegister, reg)
	}
	if off+8 > len(e.hexPacket) {
		return 0, fmt.Errorf("%w: %d (truncated)", ErrInvalidRegister, reg)
	}
	raw, err := hex.DecodeString(e.hexPacket[off : off+8])
	if err != nil {
		return 0, fmt.Errorf("%w: %d (malformed)", ErrInvalidRegister, reg)
	}
	v := int64(int32(raw[0])<<24 | int32(raw[1])<<16 | int32(raw[2])<<8 | int32(raw[3]))
	return v, nil
}

// AsciiAt decodes the bytes spanning registers [startReg..endReg] as
// ASCII text.
func (e *Extractor) AsciiAt(startReg, endReg int) (string, error) {
	start, ok := findWindow(e.windows, startReg)
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrInvalidRegister, startReg)
	}
	endOff, ok := findWindow(e.windows, endReg)
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrInvalidRegister, endReg)
	}
	end := endOff + 4
	if end > len(e.hexPacket) || start > end {
		return "", fmt.Errorf("%w: ascii [%d:%d] (truncated)", ErrInvalidRegister, startReg, endReg)
	}
	raw, err := hex.DecodeString(e.hexPacket[start:end])
	if err != nil {
		return "", fmt.Errorf("%w: ascii [%d:%d] (malformed)", ErrInvalidRegister, startReg, endReg)
	}
	return string(raw), nil
}

func parseHexUint(s string) (int, bool) {
	v := 0
	for _, c := range s {
		d := hexDigit(c)
		if d < 0 {
			return 0, false
		}
		v = v*16 + d
	}
	return v, true
}

// Timestamp returns the packet's embedded timestamp (the 12 hex
// nibbles immediately preceding the first window header, encoding six
// bytes YY MM DD HH MM SS) in ISO-8601 with seconds resolution. On
// parse failure it substitutes the receiver's wall-clock time, and
// for an unrecognized inverter type it returns the fixed epoch.
func (e *Extractor) Timestamp(now time.Time) string {
	if e.inverterType == InverterUnknown {
		return "1970-01-01T00:00:00"
	}
	offset := e.dataStart - 10
	if offset-12 < 0 || offset > len(e.hexPacket) {
		return now.Format("2006-01-02T15:04:05")
	}
	raw, err := hex.DecodeString(e.hexPacket[offset-12 : offset])
	if err != nil || len(raw) != 6 {
		return now.Format("2006-01-02T15:04:05")
	}
	yy, mm, dd, hh, mi, ss := int(raw[0]), int(raw[1]), int(raw[2]), int(raw[3]), int(raw[4]), int(raw[5])
	if mm < 1 || mm > 12 || dd < 1 || dd > 31 || hh > 23 || mi > 59 || ss > 59 {
		return now.Format("2006-01-02T15:04:05")
	}
	t := time.Date(2000+yy, time.Month(mm), dd, hh, mi, ss, 0, time.UTC)
	return t.Format("2006-01-02T15:04:05")
}
