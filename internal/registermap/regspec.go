package registermap

import "fmt"

// RegType is the semantic type of a known register, driving how its
// raw integer value is formatted for a Record.
type RegType int

const (
	RegInteger RegType = iota
	RegScaledFloat
	RegText
	RegBit16
	RegFaultCode1
	RegFaultCode8
	RegWarnCode8
)

// RegisterSpec is static metadata for one known register id.
type RegisterSpec struct {
	ID      int
	Type    RegType
	Name    string
	Length  int // registers occupied (1 or 2)
	Divisor int
}

// Format applies the register's semantic type to a raw integer value
// read from the frame (via IntAt/LongAt), returning the value to
// publish in a Record.
func (s RegisterSpec) Format(raw int64) interface{} {
	switch s.Type {
	case RegScaledFloat:
		d := s.Divisor
		if d == 0 {
			d = 1
		}
		scaled := float64(raw) / float64(d)
		return roundTo3(scaled)
	case RegFaultCode1:
		return fault1Name(int(raw))
	case RegFaultCode8:
		return fault8Name(raw)
	case RegWarnCode8:
		return warn8Name(int(raw))
	case RegBit16:
		return fmt.Sprintf("%016b", uint16(raw))
	default: // RegInteger, RegText
		return raw
	}
}

func roundTo3(v float64) float64 {
	const scale = 1000.0
	if v >= 0 {
		return float64(int64(v*scale+0.5)) / scale
	}
	return float64(int64(v*scale-0.5)) / scale
}
