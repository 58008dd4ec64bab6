// Package codec implements the Growatt datalogger wire framing: header
// accessors, the XOR stream mask, Modbus-16 CRC, and packet-type
// classification.
package codec

// PacketType is the closed set of recognized Growatt message types.
type PacketType uint16

const (
	PacketUnknown          PacketType = 0x0000
	PacketInverterReport   PacketType = 0x0103
	PacketLiveData         PacketType = 0x0104
	PacketRegisterRead     PacketType = 0x0105
	PacketRegisterSet      PacketType = 0x0106
	PacketSetTime          PacketType = 0x0110
	PacketKeepAlive        PacketType = 0x0116
	PacketDataloggerConfig PacketType = 0x0118
	PacketDataloggerReport PacketType = 0x0119
	PacketBufferedData     PacketType = 0x0150
)

func parsePacketType(v uint16) PacketType {
	switch PacketType(v) {
	case PacketInverterReport, PacketLiveData, PacketRegisterRead, PacketRegisterSet,
		PacketSetTime, PacketKeepAlive, PacketDataloggerConfig, PacketDataloggerReport,
		PacketBufferedData:
		return PacketType(v)
	default:
		return PacketUnknown
	}
}

func (t PacketType) String() string {
	switch t {
	case PacketInverterReport:
		return "InverterReport"
	case PacketLiveData:
		return "LiveData"
	case PacketRegisterRead:
		return "RegisterRead"
	case PacketRegisterSet:
		return "RegisterSet"
	case PacketSetTime:
		return "SetTime"
	case PacketKeepAlive:
		return "KeepAlive"
	case PacketDataloggerConfig:
		return "DataloggerConfig"
	case PacketDataloggerReport:
		return "DataloggerReport"
	case PacketBufferedData:
		return "BufferedData"
	default:
		return "Unknown"
	}
}

// IsDataBearing reports whether frames of this type carry a register
// payload worth running through the Extractor.
func (t PacketType) IsDataBearing() bool {
	switch t {
	case PacketInverterReport, PacketLiveData, PacketBufferedData:
		return true
	default:
		return false
	}
}
