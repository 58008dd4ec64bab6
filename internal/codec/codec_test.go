package codec

import (
	"encoding/binary"
	"testing"
)

func buildFrame(seq, proto, declaredLen, msgType uint16, body []byte) []byte {
	buf := make([]byte, 8+len(body)+2)
	binary.BigEndian.PutUint16(buf[0:2], seq)
	binary.BigEndian.PutUint16(buf[2:4], proto)
	binary.BigEndian.PutUint16(buf[4:6], declaredLen)
	binary.BigEndian.PutUint16(buf[6:8], msgType)
	copy(buf[8:8+len(body)], body)
	crc := modbus16(buf[:8+len(body)])
	binary.BigEndian.PutUint16(buf[8+len(body):], crc)
	return buf
}

// Fixture 2: masked-then-unmasked identity.
func TestMaskInvolution(t *testing.T) {
	payload := make([]byte, 40)
	for i := range payload {
		payload[i] = byte(i * 7)
	}
	masked := xorMask(payload)
	unmasked := xorMask(masked)
	if string(unmasked) != string(payload) {
		t.Fatalf("xorMask is not its own inverse")
	}
}

func TestDecryptIsInvolutionOnWellFormedFrame(t *testing.T) {
	body := make([]byte, 24)
	for i := range body {
		body[i] = byte(i * 3)
	}
	raw := buildFrame(1, 6, uint16(2+len(body)), uint16(PacketLiveData), body)

	f := Parse(raw)
	d1 := f.Decrypt()
	d2 := f.Decrypt()
	if string(d1.Bytes()) != string(d2.Bytes()) {
		t.Fatalf("Decrypt is not memoized/idempotent")
	}

	// decrypting the decrypted body again (as a fresh RawFrame) should
	// restore the original masked bytes in the body region.
	reEncoded := Parse(d1.Bytes()).Decrypt().Bytes()
	if string(reEncoded[8:len(reEncoded)-2]) != string(raw[8:len(raw)-2]) {
		t.Fatalf("decrypt(decrypt(F)) != F")
	}
}

// Fixture 3: literal CRC bytes from spec §8.
func TestCRCFixture(t *testing.T) {
	header := []byte{0x00, 0x01, 0x00, 0x06, 0x00, 0x02, 0x01, 0x16}
	crc := modbus16(header)
	raw := append(append([]byte{}, header...), byte(crc>>8), byte(crc))

	f := Parse(raw)
	if !f.ValidCRC() {
		t.Fatalf("expected valid CRC")
	}
	if f.PacketType() != PacketKeepAlive {
		t.Fatalf("expected KeepAlive, got %v", f.PacketType())
	}
	if !f.ValidLength() {
		t.Fatalf("expected valid length for fixture frame")
	}

	mutated := append([]byte{}, raw...)
	mutated[7] ^= 0xFF
	if Parse(mutated).ValidCRC() {
		t.Fatalf("expected CRC to fail after mutating a CRC-covered byte")
	}
}

func TestValidLengthRejectsOffByOne(t *testing.T) {
	body := make([]byte, 10)
	raw := buildFrame(1, 5, uint16(2+len(body)), uint16(PacketKeepAlive), body)
	truncated := raw[:len(raw)-1]
	if Parse(truncated).ValidLength() {
		t.Fatalf("expected InvalidFrame (short buffer) to fail ValidLength")
	}
}

func TestUnmaskedProtocolPassesThrough(t *testing.T) {
	body := []byte("plain-passthrough-body")
	raw := buildFrame(1, 1, uint16(2+len(body)), uint16(PacketKeepAlive), body)
	d := Parse(raw).Decrypt()
	if string(d.Bytes()) != string(raw) {
		t.Fatalf("protocol version outside {5,6} must decrypt unchanged")
	}
}

func TestDataloggerAndInverterSerial(t *testing.T) {
	plainBody := make([]byte, 60)
	copy(plainBody[0:10], []byte("DLSERIAL01"))
	copy(plainBody[10:20], []byte("INVSERIAL0"))
	maskedBody := xorMask(plainBody)
	raw := buildFrame(1, 5, uint16(2+len(maskedBody)), uint16(PacketLiveData), maskedBody)
	d := Parse(raw).Decrypt()

	if got := d.DataloggerSerial(); got != "DLSERIAL01" {
		t.Fatalf("DataloggerSerial = %q", got)
	}
	if got := d.InverterSerial(); got != "INVSERIAL0" {
		t.Fatalf("InverterSerial (v5) = %q", got)
	}
}
