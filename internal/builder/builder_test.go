package builder

import (
	"testing"

	"growatt-proxy/internal/codec"
)

func TestReadHoldingRoundTrip(t *testing.T) {
	for _, proto := range []uint16{5, 6} {
		raw, err := ReadHolding(proto, "DLSERIAL01", 43)
		if err != nil {
			t.Fatalf("proto %d: %v", proto, err)
		}
		f := codec.Parse(raw)
		if !f.ValidCRC() {
			t.Fatalf("proto %d: CRC does not validate", proto)
		}
		if !f.ValidLength() {
			t.Fatalf("proto %d: declared length does not match", proto)
		}
		if f.PacketType() != codec.PacketRegisterRead {
			t.Fatalf("proto %d: expected RegisterRead, got %v", proto, f.PacketType())
		}
		if f.ProtocolVersion() != proto {
			t.Fatalf("proto %d: protocol version mismatch", proto)
		}
		if f.SeqNo() != fixedSeqNo {
			t.Fatalf("proto %d: expected fixed seq no 1, got %d", proto, f.SeqNo())
		}

		d := f.Decrypt()
		if got := d.Bytes()[8:18]; string(got) != "DLSERIAL01" {
			t.Fatalf("proto %d: serial mismatch: %q", proto, got)
		}
	}
}

func TestSetHoldingRoundTrip(t *testing.T) {
	raw, err := SetHolding(6, "DLSERIAL01", 10, 250)
	if err != nil {
		t.Fatal(err)
	}
	f := codec.Parse(raw)
	if !f.ValidCRC() || !f.ValidLength() {
		t.Fatalf("frame not well-formed")
	}
	if f.PacketType() != codec.PacketRegisterSet {
		t.Fatalf("expected RegisterSet, got %v", f.PacketType())
	}
}

func TestRejectsUnsupportedProtocolVersion(t *testing.T) {
	if _, err := ReadHolding(7, "DLSERIAL01", 1); err == nil {
		t.Fatalf("expected error for unsupported protocol version")
	}
}

func TestRejectsShortSerial(t *testing.T) {
	if _, err := ReadHolding(5, "short", 1); err == nil {
		t.Fatalf("expected error for non-10-byte serial")
	}
}
