package control

import (
	"strings"
	"testing"

	"growatt-proxy/internal/server"
	"growatt-proxy/internal/session"
)

type fakeLookup struct {
	sessions []server.SessionInfo
}

func (f fakeLookup) ListSessions() []server.SessionInfo { return f.sessions }
func (f fakeLookup) Get(serial string) (*session.Session, bool) { return nil, false }

func TestListFormatsOneLinePerSession(t *testing.T) {
	c := New(fakeLookup{sessions: []server.SessionInfo{
		{Peer: "1.2.3.4:5000", DataloggerSN: "DL0001", InverterSerial: "INV0001"},
		{Peer: "1.2.3.5:5001", DataloggerSN: "DL0002", InverterSerial: "INV0002"},
	}}, nil)

	out := string(c.list())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != "1.2.3.4:5000 | DL0001 | INV0001" {
		t.Fatalf("unexpected line: %q", lines[0])
	}
}

func TestReadRegisterReturnsEmptyForUnknownSerial(t *testing.T) {
	c := New(fakeLookup{}, nil)
	out := c.readRegister(nil, []string{"read", "UNKNOWN01", "43"})
	if out != nil {
		t.Fatalf("expected nil reply for unknown serial, got %q", out)
	}
}

func TestDispatchCommandMalformedInputIsEmpty(t *testing.T) {
	c := New(fakeLookup{}, nil)
	out := c.dispatchCommand(nil, "read only-one-arg")
	if string(out) != "" {
		t.Fatalf("expected empty reply for malformed read, got %q", out)
	}
}

func TestParseRegValueReadsLastSixAndFourBytes(t *testing.T) {
	// reg sits at [-6:-4], value at [-4:-2], CRC occupies the final 2 bytes.
	decrypted := []byte{0x00, 0x2b, 0x00, 0xfa, 0xaa, 0xbb}
	reg, value := parseRegValue(decrypted)
	if reg != 43 || value != 250 {
		t.Fatalf("expected reg=43 value=250, got reg=%d value=%d", reg, value)
	}
}
