package registermap

import (
	"encoding/hex"
	"testing"
	"time"

	"growatt-proxy/internal/codec"
)

// buildMinSignatureFrame constructs a synthetic decrypted frame whose
// header carries the "020bb80c34" MIN signature immediately after the
// 8-byte plain header, with one register's worth of data following.
func buildMinSignatureFrame(messageType uint16, regValue uint16) *codec.DecryptedFrame {
	raw := []byte{
		0x00, 0x01, // seq
		0x00, 0x01, // protocol version (unmasked)
		0x00, 0x00, // declared length (unused by the extractor)
		byte(messageType >> 8), byte(messageType),
		0x02, 0x0b, 0xb8, 0x0c, 0x34, // "020bb80c34" MIN signature
		byte(regValue >> 8), byte(regValue), // register 3000's value
		0x00, 0x00, // trailing filler (not a validated CRC here)
	}
	return codec.Parse(raw).Decrypt()
}

func TestDetectMINSignature(t *testing.T) {
	frame := buildMinSignatureFrame(uint16(codec.PacketLiveData), 1)
	hexPacket := hex.EncodeToString(frame.Bytes())

	inv, dataStart := detect(frame, hexPacket)
	if inv != InverterMIN {
		t.Fatalf("expected MIN, got %v", inv)
	}
	// Signature is 10 hex chars; data_start is the offset right after it.
	wantStart := 16 + len("020bb80c34")
	if dataStart != wantStart {
		t.Fatalf("expected data_start %d, got %d", wantStart, dataStart)
	}
}

func TestExtractorIntAtReadsFirstRegisterOfWindow(t *testing.T) {
	frame := buildMinSignatureFrame(uint16(codec.PacketLiveData), 0x00fa)
	ext := NewExtractor(frame)

	if ext.InverterType() != InverterMIN {
		t.Fatalf("expected MIN, got %v", ext.InverterType())
	}
	if len(ext.Windows()) != 1 {
		t.Fatalf("expected exactly one window, got %d", len(ext.Windows()))
	}
	w := ext.Windows()[0]
	if w.FromReg != 3000 || w.ToReg != 3124 {
		t.Fatalf("unexpected window bounds: %+v", w)
	}
	if ext.SectionWidth() != 125 {
		t.Fatalf("expected section width 125, got %d", ext.SectionWidth())
	}

	v, err := ext.IntAt(3000)
	if err != nil {
		t.Fatalf("IntAt: %v", err)
	}
	if v != 0x00fa {
		t.Fatalf("expected 250, got %d", v)
	}
}

func TestExtractorInvalidRegisterOutsideWindows(t *testing.T) {
	frame := buildMinSignatureFrame(uint16(codec.PacketLiveData), 1)
	ext := NewExtractor(frame)

	if _, err := ext.IntAt(99999); err == nil {
		t.Fatal("expected InvalidRegister error for a register outside every window")
	}
}

func TestUnrecognizedSignatureYieldsUnknownInverter(t *testing.T) {
	raw := []byte{
		0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x01, 0x04,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	}
	frame := codec.Parse(raw).Decrypt()
	ext := NewExtractor(frame)

	if ext.InverterType() != InverterUnknown {
		t.Fatalf("expected Unknown, got %v", ext.InverterType())
	}
	if len(ext.Windows()) != 0 {
		t.Fatal("expected no windows for an unrecognized inverter")
	}
	if _, err := ext.IntAt(0); err == nil {
		t.Fatal("expected InvalidRegister for an Extractor with no windows")
	}
	if got := ext.Timestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)); got != "1970-01-01T00:00:00" {
		t.Fatalf("expected fixed epoch for Unknown inverter, got %q", got)
	}
}

func TestFormatAppliesScaledFloatDivisor(t *testing.T) {
	spec := RegisterSpec{ID: 1, Type: RegScaledFloat, Name: "pv_voltage", Length: 1, Divisor: 10}
	got := spec.Format(1234)
	if got != 123.4 {
		t.Fatalf("expected 123.4, got %v", got)
	}
}

func TestFault8NameFallsBackToUndocumented(t *testing.T) {
	if got := fault8Name(0x7fffffff); got != "Undocumented" {
		t.Fatalf("expected fallback label, got %q", got)
	}
}

func TestFault1NameFallsBackToErrorUndocummented(t *testing.T) {
	if got := fault1Name(999999); got != "Error_Undocummented" {
		t.Fatalf("expected fallback label, got %q", got)
	}
}
