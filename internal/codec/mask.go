package codec

// maskKey is the fixed 7-byte cyclic XOR key applied to protocol
// versions 5 and 6.
var maskKey = []byte("Growatt")

// isMaskedVersion reports whether frames of this protocol version
// carry an XOR-masked body.
func isMaskedVersion(version uint16) bool {
	return version == 5 || version == 6
}

// xorMask returns a new slice holding body XORed with the cyclic key;
// body itself is left unchanged. The operation is its own inverse:
// masking and unmasking are identical.
func xorMask(body []byte) []byte {
	out := make([]byte, len(body))
	for i, b := range body {
		out[i] = b ^ maskKey[i%len(maskKey)]
	}
	return out
}

// Mask applies the Growatt XOR cyclic-key mask to body. Exported for
// the packet builder, which needs the same operation when framing
// outbound command bodies.
func Mask(body []byte) []byte { return xorMask(body) }
