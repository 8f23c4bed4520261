package codec

// CyclicApply applies the Cyclic codec, keyed by key (the low 32 bits
// of the owning block's id) and byte position. It is its own inverse:
// CyclicApply(key, CyclicApply(key, data)) always equals data, since
// each output byte is produced by XOR with a value depending only on
// key and position, never on other bytes of data.
func CyclicApply(key uint32, data []byte) []byte {
	keyBytes := [4]byte{byte(key), byte(key >> 8), byte(key >> 16), byte(key >> 24)}
	out := make([]byte, len(data))
	for i, b := range data {
		shift := byte(i % 8)
		k := keyBytes[i%4]
		rotated := (k << shift) | (k >> (8 - shift))
		out[i] = b ^ rotated
	}
	return out
}
