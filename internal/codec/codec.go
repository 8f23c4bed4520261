package codec

import "github.com/deploymenttheory/go-pst-ndb/internal/types"

// Encode applies the file's selected codec to a leaf data block's raw
// payload before it is written to disk. key is the low 32 bits of the
// block's own id, used only by the Cyclic codec.
func Encode(method types.CryptMethod, key uint32, data []byte) []byte {
	switch method {
	case types.CryptPermute:
		return PermuteEncode(data)
	case types.CryptCyclic:
		return CyclicApply(key, data)
	default:
		return data
	}
}

// Decode reverses Encode. Decode(method, key, Encode(method, key, data))
// always equals data.
func Decode(method types.CryptMethod, key uint32, data []byte) []byte {
	switch method {
	case types.CryptPermute:
		return PermuteDecode(data)
	case types.CryptCyclic:
		return CyclicApply(key, data)
	default:
		return data
	}
}
