package codec

import (
	"bytes"
	"testing"

	"github.com/deploymenttheory/go-pst-ndb/internal/types"
)

func TestCRC32Deterministic(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	a := CRC32(data)
	b := CRC32(data)
	if a != b {
		t.Fatalf("CRC32 not deterministic: %d != %d", a, b)
	}
}

func TestCRC32DetectsCorruption(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	want := CRC32(data)
	if !Verify(data, want) {
		t.Fatal("Verify rejected an unmodified payload")
	}
	data[2] ^= 0xFF
	if Verify(data, want) {
		t.Fatal("Verify accepted a corrupted payload")
	}
}

func TestPermuteRoundTrip(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	encoded := PermuteEncode(data)
	if bytes.Equal(encoded, data) {
		t.Fatal("PermuteEncode left data unchanged")
	}
	decoded := PermuteDecode(encoded)
	if !bytes.Equal(decoded, data) {
		t.Fatal("PermuteDecode(PermuteEncode(data)) != data")
	}
}

func TestPermuteTableIsBijective(t *testing.T) {
	seen := make(map[byte]bool)
	for b := 0; b < 256; b++ {
		enc := permuteEncodeTable[b]
		if seen[enc] {
			t.Fatalf("permute table is not a bijection: %d collides", enc)
		}
		seen[enc] = true
	}
}

func TestCyclicIsSelfInverse(t *testing.T) {
	data := []byte("sub-node leaf payload bytes go here for the cyclic codec test")
	const key = 0xDEADBEEF
	encoded := CyclicApply(key, data)
	if bytes.Equal(encoded, data) {
		t.Fatal("CyclicApply left data unchanged")
	}
	decoded := CyclicApply(key, encoded)
	if !bytes.Equal(decoded, data) {
		t.Fatal("CyclicApply is not self-inverse")
	}
}

func TestCyclicDependsOnKey(t *testing.T) {
	data := []byte("identical payload bytes")
	a := CyclicApply(0x00000001, data)
	b := CyclicApply(0x00000002, data)
	if bytes.Equal(a, b) {
		t.Fatal("CyclicApply output did not depend on key")
	}
}

func TestEncodeDecodeDispatch(t *testing.T) {
	data := []byte("leaf block payload")
	for _, method := range []types.CryptMethod{types.CryptNone, types.CryptPermute, types.CryptCyclic} {
		encoded := Encode(method, 0x1234, data)
		decoded := Decode(method, 0x1234, encoded)
		if !bytes.Equal(decoded, data) {
			t.Fatalf("round trip failed for method %d", method)
		}
	}
}
