package types

import (
	"bytes"
	"testing"
)

func TestHeaderRoundTripUnicode(t *testing.T) {
	nodeRoot, err := NewBlockID[uint64](true, 1)
	if err != nil {
		t.Fatalf("NewBlockID: %v", err)
	}
	blockRoot, err := NewBlockID[uint64](true, 2)
	if err != nil {
		t.Fatalf("NewBlockID: %v", err)
	}
	h := Header[uint64]{
		Magic:       HeaderMagic,
		CryptMethod: CryptCyclic,
		Root: Root[uint64]{
			FileSize:       NewByteIndex[uint64](1 << 20),
			NodeBTreeRoot:  BlockRef[uint64]{Block: nodeRoot, Index: NewByteIndex[uint64](0x4400)},
			BlockBTreeRoot: BlockRef[uint64]{Block: blockRoot, Index: NewByteIndex[uint64](0x4800)},
			AmapIsValid:    AmapValid,
			AmapFreeSize:   NewByteIndex[uint64](4096),
			AmapLastOffset: NewByteIndex[uint64](8192),
		},
	}

	var buf bytes.Buffer
	if err := WriteHeader(&buf, h); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	got, err := ReadHeader[uint64](bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if got.CryptMethod != h.CryptMethod || got.Root.AmapIsValid != h.Root.AmapIsValid {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, h)
	}
	if got.Root.FileSize.Index() != h.Root.FileSize.Index() {
		t.Fatalf("file size mismatch: got %d, want %d", got.Root.FileSize.Index(), h.Root.FileSize.Index())
	}
	if !got.Root.NodeBTreeRoot.Block.Equal(h.Root.NodeBTreeRoot.Block) {
		t.Fatal("node b-tree root block id mismatch")
	}
}

func TestHeaderRejectsBadMagic(t *testing.T) {
	raw := []byte{'X', 'X', 0}
	raw = append(raw, make([]byte, 64)...)
	_, err := ReadHeader[uint32](bytes.NewReader(raw))
	if err == nil {
		t.Fatal("expected error for bad magic bytes")
	}
}

func TestAmapStatusValid(t *testing.T) {
	cases := map[AmapStatus]bool{
		AmapInvalid:        false,
		AmapValid:          true,
		AmapPartiallyValid: true,
	}
	for status, want := range cases {
		if got := status.Valid(); got != want {
			t.Fatalf("AmapStatus(%d).Valid() = %v, want %v", status, got, want)
		}
	}
}
