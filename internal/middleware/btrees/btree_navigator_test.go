package btrees

import (
	"bytes"
	"testing"

	"github.com/deploymenttheory/go-pst-ndb/internal/codec"
	"github.com/deploymenttheory/go-pst-ndb/internal/types"
)

func writeNodeLeafPage(t *testing.T, entries []types.NodeBTreeEntry[uint64]) []byte {
	t.Helper()
	v := types.VariantFor[uint64]()
	page := make([]byte, types.PageSize)

	var entriesBuf bytes.Buffer
	for _, e := range entries {
		if err := types.WriteNodeBTreeEntry(&entriesBuf, e); err != nil {
			t.Fatalf("WriteNodeBTreeEntry: %v", err)
		}
	}
	copy(page, entriesBuf.Bytes())

	tail := types.BTreePageTail{EntryCount: uint8(len(entries)), MaxEntryCount: uint8(v.MaxNodeBTreeEntries()), EntrySize: uint8(v.NodeBTreeEntrySize)}
	var tailBuf bytes.Buffer
	if err := types.WriteBTreePageTail(&tailBuf, v, tail); err != nil {
		t.Fatalf("WriteBTreePageTail: %v", err)
	}
	copy(page[v.BTreeEntriesRegionSize:], tailBuf.Bytes())

	writeTrailer(t, page, v, types.PageTypeNodeBTree)
	return page
}

func writeIntermediateNodePage(t *testing.T, entries []types.IntermediateEntry[uint64]) []byte {
	t.Helper()
	v := types.VariantFor[uint64]()
	page := make([]byte, types.PageSize)

	var entriesBuf bytes.Buffer
	for _, e := range entries {
		if err := types.WriteIntermediateEntry(&entriesBuf, e); err != nil {
			t.Fatalf("WriteIntermediateEntry: %v", err)
		}
	}
	copy(page, entriesBuf.Bytes())

	tail := types.BTreePageTail{
		EntryCount:    uint8(len(entries)),
		MaxEntryCount: uint8(v.BTreeEntriesRegionSize / v.IntermediateEntrySize),
		EntrySize:     uint8(v.IntermediateEntrySize),
		Level:         1,
	}
	var tailBuf bytes.Buffer
	if err := types.WriteBTreePageTail(&tailBuf, v, tail); err != nil {
		t.Fatalf("WriteBTreePageTail: %v", err)
	}
	copy(page[v.BTreeEntriesRegionSize:], tailBuf.Bytes())

	writeTrailer(t, page, v, types.PageTypeNodeBTree)
	return page
}

func writeTrailer(t *testing.T, page []byte, v types.Variant, pageType types.PageType) {
	t.Helper()
	crc := codec.CRC32(page[:v.PageCRCRegionSize])
	blockID, err := types.NewBlockID[uint64](true, 1)
	if err != nil {
		t.Fatalf("NewBlockID: %v", err)
	}
	trailer := types.PageTrailer[uint64]{PageType: pageType, BlockID: blockID, Crc: crc}
	var buf bytes.Buffer
	if err := types.WritePageTrailer(&buf, v, trailer); err != nil {
		t.Fatalf("WritePageTrailer: %v", err)
	}
	copy(page[types.PageSize-v.PageTrailerSize:], buf.Bytes())
}

func TestNodeBTreeNavigatorTwoLevel(t *testing.T) {
	source := newFakePageSource[uint64]()

	leafDataA, err := types.NewBlockID[uint64](false, 1)
	if err != nil {
		t.Fatalf("NewBlockID: %v", err)
	}
	leafA := writeNodeLeafPage(t, []types.NodeBTreeEntry[uint64]{
		{NodeID: 10, DataBlockID: leafDataA},
		{NodeID: 20, DataBlockID: leafDataA},
	})
	leafAOffset := types.NewByteIndex[uint64](0x8000)
	source.set(leafAOffset, leafA)

	leafDataB, err := types.NewBlockID[uint64](false, 2)
	if err != nil {
		t.Fatalf("NewBlockID: %v", err)
	}
	leafB := writeNodeLeafPage(t, []types.NodeBTreeEntry[uint64]{
		{NodeID: 30, DataBlockID: leafDataB},
		{NodeID: 40, DataBlockID: leafDataB},
	})
	leafBOffset := types.NewByteIndex[uint64](0x8200)
	source.set(leafBOffset, leafB)

	leafAChild, err := types.NewBlockID[uint64](true, 10)
	if err != nil {
		t.Fatalf("NewBlockID: %v", err)
	}
	leafBChild, err := types.NewBlockID[uint64](true, 11)
	if err != nil {
		t.Fatalf("NewBlockID: %v", err)
	}
	// Intermediate keys record the smallest key reachable through the
	// child, matching the real on-disk BTENTRY convention.
	root := writeIntermediateNodePage(t, []types.IntermediateEntry[uint64]{
		{Key: 10, Child: types.BlockRef[uint64]{Block: leafAChild, Index: leafAOffset}},
		{Key: 30, Child: types.BlockRef[uint64]{Block: leafBChild, Index: leafBOffset}},
	})
	rootBlock, err := types.NewBlockID[uint64](true, 1)
	if err != nil {
		t.Fatalf("NewBlockID: %v", err)
	}
	rootOffset := types.NewByteIndex[uint64](0x4400)
	source.set(rootOffset, root)

	nav := NewNodeBTreeNavigator[uint64](source)
	rootRef := types.BlockRef[uint64]{Block: rootBlock, Index: rootOffset}

	for _, id := range []types.NodeID{10, 20, 30, 40} {
		entry, err := nav.Find(rootRef, id)
		if err != nil {
			t.Fatalf("Find(%d): %v", id, err)
		}
		if entry.NodeID != id {
			t.Fatalf("Find(%d) returned entry for %d", id, entry.NodeID)
		}
	}

	if _, err := nav.Find(rootRef, 999); err == nil {
		t.Fatal("expected error finding an id not present in the tree")
	}
}
