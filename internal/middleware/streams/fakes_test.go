package streams

import (
	"fmt"

	"github.com/deploymenttheory/go-pst-ndb/internal/types"
)

// fakePageSource implements interfaces.PageSource over an in-memory map
// keyed by raw offset value.
type fakePageSource[W types.Width] struct {
	pages map[uint64][]byte
}

func newFakePageSource[W types.Width]() *fakePageSource[W] {
	return &fakePageSource[W]{pages: make(map[uint64][]byte)}
}

func (s *fakePageSource[W]) set(offset types.ByteIndex[W], data []byte) {
	s.pages[uint64(offset.Index())] = data
}

func (s *fakePageSource[W]) ReadAt(offset types.ByteIndex[W], size int) ([]byte, error) {
	data, ok := s.pages[uint64(offset.Index())]
	if !ok {
		return nil, fmt.Errorf("no data at offset %v", offset.Index())
	}
	if len(data) < size {
		return nil, fmt.Errorf("data at offset %v is %d bytes, want at least %d", offset.Index(), len(data), size)
	}
	return data[:size], nil
}

// fakeBlockBTreeNavigator implements interfaces.BlockBTreeNavigator by
// direct lookup in an in-memory map, standing in for an actual block
// B-tree descent so walker tests can focus on tree-flattening logic.
type fakeBlockBTreeNavigator[W types.Width] struct {
	entries map[uint64]types.BlockBTreeEntry[W]
}

func newFakeBlockBTreeNavigator[W types.Width]() *fakeBlockBTreeNavigator[W] {
	return &fakeBlockBTreeNavigator[W]{entries: make(map[uint64]types.BlockBTreeEntry[W])}
}

func (n *fakeBlockBTreeNavigator[W]) set(id types.BlockID[W], entry types.BlockBTreeEntry[W]) {
	n.entries[uint64(id.Raw())] = entry
}

func (n *fakeBlockBTreeNavigator[W]) Find(root types.BlockRef[W], id types.BlockID[W]) (types.BlockBTreeEntry[W], error) {
	entry, ok := n.entries[uint64(id.Raw())]
	if !ok {
		return types.BlockBTreeEntry[W]{}, types.NewNdbError(types.BTreeEntryNotFound, 0)
	}
	return entry, nil
}
