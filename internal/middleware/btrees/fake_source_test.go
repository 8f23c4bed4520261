package btrees

import (
	"fmt"

	"github.com/deploymenttheory/go-pst-ndb/internal/types"
)

// fakePageSource implements interfaces.PageSource over an in-memory map
// of offset to page bytes, keyed by the offset's raw index value.
type fakePageSource[W types.Width] struct {
	pages map[uint64][]byte
}

func newFakePageSource[W types.Width]() *fakePageSource[W] {
	return &fakePageSource[W]{pages: make(map[uint64][]byte)}
}

func (s *fakePageSource[W]) set(offset types.ByteIndex[W], page []byte) {
	s.pages[uint64(offset.Index())] = page
}

func (s *fakePageSource[W]) ReadAt(offset types.ByteIndex[W], size int) ([]byte, error) {
	page, ok := s.pages[uint64(offset.Index())]
	if !ok {
		return nil, fmt.Errorf("no page at offset %v", offset.Index())
	}
	if len(page) < size {
		return nil, fmt.Errorf("page at offset %v is %d bytes, want at least %d", offset.Index(), len(page), size)
	}
	return page[:size], nil
}
