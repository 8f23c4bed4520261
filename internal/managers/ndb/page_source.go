// Package ndb orchestrates an open PST file: header access, B-tree
// navigation, data and sub-node tree reads, and allocation-map rebuild.
package ndb

import (
	"fmt"
	"io"
	"sync"

	"github.com/deploymenttheory/go-pst-ndb/internal/interfaces"
	"github.com/deploymenttheory/go-pst-ndb/internal/types"
)

// fileSource implements interfaces.PageSource over a single open file
// handle. Every read is mutex-guarded: the node database is accessed by
// exactly one reader at a time per open file, matching how the rest of
// this package serializes access rather than relying on the OS's
// thread-safe pread semantics alone.
type fileSource[W types.Width] struct {
	mu     sync.Mutex
	reader io.ReaderAt
}

func newFileSource[W types.Width](reader io.ReaderAt) *fileSource[W] {
	return &fileSource[W]{reader: reader}
}

// ReadAt reads size bytes at the given absolute file offset.
func (s *fileSource[W]) ReadAt(offset types.ByteIndex[W], size int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, size)
	n, err := s.reader.ReadAt(buf, int64(offset.Index()))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read %d bytes at offset %v: %w", size, offset.Index(), err)
	}
	if n != size {
		return nil, fmt.Errorf("short read at offset %v: got %d bytes, want %d", offset.Index(), n, size)
	}
	return buf, nil
}

var _ interfaces.PageSource[uint64] = (*fileSource[uint64])(nil)
