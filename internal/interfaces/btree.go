package interfaces

import "github.com/deploymenttheory/go-pst-ndb/internal/types"

// BTreePageReader reads a single B-tree page: either an intermediate
// page of IntermediateEntry values, or a leaf page of node or block
// entries, distinguished by the page tail's Level field.
type BTreePageReader[W types.Width] interface {
	// ReadIntermediatePage parses page as a non-leaf B-tree page.
	ReadIntermediatePage(page []byte) (entries []types.IntermediateEntry[W], tail types.BTreePageTail, trailer types.PageTrailer[W], err error)

	// ReadNodeLeafPage parses page as a leaf page of the node B-tree.
	ReadNodeLeafPage(page []byte) (entries []types.NodeBTreeEntry[W], tail types.BTreePageTail, trailer types.PageTrailer[W], err error)

	// ReadBlockLeafPage parses page as a leaf page of the block B-tree.
	ReadBlockLeafPage(page []byte) (entries []types.BlockBTreeEntry[W], tail types.BTreePageTail, trailer types.PageTrailer[W], err error)
}

// PageSource fetches the raw bytes of a page or block given its
// location, abstracting over the underlying file so that the
// middleware and managers layers never seek directly.
type PageSource[W types.Width] interface {
	// ReadAt reads size bytes at the given absolute file offset.
	ReadAt(offset types.ByteIndex[W], size int) ([]byte, error)
}

// NodeBTreeNavigator looks up entries of the node B-tree by exact key.
type NodeBTreeNavigator[W types.Width] interface {
	// Find returns the node B-tree leaf entry for id, or a BTreeEntryNotFound NdbError.
	Find(root types.BlockRef[W], id types.NodeID) (types.NodeBTreeEntry[W], error)
}

// BlockBTreeNavigator looks up entries of the block B-tree by exact key.
type BlockBTreeNavigator[W types.Width] interface {
	// Find returns the block B-tree leaf entry for id, or a BTreeEntryNotFound NdbError.
	Find(root types.BlockRef[W], id types.BlockID[W]) (types.BlockBTreeEntry[W], error)
}
