// Package interfaces declares the read/write contracts implemented by
// the parsers, middleware, and managers packages. Each interface
// mirrors one concern of the node database layer so that callers can
// depend on the contract rather than a concrete parser.
package interfaces

import "github.com/deploymenttheory/go-pst-ndb/internal/types"

// HeaderReader exposes the fixed leading structure of an open PST file.
type HeaderReader[W types.Width] interface {
	// Header returns the parsed file header, including the embedded Root.
	Header() types.Header[W]

	// CryptMethod returns the codec applied to leaf data block payloads.
	CryptMethod() types.CryptMethod

	// Root returns the file-wide root record.
	Root() types.Root[W]
}

// RootWriter exposes the subset of Root mutated during normal operation
// and during allocation-map rebuild.
type RootWriter[W types.Width] interface {
	// SetAmapStatus updates the allocation map's validity flag.
	SetAmapStatus(status types.AmapStatus)

	// SetAmapFreeSize records the total free space tracked by the
	// allocation map after a rebuild or an allocation/free operation.
	SetAmapFreeSize(size types.ByteIndex[W])

	// SetNodeBTreeRoot updates the node B-tree's root block reference.
	SetNodeBTreeRoot(ref types.BlockRef[W])

	// SetBlockBTreeRoot updates the block B-tree's root block reference.
	SetBlockBTreeRoot(ref types.BlockRef[W])
}
