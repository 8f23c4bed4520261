package interfaces

import "github.com/deploymenttheory/go-pst-ndb/internal/types"

// BlockTrailerReader reads and CRC-verifies a block trailer.
type BlockTrailerReader[W types.Width] interface {
	// ReadTrailer parses the trailer region of a block buffer.
	ReadTrailer(block []byte) (types.BlockTrailer[W], error)
}

// DataBlockReader reads a leaf data block: payload plus trailer, with
// the payload's crc checked against the trailer before any codec is
// applied.
type DataBlockReader[W types.Width] interface {
	// ReadDataBlock parses block as a leaf data block. The returned
	// payload is still codec-encoded; callers decode it themselves once
	// they know the block's owning file's crypt method.
	ReadDataBlock(block []byte) (types.DataBlock[W], error)
}

// DataTreeBlockReader reads an X/XX intermediate data-tree block: a
// header plus a run of child block ids.
type DataTreeBlockReader[W types.Width] interface {
	// ReadDataTreeBlock parses block as an intermediate data-tree block,
	// returning its header and ordered child block ids.
	ReadDataTreeBlock(block []byte) (header types.DataTreeBlockHeader, children []types.BlockID[W], trailer types.BlockTrailer[W], err error)
}

// SubNodeTreeBlockReader reads an SI or SL sub-node tree block.
type SubNodeTreeBlockReader[W types.Width] interface {
	// ReadIntermediateBlock parses block as an SI block: a header plus
	// entries mapping node id ranges to child sub-node blocks.
	ReadIntermediateBlock(block []byte) (header types.SubNodeTreeBlockHeader, entries []types.IntermediateSubNodeTreeEntry[W], trailer types.BlockTrailer[W], err error)

	// ReadLeafBlock parses block as an SL block: a header plus entries
	// mapping node ids to their data (and optional sub-sub-node) blocks.
	ReadLeafBlock(block []byte) (header types.SubNodeTreeBlockHeader, entries []types.LeafSubNodeTreeEntry[W], trailer types.BlockTrailer[W], err error)
}
