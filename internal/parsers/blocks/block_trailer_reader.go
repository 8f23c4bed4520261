// Package blocks parses leaf data blocks and the two internal block
// kinds: X/XX data-tree blocks and SI/SL sub-node tree blocks.
package blocks

import (
	"bytes"
	"fmt"

	"github.com/deploymenttheory/go-pst-ndb/internal/interfaces"
	"github.com/deploymenttheory/go-pst-ndb/internal/types"
)

// BlockTrailerReader implements interfaces.BlockTrailerReader. It only
// parses the trailer; CRC verification is the caller's responsibility
// once it knows which region of the block the CRC covers (payload-only
// for leaf blocks, full header+entries for internal blocks).
type BlockTrailerReader[W types.Width] struct {
	variant types.Variant
}

// NewBlockTrailerReader creates a BlockTrailerReader for width W.
func NewBlockTrailerReader[W types.Width]() interfaces.BlockTrailerReader[W] {
	return &BlockTrailerReader[W]{variant: types.VariantFor[W]()}
}

// ReadTrailer parses the trailer from the last BlockTrailerSize bytes
// of a block buffer.
func (r *BlockTrailerReader[W]) ReadTrailer(block []byte) (types.BlockTrailer[W], error) {
	if len(block) < r.variant.BlockTrailerSize {
		return types.BlockTrailer[W]{}, fmt.Errorf("block too small for trailer: %d bytes", len(block))
	}
	trailerOffset := len(block) - r.variant.BlockTrailerSize
	trailer, err := types.ReadBlockTrailer[W](bytes.NewReader(block[trailerOffset:]), r.variant)
	if err != nil {
		return types.BlockTrailer[W]{}, fmt.Errorf("failed to parse block trailer: %w", err)
	}
	return trailer, nil
}
