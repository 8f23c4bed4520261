package blocks

import (
	"fmt"

	"github.com/deploymenttheory/go-pst-ndb/internal/codec"
	"github.com/deploymenttheory/go-pst-ndb/internal/interfaces"
	"github.com/deploymenttheory/go-pst-ndb/internal/types"
)

// DataBlockReader implements interfaces.DataBlockReader. Leaf data
// block payloads are returned still codec-encoded: this layer only
// knows block shape, not the file's chosen crypt method.
type DataBlockReader[W types.Width] struct {
	trailers interfaces.BlockTrailerReader[W]
	variant  types.Variant
}

// NewDataBlockReader creates a DataBlockReader for width W.
func NewDataBlockReader[W types.Width]() interfaces.DataBlockReader[W] {
	return &DataBlockReader[W]{
		trailers: NewBlockTrailerReader[W](),
		variant:  types.VariantFor[W](),
	}
}

// ReadDataBlock parses block as a leaf data block: payload then
// trailer, with the trailer's crc verified against the payload alone.
func (r *DataBlockReader[W]) ReadDataBlock(block []byte) (types.DataBlock[W], error) {
	if len(block) < r.variant.BlockTrailerSize {
		return types.DataBlock[W]{}, fmt.Errorf("block too small for data block: %d bytes", len(block))
	}

	trailer, err := r.trailers.ReadTrailer(block)
	if err != nil {
		return types.DataBlock[W]{}, fmt.Errorf("failed to read data block trailer: %w", err)
	}

	// The logical payload (trailer.Size) sits before any quantum
	// padding, not immediately before the trailer.
	payloadLen := int(trailer.Size)
	if payloadLen > len(block)-r.variant.BlockTrailerSize {
		return types.DataBlock[W]{}, types.NewNdbError(types.InvalidBlockSize, int64(trailer.Size))
	}
	payload := block[:payloadLen]

	if !codec.Verify(payload, trailer.Crc) {
		return types.DataBlock[W]{}, types.NewNdbError(types.InvalidBlockCrc, int64(trailer.Crc))
	}
	if trailer.BlockID.IsInternal() {
		return types.DataBlock[W]{}, types.NewNdbError(types.InvalidBlockTrailerId, int64(trailer.Size))
	}

	data := make([]byte, payloadLen)
	copy(data, payload)

	return types.DataBlock[W]{Data: data, Trailer: trailer}, nil
}
