package blocks

import (
	"bytes"
	"fmt"

	"github.com/deploymenttheory/go-pst-ndb/internal/codec"
	"github.com/deploymenttheory/go-pst-ndb/internal/interfaces"
	"github.com/deploymenttheory/go-pst-ndb/internal/types"
)

// DataTreeBlockReader implements interfaces.DataTreeBlockReader. Unlike
// leaf data blocks, the crc here covers the full data region: header
// plus every child entry.
type DataTreeBlockReader[W types.Width] struct {
	trailers interfaces.BlockTrailerReader[W]
	variant  types.Variant
}

// NewDataTreeBlockReader creates a DataTreeBlockReader for width W.
func NewDataTreeBlockReader[W types.Width]() interfaces.DataTreeBlockReader[W] {
	return &DataTreeBlockReader[W]{
		trailers: NewBlockTrailerReader[W](),
		variant:  types.VariantFor[W](),
	}
}

// ReadDataTreeBlock parses block as an X/XX intermediate data-tree block.
func (r *DataTreeBlockReader[W]) ReadDataTreeBlock(block []byte) (types.DataTreeBlockHeader, []types.BlockID[W], types.BlockTrailer[W], error) {
	if len(block) < r.variant.BlockTrailerSize {
		return types.DataTreeBlockHeader{}, nil, types.BlockTrailer[W]{}, fmt.Errorf("block too small for data tree block: %d bytes", len(block))
	}

	trailer, err := r.trailers.ReadTrailer(block)
	if err != nil {
		return types.DataTreeBlockHeader{}, nil, types.BlockTrailer[W]{}, fmt.Errorf("failed to read data tree block trailer: %w", err)
	}
	if trailer.BlockID.IsInternal() == false {
		return types.DataTreeBlockHeader{}, nil, types.BlockTrailer[W]{}, types.NewNdbError(types.InvalidBlockTrailerId, int64(trailer.Size))
	}

	// The logical data region (trailer.Size) sits before any quantum
	// padding, not immediately before the trailer.
	dataLen := int(trailer.Size)
	if dataLen > len(block)-r.variant.BlockTrailerSize {
		return types.DataTreeBlockHeader{}, nil, types.BlockTrailer[W]{}, types.NewNdbError(types.InvalidBlockSize, int64(trailer.Size))
	}
	dataRegion := block[:dataLen]

	if !codec.Verify(dataRegion, trailer.Crc) {
		return types.DataTreeBlockHeader{}, nil, types.BlockTrailer[W]{}, types.NewNdbError(types.InvalidBlockCrc, int64(trailer.Crc))
	}

	reader := bytes.NewReader(dataRegion)
	header, err := types.ReadDataTreeBlockHeader(reader)
	if err != nil {
		return types.DataTreeBlockHeader{}, nil, types.BlockTrailer[W]{}, fmt.Errorf("failed to parse data tree block header: %w", err)
	}
	if int(header.EntryCount) > r.variant.BTreeEntriesRegionSize/r.variant.DataTreeEntrySize {
		return types.DataTreeBlockHeader{}, nil, types.BlockTrailer[W]{}, types.NewNdbError(types.InvalidInternalBlockEntryCount, int64(header.EntryCount))
	}

	children := make([]types.BlockID[W], 0, header.EntryCount)
	for i := uint16(0); i < header.EntryCount; i++ {
		child, err := types.ReadBlockID[W](reader)
		if err != nil {
			return types.DataTreeBlockHeader{}, nil, types.BlockTrailer[W]{}, fmt.Errorf("failed to parse data tree child %d: %w", i, err)
		}
		children = append(children, child)
	}

	return header, children, trailer, nil
}
