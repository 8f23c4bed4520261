package blocks

import (
	"bytes"
	"fmt"

	"github.com/deploymenttheory/go-pst-ndb/internal/codec"
	"github.com/deploymenttheory/go-pst-ndb/internal/interfaces"
	"github.com/deploymenttheory/go-pst-ndb/internal/types"
)

// SubNodeTreeBlockReader implements interfaces.SubNodeTreeBlockReader.
// As with data-tree blocks, the crc covers the full header+entries
// region, not just a payload.
type SubNodeTreeBlockReader[W types.Width] struct {
	trailers interfaces.BlockTrailerReader[W]
	variant  types.Variant
}

// NewSubNodeTreeBlockReader creates a SubNodeTreeBlockReader for width W.
func NewSubNodeTreeBlockReader[W types.Width]() interfaces.SubNodeTreeBlockReader[W] {
	return &SubNodeTreeBlockReader[W]{
		trailers: NewBlockTrailerReader[W](),
		variant:  types.VariantFor[W](),
	}
}

func (r *SubNodeTreeBlockReader[W]) readCommon(block []byte) ([]byte, types.SubNodeTreeBlockHeader, types.BlockTrailer[W], error) {
	if len(block) < r.variant.BlockTrailerSize {
		return nil, types.SubNodeTreeBlockHeader{}, types.BlockTrailer[W]{}, fmt.Errorf("block too small for sub-node tree block: %d bytes", len(block))
	}

	trailer, err := r.trailers.ReadTrailer(block)
	if err != nil {
		return nil, types.SubNodeTreeBlockHeader{}, types.BlockTrailer[W]{}, fmt.Errorf("failed to read sub-node tree block trailer: %w", err)
	}
	if !trailer.BlockID.IsInternal() {
		return nil, types.SubNodeTreeBlockHeader{}, types.BlockTrailer[W]{}, types.NewNdbError(types.InvalidBlockTrailerId, int64(trailer.Size))
	}

	// The logical data region (trailer.Size) sits before any quantum
	// padding, not immediately before the trailer.
	dataLen := int(trailer.Size)
	if dataLen > len(block)-r.variant.BlockTrailerSize {
		return nil, types.SubNodeTreeBlockHeader{}, types.BlockTrailer[W]{}, types.NewNdbError(types.InvalidBlockSize, int64(trailer.Size))
	}
	dataRegion := block[:dataLen]

	if !codec.Verify(dataRegion, trailer.Crc) {
		return nil, types.SubNodeTreeBlockHeader{}, types.BlockTrailer[W]{}, types.NewNdbError(types.InvalidBlockCrc, int64(trailer.Crc))
	}

	reader := bytes.NewReader(dataRegion)
	header, err := types.ReadSubNodeTreeBlockHeader(reader, r.variant)
	if err != nil {
		return nil, types.SubNodeTreeBlockHeader{}, types.BlockTrailer[W]{}, fmt.Errorf("failed to parse sub-node tree block header: %w", err)
	}

	remaining := dataRegion[r.variant.SubNodeHeaderSize:]
	return remaining, header, trailer, nil
}

// ReadIntermediateBlock parses block as an SI block.
func (r *SubNodeTreeBlockReader[W]) ReadIntermediateBlock(block []byte) (types.SubNodeTreeBlockHeader, []types.IntermediateSubNodeTreeEntry[W], types.BlockTrailer[W], error) {
	remaining, header, trailer, err := r.readCommon(block)
	if err != nil {
		return types.SubNodeTreeBlockHeader{}, nil, types.BlockTrailer[W]{}, err
	}
	if header.Level == 0 {
		return types.SubNodeTreeBlockHeader{}, nil, types.BlockTrailer[W]{}, types.NewNdbError(types.InvalidBTreePageLevel, int64(header.Level))
	}

	reader := bytes.NewReader(remaining)
	entries := make([]types.IntermediateSubNodeTreeEntry[W], 0, header.EntryCount)
	for i := uint16(0); i < header.EntryCount; i++ {
		entry, err := types.ReadIntermediateSubNodeTreeEntry[W](reader)
		if err != nil {
			return types.SubNodeTreeBlockHeader{}, nil, types.BlockTrailer[W]{}, fmt.Errorf("failed to parse SI entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}
	return header, entries, trailer, nil
}

// ReadLeafBlock parses block as an SL block.
func (r *SubNodeTreeBlockReader[W]) ReadLeafBlock(block []byte) (types.SubNodeTreeBlockHeader, []types.LeafSubNodeTreeEntry[W], types.BlockTrailer[W], error) {
	remaining, header, trailer, err := r.readCommon(block)
	if err != nil {
		return types.SubNodeTreeBlockHeader{}, nil, types.BlockTrailer[W]{}, err
	}
	if header.Level != 0 {
		return types.SubNodeTreeBlockHeader{}, nil, types.BlockTrailer[W]{}, types.NewNdbError(types.InvalidBTreePageLevel, int64(header.Level))
	}

	reader := bytes.NewReader(remaining)
	entries := make([]types.LeafSubNodeTreeEntry[W], 0, header.EntryCount)
	for i := uint16(0); i < header.EntryCount; i++ {
		entry, err := types.ReadLeafSubNodeTreeEntry[W](reader)
		if err != nil {
			return types.SubNodeTreeBlockHeader{}, nil, types.BlockTrailer[W]{}, fmt.Errorf("failed to parse SL entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}
	return header, entries, trailer, nil
}
