// Package pages parses the fixed-size 512-byte pages of the node
// database: page trailers, the allocation-map family (AMap, PMap,
// FMap, FPMap), and the density list.
package pages

import (
	"bytes"
	"fmt"

	"github.com/deploymenttheory/go-pst-ndb/internal/codec"
	"github.com/deploymenttheory/go-pst-ndb/internal/interfaces"
	"github.com/deploymenttheory/go-pst-ndb/internal/types"
)

// PageTrailerReader implements interfaces.PageTrailerReader.
type PageTrailerReader[W types.Width] struct {
	variant types.Variant
}

// NewPageTrailerReader creates a PageTrailerReader for width W.
func NewPageTrailerReader[W types.Width]() interfaces.PageTrailerReader[W] {
	return &PageTrailerReader[W]{variant: types.VariantFor[W]()}
}

// ReadTrailer parses and CRC-verifies the trailer of a full 512-byte page.
func (r *PageTrailerReader[W]) ReadTrailer(page []byte) (types.PageTrailer[W], error) {
	if len(page) != types.PageSize {
		return types.PageTrailer[W]{}, fmt.Errorf("page must be %d bytes, got %d", types.PageSize, len(page))
	}

	trailerOffset := types.PageSize - r.variant.PageTrailerSize
	trailer, err := types.ReadPageTrailer[W](bytes.NewReader(page[trailerOffset:]), r.variant)
	if err != nil {
		return types.PageTrailer[W]{}, fmt.Errorf("failed to parse page trailer: %w", err)
	}

	crcRegion := page[:r.variant.PageCRCRegionSize]
	if !codec.Verify(crcRegion, trailer.Crc) {
		return types.PageTrailer[W]{}, types.NewNdbError(types.InvalidPageCrc, int64(trailer.Crc))
	}

	return trailer, nil
}
