package pages

import (
	"bytes"
	"fmt"

	"github.com/deploymenttheory/go-pst-ndb/internal/interfaces"
	"github.com/deploymenttheory/go-pst-ndb/internal/types"
)

// densityListEntrySize is the on-disk size of one DensityListEntry[W]:
// a ByteIndex[W] followed by a u32 free-slot count.
func densityListEntrySize(v types.Variant) int {
	if v.Unicode {
		return 8 + 4
	}
	return 4 + 4
}

// DensityListReader implements interfaces.DensityListReader.
type DensityListReader[W types.Width] struct {
	trailers interfaces.PageTrailerReader[W]
	variant  types.Variant
}

// NewDensityListReader creates a DensityListReader for width W.
func NewDensityListReader[W types.Width]() interfaces.DensityListReader[W] {
	return &DensityListReader[W]{
		trailers: NewPageTrailerReader[W](),
		variant:  types.VariantFor[W](),
	}
}

// ReadDensityList parses page as a density list page: a packed run of
// entries followed by the page trailer. A density list page may carry
// fewer than its maximum entry count; the remainder of the map-bits
// region is zero-padded, so parsing stops at the first all-zero entry.
func (r *DensityListReader[W]) ReadDensityList(page []byte) ([]types.DensityListEntry[W], types.PageTrailer[W], error) {
	trailer, err := r.trailers.ReadTrailer(page)
	if err != nil {
		return nil, types.PageTrailer[W]{}, fmt.Errorf("failed to read density list trailer: %w", err)
	}
	if trailer.PageType != types.PageTypeDensityList {
		return nil, types.PageTrailer[W]{}, types.NewNdbError(types.UnexpectedPageType, int64(trailer.PageType))
	}

	entrySize := densityListEntrySize(r.variant)
	region := page[:types.PageSize-r.variant.PageTrailerSize]

	var entries []types.DensityListEntry[W]
	for offset := 0; offset+entrySize <= len(region); offset += entrySize {
		chunk := region[offset : offset+entrySize]
		if isAllZero(chunk) {
			break
		}
		entry, err := types.ReadDensityListEntry[W](bytes.NewReader(chunk))
		if err != nil {
			return nil, types.PageTrailer[W]{}, fmt.Errorf("failed to parse density list entry at offset %d: %w", offset, err)
		}
		entries = append(entries, entry)
	}

	return entries, trailer, nil
}

func isAllZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
