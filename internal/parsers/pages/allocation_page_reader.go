package pages

import (
	"fmt"

	"github.com/deploymenttheory/go-pst-ndb/internal/interfaces"
	"github.com/deploymenttheory/go-pst-ndb/internal/types"
)

// AllocationPageReader implements interfaces.AllocationPageReader for
// the four allocation-family page types: AMap, PMap, FMap, FPMap. All
// four share the same on-disk shape (a raw map-bits byte region
// followed by a page trailer); only the interpretation of the bits
// differs, which belongs to the managers layer, not here.
type AllocationPageReader[W types.Width] struct {
	trailers interfaces.PageTrailerReader[W]
	variant  types.Variant
}

// NewAllocationPageReader creates an AllocationPageReader for width W.
func NewAllocationPageReader[W types.Width]() interfaces.AllocationPageReader[W] {
	return &AllocationPageReader[W]{
		trailers: NewPageTrailerReader[W](),
		variant:  types.VariantFor[W](),
	}
}

// ReadAllocationPage parses page as an allocation-family page, failing
// if its trailer does not report the expected page type.
func (r *AllocationPageReader[W]) ReadAllocationPage(page []byte, want types.PageType) ([]byte, types.PageTrailer[W], error) {
	trailer, err := r.trailers.ReadTrailer(page)
	if err != nil {
		return nil, types.PageTrailer[W]{}, fmt.Errorf("failed to read allocation page trailer: %w", err)
	}
	if trailer.PageType != want {
		return nil, types.PageTrailer[W]{}, types.NewNdbError(types.UnexpectedPageType, int64(trailer.PageType))
	}

	mapBitsLen := types.PageSize - r.variant.PageTrailerSize
	mapBits := make([]byte, mapBitsLen)
	copy(mapBits, page[:mapBitsLen])

	return mapBits, trailer, nil
}
