package interfaces

import "github.com/deploymenttheory/go-pst-ndb/internal/types"

// PageTrailerReader reads and CRC-verifies the trailer shared by every
// 512-byte page.
type PageTrailerReader[W types.Width] interface {
	// ReadTrailer parses the trailer from the final bytes of a page
	// buffer and verifies its CRC against the leading PageCRCRegionSize
	// bytes of page.
	ReadTrailer(page []byte) (types.PageTrailer[W], error)
}

// AllocationPageReader reads an AMap, PMap, FMap, or FPMap page: a
// fixed-width map-bits byte region plus a page trailer.
type AllocationPageReader[W types.Width] interface {
	// ReadAllocationPage parses page as an allocation-family page of the
	// given expected type, returning its map-bits region and trailer.
	ReadAllocationPage(page []byte, want types.PageType) (mapBits []byte, trailer types.PageTrailer[W], err error)
}

// DensityListReader reads the density list page used to pick backfill
// locations for new block allocations.
type DensityListReader[W types.Width] interface {
	// ReadDensityList parses page as a density list page.
	ReadDensityList(page []byte) (entries []types.DensityListEntry[W], trailer types.PageTrailer[W], err error)
}
