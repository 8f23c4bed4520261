package interfaces

import "github.com/deploymenttheory/go-pst-ndb/internal/types"

// AllocationMapRebuilder reconstructs the allocation bitmap chain from
// the node and block B-trees when Root.AmapIsValid reports Invalid.
type AllocationMapRebuilder[W types.Width] interface {
	// Rebuild walks both B-trees' own pages, marks their footprint in a
	// freshly built AMap/PMap/FMap/FPMap chain, writes the chain back,
	// and updates Root's amap fields. It does not mark the leaf data
	// blocks reachable through those trees.
	Rebuild() error
}
