package streams

import (
	"fmt"
	"sort"

	"github.com/deploymenttheory/go-pst-ndb/internal/interfaces"
	"github.com/deploymenttheory/go-pst-ndb/internal/parsers/blocks"
	"github.com/deploymenttheory/go-pst-ndb/internal/types"
)

// subNodeTreeWalker implements interfaces.SubNodeTreeWalker.
type subNodeTreeWalker[W types.Width] struct {
	blockRoot types.BlockRef[W]
	blockNav  interfaces.BlockBTreeNavigator[W]
	source    interfaces.PageSource[W]
	subNodes  interfaces.SubNodeTreeBlockReader[W]
	variant   types.Variant
}

// NewSubNodeTreeWalker creates a SubNodeTreeWalker that resolves
// sub-node tree block ids through blockNav (rooted at blockRoot) and
// fetches raw bytes from source.
func NewSubNodeTreeWalker[W types.Width](
	blockRoot types.BlockRef[W],
	blockNav interfaces.BlockBTreeNavigator[W],
	source interfaces.PageSource[W],
) interfaces.SubNodeTreeWalker[W] {
	return &subNodeTreeWalker[W]{
		blockRoot: blockRoot,
		blockNav:  blockNav,
		source:    source,
		subNodes:  blocks.NewSubNodeTreeBlockReader[W](),
		variant:   types.VariantFor[W](),
	}
}

// Find descends the sub-node tree rooted at root looking for nodeID.
// At each intermediate level it follows the last entry whose node id
// is <= target (the same rule the persistent B-tree navigators use),
// since descending on the first entry >= target would walk past the
// correct child whenever nodeID falls strictly between two
// intermediate keys.
func (w *subNodeTreeWalker[W]) Find(root types.BlockID[W], nodeID types.NodeID) (types.LeafSubNodeTreeEntry[W], error) {
	current := root
	for {
		entry, err := w.blockNav.Find(w.blockRoot, current)
		if err != nil {
			return types.LeafSubNodeTreeEntry[W]{}, fmt.Errorf("failed to resolve sub-node block %v: %w", current, err)
		}
		raw, err := w.source.ReadAt(entry.Ref.Index, types.BlockSize(int(entry.Size))+w.variant.BlockTrailerSize)
		if err != nil {
			return types.LeafSubNodeTreeEntry[W]{}, fmt.Errorf("failed to read sub-node block at %v: %w", entry.Ref.Index, err)
		}

		_, leafEntries, _, leafErr := w.subNodes.ReadLeafBlock(raw)
		if leafErr == nil {
			for _, e := range leafEntries {
				if e.NodeID == nodeID {
					return e, nil
				}
			}
			return types.LeafSubNodeTreeEntry[W]{}, types.NewNdbError(types.SubNodeNotFound, int64(nodeID))
		}

		_, entries, _, interErr := w.subNodes.ReadIntermediateBlock(raw)
		if interErr != nil {
			return types.LeafSubNodeTreeEntry[W]{}, fmt.Errorf("failed to parse sub-node block as leaf or intermediate: %w", interErr)
		}

		idx := sort.Search(len(entries), func(i int) bool {
			return entries[i].NodeID > nodeID
		})
		if idx == 0 {
			return types.LeafSubNodeTreeEntry[W]{}, types.NewNdbError(types.SubNodeNotFound, int64(nodeID))
		}
		current = entries[idx-1].ChildBlockID
	}
}
