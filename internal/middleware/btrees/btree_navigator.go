// Package btrees implements lookup over the persistent node and block
// B-trees: given a root reference and a page source, descend to the
// leaf holding a given key.
package btrees

import (
	"fmt"
	"sort"

	"github.com/deploymenttheory/go-pst-ndb/internal/interfaces"
	"github.com/deploymenttheory/go-pst-ndb/internal/parsers/btrees"
	"github.com/deploymenttheory/go-pst-ndb/internal/types"
)

// nodeBTreeNavigator implements interfaces.NodeBTreeNavigator.
type nodeBTreeNavigator[W types.Width] struct {
	source interfaces.PageSource[W]
	pages  interfaces.BTreePageReader[W]
}

// NewNodeBTreeNavigator creates a navigator over the node B-tree,
// fetching pages through source.
func NewNodeBTreeNavigator[W types.Width](source interfaces.PageSource[W]) interfaces.NodeBTreeNavigator[W] {
	return &nodeBTreeNavigator[W]{source: source, pages: btrees.NewBTreePageReader[W]()}
}

// Find descends from root to the leaf entry for id. At each
// intermediate level it follows the last entry whose key is <= id,
// since an intermediate entry's key is the smallest key reachable
// through its child (the real on-disk BTENTRY convention): descending
// on the first entry >= id would walk past the correct child whenever
// id falls strictly between two intermediate keys.
func (n *nodeBTreeNavigator[W]) Find(root types.BlockRef[W], id types.NodeID) (types.NodeBTreeEntry[W], error) {
	ref := root
	for {
		page, err := n.source.ReadAt(ref.Index, types.PageSize)
		if err != nil {
			return types.NodeBTreeEntry[W]{}, fmt.Errorf("failed to read b-tree page: %w", err)
		}

		leafEntries, tail, _, err := n.pages.ReadNodeLeafPage(page)
		if err == nil {
			_ = tail
			for _, e := range leafEntries {
				if e.NodeID == id {
					return e, nil
				}
			}
			return types.NodeBTreeEntry[W]{}, types.NewNdbError(types.BTreeEntryNotFound, int64(id))
		}

		entries, _, _, ierr := n.pages.ReadIntermediatePage(page)
		if ierr != nil {
			return types.NodeBTreeEntry[W]{}, fmt.Errorf("failed to parse b-tree page as leaf or intermediate: %w", ierr)
		}

		idx := sort.Search(len(entries), func(i int) bool {
			return uint32(entries[i].Key) > uint32(id)
		})
		if idx == 0 {
			return types.NodeBTreeEntry[W]{}, types.NewNdbError(types.BTreeEntryNotFound, int64(id))
		}
		ref = entries[idx-1].Child
	}
}

// blockBTreeNavigator implements interfaces.BlockBTreeNavigator.
type blockBTreeNavigator[W types.Width] struct {
	source interfaces.PageSource[W]
	pages  interfaces.BTreePageReader[W]
}

// NewBlockBTreeNavigator creates a navigator over the block B-tree,
// fetching pages through source.
func NewBlockBTreeNavigator[W types.Width](source interfaces.PageSource[W]) interfaces.BlockBTreeNavigator[W] {
	return &blockBTreeNavigator[W]{source: source, pages: btrees.NewBTreePageReader[W]()}
}

// Find descends from root to the leaf entry for id, comparing raw
// block ids (mutation-counter bit cleared) throughout. As with the
// node B-tree, an intermediate entry's key is the smallest key
// reachable through its child, so descent follows the last entry
// whose key is <= target.
func (n *blockBTreeNavigator[W]) Find(root types.BlockRef[W], id types.BlockID[W]) (types.BlockBTreeEntry[W], error) {
	target := id.Raw()
	ref := root
	for {
		page, err := n.source.ReadAt(ref.Index, types.PageSize)
		if err != nil {
			return types.BlockBTreeEntry[W]{}, fmt.Errorf("failed to read b-tree page: %w", err)
		}

		leafEntries, _, _, err := n.pages.ReadBlockLeafPage(page)
		if err == nil {
			for _, e := range leafEntries {
				if e.Key() == target {
					return e, nil
				}
			}
			return types.BlockBTreeEntry[W]{}, types.NewNdbError(types.BTreeEntryNotFound, int64(target))
		}

		entries, _, _, ierr := n.pages.ReadIntermediatePage(page)
		if ierr != nil {
			return types.BlockBTreeEntry[W]{}, fmt.Errorf("failed to parse b-tree page as leaf or intermediate: %w", ierr)
		}

		idx := sort.Search(len(entries), func(i int) bool {
			return entries[i].Key > target
		})
		if idx == 0 {
			return types.BlockBTreeEntry[W]{}, types.NewNdbError(types.BTreeEntryNotFound, int64(target))
		}
		ref = entries[idx-1].Child
	}
}
