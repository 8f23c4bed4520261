// Package streams flattens the two tree-shaped byte stores (the data
// tree rooted at a node's data block id, and the sub-node tree rooted
// at a node's sub-node block id) into linear results.
package streams

import (
	"fmt"

	"github.com/deploymenttheory/go-pst-ndb/internal/codec"
	"github.com/deploymenttheory/go-pst-ndb/internal/interfaces"
	"github.com/deploymenttheory/go-pst-ndb/internal/parsers/blocks"
	"github.com/deploymenttheory/go-pst-ndb/internal/types"
)

// dataTreeWalker implements interfaces.DataTreeWalker.
type dataTreeWalker[W types.Width] struct {
	blockRoot   types.BlockRef[W]
	blockNav    interfaces.BlockBTreeNavigator[W]
	source      interfaces.PageSource[W]
	dataBlocks  interfaces.DataBlockReader[W]
	treeBlocks  interfaces.DataTreeBlockReader[W]
	cryptMethod types.CryptMethod
	variant     types.Variant
}

// NewDataTreeWalker creates a DataTreeWalker that resolves block ids
// through blockNav (rooted at blockRoot) and fetches raw bytes from
// source, decoding leaf payloads with cryptMethod.
func NewDataTreeWalker[W types.Width](
	blockRoot types.BlockRef[W],
	blockNav interfaces.BlockBTreeNavigator[W],
	source interfaces.PageSource[W],
	cryptMethod types.CryptMethod,
) interfaces.DataTreeWalker[W] {
	return &dataTreeWalker[W]{
		blockRoot:   blockRoot,
		blockNav:    blockNav,
		source:      source,
		dataBlocks:  blocks.NewDataBlockReader[W](),
		treeBlocks:  blocks.NewDataTreeBlockReader[W](),
		cryptMethod: cryptMethod,
		variant:     types.VariantFor[W](),
	}
}

// Read returns the complete decoded byte stream rooted at blockID.
func (w *dataTreeWalker[W]) Read(blockID types.BlockID[W]) ([]byte, error) {
	return w.readBlock(blockID, true)
}

func (w *dataTreeWalker[W]) readBlock(id types.BlockID[W], isRoot bool) ([]byte, error) {
	entry, err := w.blockNav.Find(w.blockRoot, id)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve block %v in block b-tree: %w", id, err)
	}

	raw, err := w.source.ReadAt(entry.Ref.Index, types.BlockSize(int(entry.Size))+w.variant.BlockTrailerSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read block at %v: %w", entry.Ref.Index, err)
	}

	if !id.IsInternal() {
		block, err := w.dataBlocks.ReadDataBlock(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse leaf data block: %w", err)
		}
		return codec.Decode(w.cryptMethod, uint32(id.Raw()), block.Data), nil
	}

	header, children, _, err := w.treeBlocks.ReadDataTreeBlock(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse intermediate data tree block: %w", err)
	}

	var out []byte
	for _, child := range children {
		childData, err := w.readBlock(child, false)
		if err != nil {
			return nil, err
		}
		out = append(out, childData...)
	}

	if isRoot && uint32(len(out)) != header.TotalSize {
		return nil, types.NewNdbError(types.InvalidBlockSize, int64(len(out)))
	}

	return out, nil
}
