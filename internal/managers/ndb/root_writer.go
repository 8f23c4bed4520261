package ndb

import (
	"github.com/deploymenttheory/go-pst-ndb/internal/interfaces"
	"github.com/deploymenttheory/go-pst-ndb/internal/types"
)

// rootWriter implements interfaces.RootWriter over a File's in-memory
// header. Callers must follow a mutation with File.FinishWrite to
// persist the updated header back to disk.
type rootWriter[W types.Width] struct {
	file *File[W]
}

func (w *rootWriter[W]) SetAmapStatus(status types.AmapStatus) {
	w.file.header.Root.AmapIsValid = status
}

func (w *rootWriter[W]) SetAmapFreeSize(size types.ByteIndex[W]) {
	w.file.header.Root.AmapFreeSize = size
}

func (w *rootWriter[W]) SetNodeBTreeRoot(ref types.BlockRef[W]) {
	w.file.header.Root.NodeBTreeRoot = ref
}

func (w *rootWriter[W]) SetBlockBTreeRoot(ref types.BlockRef[W]) {
	w.file.header.Root.BlockBTreeRoot = ref
}

var _ interfaces.RootWriter[uint64] = (*rootWriter[uint64])(nil)
