package interfaces

import "github.com/deploymenttheory/go-pst-ndb/internal/types"

// DataTreeWalker flattens a node's data block (leaf or intermediate)
// into its full, ordered byte stream.
type DataTreeWalker[W types.Width] interface {
	// Read returns the complete decoded byte stream rooted at blockID.
	Read(blockID types.BlockID[W]) ([]byte, error)
}

// SubNodeTreeWalker resolves entries of a node's sub-node tree.
type SubNodeTreeWalker[W types.Width] interface {
	// Find descends the sub-node tree rooted at root looking for nodeID,
	// using "last entry with node id <= target" at every intermediate
	// level and an exact linear-scan match at the leaf. Returns a
	// SubNodeNotFound NdbError on a miss.
	Find(root types.BlockID[W], nodeID types.NodeID) (types.LeafSubNodeTreeEntry[W], error)
}
