// Package services is the facade layer consumed by the CLI: it wraps
// internal/managers/ndb.File behind request/response-friendly methods
// and defines the seam contracts an eventual LTP (property store) layer
// would consume to resolve node and sub-node data without depending on
// the NDB internals directly.
package services

import "github.com/deploymenttheory/go-pst-ndb/internal/types"

// NodeResolver resolves a logical node id to the data tree bytes backing
// it. This is the seam an LTP layer would implement against: given a
// node id looked up in the node B-tree, fetch its data block id, then
// its data tree's flattened bytes.
type NodeResolver interface {
	ResolveNode(nodeID types.NodeID) ([]byte, error)
}

// SubNodeResolver resolves a (parent node, sub-node id) pair to the data
// tree bytes backing that sub-node entry. Used for multi-valued and
// table-context properties whose payload lives in a node's sub-node
// tree rather than directly in its own data tree.
type SubNodeResolver interface {
	ResolveSubNode(parent types.NodeID, subNodeID types.NodeID) ([]byte, error)
}
