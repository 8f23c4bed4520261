package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-pst-ndb/internal/interfaces"
	"github.com/deploymenttheory/go-pst-ndb/internal/managers/ndb"
	btreeParsers "github.com/deploymenttheory/go-pst-ndb/internal/parsers/btrees"
	"github.com/deploymenttheory/go-pst-ndb/internal/types"
)

// PstService is the width-erased facade the CLI and any future LTP
// layer drive: the underlying file may be the ANSI (32-bit) or Unicode
// (64-bit) variant, resolved once at Open and hidden behind this
// interface from then on.
type PstService interface {
	Info() (InfoReport, error)
	Verify() (VerifyReport, error)
	DumpBTree(tree string) (DumpBTreeReport, error)
	Cat(nodeID uint32) ([]byte, error)
	Rebuild() (RebuildReport, error)
	Close() error
}

// Open opens path, detecting its width variant by trying Unicode first
// and falling back to ANSI on a header parse failure, the same
// read-leaf-first-fall-back-to-intermediate idiom used throughout the
// parsers and middleware layers.
func Open(path string) (PstService, error) {
	if f, err := ndb.Open[uint64](path); err == nil {
		return newService[uint64](f), nil
	}
	f, err := ndb.Open[uint32](path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s as either width variant: %w", path, err)
	}
	return newService[uint32](f), nil
}

// service implements PstService and the NodeResolver/SubNodeResolver
// seam over a single open file of width W.
type service[W types.Width] struct {
	file      *ndb.File[W]
	pages     interfaces.BTreePageReader[W]
	sessionID uuid.UUID
}

func newService[W types.Width](file *ndb.File[W]) *service[W] {
	return &service[W]{
		file:      file,
		pages:     btreeParsers.NewBTreePageReader[W](),
		sessionID: uuid.New(),
	}
}

// Info reports the file header's summary fields.
func (s *service[W]) Info() (InfoReport, error) {
	root := s.file.Root()
	return InfoReport{
		SessionID:        s.sessionID,
		Unicode:          types.VariantFor[W]().Unicode,
		FileSize:         uint64(root.FileSize.Index()),
		CryptMethod:      cryptMethodName(s.file.CryptMethod()),
		AmapValid:        root.AmapIsValid.Valid(),
		AmapFreeBytes:    uint64(root.AmapFreeSize.Index()),
		NodeBTreeOffset:  uint64(root.NodeBTreeRoot.Index.Index()),
		BlockBTreeOffset: uint64(root.BlockBTreeRoot.Index.Index()),
	}, nil
}

// Verify walks every page of both B-trees, recording a message for
// each one that fails to parse (bad CRC, bad entry count, wrong level)
// instead of stopping at the first failure, so a single run surfaces
// every structural problem in the file.
func (s *service[W]) Verify() (VerifyReport, error) {
	report := VerifyReport{SessionID: s.sessionID}
	root := s.file.Root()

	if err := s.walkVerify(root.NodeBTreeRoot.Index, true, &report); err != nil {
		report.Errors = append(report.Errors, err.Error())
	}
	if err := s.walkVerify(root.BlockBTreeRoot.Index, false, &report); err != nil {
		report.Errors = append(report.Errors, err.Error())
	}
	return report, nil
}

func (s *service[W]) walkVerify(offset types.ByteIndex[W], isNode bool, report *VerifyReport) error {
	page, err := s.file.ReadAt(offset, types.PageSize)
	if err != nil {
		return fmt.Errorf("failed to read b-tree page at %d: %w", offset.Index(), err)
	}

	entries, _, _, err := s.pages.ReadIntermediatePage(page)
	if err == nil {
		for _, e := range entries {
			if cerr := s.walkVerify(e.Child.Index, isNode, report); cerr != nil {
				report.Errors = append(report.Errors, cerr.Error())
			}
		}
		return nil
	}

	if isNode {
		if _, _, _, lerr := s.pages.ReadNodeLeafPage(page); lerr != nil {
			return fmt.Errorf("node b-tree page at %d: %w", offset.Index(), lerr)
		}
		report.NodePagesRead++
		return nil
	}
	if _, _, _, lerr := s.pages.ReadBlockLeafPage(page); lerr != nil {
		return fmt.Errorf("block b-tree page at %d: %w", offset.Index(), lerr)
	}
	report.BlockPagesRead++
	return nil
}

// DumpBTree lists every leaf entry of the node or block B-tree, in
// left-to-right leaf order.
func (s *service[W]) DumpBTree(tree string) (DumpBTreeReport, error) {
	report := DumpBTreeReport{SessionID: s.sessionID, Tree: tree}
	root := s.file.Root()

	switch tree {
	case "node":
		err := s.collectNodeLeaves(root.NodeBTreeRoot.Index, &report)
		return report, err
	case "block":
		err := s.collectBlockLeaves(root.BlockBTreeRoot.Index, &report)
		return report, err
	default:
		return report, fmt.Errorf("unknown b-tree %q: want \"node\" or \"block\"", tree)
	}
}

func (s *service[W]) collectNodeLeaves(offset types.ByteIndex[W], report *DumpBTreeReport) error {
	page, err := s.file.ReadAt(offset, types.PageSize)
	if err != nil {
		return fmt.Errorf("failed to read node b-tree page at %d: %w", offset.Index(), err)
	}
	if entries, _, _, err := s.pages.ReadIntermediatePage(page); err == nil {
		for _, e := range entries {
			if err := s.collectNodeLeaves(e.Child.Index, report); err != nil {
				return err
			}
		}
		return nil
	}
	leafEntries, _, _, err := s.pages.ReadNodeLeafPage(page)
	if err != nil {
		return fmt.Errorf("failed to parse node b-tree page at %d: %w", offset.Index(), err)
	}
	for _, e := range leafEntries {
		report.Entries = append(report.Entries, BTreeEntrySummary{
			Key:      uint64(e.NodeID),
			DataRef:  uint64(e.DataBlockID.Raw()),
			SubRef:   uint64(e.SubNodeBlockID.Raw()),
			HasExtra: !e.SubNodeBlockID.IsZero(),
		})
	}
	return nil
}

func (s *service[W]) collectBlockLeaves(offset types.ByteIndex[W], report *DumpBTreeReport) error {
	page, err := s.file.ReadAt(offset, types.PageSize)
	if err != nil {
		return fmt.Errorf("failed to read block b-tree page at %d: %w", offset.Index(), err)
	}
	if entries, _, _, err := s.pages.ReadIntermediatePage(page); err == nil {
		for _, e := range entries {
			if err := s.collectBlockLeaves(e.Child.Index, report); err != nil {
				return err
			}
		}
		return nil
	}
	leafEntries, _, _, err := s.pages.ReadBlockLeafPage(page)
	if err != nil {
		return fmt.Errorf("failed to parse block b-tree page at %d: %w", offset.Index(), err)
	}
	for _, e := range leafEntries {
		report.Entries = append(report.Entries, BTreeEntrySummary{
			Key:     uint64(e.Key()),
			DataRef: uint64(e.Ref.Index.Index()),
		})
	}
	return nil
}

// Cat streams the complete decoded byte stream backing nodeID's data tree.
func (s *service[W]) Cat(nodeID uint32) ([]byte, error) {
	return s.ResolveNode(types.NodeID(nodeID))
}

// Rebuild runs the allocation-map rebuild procedure, reporting whether
// it was actually necessary.
func (s *service[W]) Rebuild() (RebuildReport, error) {
	root := s.file.Root()
	if root.AmapIsValid.Valid() {
		return RebuildReport{SessionID: s.sessionID, AlreadyValid: true, AmapFreeBytes: uint64(root.AmapFreeSize.Index())}, nil
	}
	rebuilder := ndb.NewAllocationMapRebuilder[W](s.file)
	if err := rebuilder.Rebuild(); err != nil {
		return RebuildReport{}, err
	}
	return RebuildReport{SessionID: s.sessionID, AmapFreeBytes: uint64(s.file.Root().AmapFreeSize.Index())}, nil
}

// Close releases the underlying file handle.
func (s *service[W]) Close() error {
	return s.file.Close()
}

// ResolveNode implements NodeResolver: find nodeID in the node B-tree,
// then flatten its data tree.
func (s *service[W]) ResolveNode(nodeID types.NodeID) ([]byte, error) {
	entry, err := s.file.NodeBTree().Find(s.file.Root().NodeBTreeRoot, nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve node %v: %w", nodeID, err)
	}
	return s.file.DataTrees().Read(entry.DataBlockID)
}

// ResolveSubNode implements SubNodeResolver: find parent in the node
// B-tree, descend its sub-node tree for subNodeID, then flatten that
// leaf entry's data tree.
func (s *service[W]) ResolveSubNode(parent types.NodeID, subNodeID types.NodeID) ([]byte, error) {
	parentEntry, err := s.file.NodeBTree().Find(s.file.Root().NodeBTreeRoot, parent)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve parent node %v: %w", parent, err)
	}
	if parentEntry.SubNodeBlockID.IsZero() {
		return nil, types.NewNdbError(types.SubNodeNotFound, int64(subNodeID))
	}
	subEntry, err := s.file.SubNodeTrees().Find(parentEntry.SubNodeBlockID, subNodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sub-node %v of parent %v: %w", subNodeID, parent, err)
	}
	return s.file.DataTrees().Read(subEntry.DataBlockID)
}

var (
	_ PstService      = (*service[uint64])(nil)
	_ PstService      = (*service[uint32])(nil)
	_ NodeResolver    = (*service[uint64])(nil)
	_ SubNodeResolver = (*service[uint64])(nil)
)

func cryptMethodName(m types.CryptMethod) string {
	switch m {
	case types.CryptNone:
		return "none"
	case types.CryptPermute:
		return "permute"
	case types.CryptCyclic:
		return "cyclic"
	default:
		return "unknown"
	}
}
