// Package btrees parses the persistent node and block B-tree pages:
// the shared entries-region-plus-tail-plus-trailer page shape, and the
// fixed-width entries each level holds.
package btrees

import (
	"bytes"
	"fmt"

	"github.com/deploymenttheory/go-pst-ndb/internal/codec"
	"github.com/deploymenttheory/go-pst-ndb/internal/interfaces"
	"github.com/deploymenttheory/go-pst-ndb/internal/types"
)

// BTreePageReader implements interfaces.BTreePageReader.
type BTreePageReader[W types.Width] struct {
	variant types.Variant
}

// NewBTreePageReader creates a BTreePageReader for width W.
func NewBTreePageReader[W types.Width]() interfaces.BTreePageReader[W] {
	return &BTreePageReader[W]{variant: types.VariantFor[W]()}
}

// readTailAndTrailer parses a B-tree page's shared framing: entries
// region bytes (unparsed), tail, and trailer, with the crc checked over
// entries-region+tail before the trailer is consulted for anything.
func (r *BTreePageReader[W]) readTailAndTrailer(page []byte) ([]byte, types.BTreePageTail, types.PageTrailer[W], error) {
	if len(page) != types.PageSize {
		return nil, types.BTreePageTail{}, types.PageTrailer[W]{}, fmt.Errorf("b-tree page must be %d bytes, got %d", types.PageSize, len(page))
	}

	entriesRegion := page[:r.variant.BTreeEntriesRegionSize]
	tailSize := r.variant.PageCRCRegionSize - r.variant.BTreeEntriesRegionSize
	tailBytes := page[r.variant.BTreeEntriesRegionSize : r.variant.BTreeEntriesRegionSize+tailSize]

	crcRegion := page[:r.variant.PageCRCRegionSize]
	trailerOffset := types.PageSize - r.variant.PageTrailerSize
	trailer, err := types.ReadPageTrailer[W](bytes.NewReader(page[trailerOffset:]), r.variant)
	if err != nil {
		return nil, types.BTreePageTail{}, types.PageTrailer[W]{}, fmt.Errorf("failed to parse b-tree page trailer: %w", err)
	}
	if !codec.Verify(crcRegion, trailer.Crc) {
		return nil, types.BTreePageTail{}, types.PageTrailer[W]{}, types.NewNdbError(types.InvalidPageCrc, int64(trailer.Crc))
	}
	if trailer.PageType != types.PageTypeNodeBTree && trailer.PageType != types.PageTypeBlockBTree {
		return nil, types.BTreePageTail{}, types.PageTrailer[W]{}, types.NewNdbError(types.UnexpectedPageType, int64(trailer.PageType))
	}

	tail, err := types.ReadBTreePageTail(bytes.NewReader(tailBytes), r.variant)
	if err != nil {
		return nil, types.BTreePageTail{}, types.PageTrailer[W]{}, fmt.Errorf("failed to parse b-tree page tail: %w", err)
	}

	return entriesRegion, tail, trailer, nil
}

func (r *BTreePageReader[W]) validateEntryCounts(tail types.BTreePageTail, maxEntries int) error {
	if int(tail.MaxEntryCount) != maxEntries {
		return types.NewNdbError(types.InvalidBTreeEntryMaxCount, int64(tail.MaxEntryCount))
	}
	if int(tail.EntryCount) > maxEntries {
		return types.NewNdbError(types.InvalidBTreeEntryCount, int64(tail.EntryCount))
	}
	return nil
}

// ReadIntermediatePage parses page as a non-leaf B-tree page.
func (r *BTreePageReader[W]) ReadIntermediatePage(page []byte) ([]types.IntermediateEntry[W], types.BTreePageTail, types.PageTrailer[W], error) {
	entriesRegion, tail, trailer, err := r.readTailAndTrailer(page)
	if err != nil {
		return nil, types.BTreePageTail{}, types.PageTrailer[W]{}, err
	}
	if tail.IsLeaf() {
		return nil, types.BTreePageTail{}, types.PageTrailer[W]{}, types.NewNdbError(types.InvalidBTreePageLevel, int64(tail.Level))
	}
	if int(tail.EntrySize) != r.variant.IntermediateEntrySize {
		return nil, types.BTreePageTail{}, types.PageTrailer[W]{}, types.NewNdbError(types.InvalidBTreeEntrySize, int64(tail.EntrySize))
	}
	maxEntries := r.variant.BTreeEntriesRegionSize / r.variant.IntermediateEntrySize
	if err := r.validateEntryCounts(tail, maxEntries); err != nil {
		return nil, types.BTreePageTail{}, types.PageTrailer[W]{}, err
	}

	reader := bytes.NewReader(entriesRegion)
	entries := make([]types.IntermediateEntry[W], 0, tail.EntryCount)
	for i := uint8(0); i < tail.EntryCount; i++ {
		entry, err := types.ReadIntermediateEntry[W](reader)
		if err != nil {
			return nil, types.BTreePageTail{}, types.PageTrailer[W]{}, fmt.Errorf("failed to parse intermediate entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}
	return entries, tail, trailer, nil
}

// ReadNodeLeafPage parses page as a leaf page of the node B-tree.
func (r *BTreePageReader[W]) ReadNodeLeafPage(page []byte) ([]types.NodeBTreeEntry[W], types.BTreePageTail, types.PageTrailer[W], error) {
	entriesRegion, tail, trailer, err := r.readTailAndTrailer(page)
	if err != nil {
		return nil, types.BTreePageTail{}, types.PageTrailer[W]{}, err
	}
	if !tail.IsLeaf() {
		return nil, types.BTreePageTail{}, types.PageTrailer[W]{}, types.NewNdbError(types.InvalidBTreePageLevel, int64(tail.Level))
	}
	if int(tail.EntrySize) != r.variant.NodeBTreeEntrySize {
		return nil, types.BTreePageTail{}, types.PageTrailer[W]{}, types.NewNdbError(types.InvalidBTreeEntrySize, int64(tail.EntrySize))
	}
	if err := r.validateEntryCounts(tail, r.variant.MaxNodeBTreeEntries()); err != nil {
		return nil, types.BTreePageTail{}, types.PageTrailer[W]{}, err
	}

	reader := bytes.NewReader(entriesRegion)
	entries := make([]types.NodeBTreeEntry[W], 0, tail.EntryCount)
	for i := uint8(0); i < tail.EntryCount; i++ {
		entry, err := types.ReadNodeBTreeEntry[W](reader)
		if err != nil {
			return nil, types.BTreePageTail{}, types.PageTrailer[W]{}, fmt.Errorf("failed to parse node b-tree entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}
	return entries, tail, trailer, nil
}

// ReadBlockLeafPage parses page as a leaf page of the block B-tree.
func (r *BTreePageReader[W]) ReadBlockLeafPage(page []byte) ([]types.BlockBTreeEntry[W], types.BTreePageTail, types.PageTrailer[W], error) {
	entriesRegion, tail, trailer, err := r.readTailAndTrailer(page)
	if err != nil {
		return nil, types.BTreePageTail{}, types.PageTrailer[W]{}, err
	}
	if !tail.IsLeaf() {
		return nil, types.BTreePageTail{}, types.PageTrailer[W]{}, types.NewNdbError(types.InvalidBTreePageLevel, int64(tail.Level))
	}
	if int(tail.EntrySize) != r.variant.BlockBTreeEntrySize {
		return nil, types.BTreePageTail{}, types.PageTrailer[W]{}, types.NewNdbError(types.InvalidBTreeEntrySize, int64(tail.EntrySize))
	}
	if err := r.validateEntryCounts(tail, r.variant.MaxBlockBTreeEntries()); err != nil {
		return nil, types.BTreePageTail{}, types.PageTrailer[W]{}, err
	}

	reader := bytes.NewReader(entriesRegion)
	entries := make([]types.BlockBTreeEntry[W], 0, tail.EntryCount)
	for i := uint8(0); i < tail.EntryCount; i++ {
		entry, err := types.ReadBlockBTreeEntry[W](reader)
		if err != nil {
			return nil, types.BTreePageTail{}, types.PageTrailer[W]{}, fmt.Errorf("failed to parse block b-tree entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}
	return entries, tail, trailer, nil
}
