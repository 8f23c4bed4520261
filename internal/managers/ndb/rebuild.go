package ndb

import (
	"bytes"
	"fmt"

	"github.com/deploymenttheory/go-pst-ndb/internal/codec"
	"github.com/deploymenttheory/go-pst-ndb/internal/interfaces"
	btreeParsers "github.com/deploymenttheory/go-pst-ndb/internal/parsers/btrees"
	"github.com/deploymenttheory/go-pst-ndb/internal/types"
)

// allocationMapRebuilder implements interfaces.AllocationMapRebuilder.
type allocationMapRebuilder[W types.Width] struct {
	file    *File[W]
	pages   interfaces.BTreePageReader[W]
	variant types.Variant
}

// NewAllocationMapRebuilder creates a rebuilder bound to file.
func NewAllocationMapRebuilder[W types.Width](file *File[W]) interfaces.AllocationMapRebuilder[W] {
	return &allocationMapRebuilder[W]{
		file:    file,
		pages:   btreeParsers.NewBTreePageReader[W](),
		variant: types.VariantFor[W](),
	}
}

// Rebuild walks every page of the node and block B-trees, marks its
// 512-byte footprint allocated in a freshly built bitmap, writes the
// bitmap out as an AMap/PMap/FMap/FPMap chain, and marks the root
// valid. It is a no-op if the root already reports a valid amap.
//
// Leaf data blocks reachable through the two trees are not marked,
// matching the open question recorded for this rebuild: only the
// trees' own pages are accounted for. FMap/FPMap bits are written as
// zero rather than recomputed from the rebuilt AMap, so the rebuilt
// file carries no free-slot density hints; nothing in this package
// recomputes them afterwards.
func (rb *allocationMapRebuilder[W]) Rebuild() error {
	root := rb.file.Root()
	if root.AmapIsValid.Valid() {
		return nil
	}

	fileSize := uint64(root.FileSize.Index())
	if fileSize == 0 {
		return types.NewNdbError(types.AllocationMapPageNotFound, 0)
	}

	totalBits := (fileSize + 63) / 64
	bitmap := make([]byte, (totalBits+7)/8)
	markRange(bitmap, 0, uint64(types.HeaderSize[W]()))
	markRange(bitmap, 0, uint64(types.AmapFirstOffset))

	seen := make(map[uint64]bool)
	if err := rb.markBTree(root.NodeBTreeRoot.Index, bitmap, seen); err != nil {
		return fmt.Errorf("failed to walk node b-tree for rebuild: %w", err)
	}
	if err := rb.markBTree(root.BlockBTreeRoot.Index, bitmap, seen); err != nil {
		return fmt.Errorf("failed to walk block b-tree for rebuild: %w", err)
	}

	freeBytes, err := rb.writeChain(bitmap, totalBits)
	if err != nil {
		return err
	}

	writer := rb.file.RootWriter()
	writer.SetAmapStatus(types.AmapValid)
	writer.SetAmapFreeSize(types.NewByteIndex[W](W(freeBytes)))
	return rb.file.FinishWrite()
}

// markBTree recursively marks the footprint of every page of the
// B-tree rooted at ref, descending through intermediate pages and
// stopping at leaves. Pages already visited (shared across the two
// trees, or revisited through a malformed cycle) are skipped.
func (rb *allocationMapRebuilder[W]) markBTree(ref types.ByteIndex[W], bitmap []byte, seen map[uint64]bool) error {
	offset := uint64(ref.Index())
	if seen[offset] {
		return nil
	}
	seen[offset] = true
	markRange(bitmap, offset, types.PageSize)

	page, err := rb.file.ReadAt(ref, types.PageSize)
	if err != nil {
		return fmt.Errorf("failed to read b-tree page at offset %d: %w", offset, err)
	}

	entries, _, _, err := rb.pages.ReadIntermediatePage(page)
	if err != nil {
		// Not an intermediate page (or malformed): its own footprint is
		// already marked above, and a leaf has no children to descend into.
		return nil
	}
	for _, e := range entries {
		if err := rb.markBTree(e.Child.Index, bitmap, seen); err != nil {
			return err
		}
	}
	return nil
}

// writeChain serializes bitmap into a fresh AMap page chain (one AMap
// page per MapBitsSize-byte group) followed by one PMap, FMap, and
// FPMap page, writing each through the file's writer. It returns the
// number of still-free bytes reported by the bitmap.
func (rb *allocationMapRebuilder[W]) writeChain(bitmap []byte, totalBits uint64) (uint64, error) {
	var freeBytes uint64
	for bit := uint64(0); bit < totalBits; bit++ {
		if bitmap[bit/8]&(1<<(bit%8)) == 0 {
			freeBytes += 64
		}
	}

	cursor := uint64(types.AmapFirstOffset)
	for start := 0; start < len(bitmap); start += types.MapBitsSize {
		end := start + types.MapBitsSize
		if end > len(bitmap) {
			end = len(bitmap)
		}
		chunk := make([]byte, types.MapBitsSize)
		copy(chunk, bitmap[start:end])

		page, err := rb.buildAllocationPage(types.PageTypeAllocationMap, chunk)
		if err != nil {
			return 0, err
		}
		if err := rb.file.WriteAt(types.NewByteIndex[W](W(cursor)), page); err != nil {
			return 0, fmt.Errorf("failed to write amap page at %d: %w", cursor, err)
		}
		cursor += types.PageSize
	}

	onesBits := make([]byte, types.MapBitsSize)
	for i := range onesBits {
		onesBits[i] = 0xFF
	}
	zeroBits := make([]byte, types.MapBitsSize)

	for _, step := range []struct {
		pageType types.PageType
		bits     []byte
	}{
		{types.PageTypeAllocationPageMap, onesBits},
		{types.PageTypeFreeMap, zeroBits},
		{types.PageTypeFreePageMap, zeroBits},
	} {
		page, err := rb.buildAllocationPage(step.pageType, step.bits)
		if err != nil {
			return 0, err
		}
		if err := rb.file.WriteAt(types.NewByteIndex[W](W(cursor)), page); err != nil {
			return 0, fmt.Errorf("failed to write %s page at %d: %w", step.pageType, cursor, err)
		}
		cursor += types.PageSize
	}

	return freeBytes, nil
}

// buildAllocationPage assembles a full 512-byte allocation-family page
// from a MapBitsSize-byte logical bitmap chunk and a trailer carrying
// pageType and a freshly computed crc. ANSI pages get 4 extra
// zero-padded payload bytes before the (smaller) trailer, matching how
// AllocationPageReader reads a variant-sized payload region back out.
func (rb *allocationMapRebuilder[W]) buildAllocationPage(pageType types.PageType, bits []byte) ([]byte, error) {
	payloadLen := types.PageSize - rb.variant.PageTrailerSize
	payload := make([]byte, payloadLen)
	copy(payload, bits)

	crc := codec.CRC32(payload)
	trailer := types.PageTrailer[W]{PageType: pageType, Signature: 0, BlockID: types.BlockID[W]{}, Crc: crc}

	var buf bytes.Buffer
	buf.Write(payload)
	if err := types.WritePageTrailer(&buf, rb.variant, trailer); err != nil {
		return nil, fmt.Errorf("failed to write %s trailer: %w", pageType, err)
	}
	return buf.Bytes(), nil
}

// markRange sets every bit covering [offset, offset+length) in a
// 1-bit-per-64-bytes bitmap.
func markRange(bitmap []byte, offset, length uint64) {
	if length == 0 {
		return
	}
	startBit := offset / 64
	endBit := (offset + length - 1) / 64
	for b := startBit; b <= endBit && b/8 < uint64(len(bitmap)); b++ {
		bitmap[b/8] |= 1 << (b % 8)
	}
}
