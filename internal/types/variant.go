package types

// Variant captures the handful of constants that differ between the
// ANSI and Unicode width variants: trailer sizes, B-tree fan-out, and
// page-trailer field order. It is resolved once, at file open, from the
// W type parameter threaded through every NDB structure — callers never
// branch on a runtime "which variant is this" enum in a hot path.
type Variant struct {
	// Unicode is true for the 64-bit width, false for the 32-bit ("ANSI") width.
	Unicode bool

	// PageTrailerSize is the size in bytes of a page trailer: 16 for
	// Unicode, 12 for ANSI.
	PageTrailerSize int

	// BlockTrailerSize is the size in bytes of a block trailer: 16 for
	// Unicode, 12 for ANSI.
	BlockTrailerSize int

	// BTreeEntriesRegionSize is the number of bytes available for
	// fixed-width B-tree entries before the page tail: 488 for Unicode,
	// 496 for ANSI.
	BTreeEntriesRegionSize int

	// PageCRCRegionSize is the number of leading page bytes covered by
	// the page trailer's CRC: 496 for Unicode, 500 for ANSI.
	PageCRCRegionSize int

	// NodeBTreeEntrySize and BlockBTreeEntrySize are the fixed-width
	// entry sizes for the two persistent B-trees: (32, 24) for Unicode,
	// (16, 12) for ANSI.
	NodeBTreeEntrySize  int
	BlockBTreeEntrySize int

	// IntermediateEntrySize is the size of a (key, child_ref) pair in a
	// B-tree intermediate page: 24 for Unicode, 12 for ANSI.
	IntermediateEntrySize int

	// DataTreeEntrySize is the size of one child BlockId inside an
	// X/XX intermediate data-tree block: 8 for Unicode, 4 for ANSI.
	DataTreeEntrySize int

	// SubNodeIntermediateEntrySize and SubNodeLeafEntrySize are SI/SL
	// entry sizes: (16, 24) for Unicode, (8, 12) for ANSI.
	SubNodeIntermediateEntrySize int
	SubNodeLeafEntrySize         int

	// SubNodeHeaderSize is the size of the SI/SL block header: 8 for
	// Unicode (includes a zero u32 padding field), 4 for ANSI.
	SubNodeHeaderSize int
}

// VariantFor resolves the Variant constants for width W.
func VariantFor[W Width]() Variant {
	if isUnicode[W]() {
		return Variant{
			Unicode:                      true,
			PageTrailerSize:              16,
			BlockTrailerSize:             16,
			BTreeEntriesRegionSize:       488,
			PageCRCRegionSize:            496,
			NodeBTreeEntrySize:           32,
			BlockBTreeEntrySize:          24,
			IntermediateEntrySize:        24,
			DataTreeEntrySize:            8,
			SubNodeIntermediateEntrySize: 16,
			SubNodeLeafEntrySize:         24,
			SubNodeHeaderSize:            8,
		}
	}
	return Variant{
		Unicode:                      false,
		PageTrailerSize:              12,
		BlockTrailerSize:             12,
		BTreeEntriesRegionSize:       496,
		PageCRCRegionSize:            500,
		NodeBTreeEntrySize:           16,
		BlockBTreeEntrySize:          12,
		IntermediateEntrySize:        12,
		DataTreeEntrySize:            4,
		SubNodeIntermediateEntrySize: 8,
		SubNodeLeafEntrySize:         12,
		SubNodeHeaderSize:            4,
	}
}

// MaxNodeBTreeEntries returns the fan-out of a node B-tree page: 15 for
// Unicode (488/32), 31 for ANSI (496/16).
func (v Variant) MaxNodeBTreeEntries() int {
	return v.BTreeEntriesRegionSize / v.NodeBTreeEntrySize
}

// MaxBlockBTreeEntries returns the fan-out of a block B-tree page: 20
// for Unicode (488/24), 41 for ANSI (496/12).
func (v Variant) MaxBlockBTreeEntries() int {
	return v.BTreeEntriesRegionSize / v.BlockBTreeEntrySize
}
