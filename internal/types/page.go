package types

import (
	"io"
)

// PageSize is the fixed size, in bytes, of every page in the node
// database: allocation-family pages, density list, and B-tree pages.
const PageSize = 512

// PageType tags the last bytes of a page (duplicated on disk, both
// copies must agree on read).
type PageType uint8

const (
	PageTypeAllocationMap PageType = iota + 1
	PageTypeAllocationPageMap
	PageTypeFreeMap
	PageTypeFreePageMap
	PageTypeDensityList
	PageTypeNodeBTree
	PageTypeBlockBTree
)

func (t PageType) String() string {
	switch t {
	case PageTypeAllocationMap:
		return "AMap"
	case PageTypeAllocationPageMap:
		return "PMap"
	case PageTypeFreeMap:
		return "FMap"
	case PageTypeFreePageMap:
		return "FPMap"
	case PageTypeDensityList:
		return "DensityList"
	case PageTypeNodeBTree:
		return "NodeBTree"
	case PageTypeBlockBTree:
		return "BlockBTree"
	default:
		return "Unknown"
	}
}

// PageTrailer is the fixed tail of every 512-byte page. The page-type
// byte is duplicated on disk; field order after the signature differs
// by variant (ANSI writes block-id before crc, Unicode writes crc
// before block-id), which is handled by ReadPageTrailer/WritePageTrailer
// rather than by this struct's field order.
type PageTrailer[W Width] struct {
	PageType  PageType
	Signature uint16
	BlockID   BlockID[W]
	Crc       uint32
}

// ReadPageTrailer reads a page trailer from the tail of a page buffer
// already positioned at the trailer's first byte.
func ReadPageTrailer[W Width](r io.Reader, v Variant) (PageTrailer[W], error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return PageTrailer[W]{}, err
	}
	pageType, repeat := buf[0], buf[1]
	if pageType != repeat {
		return PageTrailer[W]{}, NewNdbError(UnexpectedPageType, int64(pageType))
	}

	sigBuf := make([]byte, 2)
	if _, err := io.ReadFull(r, sigBuf); err != nil {
		return PageTrailer[W]{}, err
	}
	signature := uint16(sigBuf[0]) | uint16(sigBuf[1])<<8

	var (
		blockID BlockID[W]
		crc     uint32
		err     error
	)
	if v.Unicode {
		crc, err = readUint32(r)
		if err != nil {
			return PageTrailer[W]{}, err
		}
		blockID, err = ReadBlockID[W](r)
		if err != nil {
			return PageTrailer[W]{}, err
		}
	} else {
		blockID, err = ReadBlockID[W](r)
		if err != nil {
			return PageTrailer[W]{}, err
		}
		crc, err = readUint32(r)
		if err != nil {
			return PageTrailer[W]{}, err
		}
	}

	return PageTrailer[W]{
		PageType:  PageType(pageType),
		Signature: signature,
		BlockID:   blockID,
		Crc:       crc,
	}, nil
}

// WritePageTrailer writes a page trailer in variant-appropriate field order.
func WritePageTrailer[W Width](w io.Writer, v Variant, t PageTrailer[W]) error {
	if _, err := w.Write([]byte{byte(t.PageType), byte(t.PageType)}); err != nil {
		return err
	}
	if _, err := w.Write([]byte{byte(t.Signature), byte(t.Signature >> 8)}); err != nil {
		return err
	}
	if v.Unicode {
		if err := writeUint32(w, t.Crc); err != nil {
			return err
		}
		return WriteBlockID(w, t.BlockID)
	}
	if err := WriteBlockID(w, t.BlockID); err != nil {
		return err
	}
	return writeUint32(w, t.Crc)
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24, nil
}

func writeUint32(w io.Writer, v uint32) error {
	buf := [4]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
	_, err := w.Write(buf[:])
	return err
}

// MapBitsSize is the number of map_bits bytes carried by every
// allocation-family page: PageSize minus the largest trailer (the
// Unicode one), kept constant across variants so a single buffer size
// serves both. ANSI pages have a 12-byte trailer and so carry 4 more
// payload bytes than MapBitsSize; those extra bytes are left zero.
const MapBitsSize = PageSize - 16

// AmapDataSize is the number of bytes of file space one AMap page
// describes: one bit per 64-byte slot, across MapBitsSize*8 bits.
const AmapDataSize = MapBitsSize * 8 * 64

// AmapFirstOffset is the file offset of the first AMap page.
const AmapFirstOffset = 0x4400

// PMapFirstOffset is the file offset of the first PMap page.
const PMapFirstOffset = AmapFirstOffset + PageSize

// PMapStride is the number of AMap pages one PMap page describes.
const PMapStride = 8

// FMapFirstStride and FMapStride are the first and recurring spacing,
// in AMap-page units, between FMap pages.
const (
	FMapFirstStride = 128
	FMapStride      = MapBitsSize
)

// FPMapFirstStride and FPMapStride are the first and recurring spacing,
// in AMap-page units, between FPMap pages.
const (
	FPMapFirstStride = 128 * 64
	FPMapStride      = MapBitsSize * 64
)

// DensityListEntry is one backfill hint: the byte offset of an AMap
// page and the number of free 64-byte slots it currently reports,
// cached here so the allocator can pick a page likely to have room
// without scanning every AMap page's bits.
type DensityListEntry[W Width] struct {
	AmapPageOffset ByteIndex[W]
	FreeSlotCount  uint32
}

// ReadDensityListEntry reads one density list entry.
func ReadDensityListEntry[W Width](r io.Reader) (DensityListEntry[W], error) {
	offset, err := ReadByteIndex[W](r)
	if err != nil {
		return DensityListEntry[W]{}, err
	}
	count, err := readUint32(r)
	if err != nil {
		return DensityListEntry[W]{}, err
	}
	return DensityListEntry[W]{AmapPageOffset: offset, FreeSlotCount: count}, nil
}

// WriteDensityListEntry writes one density list entry.
func WriteDensityListEntry[W Width](w io.Writer, e DensityListEntry[W]) error {
	if err := WriteByteIndex(w, e.AmapPageOffset); err != nil {
		return err
	}
	return writeUint32(w, e.FreeSlotCount)
}
