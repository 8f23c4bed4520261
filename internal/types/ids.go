package types

import (
	"encoding/binary"
	"io"
)

// BlockID is a tagged identifier naming either a data block (leaf,
// external) or an X/XX/SI/SL block (internal). Bit 1 carries the
// internal/external flag; bit 0 is a mutation counter that is written
// to disk but ignored on equality; the remaining high bits hold the
// index minted at allocation time.
type BlockID[W Width] struct {
	value W
}

// NewBlockID constructs a BlockID, failing with InvalidBlockIndex if
// index does not fit in the bits left over once the internal flag and
// mutation counter are reserved.
func NewBlockID[W Width](internal bool, index W) (BlockID[W], error) {
	if index > maxIndex[W]() {
		return BlockID[W]{}, NewNdbError(InvalidBlockIndex, int64(index))
	}
	v := index << 2
	if internal {
		v |= 0x2
	}
	return BlockID[W]{value: v}, nil
}

// IsInternal reports whether this id names an X/XX/SI/SL block (true)
// or a leaf data block (false).
func (b BlockID[W]) IsInternal() bool {
	return b.value&0x2 != 0
}

// Index returns the allocation index encoded in the id.
func (b BlockID[W]) Index() W {
	return b.value >> 2
}

// Raw returns the id's on-disk value with the mutation counter bit
// cleared, suitable for use as a B-tree key or map lookup key.
func (b BlockID[W]) Raw() W {
	return b.value &^ 1
}

// Equal compares two block ids ignoring the mutation-counter bit.
func (b BlockID[W]) Equal(other BlockID[W]) bool {
	return b.Raw() == other.Raw()
}

// IsZero reports whether this id is the all-zero sentinel used to mean
// "no sub-node block" in an SL entry.
func (b BlockID[W]) IsZero() bool {
	return b.value == 0
}

// ReadBlockID reads a width-W block id, little-endian, from r.
func ReadBlockID[W Width](r io.Reader) (BlockID[W], error) {
	v, err := readUint[W](r)
	if err != nil {
		return BlockID[W]{}, err
	}
	return BlockID[W]{value: v}, nil
}

// WriteBlockID writes a width-W block id, little-endian, to w.
func WriteBlockID[W Width](w io.Writer, b BlockID[W]) error {
	return writeUint(w, b.value)
}

// ByteIndex is an absolute byte offset into the file, width-W.
type ByteIndex[W Width] struct {
	value W
}

// NewByteIndex wraps a raw offset as a ByteIndex.
func NewByteIndex[W Width](index W) ByteIndex[W] {
	return ByteIndex[W]{value: index}
}

// Index returns the raw offset.
func (b ByteIndex[W]) Index() W {
	return b.value
}

// ReadByteIndex reads a width-W byte index, little-endian, from r.
func ReadByteIndex[W Width](r io.Reader) (ByteIndex[W], error) {
	v, err := readUint[W](r)
	if err != nil {
		return ByteIndex[W]{}, err
	}
	return ByteIndex[W]{value: v}, nil
}

// WriteByteIndex writes a width-W byte index, little-endian, to w.
func WriteByteIndex[W Width](w io.Writer, b ByteIndex[W]) error {
	return writeUint(w, b.value)
}

// BlockRef locates a block: the id used to find it in the block B-tree,
// and the absolute file offset it was last known to live at.
type BlockRef[W Width] struct {
	Block BlockID[W]
	Index ByteIndex[W]
}

// ReadBlockRef reads a (BlockID, ByteIndex) pair, in that order.
func ReadBlockRef[W Width](r io.Reader) (BlockRef[W], error) {
	block, err := ReadBlockID[W](r)
	if err != nil {
		return BlockRef[W]{}, err
	}
	index, err := ReadByteIndex[W](r)
	if err != nil {
		return BlockRef[W]{}, err
	}
	return BlockRef[W]{Block: block, Index: index}, nil
}

// WriteBlockRef writes a (BlockID, ByteIndex) pair, in that order.
func WriteBlockRef[W Width](w io.Writer, ref BlockRef[W]) error {
	if err := WriteBlockID(w, ref.Block); err != nil {
		return err
	}
	return WriteByteIndex(w, ref.Index)
}

// NodeID identifies a logical object: a folder, message, attachment,
// table context, and so on. Unlike BlockID and ByteIndex it is always
// 32 bits wide, in both the ANSI and Unicode variants. The low 5 bits
// are a type tag; the remaining 27 bits are an index.
type NodeID uint32

// Type returns the node's type tag (bits 0..4).
func (n NodeID) Type() uint8 {
	return uint8(n & 0x1F)
}

// Index returns the node's index (bits 5..31).
func (n NodeID) Index() uint32 {
	return uint32(n) >> 5
}

// ReadNodeID reads a 32-bit little-endian node id from r.
func ReadNodeID(r io.Reader) (NodeID, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return NodeID(binary.LittleEndian.Uint32(buf[:])), nil
}

// WriteNodeID writes a 32-bit little-endian node id to w.
func WriteNodeID(w io.Writer, n NodeID) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(n))
	_, err := w.Write(buf[:])
	return err
}

// readUint reads a width-W little-endian unsigned integer from r.
func readUint[W Width](r io.Reader) (W, error) {
	var zero W
	switch any(zero).(type) {
	case uint64:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return zero, err
		}
		return W(binary.LittleEndian.Uint64(buf[:])), nil
	default:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return zero, err
		}
		return W(binary.LittleEndian.Uint32(buf[:])), nil
	}
}

// writeUint writes a width-W little-endian unsigned integer to w.
func writeUint[W Width](w io.Writer, v W) error {
	if isUnicode[W]() {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, err := w.Write(buf[:])
		return err
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	_, err := w.Write(buf[:])
	return err
}
