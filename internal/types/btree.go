package types

import "io"

// NodeBTreeEntry is a leaf entry of the node B-tree: a node id mapped
// to the block holding its data and, optionally, its sub-node tree.
type NodeBTreeEntry[W Width] struct {
	NodeID          NodeID
	DataBlockID     BlockID[W]
	SubNodeBlockID  BlockID[W]
	ParentNodeIndex uint32
}

// ReadNodeBTreeEntry reads one node B-tree leaf entry.
func ReadNodeBTreeEntry[W Width](r io.Reader) (NodeBTreeEntry[W], error) {
	key, err := readUint[W](r)
	if err != nil {
		return NodeBTreeEntry[W]{}, err
	}
	nodeID := NodeID(key)
	data, err := ReadBlockID[W](r)
	if err != nil {
		return NodeBTreeEntry[W]{}, err
	}
	sub, err := ReadBlockID[W](r)
	if err != nil {
		return NodeBTreeEntry[W]{}, err
	}
	parent, err := readUint32(r)
	if err != nil {
		return NodeBTreeEntry[W]{}, err
	}
	if isUnicode[W]() {
		if _, err := readUint32(r); err != nil {
			return NodeBTreeEntry[W]{}, err
		}
	}
	return NodeBTreeEntry[W]{NodeID: nodeID, DataBlockID: data, SubNodeBlockID: sub, ParentNodeIndex: parent}, nil
}

// WriteNodeBTreeEntry writes one node B-tree leaf entry.
func WriteNodeBTreeEntry[W Width](w io.Writer, e NodeBTreeEntry[W]) error {
	if err := writeUint(w, W(e.NodeID)); err != nil {
		return err
	}
	if err := WriteBlockID(w, e.DataBlockID); err != nil {
		return err
	}
	if err := WriteBlockID(w, e.SubNodeBlockID); err != nil {
		return err
	}
	if err := writeUint32(w, e.ParentNodeIndex); err != nil {
		return err
	}
	if isUnicode[W]() {
		return writeUint32(w, 0)
	}
	return nil
}

// Key returns the node id this entry is keyed on, for B-tree navigation.
func (e NodeBTreeEntry[W]) Key() NodeID {
	return e.NodeID
}

// BlockBTreeEntry is a leaf entry of the block B-tree: a block id
// mapped to its location and logical payload size.
type BlockBTreeEntry[W Width] struct {
	Ref      BlockRef[W]
	Size     uint16
	RefCount uint16
}

// ReadBlockBTreeEntry reads one block B-tree leaf entry.
func ReadBlockBTreeEntry[W Width](r io.Reader) (BlockBTreeEntry[W], error) {
	ref, err := ReadBlockRef[W](r)
	if err != nil {
		return BlockBTreeEntry[W]{}, err
	}
	size, err := readUint16(r)
	if err != nil {
		return BlockBTreeEntry[W]{}, err
	}
	refCount, err := readUint16(r)
	if err != nil {
		return BlockBTreeEntry[W]{}, err
	}
	if isUnicode[W]() {
		if _, err := readUint32(r); err != nil {
			return BlockBTreeEntry[W]{}, err
		}
	}
	return BlockBTreeEntry[W]{Ref: ref, Size: size, RefCount: refCount}, nil
}

// WriteBlockBTreeEntry writes one block B-tree leaf entry.
func WriteBlockBTreeEntry[W Width](w io.Writer, e BlockBTreeEntry[W]) error {
	if err := WriteBlockRef(w, e.Ref); err != nil {
		return err
	}
	if err := writeUint16(w, e.Size); err != nil {
		return err
	}
	if err := writeUint16(w, e.RefCount); err != nil {
		return err
	}
	if isUnicode[W]() {
		return writeUint32(w, 0)
	}
	return nil
}

// Key returns the raw block id this entry is keyed on.
func (e BlockBTreeEntry[W]) Key() W {
	return e.Ref.Block.Raw()
}

// IntermediateEntry is a non-leaf B-tree page entry: the smallest key
// reachable through child, paired with a reference to child itself.
// Both the node and block B-trees share this entry shape at every
// level above the leaves; only the key's interpretation differs.
type IntermediateEntry[W Width] struct {
	Key   W
	Child BlockRef[W]
}

// ReadIntermediateEntry reads one (key, child ref) pair.
func ReadIntermediateEntry[W Width](r io.Reader) (IntermediateEntry[W], error) {
	key, err := readUint[W](r)
	if err != nil {
		return IntermediateEntry[W]{}, err
	}
	child, err := ReadBlockRef[W](r)
	if err != nil {
		return IntermediateEntry[W]{}, err
	}
	return IntermediateEntry[W]{Key: key, Child: child}, nil
}

// WriteIntermediateEntry writes one (key, child ref) pair.
func WriteIntermediateEntry[W Width](w io.Writer, e IntermediateEntry[W]) error {
	if err := writeUint(w, e.Key); err != nil {
		return err
	}
	return WriteBlockRef(w, e.Child)
}

// BTreePageTail is the fixed trailer region of a B-tree page that
// precedes the page trailer: live entry count, max entry count, entry
// size, and tree depth. Unicode carries 4 bytes of zero padding after
// Level; ANSI does not.
type BTreePageTail struct {
	EntryCount    uint8
	MaxEntryCount uint8
	EntrySize     uint8
	Level         uint8
}

// ReadBTreePageTail reads the tail, consuming the Unicode padding word if present.
func ReadBTreePageTail(r io.Reader, v Variant) (BTreePageTail, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return BTreePageTail{}, err
	}
	t := BTreePageTail{EntryCount: buf[0], MaxEntryCount: buf[1], EntrySize: buf[2], Level: buf[3]}
	if v.Unicode {
		padding, err := readUint32(r)
		if err != nil {
			return BTreePageTail{}, err
		}
		if padding != 0 {
			return BTreePageTail{}, NewNdbError(InvalidBTreePagePadding, int64(padding))
		}
	}
	return t, nil
}

// WriteBTreePageTail writes the tail, including the Unicode padding word if applicable.
func WriteBTreePageTail(w io.Writer, v Variant, t BTreePageTail) error {
	buf := [4]byte{t.EntryCount, t.MaxEntryCount, t.EntrySize, t.Level}
	if _, err := w.Write(buf[:]); err != nil {
		return err
	}
	if v.Unicode {
		return writeUint32(w, 0)
	}
	return nil
}

// IsLeaf reports whether a B-tree page at this tail's level holds leaf
// entries (node/block entries) rather than IntermediateEntry values.
func (t BTreePageTail) IsLeaf() bool {
	return t.Level == 0
}
