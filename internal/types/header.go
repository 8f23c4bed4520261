package types

import "io"

// HeaderMagic is the two-byte signature at the start of every PST file.
var HeaderMagic = [2]byte{'N', 'D'}

// HeaderSize returns the fixed on-disk size of Header[W]: a 3-byte
// magic+codec prefix plus the width-W Root record (3 ByteIndex fields,
// 2 BlockRef fields at 2W each, and a 1-byte status).
func HeaderSize[W Width]() int {
	widthBytes := 4
	if isUnicode[W]() {
		widthBytes = 8
	}
	return 3 + 7*widthBytes + 1
}

// Root is the file-wide root record embedded in Header: sizes, the
// amap validity flag, and the three entry points into the persistent
// structures (node B-tree, block B-tree, the AMap page chain).
type Root[W Width] struct {
	FileSize        ByteIndex[W]
	NodeBTreeRoot   BlockRef[W]
	BlockBTreeRoot  BlockRef[W]
	AmapIsValid     AmapStatus
	AmapFreeSize    ByteIndex[W]
	AmapLastOffset  ByteIndex[W]
}

// ReadRoot reads a Root record.
func ReadRoot[W Width](r io.Reader) (Root[W], error) {
	fileSize, err := ReadByteIndex[W](r)
	if err != nil {
		return Root[W]{}, err
	}
	amapLastOffset, err := ReadByteIndex[W](r)
	if err != nil {
		return Root[W]{}, err
	}
	amapFreeSize, err := ReadByteIndex[W](r)
	if err != nil {
		return Root[W]{}, err
	}
	nodeBTreeRoot, err := ReadBlockRef[W](r)
	if err != nil {
		return Root[W]{}, err
	}
	blockBTreeRoot, err := ReadBlockRef[W](r)
	if err != nil {
		return Root[W]{}, err
	}
	var statusByte [1]byte
	if _, err := io.ReadFull(r, statusByte[:]); err != nil {
		return Root[W]{}, err
	}
	return Root[W]{
		FileSize:       fileSize,
		NodeBTreeRoot:  nodeBTreeRoot,
		BlockBTreeRoot: blockBTreeRoot,
		AmapIsValid:    AmapStatus(statusByte[0]),
		AmapFreeSize:   amapFreeSize,
		AmapLastOffset: amapLastOffset,
	}, nil
}

// WriteRoot writes a Root record.
func WriteRoot[W Width](w io.Writer, root Root[W]) error {
	if err := WriteByteIndex(w, root.FileSize); err != nil {
		return err
	}
	if err := WriteByteIndex(w, root.AmapLastOffset); err != nil {
		return err
	}
	if err := WriteByteIndex(w, root.AmapFreeSize); err != nil {
		return err
	}
	if err := WriteBlockRef(w, root.NodeBTreeRoot); err != nil {
		return err
	}
	if err := WriteBlockRef(w, root.BlockBTreeRoot); err != nil {
		return err
	}
	_, err := w.Write([]byte{byte(root.AmapIsValid)})
	return err
}

// Header is the fixed leading structure of a PST file: magic, the
// chosen codec, and the embedded Root record. Field sizes below the
// Root differ by variant only in that the Root itself is width-W;
// everything else here is fixed across variants.
type Header[W Width] struct {
	Magic       [2]byte
	CryptMethod CryptMethod
	Root        Root[W]
}

// ReadHeader reads and validates a file header's magic before
// descending into the embedded Root.
func ReadHeader[W Width](r io.Reader) (Header[W], error) {
	var magic [2]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return Header[W]{}, err
	}
	if magic != HeaderMagic {
		return Header[W]{}, NewNdbError(InvalidBlockTrailerId, int64(magic[0])<<8|int64(magic[1]))
	}
	var cryptByte [1]byte
	if _, err := io.ReadFull(r, cryptByte[:]); err != nil {
		return Header[W]{}, err
	}
	root, err := ReadRoot[W](r)
	if err != nil {
		return Header[W]{}, err
	}
	return Header[W]{Magic: magic, CryptMethod: CryptMethod(cryptByte[0]), Root: root}, nil
}

// WriteHeader writes magic, codec selector, and the embedded Root.
func WriteHeader[W Width](w io.Writer, h Header[W]) error {
	if _, err := w.Write(h.Magic[:]); err != nil {
		return err
	}
	if _, err := w.Write([]byte{byte(h.CryptMethod)}); err != nil {
		return err
	}
	return WriteRoot(w, h.Root)
}
