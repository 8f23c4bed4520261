package ndb

import (
	"fmt"
	"os"

	"github.com/deploymenttheory/go-pst-ndb/internal/interfaces"
	"github.com/deploymenttheory/go-pst-ndb/internal/middleware/btrees"
	"github.com/deploymenttheory/go-pst-ndb/internal/middleware/streams"
	"github.com/deploymenttheory/go-pst-ndb/internal/parsers/header"
	"github.com/deploymenttheory/go-pst-ndb/internal/types"
)

// File is a single open PST file: its header, and the navigators and
// tree walkers built on top of it. A File has exactly one reader and
// at most one writer; write-handle acquisition failure at Open time is
// recorded but not fatal, since reading never requires it. It only
// surfaces once a caller actually attempts to mutate the file.
type File[W types.Width] struct {
	osFile *os.File
	source *fileSource[W]
	header types.Header[W]
	writer *os.File // nil if write access was not acquired
	writeErr error

	nodeNav      interfaces.NodeBTreeNavigator[W]
	blockNav     interfaces.BlockBTreeNavigator[W]
	dataTrees    interfaces.DataTreeWalker[W]
	subNodeTrees interfaces.SubNodeTreeWalker[W]
}

// Open opens path for reading and, if possible, writing. A failure to
// acquire write access is recorded on the returned File rather than
// returned as an error: callers that only read are unaffected.
func Open[W types.Width](path string) (*File[W], error) {
	rw, rwErr := os.OpenFile(path, os.O_RDWR, 0)
	var (
		osFile   *os.File
		writer   *os.File
		writeErr error
	)
	if rwErr == nil {
		osFile = rw
		writer = rw
	} else {
		ro, err := os.Open(path)
		if err != nil {
			return nil, &types.PstError{Kind: types.IoError, Message: fmt.Sprintf("failed to open %s", path), Err: err}
		}
		osFile = ro
		writeErr = rwErr
	}

	headerSize := types.HeaderSize[W]()
	buf := make([]byte, headerSize)
	if _, err := osFile.ReadAt(buf, 0); err != nil {
		osFile.Close()
		return nil, types.WrapNdbError(fmt.Errorf("failed to read file header: %w", err))
	}
	headerReader, err := header.NewHeaderReader[W](buf)
	if err != nil {
		osFile.Close()
		return nil, types.WrapNdbError(err)
	}

	source := newFileSource[W](osFile)
	f := &File[W]{
		osFile:   osFile,
		source:   source,
		header:   headerReader.Header(),
		writer:   writer,
		writeErr: writeErr,
	}
	f.nodeNav = btrees.NewNodeBTreeNavigator[W](source)
	f.blockNav = btrees.NewBlockBTreeNavigator[W](source)
	f.dataTrees = streams.NewDataTreeWalker[W](f.header.Root.BlockBTreeRoot, f.blockNav, source, f.header.CryptMethod)
	f.subNodeTrees = streams.NewSubNodeTreeWalker[W](f.header.Root.BlockBTreeRoot, f.blockNav, source)

	return f, nil
}

// Close releases the underlying file handle.
func (f *File[W]) Close() error {
	return f.osFile.Close()
}

// Header returns the parsed file header, including the embedded Root.
func (f *File[W]) Header() types.Header[W] {
	return f.header
}

// CryptMethod returns the codec applied to leaf data block payloads.
func (f *File[W]) CryptMethod() types.CryptMethod {
	return f.header.CryptMethod
}

// Root returns the file-wide root record.
func (f *File[W]) Root() types.Root[W] {
	return f.header.Root
}

// NodeBTree returns the navigator for the node B-tree.
func (f *File[W]) NodeBTree() interfaces.NodeBTreeNavigator[W] {
	return f.nodeNav
}

// BlockBTree returns the navigator for the block B-tree.
func (f *File[W]) BlockBTree() interfaces.BlockBTreeNavigator[W] {
	return f.blockNav
}

// DataTrees returns the data tree walker, rooted at the file's block B-tree.
func (f *File[W]) DataTrees() interfaces.DataTreeWalker[W] {
	return f.dataTrees
}

// SubNodeTrees returns the sub-node tree walker, rooted at the file's block B-tree.
func (f *File[W]) SubNodeTrees() interfaces.SubNodeTreeWalker[W] {
	return f.subNodeTrees
}

// RootWriter returns a writer over the in-memory header's Root. Changes
// must be persisted with FinishWrite.
func (f *File[W]) RootWriter() interfaces.RootWriter[W] {
	return &rootWriter[W]{file: f}
}

// StartWrite verifies write access was acquired at Open time, surfacing
// the deferred failure (if any) only now that a caller actually needs it.
func (f *File[W]) StartWrite() error {
	if f.writer == nil {
		return &types.PstError{Kind: types.NoWriteAccess, Message: "file was not opened with write access", Err: f.writeErr}
	}
	return nil
}

// FinishWrite writes the in-memory header back to the start of the file
// and flushes it to stable storage.
func (f *File[W]) FinishWrite() error {
	if err := f.StartWrite(); err != nil {
		return err
	}
	var buf writeBuffer
	if err := types.WriteHeader(&buf, f.header); err != nil {
		return types.WrapNdbError(fmt.Errorf("failed to serialize header: %w", err))
	}
	if _, err := f.writer.WriteAt(buf.data, 0); err != nil {
		return &types.PstError{Kind: types.IoError, Message: "failed to write header", Err: err}
	}
	return f.writer.Sync()
}

// WriteAt writes raw bytes at an absolute offset, for use by the
// rebuild procedure and other mutating operations.
func (f *File[W]) WriteAt(offset types.ByteIndex[W], data []byte) error {
	if err := f.StartWrite(); err != nil {
		return err
	}
	if _, err := f.writer.WriteAt(data, int64(offset.Index())); err != nil {
		return &types.PstError{Kind: types.IoError, Message: "failed to write page", Err: err}
	}
	return nil
}

// ReadAt reads size bytes at the given absolute file offset.
func (f *File[W]) ReadAt(offset types.ByteIndex[W], size int) ([]byte, error) {
	return f.source.ReadAt(offset, size)
}

// writeBuffer is a minimal io.Writer collecting bytes in memory, used
// to serialize fixed structures before a single WriteAt call.
type writeBuffer struct {
	data []byte
}

func (b *writeBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}
