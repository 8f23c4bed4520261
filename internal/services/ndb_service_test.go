package services

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-pst-ndb/internal/codec"
	"github.com/deploymenttheory/go-pst-ndb/internal/types"
)

const (
	testNodeID  = types.NodeID(0x21)
	testPayload = "hello from the ndb service fixture, flattened through one leaf data block"
)

// buildFixture assembles a minimal but complete Unicode PST file: a
// header, a one-page node B-tree, a one-page block B-tree, and the
// single leaf data block they both point at. amapValid controls
// whether the rebuild path needs to run.
func buildFixture(t *testing.T, amapValid bool) string {
	t.Helper()

	// The allocation-map rebuild writes its AMap/PMap/FMap/FPMap chain
	// starting at AmapFirstOffset (0x4400); the fixture's own pages must
	// live past that chain so a rebuild run doesn't clobber them.
	const (
		nodePageOffset  = 0x5000
		blockPageOffset = 0x5400
		dataBlockOffset = 0x5800
		fileSize        = 0x6000
	)

	dataBlockID, err := types.NewBlockID[uint64](false, 7)
	require.NoError(t, err)

	payload := []byte(testPayload)
	dataBlock := buildLeafDataBlock(t, dataBlockID, payload)

	nodeRootBlockID, err := types.NewBlockID[uint64](true, 1)
	require.NoError(t, err)
	blockRootBlockID, err := types.NewBlockID[uint64](true, 2)
	require.NoError(t, err)

	nodePage := buildNodeLeafPage(t, []types.NodeBTreeEntry[uint64]{
		{NodeID: testNodeID, DataBlockID: dataBlockID},
	}, nodeRootBlockID)

	blockPage := buildBlockLeafPage(t, []types.BlockBTreeEntry[uint64]{
		{
			Ref:      types.BlockRef[uint64]{Block: dataBlockID, Index: types.NewByteIndex[uint64](dataBlockOffset)},
			Size:     uint16(len(payload)),
			RefCount: 1,
		},
	}, blockRootBlockID)

	amapStatus := types.AmapInvalid
	if amapValid {
		amapStatus = types.AmapValid
	}
	header := types.Header[uint64]{
		Magic:       types.HeaderMagic,
		CryptMethod: types.CryptNone,
		Root: types.Root[uint64]{
			FileSize:       types.NewByteIndex[uint64](fileSize),
			NodeBTreeRoot:  types.BlockRef[uint64]{Block: nodeRootBlockID, Index: types.NewByteIndex[uint64](nodePageOffset)},
			BlockBTreeRoot: types.BlockRef[uint64]{Block: blockRootBlockID, Index: types.NewByteIndex[uint64](blockPageOffset)},
			AmapIsValid:    amapStatus,
			AmapFreeSize:   types.NewByteIndex[uint64](0),
		},
	}

	var headerBuf bytes.Buffer
	require.NoError(t, types.WriteHeader(&headerBuf, header))

	buf := make([]byte, fileSize)
	copy(buf, headerBuf.Bytes())
	copy(buf[nodePageOffset:], nodePage)
	copy(buf[blockPageOffset:], blockPage)
	copy(buf[dataBlockOffset:], dataBlock)

	path := filepath.Join(t.TempDir(), "fixture.pst")
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func buildLeafDataBlock(t *testing.T, id types.BlockID[uint64], payload []byte) []byte {
	t.Helper()
	crc := codec.CRC32(payload)
	trailer := types.BlockTrailer[uint64]{Size: uint16(len(payload)), Signature: 0, BlockID: id, Crc: crc}

	var buf bytes.Buffer
	buf.Write(payload)
	buf.Write(make([]byte, types.BlockSize(len(payload))-len(payload)))
	require.NoError(t, types.WriteBlockTrailer(&buf, types.VariantFor[uint64](), trailer))
	return buf.Bytes()
}

func buildNodeLeafPage(t *testing.T, entries []types.NodeBTreeEntry[uint64], pageBlockID types.BlockID[uint64]) []byte {
	t.Helper()
	v := types.VariantFor[uint64]()
	page := make([]byte, types.PageSize)

	var entriesBuf bytes.Buffer
	for _, e := range entries {
		require.NoError(t, types.WriteNodeBTreeEntry(&entriesBuf, e))
	}
	copy(page, entriesBuf.Bytes())

	tail := types.BTreePageTail{
		EntryCount:    uint8(len(entries)),
		MaxEntryCount: uint8(v.MaxNodeBTreeEntries()),
		EntrySize:     uint8(v.NodeBTreeEntrySize),
		Level:         0,
	}
	var tailBuf bytes.Buffer
	require.NoError(t, types.WriteBTreePageTail(&tailBuf, v, tail))
	copy(page[v.BTreeEntriesRegionSize:], tailBuf.Bytes())

	crc := codec.CRC32(page[:v.PageCRCRegionSize])
	trailer := types.PageTrailer[uint64]{PageType: types.PageTypeNodeBTree, BlockID: pageBlockID, Crc: crc}
	var trailerBuf bytes.Buffer
	require.NoError(t, types.WritePageTrailer(&trailerBuf, v, trailer))
	copy(page[types.PageSize-v.PageTrailerSize:], trailerBuf.Bytes())

	return page
}

func buildBlockLeafPage(t *testing.T, entries []types.BlockBTreeEntry[uint64], pageBlockID types.BlockID[uint64]) []byte {
	t.Helper()
	v := types.VariantFor[uint64]()
	page := make([]byte, types.PageSize)

	var entriesBuf bytes.Buffer
	for _, e := range entries {
		require.NoError(t, types.WriteBlockBTreeEntry(&entriesBuf, e))
	}
	copy(page, entriesBuf.Bytes())

	tail := types.BTreePageTail{
		EntryCount:    uint8(len(entries)),
		MaxEntryCount: uint8(v.MaxBlockBTreeEntries()),
		EntrySize:     uint8(v.BlockBTreeEntrySize),
		Level:         0,
	}
	var tailBuf bytes.Buffer
	require.NoError(t, types.WriteBTreePageTail(&tailBuf, v, tail))
	copy(page[v.BTreeEntriesRegionSize:], tailBuf.Bytes())

	crc := codec.CRC32(page[:v.PageCRCRegionSize])
	trailer := types.PageTrailer[uint64]{PageType: types.PageTypeBlockBTree, BlockID: pageBlockID, Crc: crc}
	var trailerBuf bytes.Buffer
	require.NoError(t, types.WritePageTrailer(&trailerBuf, v, trailer))
	copy(page[types.PageSize-v.PageTrailerSize:], trailerBuf.Bytes())

	return page
}

func TestServiceInfoCatVerifyDumpBTree(t *testing.T) {
	path := buildFixture(t, true)

	svc, err := Open(path)
	require.NoError(t, err)
	defer svc.Close()

	info, err := svc.Info()
	require.NoError(t, err)
	assert.True(t, info.Unicode)
	assert.True(t, info.AmapValid)
	assert.Equal(t, "none", info.CryptMethod)
	assert.EqualValues(t, 0x5000, info.NodeBTreeOffset)
	assert.EqualValues(t, 0x5400, info.BlockBTreeOffset)

	data, err := svc.Cat(uint32(testNodeID))
	require.NoError(t, err)
	assert.Equal(t, testPayload, string(data))

	verify, err := svc.Verify()
	require.NoError(t, err)
	assert.True(t, verify.Valid(), "unexpected verify errors: %v", verify.Errors)
	assert.Equal(t, 1, verify.NodePagesRead)
	assert.Equal(t, 1, verify.BlockPagesRead)

	nodeDump, err := svc.DumpBTree("node")
	require.NoError(t, err)
	require.Len(t, nodeDump.Entries, 1)
	assert.EqualValues(t, testNodeID, nodeDump.Entries[0].Key)

	blockDump, err := svc.DumpBTree("block")
	require.NoError(t, err)
	require.Len(t, blockDump.Entries, 1)

	_, err = svc.DumpBTree("nonsense")
	assert.Error(t, err)
}

func TestServiceRebuild(t *testing.T) {
	path := buildFixture(t, false)

	svc, err := Open(path)
	require.NoError(t, err)
	defer svc.Close()

	info, err := svc.Info()
	require.NoError(t, err)
	assert.False(t, info.AmapValid)

	report, err := svc.Rebuild()
	require.NoError(t, err)
	assert.False(t, report.AlreadyValid)

	info, err = svc.Info()
	require.NoError(t, err)
	assert.True(t, info.AmapValid)

	// Data should still resolve the same way after the rebuild wrote
	// fresh allocation-map pages past the header.
	data, err := svc.Cat(uint32(testNodeID))
	require.NoError(t, err)
	assert.Equal(t, testPayload, string(data))

	// Rebuilding an already-valid file is a no-op.
	report2, err := svc.Rebuild()
	require.NoError(t, err)
	assert.True(t, report2.AlreadyValid)
}
