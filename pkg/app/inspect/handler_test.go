package inspect

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-pst-ndb/internal/codec"
	"github.com/deploymenttheory/go-pst-ndb/internal/types"
	"github.com/deploymenttheory/go-pst-ndb/pkg/app"
)

const (
	fixtureNodeID  = 0x21
	fixturePayload = "payload bytes flattened through the inspect handlers"
)

// buildFixture writes a minimal one-leaf-page-per-tree Unicode PST file
// to a temp path, exercising the same on-disk layout the services
// package fixture uses.
func buildFixture(t *testing.T) string {
	t.Helper()
	v := types.VariantFor[uint64]()

	const (
		nodePageOffset  = 0x5000
		blockPageOffset = 0x5400
		dataBlockOffset = 0x5800
		fileSize        = 0x6000
	)

	dataBlockID, err := types.NewBlockID[uint64](false, 7)
	require.NoError(t, err)
	payload := []byte(fixturePayload)

	crc := codec.CRC32(payload)
	blockTrailer := types.BlockTrailer[uint64]{Size: uint16(len(payload)), BlockID: dataBlockID, Crc: crc}
	var dataBlockBuf bytes.Buffer
	dataBlockBuf.Write(payload)
	dataBlockBuf.Write(make([]byte, types.BlockSize(len(payload))-len(payload)))
	require.NoError(t, types.WriteBlockTrailer(&dataBlockBuf, v, blockTrailer))

	nodeRootBlockID, err := types.NewBlockID[uint64](true, 1)
	require.NoError(t, err)
	blockRootBlockID, err := types.NewBlockID[uint64](true, 2)
	require.NoError(t, err)

	nodePage := make([]byte, types.PageSize)
	var nodeEntries bytes.Buffer
	require.NoError(t, types.WriteNodeBTreeEntry(&nodeEntries, types.NodeBTreeEntry[uint64]{NodeID: fixtureNodeID, DataBlockID: dataBlockID}))
	copy(nodePage, nodeEntries.Bytes())
	var nodeTail bytes.Buffer
	require.NoError(t, types.WriteBTreePageTail(&nodeTail, v, types.BTreePageTail{EntryCount: 1, MaxEntryCount: uint8(v.MaxNodeBTreeEntries()), EntrySize: uint8(v.NodeBTreeEntrySize)}))
	copy(nodePage[v.BTreeEntriesRegionSize:], nodeTail.Bytes())
	nodeCrc := codec.CRC32(nodePage[:v.PageCRCRegionSize])
	var nodeTrailer bytes.Buffer
	require.NoError(t, types.WritePageTrailer(&nodeTrailer, v, types.PageTrailer[uint64]{PageType: types.PageTypeNodeBTree, BlockID: nodeRootBlockID, Crc: nodeCrc}))
	copy(nodePage[types.PageSize-v.PageTrailerSize:], nodeTrailer.Bytes())

	blockPage := make([]byte, types.PageSize)
	var blockEntries bytes.Buffer
	require.NoError(t, types.WriteBlockBTreeEntry(&blockEntries, types.BlockBTreeEntry[uint64]{
		Ref:      types.BlockRef[uint64]{Block: dataBlockID, Index: types.NewByteIndex[uint64](dataBlockOffset)},
		Size:     uint16(len(payload)),
		RefCount: 1,
	}))
	copy(blockPage, blockEntries.Bytes())
	var blockTail bytes.Buffer
	require.NoError(t, types.WriteBTreePageTail(&blockTail, v, types.BTreePageTail{EntryCount: 1, MaxEntryCount: uint8(v.MaxBlockBTreeEntries()), EntrySize: uint8(v.BlockBTreeEntrySize)}))
	copy(blockPage[v.BTreeEntriesRegionSize:], blockTail.Bytes())
	blockCrc := codec.CRC32(blockPage[:v.PageCRCRegionSize])
	var blockTrailerBuf bytes.Buffer
	require.NoError(t, types.WritePageTrailer(&blockTrailerBuf, v, types.PageTrailer[uint64]{PageType: types.PageTypeBlockBTree, BlockID: blockRootBlockID, Crc: blockCrc}))
	copy(blockPage[types.PageSize-v.PageTrailerSize:], blockTrailerBuf.Bytes())

	header := types.Header[uint64]{
		Magic:       types.HeaderMagic,
		CryptMethod: types.CryptNone,
		Root: types.Root[uint64]{
			FileSize:       types.NewByteIndex[uint64](fileSize),
			NodeBTreeRoot:  types.BlockRef[uint64]{Block: nodeRootBlockID, Index: types.NewByteIndex[uint64](nodePageOffset)},
			BlockBTreeRoot: types.BlockRef[uint64]{Block: blockRootBlockID, Index: types.NewByteIndex[uint64](blockPageOffset)},
			AmapIsValid:    types.AmapInvalid,
		},
	}
	var headerBuf bytes.Buffer
	require.NoError(t, types.WriteHeader(&headerBuf, header))

	buf := make([]byte, fileSize)
	copy(buf, headerBuf.Bytes())
	copy(buf[nodePageOffset:], nodePage)
	copy(buf[blockPageOffset:], blockPage)
	copy(buf[dataBlockOffset:], dataBlockBuf.Bytes())

	path := filepath.Join(t.TempDir(), "fixture.pst")
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func TestHandleInfo(t *testing.T) {
	path := buildFixture(t)
	ctx := app.NewContext()

	resp, err := HandleInfo(ctx, &InfoRequest{Path: path})
	require.NoError(t, err)
	assert.True(t, resp.Unicode)
	assert.EqualValues(t, 0x5000, resp.NodeBTreeOffset)
	assert.False(t, resp.AmapValid)
}

func TestHandleInfoRejectsInvalidRequest(t *testing.T) {
	ctx := app.NewContext()
	_, err := HandleInfo(ctx, &InfoRequest{})
	assert.Error(t, err)
}

func TestHandleCat(t *testing.T) {
	path := buildFixture(t)
	ctx := app.NewContext()

	resp, err := HandleCat(ctx, &CatRequest{Path: path, NodeID: fixtureNodeID})
	require.NoError(t, err)
	assert.Equal(t, fixturePayload, string(resp.Data))
}

func TestHandleCatUnknownNode(t *testing.T) {
	path := buildFixture(t)
	ctx := app.NewContext()

	_, err := HandleCat(ctx, &CatRequest{Path: path, NodeID: 0xFFFF})
	assert.Error(t, err)
}

func TestHandleVerify(t *testing.T) {
	path := buildFixture(t)
	ctx := app.NewContext()

	resp, err := HandleVerify(ctx, &VerifyRequest{Path: path})
	require.NoError(t, err)
	assert.True(t, resp.Valid(), "unexpected errors: %v", resp.Errors)
	assert.Equal(t, 1, resp.NodePagesRead)
	assert.Equal(t, 1, resp.BlockPagesRead)
}

func TestHandleDumpBTree(t *testing.T) {
	path := buildFixture(t)
	ctx := app.NewContext()

	resp, err := HandleDumpBTree(ctx, &DumpBTreeRequest{Path: path, Tree: "node"})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.EqualValues(t, fixtureNodeID, resp.Entries[0].Key)
}

func TestHandleRebuild(t *testing.T) {
	path := buildFixture(t)
	ctx := app.NewContext()

	resp, err := HandleRebuild(ctx, &RebuildRequest{Path: path})
	require.NoError(t, err)
	assert.False(t, resp.AlreadyValid)

	info, err := HandleInfo(ctx, &InfoRequest{Path: path})
	require.NoError(t, err)
	assert.True(t, info.AmapValid)

	resp2, err := HandleRebuild(ctx, &RebuildRequest{Path: path})
	require.NoError(t, err)
	assert.True(t, resp2.AlreadyValid)
}
