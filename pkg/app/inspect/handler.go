package inspect

import (
	"fmt"
	"time"

	"github.com/deploymenttheory/go-pst-ndb/internal/services"
	"github.com/deploymenttheory/go-pst-ndb/pkg/app"
)

// HandleInfo opens req.Path and reports its header summary.
func HandleInfo(ctx *app.Context, req *InfoRequest) (*InfoResponse, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx.Log(fmt.Sprintf("Opening %s", req.Path))
	svc, err := services.Open(req.Path)
	if err != nil {
		return nil, app.NewError(app.ErrCodeFileAccess, "failed to open file", err)
	}
	defer svc.Close()

	info, err := svc.Info()
	if err != nil {
		return nil, app.NewError(app.ErrCodeFileAccess, "failed to read header", err)
	}

	return &InfoResponse{
		Path:             req.Path,
		Unicode:          info.Unicode,
		FileSize:         info.FileSize,
		CryptMethod:      info.CryptMethod,
		AmapValid:        info.AmapValid,
		AmapFreeBytes:    info.AmapFreeBytes,
		NodeBTreeOffset:  info.NodeBTreeOffset,
		BlockBTreeOffset: info.BlockBTreeOffset,
		Elapsed:          time.Since(start),
	}, nil
}

// HandleVerify opens req.Path and walks both B-trees, reporting every
// structural error found rather than stopping at the first one.
func HandleVerify(ctx *app.Context, req *VerifyRequest) (*VerifyResponse, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx.Progress("Opening file...", 5)
	svc, err := services.Open(req.Path)
	if err != nil {
		return nil, app.NewError(app.ErrCodeFileAccess, "failed to open file", err)
	}
	defer svc.Close()

	ctx.Progress("Walking b-trees...", 25)
	report, err := svc.Verify()
	if err != nil {
		return nil, app.NewError(app.ErrCodeFileAccess, "verification failed", err)
	}
	ctx.Progress("Complete", 100)

	return &VerifyResponse{
		Path:           req.Path,
		NodePagesRead:  report.NodePagesRead,
		BlockPagesRead: report.BlockPagesRead,
		Errors:         report.Errors,
		Elapsed:        time.Since(start),
	}, nil
}

// HandleDumpBTree opens req.Path and lists every leaf entry of the
// requested B-tree, in left-to-right leaf order.
func HandleDumpBTree(ctx *app.Context, req *DumpBTreeRequest) (*DumpBTreeResponse, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx.Log(fmt.Sprintf("Dumping %s b-tree from %s", req.Tree, req.Path))
	svc, err := services.Open(req.Path)
	if err != nil {
		return nil, app.NewError(app.ErrCodeFileAccess, "failed to open file", err)
	}
	defer svc.Close()

	report, err := svc.DumpBTree(req.Tree)
	if err != nil {
		return nil, app.NewError(app.ErrCodeFileAccess, "failed to dump b-tree", err)
	}

	entries := make([]BTreeEntry, len(report.Entries))
	for i, e := range report.Entries {
		entries[i] = BTreeEntry{Key: e.Key, DataRef: e.DataRef, SubRef: e.SubRef, HasExtra: e.HasExtra}
	}

	return &DumpBTreeResponse{
		Path:    req.Path,
		Tree:    req.Tree,
		Entries: entries,
		Elapsed: time.Since(start),
	}, nil
}

// HandleCat opens req.Path and streams the flattened data tree bytes
// backing req.NodeID.
func HandleCat(ctx *app.Context, req *CatRequest) (*CatResponse, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	svc, err := services.Open(req.Path)
	if err != nil {
		return nil, app.NewError(app.ErrCodeFileAccess, "failed to open file", err)
	}
	defer svc.Close()

	data, err := svc.Cat(req.NodeID)
	if err != nil {
		return nil, app.NewError(app.ErrCodeNodeNotFound, fmt.Sprintf("failed to resolve node %#x", req.NodeID), err)
	}

	return &CatResponse{
		Path:    req.Path,
		NodeID:  req.NodeID,
		Data:    data,
		Elapsed: time.Since(start),
	}, nil
}

// HandleRebuild opens req.Path and runs the allocation-map rebuild
// procedure if the file's amap is not already valid.
func HandleRebuild(ctx *app.Context, req *RebuildRequest) (*RebuildResponse, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx.Progress("Opening file...", 5)
	svc, err := services.Open(req.Path)
	if err != nil {
		return nil, app.NewError(app.ErrCodeFileAccess, "failed to open file", err)
	}
	defer svc.Close()

	ctx.Progress("Rebuilding allocation map...", 40)
	report, err := svc.Rebuild()
	if err != nil {
		return nil, app.NewError(app.ErrCodeFileAccess, "rebuild failed", err)
	}
	ctx.Progress("Complete", 100)

	if report.AlreadyValid {
		ctx.Log("Allocation map was already valid; nothing to do")
	}

	return &RebuildResponse{
		Path:          req.Path,
		AlreadyValid:  report.AlreadyValid,
		AmapFreeBytes: report.AmapFreeBytes,
		Elapsed:       time.Since(start),
	}, nil
}
