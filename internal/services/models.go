package services

import "github.com/google/uuid"

// InfoReport summarizes a file's header for the `pstndb info` command.
type InfoReport struct {
	SessionID       uuid.UUID
	Unicode         bool
	FileSize        uint64
	CryptMethod     string
	AmapValid       bool
	AmapFreeBytes   uint64
	NodeBTreeOffset uint64
	BlockBTreeOffset uint64
}

// VerifyReport collects the outcome of walking every page of both
// B-trees, checking CRCs and structural invariants as each page is parsed.
type VerifyReport struct {
	SessionID      uuid.UUID
	NodePagesRead  int
	BlockPagesRead int
	Errors         []string
}

// Valid reports whether the verification pass found no structural errors.
func (r VerifyReport) Valid() bool {
	return len(r.Errors) == 0
}

// BTreeEntrySummary is one leaf entry surfaced by `pstndb dump-btree`.
type BTreeEntrySummary struct {
	Key      uint64
	DataRef  uint64
	SubRef   uint64
	HasExtra bool
}

// DumpBTreeReport lists every leaf entry of one persistent B-tree, in
// the order a left-to-right leaf scan visits them.
type DumpBTreeReport struct {
	SessionID uuid.UUID
	Tree      string
	Entries   []BTreeEntrySummary
}

// RebuildReport summarizes an allocation-map rebuild run.
type RebuildReport struct {
	SessionID     uuid.UUID
	AlreadyValid  bool
	AmapFreeBytes uint64
}
