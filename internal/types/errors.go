package types

import "fmt"

// NdbError is the structural error taxonomy: anything that means the
// bytes on disk do not agree with the node database layout. Parsers
// return these directly; the managers layer wraps them in PstError.
type NdbError struct {
	Kind NdbErrorKind
	// Detail carries the offending value (a size, a count, a level, a
	// raw id) for diagnostics. Not interpreted beyond formatting.
	Detail int64
}

// NdbErrorKind enumerates the structural violations a reader can observe.
type NdbErrorKind int

const (
	InvalidBlockIndex NdbErrorKind = iota
	InvalidBlockSize
	InvalidPageCrc
	InvalidBlockCrc
	InvalidBlockTrailerId
	UnexpectedPageType
	InvalidBTreeEntryCount
	InvalidBTreeEntryMaxCount
	InvalidBTreeEntrySize
	InvalidBTreePageLevel
	InvalidBTreePagePadding
	InvalidInternalBlockType
	InvalidInternalBlockEntryCount
	InvalidSubNodeBlockPadding
	SubNodeNotFound
	BTreeEntryNotFound
	InvalidIntermediateBlockEntryNodeId
	AllocationMapPageNotFound
)

func (k NdbErrorKind) String() string {
	switch k {
	case InvalidBlockIndex:
		return "invalid block index"
	case InvalidBlockSize:
		return "invalid block size"
	case InvalidPageCrc:
		return "invalid page crc"
	case InvalidBlockCrc:
		return "invalid block crc"
	case InvalidBlockTrailerId:
		return "invalid block trailer internal/external bit"
	case UnexpectedPageType:
		return "unexpected page type"
	case InvalidBTreeEntryCount:
		return "invalid b-tree entry count"
	case InvalidBTreeEntryMaxCount:
		return "invalid b-tree max entry count"
	case InvalidBTreeEntrySize:
		return "invalid b-tree entry size"
	case InvalidBTreePageLevel:
		return "invalid b-tree page level"
	case InvalidBTreePagePadding:
		return "invalid b-tree page padding"
	case InvalidInternalBlockType:
		return "invalid internal block type byte"
	case InvalidInternalBlockEntryCount:
		return "invalid internal block entry count"
	case InvalidSubNodeBlockPadding:
		return "invalid sub-node block padding"
	case SubNodeNotFound:
		return "sub-node not found"
	case BTreeEntryNotFound:
		return "b-tree entry not found"
	case InvalidIntermediateBlockEntryNodeId:
		return "invalid intermediate block entry node id"
	case AllocationMapPageNotFound:
		return "allocation map page not found"
	default:
		return "unknown ndb error"
	}
}

func (e *NdbError) Error() string {
	return fmt.Sprintf("%s: %d", e.Kind, e.Detail)
}

// NewNdbError constructs an NdbError carrying the offending value.
func NewNdbError(kind NdbErrorKind, detail int64) *NdbError {
	return &NdbError{Kind: kind, Detail: detail}
}

// PstError is the wrapping taxonomy a caller of the managers layer sees.
// NdbError is transparently wrapped rather than duplicated.
type PstError struct {
	Kind    PstErrorKind
	Message string
	Err     error
}

// PstErrorKind enumerates the wrapping error categories.
type PstErrorKind int

const (
	NoWriteAccess PstErrorKind = iota
	IoError
	LockError
	IntegerConversion
	NodeDatabaseError
)

func (e *PstError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PstError) Unwrap() error {
	return e.Err
}

// WrapNdbError wraps a structural error as the transparent NodeDatabaseError case.
func WrapNdbError(err error) *PstError {
	return &PstError{Kind: NodeDatabaseError, Message: "node database error", Err: err}
}
