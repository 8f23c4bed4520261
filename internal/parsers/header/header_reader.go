// Package header parses the fixed leading structure of a PST file.
package header

import (
	"bytes"
	"fmt"

	"github.com/deploymenttheory/go-pst-ndb/internal/interfaces"
	"github.com/deploymenttheory/go-pst-ndb/internal/types"
)

// HeaderReader implements interfaces.HeaderReader over an already
// parsed, in-memory Header.
type HeaderReader[W types.Width] struct {
	header types.Header[W]
}

// NewHeaderReader parses data as a file header, validating its magic
// bytes before returning.
func NewHeaderReader[W types.Width](data []byte) (interfaces.HeaderReader[W], error) {
	h, err := types.ReadHeader[W](bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	if h.Magic != types.HeaderMagic {
		return nil, fmt.Errorf("invalid header magic: got %v, want %v", h.Magic, types.HeaderMagic)
	}
	return &HeaderReader[W]{header: h}, nil
}

func (r *HeaderReader[W]) Header() types.Header[W] {
	return r.header
}

func (r *HeaderReader[W]) CryptMethod() types.CryptMethod {
	return r.header.CryptMethod
}

func (r *HeaderReader[W]) Root() types.Root[W] {
	return r.header.Root
}
