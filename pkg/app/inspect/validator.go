package inspect

import (
	"github.com/deploymenttheory/go-pst-ndb/pkg/app"
)

// Validate checks an InfoRequest.
func (r *InfoRequest) Validate() error {
	if r.Path == "" {
		return app.NewError(app.ErrCodeInvalidInput, "path is required", nil)
	}
	return nil
}

// Validate checks a VerifyRequest.
func (r *VerifyRequest) Validate() error {
	if r.Path == "" {
		return app.NewError(app.ErrCodeInvalidInput, "path is required", nil)
	}
	return nil
}

// Validate checks a DumpBTreeRequest.
func (r *DumpBTreeRequest) Validate() error {
	if r.Path == "" {
		return app.NewError(app.ErrCodeInvalidInput, "path is required", nil)
	}
	if r.Tree != "node" && r.Tree != "block" {
		return app.NewError(app.ErrCodeInvalidInput, `tree must be "node" or "block"`, nil)
	}
	return nil
}

// Validate checks a CatRequest.
func (r *CatRequest) Validate() error {
	if r.Path == "" {
		return app.NewError(app.ErrCodeInvalidInput, "path is required", nil)
	}
	return nil
}

// Validate checks a RebuildRequest.
func (r *RebuildRequest) Validate() error {
	if r.Path == "" {
		return app.NewError(app.ErrCodeInvalidInput, "path is required", nil)
	}
	return nil
}
