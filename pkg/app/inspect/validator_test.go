package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deploymenttheory/go-pst-ndb/pkg/app"
)

func TestInfoRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		request InfoRequest
		wantErr bool
	}{
		{name: "valid", request: InfoRequest{Path: "/tmp/test.pst"}, wantErr: false},
		{name: "missing path", request: InfoRequest{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				var cerr *app.CommonError
				assert.ErrorAs(t, err, &cerr)
				assert.Equal(t, app.ErrCodeInvalidInput, cerr.Code)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDumpBTreeRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		request DumpBTreeRequest
		wantErr bool
	}{
		{name: "valid node", request: DumpBTreeRequest{Path: "/tmp/test.pst", Tree: "node"}, wantErr: false},
		{name: "valid block", request: DumpBTreeRequest{Path: "/tmp/test.pst", Tree: "block"}, wantErr: false},
		{name: "missing path", request: DumpBTreeRequest{Tree: "node"}, wantErr: true},
		{name: "bad tree", request: DumpBTreeRequest{Path: "/tmp/test.pst", Tree: "bogus"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCatRequestValidate(t *testing.T) {
	assert.NoError(t, (&CatRequest{Path: "/tmp/test.pst", NodeID: 0x21}).Validate())
	assert.Error(t, (&CatRequest{NodeID: 0x21}).Validate())
}

func TestVerifyAndRebuildRequestValidate(t *testing.T) {
	assert.NoError(t, (&VerifyRequest{Path: "/tmp/test.pst"}).Validate())
	assert.Error(t, (&VerifyRequest{}).Validate())
	assert.NoError(t, (&RebuildRequest{Path: "/tmp/test.pst"}).Validate())
	assert.Error(t, (&RebuildRequest{}).Validate())
}
