package minio

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/sqlconsole/internal/errs"
	"github.com/koustreak/sqlconsole/internal/filestore"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errs.ErrKind
	}{
		{"deadline", context.DeadlineExceeded, errs.ErrKindTimeout},
		{"not found status", miniogo.ErrorResponse{StatusCode: http.StatusNotFound}, errs.ErrKindNotFound},
		{"forbidden status", miniogo.ErrorResponse{StatusCode: http.StatusForbidden}, errs.ErrKindPermissionDenied},
		{"no such bucket code", miniogo.ErrorResponse{StatusCode: http.StatusOK, Code: "NoSuchBucket"}, errs.ErrKindNotFound},
		{"bad signature code", miniogo.ErrorResponse{Code: "SignatureDoesNotMatch"}, errs.ErrKindPermissionDenied},
		{"slow down code", miniogo.ErrorResponse{Code: "SlowDown"}, errs.ErrKindTimeout},
		{"wrapped response", fmt.Errorf("put: %w", miniogo.ErrorResponse{Code: "InvalidObjectName"}), errs.ErrKindInvalidInput},
		{"transport", fmt.Errorf("dial tcp: connection refused"), errs.ErrKindConnectionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err, "op failed")
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Kind)
			assert.Equal(t, "op failed", got.Message)
			assert.Equal(t, tt.err, got.Cause)
		})
	}

	assert.Nil(t, mapError(nil, "unused"))
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), filestore.DefaultConfig("localhost:9000", "k", "s", ""))
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}

func TestDriver_ImplementsStore(t *testing.T) {
	var _ filestore.Store = (*Driver)(nil)
}
