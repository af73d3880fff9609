package probe

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassifyKinds(t *testing.T) {
	opts := Options{Target: "localhost:50051", Service: "svc", Timeout: 5 * time.Second}

	cases := []struct {
		code codes.Code
		kind Kind
	}{
		{codes.Unimplemented, KindUnimplemented},
		{codes.DeadlineExceeded, KindTimedOut},
		{codes.Unavailable, KindUnreachable},
		{codes.NotFound, KindServiceNotFound},
		{codes.PermissionDenied, KindOther},
		{codes.Internal, KindOther},
	}
	for _, tc := range cases {
		perr := classify(status.Error(tc.code, "boom"), opts)
		assert.Equal(t, tc.kind, perr.Kind, "code %s", tc.code)
		assert.Equal(t, tc.code, perr.Code)
	}
}

func TestClassifyNonStatusError(t *testing.T) {
	perr := classify(errors.New("wire fell out"), Options{Target: "localhost:50051"})
	assert.Equal(t, KindOther, perr.Kind)
	assert.Equal(t, codes.Unknown, perr.Code)
	assert.Contains(t, perr.Error(), "wire fell out")
}

func TestErrorMessages(t *testing.T) {
	opts := Options{Target: "db.internal:443", Service: "db.Shard", Timeout: 3 * time.Second}

	assert.Contains(t, classify(status.Error(codes.Unavailable, "connect"), opts).Error(), "db.internal:443")
	assert.Contains(t, classify(status.Error(codes.DeadlineExceeded, "late"), opts).Error(), "3s")
	assert.Contains(t, classify(status.Error(codes.NotFound, "gone"), opts).Error(), "db.Shard")
	assert.Contains(t, classify(status.Error(codes.Unimplemented, "nope"), opts).Error(), "grpc.health.v1.Health")

	other := classify(status.Error(codes.PermissionDenied, "no token"), opts).Error()
	assert.Contains(t, other, "PermissionDenied")
	assert.Contains(t, other, "no token")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "unreachable", KindUnreachable.String())
	assert.Equal(t, "timed out", KindTimedOut.String())
	assert.Equal(t, "unimplemented", KindUnimplemented.String())
	assert.Equal(t, "not found", KindServiceNotFound.String())
	assert.Equal(t, "other", KindOther.String())
}
