package probe

import (
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind categorizes a failed probe by its human-readable cause.
type Kind int

const (
	KindOther Kind = iota
	KindUnreachable
	KindTimedOut
	KindUnimplemented
	KindServiceNotFound
)

// String returns the cause category name.
func (k Kind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindTimedOut:
		return "timed out"
	case KindUnimplemented:
		return "unimplemented"
	case KindServiceNotFound:
		return "not found"
	default:
		return "other"
	}
}

// Error is a classified probe failure. Code and Detail carry the raw
// gRPC status for the Other kind and for verbose output.
type Error struct {
	Kind    Kind
	Code    codes.Code
	Detail  string
	Target  string
	Service string
	Timeout time.Duration
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnreachable:
		return fmt.Sprintf("cannot connect to %s", e.Target)
	case KindTimedOut:
		return fmt.Sprintf("health check timed out after %v", e.Timeout)
	case KindUnimplemented:
		return "health check not implemented on the server (it does not expose grpc.health.v1.Health)"
	case KindServiceNotFound:
		return fmt.Sprintf("service %q not found", e.Service)
	default:
		return fmt.Sprintf("health check failed: %s - %s", e.Code, e.Detail)
	}
}

// classify maps an RPC error to a probe Error.
func classify(err error, opts Options) *Error {
	perr := &Error{
		Kind:    KindOther,
		Detail:  err.Error(),
		Target:  opts.Target,
		Service: opts.Service,
		Timeout: opts.Timeout,
	}

	// FromError wraps non-status errors as codes.Unknown.
	st, _ := status.FromError(err)
	perr.Code = st.Code()
	perr.Detail = st.Message()

	switch st.Code() {
	case codes.Unimplemented:
		perr.Kind = KindUnimplemented
	case codes.DeadlineExceeded:
		perr.Kind = KindTimedOut
	case codes.Unavailable:
		perr.Kind = KindUnreachable
	case codes.NotFound:
		perr.Kind = KindServiceNotFound
	}
	return perr
}
