package reqcurry

import "fmt"

// ErrorKind tells a failure handler which stage of a request failed.
type ErrorKind int

const (
	// KindTransport covers everything up to receiving a response body:
	// unresolvable hosts, refused connections, timeouts, non-2xx
	// statuses.
	KindTransport ErrorKind = iota
	// KindDecode covers response bodies that are not valid JSON for
	// the requested payload type.
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	}
	return "unknown"
}

// Failure describes a request that did not reach its consumer. It is
// routed to the failure handler of the Source the request came from;
// consumers themselves never observe failures.
type Failure struct {
	Kind    ErrorKind
	Locator string
	Err     error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Kind, f.Locator, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

func logFailure(f Failure) {
	log.WithField("kind", f.Kind.String()).
		WithField("url", f.Locator).
		WithError(f.Err).
		Error("request failed")
}
