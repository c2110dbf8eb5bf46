package trace

import "errors"

// ErrMalformedTrace is returned when the frames handed to Build don't
// satisfy the prefix-tree invariant (every non-root TraceAddress must
// have its parent present), or when the stream is empty, or its root
// entry isn't a Call.
var ErrMalformedTrace = errors.New("trace: malformed trace")

// ErrIgnoredTarget is returned by Build when the root call targets an
// address in IgnoredTargets. The transaction is skipped, not failed:
// callers treat it as "nothing to inspect here".
var ErrIgnoredTarget = errors.New("trace: transaction targets an ignored address")
