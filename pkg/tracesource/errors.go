package tracesource

import "errors"

// ErrTraceFetch wraps any failure reaching or parsing a trace source.
// Nothing retries it: the blocks command records the transaction as
// failed and moves on, and a command that returns it exits with the
// trace-source exit code.
var ErrTraceFetch = errors.New("tracesource: trace fetch failed")
