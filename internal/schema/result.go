package schema

// Result is the outcome a collaborator reports for an operation that can fail
// in a typed way: either a success payload or an error message, never both.
type Result struct {
	payload string
	errMsg  string
	failed  bool
}

// Success wraps a successful payload.
func Success(payload string) Result { return Result{payload: payload} }

// Failure wraps a collaborator-reported error message.
func Failure(msg string) Result { return Result{errMsg: msg, failed: true} }

// Failed reports whether the result carries an error message.
func (r Result) Failed() bool { return r.failed }

// Payload returns the success payload; empty for failures.
func (r Result) Payload() string { return r.payload }

// Error returns the error message; empty for successes.
func (r Result) Error() string { return r.errMsg }
