package pack

import (
	"github.com/opencontainers/go-digest"
)

// Identifies how far a run got.
type Outcome int

const (
	OK                 Outcome = iota // All stages completed.
	ResetFailed                       // The output root could not be emptied or created.
	BuildFailed                       // The release build did not succeed.
	StageBinaryFailed                 // The binary could not be staged.
	StageScriptsFailed                // The script bundle could not be staged.
)

// Returns the name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case ResetFailed:
		return "reset failed"
	case BuildFailed:
		return "build failed"
	case StageBinaryFailed:
		return "stage binary failed"
	case StageScriptsFailed:
		return "stage scripts failed"
	}
	return "unknown"
}

// Returned by [Run].
type Result struct {
	Outcome Outcome       // Stage at which the run stopped, or OK.
	Err     error         // Cause of the failure. Nil when Outcome is OK.
	Output  string        // Output root of the package.
	Binary  string        // Staged binary path, once staged.
	Bundle  string        // Staged script bundle path, once staged.
	Digest  digest.Digest // Digest of the staged binary, once staged.
}

// Whether every stage completed.
func (r *Result) OK() bool {
	return r.Outcome == OK
}

// Records a failure at the given stage.
func (r *Result) fail(outcome Outcome, err error) *Result {
	r.Outcome = outcome
	r.Err = err
	return r
}
