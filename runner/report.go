package runner

import "github.com/wippyai/chisel/chisel"

// Exit codes of a completed run.
const (
	ExitPassed = 0
	ExitFailed = 1
)

// Report is the result of a completed run.
type Report struct {
	Verdicts []chisel.Verdict
	Overall  bool
}

// NewReport builds a report; Overall is true when every verdict passed,
// including when there are none.
func NewReport(verdicts []chisel.Verdict) Report {
	overall := true
	for _, v := range verdicts {
		overall = overall && v.Passed
	}
	return Report{Overall: overall, Verdicts: verdicts}
}

// ExitCode returns ExitPassed or ExitFailed.
func (r Report) ExitCode() int {
	if r.Overall {
		return ExitPassed
	}
	return ExitFailed
}

// Failed returns the verdicts that did not pass, in run order.
func (r Report) Failed() []chisel.Verdict {
	var failed []chisel.Verdict
	for _, v := range r.Verdicts {
		if !v.Passed {
			failed = append(failed, v)
		}
	}
	return failed
}
