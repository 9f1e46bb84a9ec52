package runner

// Stage is a step of a run. A run moves forward through the stages in order
// and ends in StageDone or StageErrored.
type Stage int

const (
	StageIdle Stage = iota
	StageLoadingConfig
	StageResolvingRuleset
	StageReadingBinary
	StageDecodingArtifact
	StageExecutingModules
	StageReporting
	StageDone
	StageErrored
)

var stageNames = [...]string{
	StageIdle:             "idle",
	StageLoadingConfig:    "loading-config",
	StageResolvingRuleset: "resolving-ruleset",
	StageReadingBinary:    "reading-binary",
	StageDecodingArtifact: "decoding-artifact",
	StageExecutingModules: "executing-modules",
	StageReporting:        "reporting",
	StageDone:             "done",
	StageErrored:          "errored",
}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

// Terminal reports whether no transition leaves s.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageErrored
}

// CanAbort reports whether a run in stage s may still end in StageErrored.
// Once modules execute every configured check is attempted.
func (s Stage) CanAbort() bool {
	return s > StageIdle && s < StageExecutingModules
}
