package publish

// Stage names label logs, metrics, and error context. They mirror the
// pipeline order exactly.
const (
	StageBuild   = "build"
	StageVerify  = "verify"
	StageResolve = "resolve"
	StageClone   = "clone"
	StageClear   = "clear"
	StageCopy    = "copy"
	StageLanding = "landing"
	StageCommit  = "commit"
	StagePush    = "push"
)

// Outcome labels for a completed run.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeUnchanged = "unchanged"
)
