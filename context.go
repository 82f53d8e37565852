package langident

// Context consolidates the state the original design kept as process
// globals — the stop-gram penalty and the score-value mapping table —
// into a single value threaded explicitly through Identify. This
// is the redesign §5/§9 call for: nothing here may be a package-level
// var that concurrent Identifiers could race on.
type Context struct {
	Table   *ScoreTable
	penalty Score
}

// DefaultContext returns a Context with the inherited default
// stop-gram penalty (-9.0) and a synthetic monotone score table sized
// for small/test models. Load does not touch any Context: the score
// table stored in a model file is decoded but not installed here, so
// Table stays the synthetic one unless the caller replaces it.
func DefaultContext() *Context {
	return &Context{
		Table:   DefaultScoreTable(1 << 16),
		penalty: defaultStopGramPenalty,
	}
}

// StopGramPenalty returns the current stop-gram multiplier.
func (c *Context) StopGramPenalty() Score { return c.penalty }

// SetStopGramPenalty sets the process-wide-in-spirit (but now
// instance-owned) stop-gram multiplier. Conventionally <= 0.
func (c *Context) SetStopGramPenalty(p Score) { c.penalty = p }
