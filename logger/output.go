package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - The report, errors with hints
//	1 (-v)      - + Stage progress, run summary
//	2 (-vv)     - + Timing, effective config, split composition
//	3 (-vvv)    - + Every test prediction with its neighbours

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults OutputCategory = iota // The report itself
	OutputErrors                        // Errors with hints

	// Level 1 (-v) - Informational
	OutputProgress // Stage announcements
	OutputSummary  // Run summary after completion

	// Level 2 (-vv) - Detailed
	OutputTiming // Per-stage durations
	OutputConfig // Effective configuration
	OutputSplit  // Per-class split counts

	// Level 3 (-vvv) - Trace
	OutputPredictions // Every prediction with neighbour distances
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults: VerbosityUser,
	OutputErrors:  VerbosityUser,

	OutputProgress: VerbosityInfo,
	OutputSummary:  VerbosityInfo,

	OutputTiming: VerbosityDebug,
	OutputConfig: VerbosityDebug,
	OutputSplit:  VerbosityDebug,

	OutputPredictions: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}
