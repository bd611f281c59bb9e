package dag

// Validation messages. These are user-facing strings surfaced verbatim by
// the UI, so they are fixed here rather than composed at call sites.
const (
	WarnTooFewNodes   = "graph should have at least 2 nodes for meaningful connections"
	ErrMsgCycle       = "graph contains cycles — DAG must be acyclic"
	ErrMsgSelfLoop    = "self-referential edges are not allowed"
	WarnDisconnected  = "some nodes are not connected to the graph"
	WarnNoConnections = "no connections between nodes"
)

// Report describes the structural health of a graph. Errors are conditions
// that make the graph an invalid DAG and force Valid to false; warnings
// are advisories that never affect validity.
type Report struct {
	Valid    bool     `json:"valid" bson:"valid"`
	Errors   []string `json:"errors" bson:"errors"`
	Warnings []string `json:"warnings" bson:"warnings"`
}

// Equal reports whether two reports carry identical findings.
func (r Report) Equal(other Report) bool {
	if r.Valid != other.Valid || len(r.Errors) != len(other.Errors) || len(r.Warnings) != len(other.Warnings) {
		return false
	}
	for i := range r.Errors {
		if r.Errors[i] != other.Errors[i] {
			return false
		}
	}
	for i := range r.Warnings {
		if r.Warnings[i] != other.Warnings[i] {
			return false
		}
	}
	return true
}

// Validate runs the structural checks against the graph and returns a
// report with deterministic finding order. It is a pure function of the
// node and edge collections: identical input yields an identical report,
// regardless of call history.
//
// Checks run in a fixed order:
//
//  1. Fewer than two nodes → size warning
//  2. Whole-graph cycle detection → cycle error
//  3. Any self-referential edge → self-loop error
//  4. Connectivity: nodes untouched by any edge → disconnected warning;
//     no edges at all → no-connections warning
//
// The two connectivity warnings are independent checks, not branches of
// one rule; a graph can in principle trigger either on its own.
func Validate(g *Graph) Report {
	report := Report{
		Errors:   []string{},
		Warnings: []string{},
	}

	if g.NodeCount() < 2 {
		report.Warnings = append(report.Warnings, WarnTooFewNodes)
	}

	if HasCycle(g) {
		report.Errors = append(report.Errors, ErrMsgCycle)
	}

	for _, e := range g.Edges() {
		if e.IsSelfLoop() {
			report.Errors = append(report.Errors, ErrMsgSelfLoop)
			break
		}
	}

	if g.NodeCount() > 1 {
		connected := make(map[string]struct{}, g.NodeCount())
		for _, e := range g.Edges() {
			connected[e.From] = struct{}{}
			connected[e.To] = struct{}{}
		}
		if len(connected) < g.NodeCount() && g.EdgeCount() > 0 {
			report.Warnings = append(report.Warnings, WarnDisconnected)
		}
		if g.EdgeCount() == 0 {
			report.Warnings = append(report.Warnings, WarnNoConnections)
		}
	}

	report.Valid = len(report.Errors) == 0
	return report
}
