// Package dag provides the in-memory graph model for dagboard, together
// with cycle detection and structural validation.
//
// A [Graph] holds nodes and directed edges. The model itself performs no
// acyclicity checking - edges that would form a cycle can be inserted
// freely, which allows loading transiently-invalid graphs authored
// elsewhere. Acyclicity is enforced at the edit boundary by the editor
// package using [WouldCreateCycle], and observed after the fact by
// [Validate].
//
// # Cycle Detection
//
// [HasCycle] and [WouldCreateCycle] share a single iterative depth-first
// search over the graph's adjacency, optionally extended by one
// hypothetical edge. The search maintains a global visited set and an
// active-path set; an edge into a node on the active path is a back-edge
// and signals a cycle. Each node is visited at most once, so a call costs
// O(V+E). The iterative formulation avoids recursion-depth limits on
// large graphs.
//
// # Validation
//
// [Validate] produces a [Report] distinguishing errors (conditions that
// make the graph an invalid DAG) from warnings (discouraged but legal
// shapes). It is a pure function of the node and edge collections.
package dag
