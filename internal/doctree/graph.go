package doctree

// Graph is the cross-reference graph between clauses of a tree.
type Graph struct {
	Nodes []GraphNode `json:"nodes" yaml:"nodes"`
	Edges []GraphEdge `json:"edges" yaml:"edges"`
}

// GraphNode references a tree node by UID.
type GraphNode struct {
	UID   string `json:"uid" yaml:"uid"`
	Label string `json:"label" yaml:"label"`
}

// GraphEdge links two clauses, e.g. "see Section 4".
type GraphEdge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
	Kind string `json:"kind" yaml:"kind"`
}

// ExtractGraph returns the cross-reference graph of t.
// TODO: resolve "Section N" / "Clause N.M" references against heading nodes.
func ExtractGraph(t *SymbolicTree) Graph {
	return Graph{Nodes: []GraphNode{}, Edges: []GraphEdge{}}
}
