package dag

// NodeInfo is a serializable snapshot of a node's declarations and edges.
type NodeInfo struct {
	Name       string   `json:"name"`
	Inputs     []string `json:"inputs"`
	Outputs    []string `json:"outputs"`
	DependsOn  []string `json:"depends_on"`
	Dependants []string `json:"dependants"`
	Validators int      `json:"validators"`
}

// Edge represents a dependency: To depends on From.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Describe snapshots n. Validators is zero for nodes that are not
// ValidatorNodes.
func Describe(n Node) NodeInfo {
	info := NodeInfo{
		Name:       n.Name(),
		Inputs:     n.Inputs().Names(),
		Outputs:    n.Outputs().Names(),
		DependsOn:  names(n.Dependencies()),
		Dependants: names(n.Dependants()),
	}
	if vn, ok := n.(*ValidatorNode); ok {
		info.Validators = len(vn.validators)
	}
	return info
}

// Edges lists the dependency edges of every registered node, ordered by
// dependant name and then by edge insertion order.
func (r *Registry) Edges() []Edge {
	var edges []Edge
	for _, name := range r.List() {
		n, _ := r.Get(name)
		for _, dep := range n.Dependencies() {
			edges = append(edges, Edge{From: dep.Name(), To: name})
		}
	}
	return edges
}
