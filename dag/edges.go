package dag

import "sync"

// graphMu guards every adjacency set. One lock for the whole graph keeps
// both sides of an edge consistent for readers.
var graphMu sync.RWMutex

type adjacency struct {
	dependencies []Node
	dependants   []Node
	depSet       map[Node]struct{}
	dptSet       map[Node]struct{}
}

func newAdjacency() adjacency {
	return adjacency{
		depSet: make(map[Node]struct{}),
		dptSet: make(map[Node]struct{}),
	}
}

// init allocates the sets of a zero-value adjacency, e.g. a Base that was
// not built with NewBase.
func (a *adjacency) init() {
	if a.depSet == nil {
		a.depSet = make(map[Node]struct{})
	}
	if a.dptSet == nil {
		a.dptSet = make(map[Node]struct{})
	}
}

// AddDependency records that n depends on dep. It is equivalent to
// AddDependant(dep, n), and adding an existing edge changes nothing.
func AddDependency(n, dep Node) {
	link(n, dep)
}

// AddDependant records that dependant depends on n. It is equivalent to
// AddDependency(dependant, n).
func AddDependant(n, dependant Node) {
	link(dependant, n)
}

// link inserts the edge "dependant depends on dependency" on both sides.
func link(dependant, dependency Node) {
	graphMu.Lock()
	defer graphMu.Unlock()

	from := dependant.adjacency()
	if _, ok := from.depSet[dependency]; ok {
		return
	}
	to := dependency.adjacency()
	from.init()
	to.init()

	from.depSet[dependency] = struct{}{}
	from.dependencies = append(from.dependencies, dependency)
	to.dptSet[dependant] = struct{}{}
	to.dependants = append(to.dependants, dependant)
}

// DependsOn reports whether n has a direct dependency edge to dep.
func DependsOn(n, dep Node) bool {
	graphMu.RLock()
	defer graphMu.RUnlock()
	_, ok := n.adjacency().depSet[dep]
	return ok
}
