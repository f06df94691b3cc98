package dag

import (
	"sort"
	"strings"
)

// CycleError reports a dependency cycle among modules. Cycle holds the
// members in dependency order.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	if len(e.Cycle) == 0 {
		return "dependency cycle"
	}
	loop := append(append([]string(nil), e.Cycle...), e.Cycle[0])
	return "dependency cycle: " + strings.Join(loop, " -> ")
}

// Linearize flattens the graph into a single evaluation order in which every
// node appears after all of its dependencies. When several nodes are ready at
// once, the one inserted first wins, so the result is fully deterministic.
// If the graph contains a cycle, a CycleError naming its members is returned.
func (g *Graph) Linearize() ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	indegree := make(map[string]int, len(g.nodes))
	var ready []*node
	for id, n := range g.nodes {
		indegree[id] = len(n.deps)
		if len(n.deps) == 0 {
			ready = append(ready, n)
		}
	}

	out := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		// Pop the ready node with the smallest insertion index.
		min := 0
		for i, n := range ready {
			if n.ord < ready[min].ord {
				min = i
			}
		}
		n := ready[min]
		ready = append(ready[:min], ready[min+1:]...)

		out = append(out, n.id)
		for _, dependent := range n.dependents {
			indegree[dependent.id]--
			if indegree[dependent.id] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(out) != len(g.nodes) {
		remaining := make(map[string]bool)
		for id, deg := range indegree {
			if deg > 0 {
				remaining[id] = true
			}
		}
		return nil, &CycleError{Cycle: g.findCycle(remaining)}
	}
	return out, nil
}

// findCycle extracts one concrete cycle from the nodes Kahn's algorithm could
// not retire. It runs a depth-first search with an explicit stack: revisiting
// a node that is still on the stack closes the loop.
func (g *Graph) findCycle(remaining map[string]bool) []string {
	permanent := make(map[string]bool)
	onStack := make(map[string]int)
	var stack []string

	var visit func(n *node) []string
	visit = func(n *node) []string {
		if permanent[n.id] {
			return nil
		}
		if pos, ok := onStack[n.id]; ok {
			return append([]string(nil), stack[pos:]...)
		}

		onStack[n.id] = len(stack)
		stack = append(stack, n.id)

		for _, dep := range sortByOrd(n.deps) {
			if !remaining[dep.id] {
				continue
			}
			if cycle := visit(dep); cycle != nil {
				return cycle
			}
		}

		delete(onStack, n.id)
		stack = stack[:len(stack)-1]
		permanent[n.id] = true
		return nil
	}

	var starts []*node
	for id := range remaining {
		starts = append(starts, g.nodes[id])
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].ord < starts[j].ord })
	for _, n := range starts {
		if cycle := visit(n); cycle != nil {
			return cycle
		}
	}
	return nil
}

func sortByOrd(m map[string]*node) []*node {
	out := make([]*node, 0, len(m))
	for _, n := range m {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ord < out[j].ord })
	return out
}
