package smells

import (
	"archmap/internal/engine/graph"
)

const (
	white = iota
	gray
	black
)

// detectCycle runs an iterative DFS over the dependency edges. On a back
// edge, every node on the stack from the back edge's target up to the
// current node belongs to the cycle.
func detectCycle(model *graph.Model) map[string]bool {
	adj := make(map[string][]string)
	for _, e := range model.Edges {
		if e.Type == "data" {
			continue
		}
		adj[e.From] = append(adj[e.From], e.To)
	}

	colors := make(map[string]int, len(model.Nodes))
	for _, n := range model.Nodes {
		colors[n.ID] = white
	}

	cycleNodes := make(map[string]bool)

	type frame struct {
		id   string
		next int
	}

	for _, start := range model.Nodes {
		if colors[start.ID] != white {
			continue
		}
		colors[start.ID] = gray
		stack := []frame{{id: start.ID}}

		for len(stack) > 0 {
			top := len(stack) - 1
			neighbors := adj[stack[top].id]
			if stack[top].next >= len(neighbors) {
				colors[stack[top].id] = black
				stack = stack[:top]
				continue
			}

			v := neighbors[stack[top].next]
			stack[top].next++
			if _, known := colors[v]; !known {
				continue
			}

			switch colors[v] {
			case gray:
				marking := false
				for _, f := range stack {
					if f.id == v {
						marking = true
					}
					if marking {
						cycleNodes[f.id] = true
					}
				}
			case white:
				colors[v] = gray
				stack = append(stack, frame{id: v})
			}
		}
	}

	return cycleNodes
}
