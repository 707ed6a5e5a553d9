package graph

const maxTier = 7

// assignTiers layers the graph by breadth-first distance from entry nodes.
// Entry nodes are those belonging to entry point files plus every node with
// no incoming edge. A node reachable along several paths keeps the longest
// distance, capped at maxTier; unreachable nodes stay at tier 0.
func assignTiers(nodes []Node, edges []Edge, entryPoints map[string]bool) map[string]int {
	nodeIDs := make(map[string]bool, len(nodes))
	fileToIDs := make(map[string][]string)
	for _, n := range nodes {
		nodeIDs[n.ID] = true
		if n.FilePath != "" {
			fileToIDs[n.FilePath] = append(fileToIDs[n.FilePath], n.ID)
		}
	}

	adj := make(map[string][]string)
	adjSeen := make(map[[2]string]bool)
	hasIncoming := make(map[string]bool)
	for _, e := range edges {
		hasIncoming[e.To] = true
		if nodeIDs[e.From] && nodeIDs[e.To] {
			pair := [2]string{e.From, e.To}
			if !adjSeen[pair] {
				adjSeen[pair] = true
				adj[e.From] = append(adj[e.From], e.To)
			}
		}
	}

	entryNodeIDs := make(map[string]bool)
	for ep := range entryPoints {
		for _, id := range fileToIDs[ep] {
			entryNodeIDs[id] = true
		}
	}
	for _, n := range nodes {
		if !hasIncoming[n.ID] {
			entryNodeIDs[n.ID] = true
		}
	}

	tiers := make(map[string]int)
	var queue []string
	for _, n := range nodes {
		if entryNodeIDs[n.ID] {
			tiers[n.ID] = 0
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		next := tiers[current] + 1
		if next > maxTier {
			next = maxTier
		}
		for _, neighbor := range adj[current] {
			if existing, ok := tiers[neighbor]; !ok || existing < next {
				tiers[neighbor] = next
				queue = append(queue, neighbor)
			}
		}
	}

	for _, n := range nodes {
		if _, ok := tiers[n.ID]; !ok {
			tiers[n.ID] = 0
		}
	}

	return tiers
}
