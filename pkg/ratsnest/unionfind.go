package ratsnest

// clusters tracks which anchors are connected using a union-find
// structure with union by rank and path compression.
type clusters struct {
	parent []int
	rank   []int
}

func newClusters(n int) *clusters {
	c := &clusters{parent: make([]int, n), rank: make([]int, n)}
	for i := range c.parent {
		c.parent[i] = i
	}
	return c
}

// connect merges the clusters of a and b.
func (c *clusters) connect(a, b int) {
	rootA, rootB := c.find(a), c.find(b)
	if rootA == rootB {
		return
	}
	switch {
	case c.rank[rootA] < c.rank[rootB]:
		c.parent[rootA] = rootB
	case c.rank[rootA] > c.rank[rootB]:
		c.parent[rootB] = rootA
	default:
		c.parent[rootB] = rootA
		c.rank[rootA]++
	}
}

// find returns the representative of the cluster containing i.
func (c *clusters) find(i int) int {
	root := i
	for c.parent[root] != root {
		root = c.parent[root]
	}
	for i != root {
		next := c.parent[i]
		c.parent[i] = root
		i = next
	}
	return root
}

// groups returns the members of every cluster, ordered by their lowest
// member.
func (c *clusters) groups() [][]int {
	index := make(map[int]int)
	var out [][]int
	for i := range c.parent {
		root := c.find(i)
		g, ok := index[root]
		if !ok {
			g = len(out)
			index[root] = g
			out = append(out, nil)
		}
		out[g] = append(out[g], i)
	}
	return out
}
