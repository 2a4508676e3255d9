package meshing

// DisjointSet is an array-backed union-find over the integers [0, n),
// with union by size and path compression.
type DisjointSet struct {
	parent []int
	size   []int
	sets   int
}

// NewDisjointSet creates n singleton sets.
func NewDisjointSet(n int) *DisjointSet {
	ds := &DisjointSet{
		parent: make([]int, n),
		size:   make([]int, n),
		sets:   n,
	}
	for i := range ds.parent {
		ds.parent[i] = i
		ds.size[i] = 1
	}
	return ds
}

// Len is the number of elements.
func (ds *DisjointSet) Len() int { return len(ds.parent) }

// Sets is the current number of disjoint sets.
func (ds *DisjointSet) Sets() int { return ds.sets }

// Find returns the root of i's set, compressing the path on the way.
func (ds *DisjointSet) Find(i int) int {
	root := i
	for ds.parent[root] != root {
		root = ds.parent[root]
	}
	for ds.parent[i] != root {
		next := ds.parent[i]
		ds.parent[i] = root
		i = next
	}
	return root
}

// Connected reports whether p and q are in the same set.
func (ds *DisjointSet) Connected(p, q int) bool {
	return ds.Find(p) == ds.Find(q)
}

// SetSize is the size of the set containing i.
func (ds *DisjointSet) SetSize(i int) int {
	return ds.size[ds.Find(i)]
}

// Union merges the sets of p and q and returns the surviving root.
// The smaller set is attached under the larger; on a tie p's root survives.
func (ds *DisjointSet) Union(p, q int) int {
	rootP, rootQ := ds.Find(p), ds.Find(q)
	if rootP == rootQ {
		return rootP
	}
	ds.sets--
	if ds.size[rootP] < ds.size[rootQ] {
		ds.parent[rootP] = rootQ
		ds.size[rootQ] += ds.size[rootP]
		return rootQ
	}
	ds.parent[rootQ] = rootP
	ds.size[rootP] += ds.size[rootQ]
	return rootP
}
