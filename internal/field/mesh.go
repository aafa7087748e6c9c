package field

// Edge connects two primitives of a mesh by index, A < B.
type Edge struct {
	A, B    int
	Opacity float64
}

// Links returns an edge for every unordered pair of points closer than
// threshold. Opacity falls off linearly from base at distance 0 to 0 at
// the threshold. The pairwise scan is quadratic; keep point counts small.
func Links(points []Vec, threshold, base float64) []Edge {
	if threshold <= 0 {
		return nil
	}
	var edges []Edge
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			d := points[i].Dist(points[j])
			if d < threshold {
				edges = append(edges, Edge{A: i, B: j, Opacity: base * (1 - d/threshold)})
			}
		}
	}
	return edges
}
