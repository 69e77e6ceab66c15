package story

// Stats describes the shape of a single story.
type Stats struct {
	Nodes          int
	Endings        int
	WinningEndings int
	// Depth counts levels including the root; a lone root has depth 1.
	Depth        int
	MaxBranching int
}

// ComputeStats walks the story from its root. Nodes unreachable from the
// root still count towards Nodes and Endings.
func ComputeStats(s *Story) Stats {
	var st Stats
	for _, n := range s.Nodes {
		st.Nodes++
		if n.IsEnding || len(n.Options) == 0 {
			st.Endings++
		}
		if n.IsWinningEnding {
			st.WinningEndings++
		}
		if len(n.Options) > st.MaxBranching {
			st.MaxBranching = len(n.Options)
		}
	}
	if root := s.Root(); root != nil {
		st.Depth = depth(s, root.ID, map[int64]bool{})
	}
	return st
}

func depth(s *Story, id int64, visiting map[int64]bool) int {
	n := s.Nodes[id]
	if n == nil || visiting[id] {
		return 0
	}
	visiting[id] = true
	defer delete(visiting, id)

	deepest := 0
	for _, o := range n.Options {
		if d := depth(s, o.NodeID, visiting); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// LibraryStats aggregates Stats across many stories.
type LibraryStats struct {
	Stories        int
	Nodes          int
	MinNodes       int
	MaxNodes       int
	Endings        int
	WinningEndings int
	MaxDepth       int
}

// AvgNodes returns the mean node count per story.
func (l LibraryStats) AvgNodes() float64 {
	if l.Stories == 0 {
		return 0
	}
	return float64(l.Nodes) / float64(l.Stories)
}

// Aggregate folds per-story stats into library totals.
func Aggregate(all []Stats) LibraryStats {
	var l LibraryStats
	for i, st := range all {
		l.Stories++
		l.Nodes += st.Nodes
		l.Endings += st.Endings
		l.WinningEndings += st.WinningEndings
		if i == 0 || st.Nodes < l.MinNodes {
			l.MinNodes = st.Nodes
		}
		if st.Nodes > l.MaxNodes {
			l.MaxNodes = st.Nodes
		}
		if st.Depth > l.MaxDepth {
			l.MaxDepth = st.Depth
		}
	}
	return l
}
