package storygen

import (
	"fmt"

	"github.com/abhisek/storyforge/internal/story"
)

// GraphValidator checks that the nodes form a playable graph: unique ids,
// a known root, no dangling or cyclic links, every node reachable, endings
// without options, non-endings with at least one, and bounded depth.
type GraphValidator struct {
	// MaxDepth limits the longest path in levels, root included.
	// Zero means unlimited.
	MaxDepth int
}

func (v *GraphValidator) Name() string { return "graph" }

func (v *GraphValidator) Validate(d *story.Draft, _ string) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...), Retryable: true}
	}

	idx := make(map[string]*story.DraftNode, len(d.Nodes))
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if _, dup := idx[n.ID]; dup {
			return fail("duplicate node id %q", n.ID)
		}
		idx[n.ID] = n
	}
	if _, ok := idx[d.Root]; !ok {
		return fail("root %q is not a node", d.Root)
	}

	for _, n := range d.Nodes {
		if n.IsEnding && len(n.Options) > 0 {
			return fail("ending node %q has options", n.ID)
		}
		if !n.IsEnding && len(n.Options) == 0 {
			return fail("node %q has no options but is not an ending", n.ID)
		}
		for _, o := range n.Options {
			if _, ok := idx[o.Next]; !ok {
				return fail("node %q links to unknown node %q", n.ID, o.Next)
			}
		}
	}

	depth, cycleAt := longestPath(d.Root, idx)
	if cycleAt != "" {
		return fail("node %q is part of a cycle", cycleAt)
	}
	if v.MaxDepth > 0 && depth > v.MaxDepth {
		return fail("story is %d levels deep, limit is %d", depth, v.MaxDepth)
	}

	seen := map[string]bool{d.Root: true}
	queue := []string{d.Root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, o := range idx[id].Options {
			if !seen[o.Next] {
				seen[o.Next] = true
				queue = append(queue, o.Next)
			}
		}
	}
	for _, n := range d.Nodes {
		if !seen[n.ID] {
			return fail("node %q is unreachable from the root", n.ID)
		}
	}
	return nil
}

// longestPath returns the number of levels on the longest path from root,
// or the id of a node on a cycle.
func longestPath(root string, idx map[string]*story.DraftNode) (int, string) {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int, len(idx))
	depth := make(map[string]int, len(idx))

	var visit func(id string) string
	visit = func(id string) string {
		switch state[id] {
		case visiting:
			return id
		case done:
			return ""
		}
		state[id] = visiting
		best := 0
		for _, o := range idx[id].Options {
			if c := visit(o.Next); c != "" {
				return c
			}
			if depth[o.Next] > best {
				best = depth[o.Next]
			}
		}
		state[id] = done
		depth[id] = best + 1
		return ""
	}

	if c := visit(root); c != "" {
		return 0, c
	}
	return depth[root], ""
}
