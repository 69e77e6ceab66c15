package api

import (
	"time"

	"github.com/abhisek/storyforge/internal/story"
)

// CompleteStory is the wire form of a complete story: the root node plus
// every node keyed by id.
type CompleteStory struct {
	ID        int64                `json:"id"`
	Title     string               `json:"title"`
	Theme     string               `json:"theme,omitempty"`
	SessionID string               `json:"session_id"`
	CreatedAt time.Time            `json:"created_at"`
	RootNode  story.Node           `json:"root_node"`
	AllNodes  map[int64]story.Node `json:"all_nodes"`
}

// NewCompleteStory converts s for the wire. It fails with
// story.ErrRootNotFound when s has no root.
func NewCompleteStory(s *story.Story) (*CompleteStory, error) {
	root := s.Root()
	if root == nil {
		return nil, story.ErrRootNotFound
	}
	out := &CompleteStory{
		ID:        s.ID,
		Title:     s.Title,
		Theme:     s.Theme,
		SessionID: s.SessionID,
		CreatedAt: s.CreatedAt,
		AllNodes:  make(map[int64]story.Node, len(s.Nodes)),
	}
	for id, n := range s.Nodes {
		node := *n
		if node.Options == nil {
			node.Options = []story.Option{}
		}
		out.AllNodes[id] = node
	}
	out.RootNode = out.AllNodes[root.ID]
	return out, nil
}

// Story converts the wire form back into a story.
func (c *CompleteStory) Story() *story.Story {
	s := &story.Story{
		ID:        c.ID,
		Title:     c.Title,
		Theme:     c.Theme,
		SessionID: c.SessionID,
		CreatedAt: c.CreatedAt,
		RootID:    c.RootNode.ID,
		Nodes:     make(map[int64]*story.Node, len(c.AllNodes)),
	}
	for id, n := range c.AllNodes {
		node := n
		node.ID = id
		node.IsRoot = id == c.RootNode.ID
		s.Nodes[id] = &node
	}
	return s
}

type createStoryRequest struct {
	Theme string `json:"theme"`
}

type errorResponse struct {
	Error string `json:"error"`
}
