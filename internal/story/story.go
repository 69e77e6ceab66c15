package story

import (
	"errors"
	"time"
)

var (
	ErrStoryNotFound = errors.New("story not found")
	ErrJobNotFound   = errors.New("job not found")
	ErrRootNotFound  = errors.New("root node not found")
)

// Option is a choice offered at a node. NodeID is the node the choice leads to.
type Option struct {
	Text   string `json:"text"`
	NodeID int64  `json:"node_id"`
}

// Node is a single segment of a story.
type Node struct {
	ID              int64    `json:"id"`
	Content         string   `json:"content"`
	IsRoot          bool     `json:"is_root"`
	IsEnding        bool     `json:"is_ending"`
	IsWinningEnding bool     `json:"is_winning_ending"`
	Options         []Option `json:"options"`
}

// Story is a complete generated story with all of its nodes.
type Story struct {
	ID        int64
	Title     string
	Theme     string
	SessionID string
	CreatedAt time.Time
	RootID    int64
	Nodes     map[int64]*Node
}

// Root returns the starting node, or nil if the story has none.
func (s *Story) Root() *Node {
	if s == nil || s.Nodes == nil {
		return nil
	}
	return s.Nodes[s.RootID]
}

// Node returns the node with the given id, or nil.
func (s *Story) Node(id int64) *Node {
	if s == nil || s.Nodes == nil {
		return nil
	}
	return s.Nodes[id]
}

// Summary is the list view of a stored story.
type Summary struct {
	ID        int64
	Title     string
	Theme     string
	SessionID string
	CreatedAt time.Time
}
