package story

import (
	"errors"
	"fmt"
)

// ErrInvalidChoice is returned when a choice cannot be taken from the
// current node.
var ErrInvalidChoice = errors.New("invalid choice")

// Game is the play state of one run through a story.
type Game struct {
	story   *Story
	current int64
	path    []int64
}

// NewGame starts a game at the story's root.
func NewGame(s *Story) (*Game, error) {
	root := s.Root()
	if root == nil {
		return nil, ErrRootNotFound
	}
	return &Game{story: s, current: root.ID}, nil
}

// Story returns the story being played.
func (g *Game) Story() *Story { return g.story }

// Current returns the node the player is at.
func (g *Game) Current() *Node { return g.story.Node(g.current) }

// Steps returns how many choices have been made.
func (g *Game) Steps() int { return len(g.path) }

// Over reports whether the current node ends the story.
func (g *Game) Over() bool {
	n := g.Current()
	return n == nil || n.IsEnding || len(n.Options) == 0
}

// Won reports whether the game ended on a winning ending.
func (g *Game) Won() bool {
	n := g.Current()
	return g.Over() && n != nil && n.IsWinningEnding
}

// Choose follows option i of the current node.
func (g *Game) Choose(i int) error {
	n := g.Current()
	if n == nil || g.Over() {
		return fmt.Errorf("%w: story has ended", ErrInvalidChoice)
	}
	if i < 0 || i >= len(n.Options) {
		return fmt.Errorf("%w: option %d out of range", ErrInvalidChoice, i+1)
	}
	next := n.Options[i].NodeID
	if g.story.Node(next) == nil {
		return fmt.Errorf("%w: option %d leads to missing node %d", ErrInvalidChoice, i+1, next)
	}
	g.path = append(g.path, g.current)
	g.current = next
	return nil
}

// Back undoes the last choice. It returns false at the root.
func (g *Game) Back() bool {
	if len(g.path) == 0 {
		return false
	}
	g.current = g.path[len(g.path)-1]
	g.path = g.path[:len(g.path)-1]
	return true
}

// Restart returns to the root and forgets the path taken.
func (g *Game) Restart() {
	g.current = g.story.RootID
	g.path = nil
}
