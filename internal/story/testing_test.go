package story

import "time"

// sampleStory builds:
//
//	1 (root) -> 2 (lose), 3
//	3 -> 4 (win), 5 (lose)
func sampleStory() *Story {
	return &Story{
		ID:        9,
		Title:     "The Sunken Bell",
		Theme:     "pirates",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		RootID:    1,
		Nodes: map[int64]*Node{
			1: {ID: 1, Content: "You wake on a deck.", IsRoot: true, Options: []Option{
				{Text: "Jump overboard", NodeID: 2},
				{Text: "Find the captain", NodeID: 3},
			}},
			2: {ID: 2, Content: "The sea takes you.", IsEnding: true},
			3: {ID: 3, Content: "The captain eyes you.", Options: []Option{
				{Text: "Offer the map", NodeID: 4},
				{Text: "Draw your sword", NodeID: 5},
			}},
			4: {ID: 4, Content: "Treasure is yours.", IsEnding: true, IsWinningEnding: true},
			5: {ID: 5, Content: "You lose the duel.", IsEnding: true},
		},
	}
}
