package story

import (
	"fmt"
	"sort"
)

// FormatVersion is the current version of the exported draft format.
const FormatVersion = "v1.0.0"

// Draft is the id-addressed form of a story. It is what the LLM is asked to
// produce and what export/import files contain. Node ids are local to the
// draft and are replaced by database ids when the draft is saved.
type Draft struct {
	FormatVersion string      `json:"format_version,omitempty" yaml:"format_version,omitempty"`
	Title         string      `json:"title" yaml:"title" validate:"required,notblank,max=200"`
	Theme         string      `json:"theme,omitempty" yaml:"theme,omitempty" validate:"max=500"`
	Root          string      `json:"root" yaml:"root" validate:"required"`
	Nodes         []DraftNode `json:"nodes" yaml:"nodes" validate:"required,min=1,dive"`
}

// DraftNode is one node of a Draft.
type DraftNode struct {
	ID              string        `json:"id" yaml:"id" validate:"required,max=64"`
	Content         string        `json:"content" yaml:"content" validate:"required,notblank,max=4000"`
	IsEnding        bool          `json:"is_ending" yaml:"is_ending"`
	IsWinningEnding bool          `json:"is_winning_ending" yaml:"is_winning_ending"`
	Options         []DraftOption `json:"options" yaml:"options,omitempty" validate:"dive"`
}

// DraftOption is one choice of a DraftNode; Next names the target node id.
type DraftOption struct {
	Text string `json:"text" yaml:"text" validate:"required,notblank,max=300"`
	Next string `json:"next" yaml:"next" validate:"required"`
}

// Index maps node ids to nodes. Later duplicates win; use the graph
// validator to reject duplicates.
func (d *Draft) Index() map[string]*DraftNode {
	idx := make(map[string]*DraftNode, len(d.Nodes))
	for i := range d.Nodes {
		idx[d.Nodes[i].ID] = &d.Nodes[i]
	}
	return idx
}

// FromStory converts a stored story back into a Draft, giving every node
// a stable local id derived from its database id.
func FromStory(s *Story) (*Draft, error) {
	if s.Root() == nil {
		return nil, ErrRootNotFound
	}

	ids := make([]int64, 0, len(s.Nodes))
	for id := range s.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	d := &Draft{
		FormatVersion: FormatVersion,
		Title:         s.Title,
		Theme:         s.Theme,
		Root:          localID(s.RootID),
		Nodes:         make([]DraftNode, 0, len(ids)),
	}
	for _, id := range ids {
		n := s.Nodes[id]
		dn := DraftNode{
			ID:              localID(n.ID),
			Content:         n.Content,
			IsEnding:        n.IsEnding,
			IsWinningEnding: n.IsWinningEnding,
		}
		for _, o := range n.Options {
			dn.Options = append(dn.Options, DraftOption{Text: o.Text, Next: localID(o.NodeID)})
		}
		d.Nodes = append(d.Nodes, dn)
	}
	return d, nil
}

func localID(id int64) string {
	return fmt.Sprintf("n%d", id)
}
