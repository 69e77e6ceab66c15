package storygen

import (
	_ "embed"
	"encoding/json"
)

//go:embed demo_draft.json
var demoDraft []byte

// DemoDraft is the story served by the offline mock provider, whatever
// the theme.
func DemoDraft() json.RawMessage {
	return json.RawMessage(demoDraft)
}
