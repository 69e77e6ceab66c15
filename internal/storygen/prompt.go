package storygen

import (
	"fmt"
	"strings"
)

// systemPrompt describes the story shape to the model.
func systemPrompt(cfg Config) string {
	return fmt.Sprintf(`You are a creative story writer who creates engaging choose-your-own-adventure stories.
Generate a complete branching story with multiple paths and endings.

The story must have:
1. A compelling title.
2. A starting situation (the root node) with 2-3 options.
3. Options that lead to further nodes, each with their own options.
4. Some paths that end well and others that end badly.
5. At least one winning ending.

Structure rules:
- Every node has a short unique id. The "root" field names the starting node.
- Every option names the id of the node it leads to in "next".
- Non-ending nodes have 2-3 options. Ending nodes have no options.
- A winning ending is always an ending.
- The story is %d-%d levels deep, root included. Vary the path lengths so some end earlier than others.
- Never link back to an earlier node.
- Write in the second person and keep each node under 120 words.`, cfg.MinDepth, minInt(cfg.MinDepth+1, cfg.MaxDepth))
}

// buildUserMessage names the theme and, on a retry, why the previous
// draft was rejected.
func buildUserMessage(theme, feedback string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a story with the theme: %s", theme)
	if feedback != "" {
		fmt.Fprintf(&b, "\n\nYour previous story was rejected: %s\nFix this in the new story.", feedback)
	}
	return b.String()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
