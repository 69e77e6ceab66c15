package layout

import (
	"strings"
	"testing"
)

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{80, 24, false},
		{120, 40, false},
		{79, 24, true},
		{80, 23, true},
	}
	for _, tt := range tests {
		if got := IsTooSmall(tt.w, tt.h); got != tt.want {
			t.Errorf("IsTooSmall(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestRenderHeader_ShowsTitleAndLocation(t *testing.T) {
	h := RenderHeader("Story", "/stories/42", 100)
	for _, want := range []string{AppName, "Story", "/stories/42"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
}

func TestRenderFooter_ShowsHints(t *testing.T) {
	f := RenderFooter([]KeyHint{{Key: "Enter", Description: "Generate"}}, 100)
	if !strings.Contains(f, "Enter") || !strings.Contains(f, "Generate") {
		t.Errorf("footer missing hint: %q", f)
	}
}
