package render

import "testing"

func TestViewportAtBottom(t *testing.T) {
	tests := []struct {
		name string
		v    Viewport
		want bool
	}{
		{"exactly at bottom", Viewport{ScrollTop: 700, ScrollHeight: 1000, ClientHeight: 300}, true},
		{"within one pixel", Viewport{ScrollTop: 699, ScrollHeight: 1000, ClientHeight: 300}, true},
		{"scrolled up", Viewport{ScrollTop: 500, ScrollHeight: 1000, ClientHeight: 300}, false},
		{"content shorter than panel", Viewport{ScrollTop: 0, ScrollHeight: 100, ClientHeight: 300}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.AtBottom(); got != tt.want {
				t.Errorf("AtBottom() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestViewportReflowFollowsWhenAtBottom(t *testing.T) {
	v := Viewport{ScrollTop: 700, ScrollHeight: 1000, ClientHeight: 300}
	got := v.Reflow(1400)
	if got.ScrollTop != 1100 {
		t.Errorf("ScrollTop = %v, want 1100", got.ScrollTop)
	}
	if !got.AtBottom() {
		t.Error("expected panel to stay at bottom")
	}
}

func TestViewportReflowKeepsPositionWhenScrolledUp(t *testing.T) {
	v := Viewport{ScrollTop: 200, ScrollHeight: 1000, ClientHeight: 300}
	got := v.Reflow(1400)
	if got.ScrollTop != 200 {
		t.Errorf("ScrollTop = %v, want 200", got.ScrollTop)
	}
}

func TestViewportReflowClampsOnShrink(t *testing.T) {
	v := Viewport{ScrollTop: 500, ScrollHeight: 1000, ClientHeight: 300}
	got := v.Reflow(400)
	if got.ScrollTop != 100 {
		t.Errorf("ScrollTop = %v, want 100", got.ScrollTop)
	}
}
