package render

// Viewport is the scroll geometry of a scrollable panel.
type Viewport struct {
	ScrollTop    float64
	ScrollHeight float64
	ClientHeight float64
}

// AtBottom reports whether the panel is scrolled to within 1px of its end.
func (v Viewport) AtBottom() bool {
	return v.ScrollHeight-v.ClientHeight <= v.ScrollTop+1
}

// Reflow returns the viewport after the content height changed to newHeight.
// The panel follows new content only if it was at the bottom before;
// otherwise the reader's position is kept.
func (v Viewport) Reflow(newHeight float64) Viewport {
	follow := v.AtBottom()
	v.ScrollHeight = newHeight
	limit := newHeight - v.ClientHeight
	if limit < 0 {
		limit = 0
	}
	if follow || v.ScrollTop > limit {
		v.ScrollTop = limit
	}
	return v
}
