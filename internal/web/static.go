package web

import (
	"context"
	"io"

	"github.com/KaramelBytes/habitdash/internal/dashboard"
)

// RenderStatic writes a self-contained dashboard document showing the groups
// enabled in t. The sidebar links to in-page anchors and no server is needed
// to view it; Plotly.js still loads from its CDN.
func RenderStatic(ctx context.Context, w io.Writer, d *dashboard.Dashboard, t dashboard.Toggles) error {
	return pageComponent(newPageView(d, t, false, false)).Render(ctx, w)
}
