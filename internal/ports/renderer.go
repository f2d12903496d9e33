package ports

import "github.com/feedgate-labs/feedgate/internal/domain"

// Renderer turns the freshest fetched collection for one channel into
// presentational output. It is pure presentation: the core always passes a
// non-nil (possibly empty) slice and never calls it with stale data.
type Renderer interface {
	Render(items []domain.ContentRecord)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(items []domain.ContentRecord)

// Render calls f.
func (f RendererFunc) Render(items []domain.ContentRecord) { f(items) }
