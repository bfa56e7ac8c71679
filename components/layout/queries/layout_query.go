package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-flowsense/components/layout"
)

// LayoutInput identifies a persisted layout. An empty id selects the default.
type LayoutInput struct {
	LayoutID string `json:"layout_id"`
}

type layoutService interface {
	Layout(ctx context.Context, layoutID string) (layout.Config, error)
}

// LayoutQuery returns the stored layout configuration.
type LayoutQuery struct {
	service layoutService
}

// NewLayoutQuery builds the query.
func NewLayoutQuery(service layoutService) *LayoutQuery {
	return &LayoutQuery{service: service}
}

var _ gocommand.Querier[LayoutInput, layout.Config] = (*LayoutQuery)(nil)

// Query loads the layout.
func (q *LayoutQuery) Query(ctx context.Context, input LayoutInput) (layout.Config, error) {
	return q.service.Layout(ctx, input.LayoutID)
}

type viewService interface {
	View(ctx context.Context, layoutID string) (layout.View, error)
}

// ViewQuery derives the render-ready projection of a layout.
type ViewQuery struct {
	service viewService
}

// NewViewQuery builds the query.
func NewViewQuery(service viewService) *ViewQuery {
	return &ViewQuery{service: service}
}

var _ gocommand.Querier[LayoutInput, layout.View] = (*ViewQuery)(nil)

// Query resolves the view.
func (q *ViewQuery) Query(ctx context.Context, input LayoutInput) (layout.View, error) {
	return q.service.View(ctx, input.LayoutID)
}
