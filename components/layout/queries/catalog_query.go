package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-flowsense/components/layout"
)

// CatalogInput carries no filters.
type CatalogInput struct{}

// CatalogResult lists the widget types and layout options a host can offer.
type CatalogResult struct {
	WidgetTypes []layout.WidgetType `json:"widget_types"`
	Layouts     []layout.Option     `json:"layouts"`
}

type catalogService interface {
	Catalog() []layout.WidgetType
	Options() []layout.Option
}

// CatalogQuery exposes the widget catalog.
type CatalogQuery struct {
	service catalogService
}

// NewCatalogQuery builds the query.
func NewCatalogQuery(service catalogService) *CatalogQuery {
	return &CatalogQuery{service: service}
}

var _ gocommand.Querier[CatalogInput, CatalogResult] = (*CatalogQuery)(nil)

// Query returns the catalog snapshot.
func (q *CatalogQuery) Query(_ context.Context, _ CatalogInput) (CatalogResult, error) {
	return CatalogResult{
		WidgetTypes: q.service.Catalog(),
		Layouts:     q.service.Options(),
	}, nil
}
