// Package wellsource adapts the well-data collaborators, the DirectAccess
// API and local dataset files, to the analyzer's WellSource interface.
package wellsource

import (
	"context"

	"github.com/sells-group/wellprox/internal/model"
	"github.com/sells-group/wellprox/internal/normalize"
	"github.com/sells-group/wellprox/pkg/enverus"
)

// APISource fetches wells from the DirectAccess API. The query is
// county-scoped like the upstream system; the spatial prefilter narrows the
// result around the target afterwards.
type APISource struct {
	client enverus.Client
	params enverus.QueryParams
}

// NewAPISource creates an APISource over the given client and query.
func NewAPISource(client enverus.Client, params enverus.QueryParams) *APISource {
	return &APISource{client: client, params: params}
}

// FetchWells implements the analyzer's WellSource.
func (s *APISource) FetchWells(ctx context.Context, _ model.GeoPoint) (normalize.Dataset, error) {
	return s.client.QueryWells(ctx, s.params)
}

// FileSource reads a well dataset from a local CSV, XLSX, or JSON file.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for the given path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// FetchWells implements the analyzer's WellSource.
func (s *FileSource) FetchWells(_ context.Context, _ model.GeoPoint) (normalize.Dataset, error) {
	return LoadFile(s.path)
}
