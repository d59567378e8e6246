package proximity

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"go.uber.org/zap"

	"github.com/sells-group/wellprox/internal/model"
)

// ResolveBoundaryFile resolves a boundary from an uploaded file path.
// Shapefiles are read with go-shp; anything else is treated as GeoJSON bytes.
// Unreadable or non-polygonal files fall back to the synthesized square, in
// line with ResolveBoundary.
func ResolveBoundaryFile(target model.GeoPoint, path string) Boundary {
	if path == "" {
		return SyntheticBoundary(target)
	}

	if strings.EqualFold(filepath.Ext(path), ".shp") {
		return resolveShapefile(target, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		zap.L().Warn("boundary: cannot read upload, using fallback square",
			zap.String("path", path),
			zap.Error(err),
		)
		return SyntheticBoundary(target)
	}
	return ResolveBoundary(target, data)
}

// resolveShapefile extracts the first polygon feature's outer ring.
func resolveShapefile(target model.GeoPoint, path string) Boundary {
	reader, err := shp.Open(path)
	if err != nil {
		zap.L().Warn("boundary: cannot open shapefile, using fallback square",
			zap.String("path", path),
			zap.Error(err),
		)
		return SyntheticBoundary(target)
	}
	defer func() { _ = reader.Close() }()

	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok || poly == nil || len(poly.Points) == 0 {
			continue
		}

		ring := shapefileRing(poly)
		b, err := NewBoundary(ring)
		if err != nil {
			zap.L().Warn("boundary: skipping degenerate shapefile polygon", zap.Error(err))
			continue
		}
		return b
	}

	zap.L().Warn("boundary: shapefile has no usable polygon, using fallback square",
		zap.String("path", path),
	)
	return SyntheticBoundary(target)
}

// shapefileRing returns the first part of a shapefile polygon as a ring.
func shapefileRing(poly *shp.Polygon) []model.GeoPoint {
	end := int32(len(poly.Points))
	if poly.NumParts > 1 {
		end = poly.Parts[1]
	}

	ring := make([]model.GeoPoint, 0, end)
	for i := int32(0); i < end; i++ {
		ring = append(ring, model.GeoPoint{Lat: poly.Points[i].Y, Lng: poly.Points[i].X})
	}
	return ring
}
