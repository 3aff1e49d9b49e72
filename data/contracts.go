// Package data defines the data-acquisition contracts external
// collaborators (DEM tile servers, LANDFIRE, NOAA Atlas 14, the NRCS
// retainment inventory, USGS NHD) implement against. The core never
// imports a specific provider directly; it only depends on these two
// interfaces.
package data

import (
	"context"
	"time"

	"github.com/wildfire-hazards/pfdf-go/projection"
	"github.com/wildfire-hazards/pfdf-go/raster"
)

// DefaultConnectTimeout is the connect timeout for lightweight HEAD-style
// API calls (tile queries, job status polling).
const DefaultConnectTimeout = 10 * time.Second

// DefaultFetchTimeout is the connect timeout for data fetches (tile
// downloads, bundle downloads). A caller-supplied timeout of 0 disables
// the limit.
const DefaultFetchTimeout = 60 * time.Second

// RasterReader is implemented by providers that resolve a bounding box
// to an in-memory Raster: DEM tile mosaics, STATSGO soil rasters,
// LANDFIRE EVT layers. Tile-based providers fetch every tile
// overlapping bounds, verify they share one CRS, and copy each tile
// into its aligned window of a freshly allocated destination raster;
// zero overlapping tiles or a CRS mismatch across tiles is an error.
type RasterReader interface {
	Read(ctx context.Context, bounds *projection.BoundingBox, timeout time.Duration) (*raster.Raster, error)
}

// Downloader is implemented by providers that hand back a bundle on
// disk rather than raster values in memory: retainment-structure
// inventories, NHD HUC bundles, LANDFIRE job outputs. The core only
// ever consumes the returned path afterwards.
type Downloader interface {
	Download(ctx context.Context, path string, overwrite bool, timeout time.Duration) (string, error)
}
