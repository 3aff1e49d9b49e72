// Package retainments documents the acquisition contract for debris
// retainment-structure inventories (currently LA County's GeoDatabase
// of debris basins) -- a fixed-URL zip bundle downloaded and unpacked
// to a local folder, rather than a bounded raster read. Wiring a live
// HTTP client is out of scope here; this package gives the core's
// data.Downloader contract a named home for it.
package retainments

import (
	"context"
	"time"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

// LACountyURL is the fixed download URL for LA County's debris-basin
// GeoDatabase bundle.
const LACountyURL = "https://pw.lacounty.gov/sur/nas/landbase/AGOL/Debris_Basin.gdb.zip"

// LACounty downloads and unpacks the LA County debris-basin GeoDatabase
// to a local folder. It implements data.Downloader.
type LACounty struct{}

// Download is unimplemented: fetching and unzipping the bundle requires
// a live network client, out of scope for this module. A real
// implementation would GET LACountyURL, unzip it under path, and
// return path.
func (LACounty) Download(ctx context.Context, path string, overwrite bool, timeout time.Duration) (string, error) {
	return "", pfdferrors.WithArg(pfdferrors.ErrDataAPI, "path", "LA County retainment acquisition is a documented contract, not an implemented client, in this module")
}
