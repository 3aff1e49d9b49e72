// Package nhd documents the acquisition contract for National
// Hydrography Dataset (NHD) hydrologic-unit bundles: a HUC4/HUC8 code
// resolves to a TNM product, whose Shapefile/GeoPackage/FileGDB bundle
// is downloaded and unpacked to a local folder. Wiring a live TNM
// client is out of scope here; this package gives the core's
// data.Downloader contract a named home for it.
package nhd

import (
	"context"
	"time"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

// Dataset is the fully qualified TNM dataset name for NHD Best
// Resolution data.
const Dataset = "National Hydrography Dataset (NHD) Best Resolution"

// Format is a supported NHD bundle file format.
type Format string

const (
	FormatShapefile  Format = "Shapefile"
	FormatGeoPackage Format = "GeoPackage"
	FormatFileGDB    Format = "FileGDB"
)

// Downloader resolves HUC to its TNM NHD product and downloads the
// bundle for Format to a local folder. It implements data.Downloader.
type Downloader struct {
	HUC    string
	Format Format
}

// Download is unimplemented: resolving HUC through the TNM API and
// downloading the matched bundle requires a live network client, out
// of scope for this module. A missing HUC match is expected to report
// errors.ErrNoTNMProducts.
func (d *Downloader) Download(ctx context.Context, path string, overwrite bool, timeout time.Duration) (string, error) {
	return "", pfdferrors.WithArg(pfdferrors.ErrNoTNMProducts, "huc", "NHD acquisition is a documented contract, not an implemented client, in this module")
}
