// Package dem is a RasterReader backed by USGS National Map (TNM) DEM
// tiles: it queries every tile overlapping a bounding box, verifies
// they share one CRS, and mosaics them into a single Raster through an
// internal/tilecache TileDB array.
package dem

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/wildfire-hazards/pfdf-go/projection"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

// apiURL is the TNM Products service endpoint.
const apiURL = "https://tnmaccess.nationalmap.gov/api/v1/products"

// Resolutions maps short DEM resolution strings onto their fully
// qualified TNM dataset names.
var Resolutions = map[string]string{
	"1/3 arc-second": "National Elevation Dataset (NED) 1/3 arc-second Current",
	"1 arc-second":   "National Elevation Dataset (NED) 1 arc-second Current",
	"1 meter":        "Digital Elevation Model (DEM) 1 meter",
	"1/9 arc-second": "National Elevation Dataset (NED) 1/9 arc-second",
	"2 arc-second":   "National Elevation Dataset (NED) Alaska 2 arc-second Current",
	"5 meter":        "Alaska IFSAR 5 meter DEM",
}

// Dataset returns the fully qualified TNM dataset name for resolution.
func Dataset(resolution string) (string, error) {
	name, ok := Resolutions[resolution]
	if !ok {
		return "", pfdferrors.WithArg(pfdferrors.ErrDataAPI, "resolution", "%q is not a supported DEM resolution", resolution)
	}
	return name, nil
}

// tileInfo is the subset of a TNM product record that Read needs.
type tileInfo struct {
	Title       string
	DownloadURL string
	Bounds      *projection.BoundingBox
}

type tnmResponse struct {
	Total int `json:"total"`
	Items []struct {
		Title       string `json:"title"`
		DownloadURL string `json:"downloadURL"`
		BoundingBox struct {
			MinX float64 `json:"minX"`
			MinY float64 `json:"minY"`
			MaxX float64 `json:"maxX"`
			MaxY float64 `json:"maxY"`
		} `json:"boundingBox"`
	} `json:"items"`
	Errors []string `json:"errors"`
}

// queryTiles sends one TNM Products query for a dataset, bounds (in
// EPSG:4326), and paging window, mirroring the original's query/max
// combination (capped to maxPerQuery results, no further paging -- a
// TooManyTNMProducts error covers search results the caller did not
// ask to page through).
func queryTiles(ctx context.Context, client *http.Client, dataset string, bounds *projection.BoundingBox, maxPerQuery int) ([]tileInfo, int, error) {
	wgs84 := bounds
	if bounds.CRS.IsSet() {
		reprojected, err := bounds.Reproject(projection.FromEPSG(4326))
		if err != nil {
			return nil, 0, fmt.Errorf("dem: reprojecting bounds to EPSG:4326: %w", err)
		}
		wgs84 = reprojected
	}

	params := url.Values{}
	params.Set("datasets", dataset)
	params.Set("bbox", fmt.Sprintf("%v,%v,%v,%v", wgs84.Left, wgs84.Bottom, wgs84.Right, wgs84.Top))
	params.Set("max", strconv.Itoa(maxPerQuery))
	params.Set("offset", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("dem: querying TNM API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, pfdferrors.WithArg(pfdferrors.ErrDataAPI, "status", "TNM API returned HTTP %d", resp.StatusCode)
	}

	var body tnmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, 0, pfdferrors.WithArg(pfdferrors.ErrInvalidJSON, "response", "could not parse TNM API response: %v", err)
	}
	if len(body.Errors) > 0 {
		return nil, 0, pfdferrors.WithArg(pfdferrors.ErrDataAPI, "errors", "TNM API reported errors: %s", strings.Join(body.Errors, "; "))
	}

	tiles := make([]tileInfo, len(body.Items))
	for i, item := range body.Items {
		tileBounds := (&projection.BoundingBox{
			Left: item.BoundingBox.MinX, Bottom: item.BoundingBox.MinY,
			Right: item.BoundingBox.MaxX, Top: item.BoundingBox.MaxY,
			CRS: projection.FromEPSG(4326),
		}).Orient(1)
		tiles[i] = tileInfo{Title: item.Title, DownloadURL: item.DownloadURL, Bounds: tileBounds}
	}
	return tiles, body.Total, nil
}
