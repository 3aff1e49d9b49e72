package dem

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/wildfire-hazards/pfdf-go/internal/tilecache"
	"github.com/wildfire-hazards/pfdf-go/projection"
	"github.com/wildfire-hazards/pfdf-go/raster"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

// DefaultMaxTiles is the default ceiling on the number of DEM tiles a
// single Read may mosaic, preventing an accidental read of a very
// large area.
const DefaultMaxTiles = 10

// maxTilesCeiling is the hard upper bound a caller may raise
// DefaultMaxTiles to.
const maxTilesCeiling = 500

// Reader is a RasterReader backed by TNM DEM tiles, mosaicked through a
// tilecache.Cache. The zero value is not usable; construct with
// NewReader.
type Reader struct {
	Resolution string
	MaxTiles   int
	Cache      *tilecache.Cache
	// MosaicName names the cache mosaic Read assembles tiles into
	// ("dem-read" when empty). Each Read removes any existing mosaic of
	// that name and creates a fresh one; nothing is reused across calls.
	MosaicName string
}

// NewReader builds a Reader for the given resolution (see Resolutions)
// backed by cache. maxTiles of 0 uses DefaultMaxTiles.
func NewReader(resolution string, maxTiles int, cache *tilecache.Cache) (*Reader, error) {
	if _, err := Dataset(resolution); err != nil {
		return nil, err
	}
	if maxTiles == 0 {
		maxTiles = DefaultMaxTiles
	}
	if maxTiles > maxTilesCeiling {
		return nil, pfdferrors.WithArg(pfdferrors.ErrDataAPI, "maxTiles", "must not exceed %d, got %d", maxTilesCeiling, maxTiles)
	}
	return &Reader{Resolution: resolution, MaxTiles: maxTiles, Cache: cache}, nil
}

// Read fetches every DEM tile overlapping bounds, verifies they share
// one CRS, and mosaics them into a single Raster. It is the Go
// equivalent of the original's tile query -> validate -> metadata ->
// edges -> preallocate -> copy pipeline, with the mosaic itself backed
// by a tilecache.Mosaic instead of an in-process array.
func (r *Reader) Read(ctx context.Context, bounds *projection.BoundingBox, timeout time.Duration) (*raster.Raster, error) {
	dataset, err := Dataset(r.Resolution)
	if err != nil {
		return nil, err
	}

	client := http.DefaultClient
	if timeout > 0 {
		client = &http.Client{Timeout: timeout}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tiles, total, err := queryTiles(ctx, client, dataset, bounds, maxTilesCeiling)
	if err != nil {
		return nil, err
	}
	if total > maxTilesCeiling {
		return nil, pfdferrors.WithArg(pfdferrors.ErrTooManyTNMProducts, "bounds", "there are over %d DEM tiles matching the search criteria; reduce the bounding box or query a different DEM dataset", maxTilesCeiling)
	}
	if err := validateTileCount(len(tiles), r.MaxTiles); err != nil {
		return nil, err
	}

	var (
		tileRasters []*raster.Raster
		crs         *projection.CRS
	)
	for i, tile := range tiles {
		ras, err := raster.FromURL(ctx, tile.DownloadURL, raster.LoadOptions{Bounds: bounds})
		if err != nil {
			return nil, pfdferrors.WithPath(pfdferrors.ErrDataAPI, tile.DownloadURL, "fetching DEM tile %q: %v", tile.Title, err)
		}
		if ras.NRows == 0 || ras.NCols == 0 {
			continue
		}
		if crs == nil {
			crs = ras.CRS
		} else {
			compatible, err := crs.Compatible(ras.CRS)
			if err != nil {
				return nil, err
			}
			if !compatible {
				return nil, pfdferrors.WithArg(pfdferrors.ErrRasterCRS, "tiles", "all DEM tiles being read must share one CRS, but tile 0 differs from tile %d", i)
			}
		}
		tileRasters = append(tileRasters, ras)
	}
	if len(tileRasters) == 0 {
		return nil, pfdferrors.WithArg(pfdferrors.ErrNoTNMProducts, "bounds", "must cover at least 1 pixel of DEM data; try a larger bounding box")
	}

	meta, err := mosaicMetadata(tileRasters)
	if err != nil {
		return nil, err
	}

	name := r.MosaicName
	if name == "" {
		name = "dem-read"
	}
	if r.Cache.Exists(name) {
		if existing, err := r.Cache.OpenMosaic(name, meta.NRows, meta.NCols, meta.NoData); err == nil {
			existing.Remove()
		}
	}
	mosaic, err := r.Cache.CreateMosaic(name, meta.NRows, meta.NCols, meta.NoData)
	if err != nil {
		return nil, err
	}

	for _, ras := range tileRasters {
		rowStart, rowEnd, colStart, colEnd := pixelWindow(meta.Transform, ras)
		data := flatten(ras.Values())
		if err := mosaic.WriteWindow(rowStart, rowEnd, colStart, colEnd, data); err != nil {
			return nil, err
		}
	}

	flat, err := mosaic.ReadAll()
	if err != nil {
		return nil, err
	}
	values := unflatten(flat, meta.NRows, meta.NCols)

	return raster.FromArray(values, meta.DType, raster.FromArrayOptions{
		NoData:    &meta.NoData,
		CRS:       meta.CRS,
		Transform: meta.Transform,
	})
}

func validateTileCount(ntiles, maxTiles int) error {
	if ntiles > maxTiles {
		return pfdferrors.WithArg(pfdferrors.ErrTooManyTNMProducts, "bounds", "there are %d DEM tiles in the search area, more than the allowed maximum (%d); narrow the bounds or raise maxTiles", ntiles, maxTiles)
	}
	if ntiles == 0 {
		return pfdferrors.WithArg(pfdferrors.ErrNoTNMProducts, "bounds", "there are no DEM tiles in the search area; try a different bounding box or resolution")
	}
	return nil
}

// mosaicMetadata computes the union bounds across tileRasters and
// derives the destination raster's metadata, inheriting dtype/nodata/
// crs and per-pixel resolution from the first tile.
func mosaicMetadata(tileRasters []*raster.Raster) (*raster.RasterMetadata, error) {
	first := tileRasters[0]
	left, bottom, right, top := math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)
	for _, ras := range tileRasters {
		b := ras.Bounds()
		if b.Left < left {
			left = b.Left
		}
		if b.Bottom < bottom {
			bottom = b.Bottom
		}
		if b.Right > right {
			right = b.Right
		}
		if b.Top > top {
			top = b.Top
		}
	}

	dx, dy := first.Transform.Dx, first.Transform.Dy
	ncols := int(math.Round((right - left) / dx))
	nrows := int(math.Round((bottom - top) / dy))
	transform := &projection.Transform{Dx: dx, Dy: dy, Left: left, Top: top, CRS: first.CRS}

	nodata := 0.0
	if first.HasNoData {
		nodata = first.NoData
	}

	return &raster.RasterMetadata{
		NRows: nrows, NCols: ncols,
		DType: first.DType, HasNoData: true, NoData: nodata,
		CRS: first.CRS, Transform: transform,
	}, nil
}

// pixelWindow locates ras's pixel window inside the array described by
// transform, the Go analogue of the original's `pixel_limits` helper.
func pixelWindow(transform *projection.Transform, ras *raster.Raster) (rowStart, rowEnd, colStart, colEnd int) {
	tileBounds := ras.Bounds()
	colStart = int(math.Round((tileBounds.Left - transform.Left) / transform.Dx))
	rowStart = int(math.Round((tileBounds.Top - transform.Top) / transform.Dy))
	rowEnd = rowStart + ras.NRows
	colEnd = colStart + ras.NCols
	return
}

func flatten(values [][]float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	ncols := len(values[0])
	out := make([]float64, len(values)*ncols)
	for i, row := range values {
		copy(out[i*ncols:(i+1)*ncols], row)
	}
	return out
}

func unflatten(flat []float64, nrows, ncols int) [][]float64 {
	out := make([][]float64, nrows)
	for i := 0; i < nrows; i++ {
		out[i] = flat[i*ncols : (i+1)*ncols]
	}
	return out
}
