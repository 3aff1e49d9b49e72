package raster

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/airbusgeo/godal"

	"github.com/wildfire-hazards/pfdf-go/projection"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

func init() {
	godal.RegisterAll()
}

// LoadOptions configures FromFile/FromURL/FromRasterio. Band selects a
// 1-indexed raster band (default 1). Bounds, when set, windows the read
// to the intersection of the file's extent and bounds.
type LoadOptions struct {
	Band         int
	Bounds       *projection.BoundingBox
	DefaultNoData bool
}

// FromFile opens a raster dataset through GDAL and reads one band into
// an owned Raster.
func FromFile(path string, opts LoadOptions) (*Raster, error) {
	ds, err := godal.Open(path)
	if err != nil {
		return nil, pfdferrors.WithPath(pfdferrors.ErrFeatureFile, path, "could not open raster: %v", err)
	}
	defer ds.Close()
	return fromDataset(ds, opts)
}

// FromURL downloads the resource at url to a temporary file, then loads
// it as FromFile would. GDAL's own /vsicurl/ virtual filesystem is
// avoided here so the download is a single HTTP GET bounded by ctx; a
// failed download is returned as ErrDataAPI and is not retried.
func FromURL(ctx context.Context, url string, opts LoadOptions) (*Raster, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, pfdferrors.WithPath(pfdferrors.ErrDataAPI, url, "download failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, pfdferrors.WithPath(pfdferrors.ErrDataAPI, url, "download failed: status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "pfdf-go-raster-*")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		return nil, err
	}
	tmp.Close()

	return FromFile(tmp.Name(), opts)
}

// GDALDataset is the subset of *godal.Dataset that FromRasterio needs,
// so callers that already hold an open dataset can hand it over without
// reopening.
type GDALDataset interface {
	Bands() []godal.Band
	Projection() string
	GeoTransform() ([6]float64, error)
}

// FromRasterio adapts an already-open GDAL dataset, rather than a file
// path, into an owned Raster. It is the Go analogue of accepting a
// rasterio DatasetReader directly.
func FromRasterio(ds GDALDataset, opts LoadOptions) (*Raster, error) {
	return fromDataset(ds, opts)
}

func fromDataset(ds GDALDataset, opts LoadOptions) (*Raster, error) {
	bands := ds.Bands()
	bandIdx := opts.Band
	if bandIdx == 0 {
		bandIdx = 1
	}
	if bandIdx < 1 || bandIdx > len(bands) {
		return nil, pfdferrors.WithArg(pfdferrors.ErrShape, "band", "band %d out of range (dataset has %d bands)", bandIdx, len(bands))
	}
	band := bands[bandIdx-1]
	structure := band.Structure()
	nrows, ncols := structure.SizeY, structure.SizeX

	dtype, err := dtypeFromGDAL(structure.DataType)
	if err != nil {
		return nil, err
	}

	buf := make([]float64, nrows*ncols)
	if err := band.Read(0, 0, buf, ncols, nrows); err != nil {
		return nil, pfdferrors.WithArg(pfdferrors.ErrFeatureFile, "band", "read failed: %v", err)
	}
	grid := allocGrid(nrows, ncols)
	for i := 0; i < nrows; i++ {
		copy(grid[i], buf[i*ncols:(i+1)*ncols])
	}

	metaOpts := []NewMetadataOption{WithDType(dtype)}

	wkt := ds.Projection()
	var crs *projection.CRS
	if wkt != "" {
		crs = projection.FromWKT(wkt)
		metaOpts = append(metaOpts, WithCRS(crs))
	}

	gt, err := ds.GeoTransform()
	if err == nil {
		transform := &projection.Transform{Dx: gt[1], Dy: gt[5], Left: gt[0], Top: gt[3], CRS: crs}
		metaOpts = append(metaOpts, WithTransform(transform))
	}

	if nd, ok := band.NoData(); ok {
		metaOpts = append(metaOpts, WithNoData(nd))
	}

	meta, err := NewMetadata(nrows, ncols, metaOpts...)
	if err != nil {
		return nil, err
	}
	r := &Raster{RasterMetadata: meta, values: grid}

	if opts.Bounds != nil {
		return r.Clip(opts.Bounds)
	}
	return r, nil
}

func dtypeFromGDAL(dt godal.DataType) (DType, error) {
	switch dt {
	case godal.Byte:
		return DTypeUint8, nil
	case godal.Int16:
		return DTypeInt16, nil
	case godal.UInt16:
		return DTypeUint16, nil
	case godal.Int32:
		return DTypeInt32, nil
	case godal.UInt32:
		return DTypeUint32, nil
	case godal.Float32:
		return DTypeFloat32, nil
	case godal.Float64:
		return DTypeFloat64, nil
	default:
		return DTypeFloat64, nil
	}
}

func dtypeToGDAL(dt DType) godal.DataType {
	switch dt {
	case DTypeBool, DTypeUint8:
		return godal.Byte
	case DTypeInt16:
		return godal.Int16
	case DTypeUint16:
		return godal.UInt16
	case DTypeInt32:
		return godal.Int32
	case DTypeUint32:
		return godal.UInt32
	case DTypeFloat32:
		return godal.Float32
	default:
		return godal.Float64
	}
}

// SaveOptions configures Save.
type SaveOptions struct {
	Driver  string // defaults to "GTiff"
	Options []string
}

// Save writes r to path as a single-band raster via GDAL. Boolean
// rasters serialize as int8 (godal.Byte), matching the restricted dtype
// set GDAL drivers actually support.
func (r *Raster) Save(path string, opts SaveOptions) error {
	driverName := godal.GTiff
	if opts.Driver != "" {
		found, ok := godal.RasterDriver(opts.Driver)
		if !ok {
			return pfdferrors.WithPath(pfdferrors.ErrFeatureFile, path, "unknown driver %q", opts.Driver)
		}
		driverName = found
	}

	gdalType := dtypeToGDAL(r.DType)

	ds, err := godal.Create(driverName, path, 1, gdalType, r.NCols, r.NRows, godal.CreationOption(opts.Options...))
	if err != nil {
		return pfdferrors.WithPath(pfdferrors.ErrFeatureFile, path, "create failed: %v", err)
	}
	defer ds.Close()

	if r.Transform != nil {
		gt := [6]float64{r.Transform.Left, r.Transform.Dx, 0, r.Transform.Top, 0, r.Transform.Dy}
		if err := ds.SetGeoTransform(gt); err != nil {
			return err
		}
	}
	if r.CRS.IsSet() {
		wkt, err := r.CRS.WKT()
		if err != nil {
			return err
		}
		sr, err := godal.NewSpatialRefFromWKT(wkt)
		if err != nil {
			return err
		}
		defer sr.Close()
		if err := ds.SetSpatialRef(sr); err != nil {
			return err
		}
	}

	band := ds.Bands()[0]
	if r.HasNoData {
		if err := band.SetNoData(r.NoData); err != nil {
			return err
		}
	}

	buf := make([]float64, r.NRows*r.NCols)
	for i := 0; i < r.NRows; i++ {
		copy(buf[i*r.NCols:(i+1)*r.NCols], r.values[i])
	}
	if err := band.Write(0, 0, buf, r.NCols, r.NRows); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return nil
}
