// Package tilecache persists a DEM tile mosaic as a dense TileDB array,
// so data/dem's Read can assemble many overlapping National Map tiles
// into one windowed write pass instead of holding the whole mosaic in
// process memory. The array layout is a ROW/COL domain, row-major cell
// order, and a single zstd-compressed attribute.
package tilecache

import (
	"fmt"
	"os"
	"path/filepath"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

const valueAttr = "value"

// Cache opens (or creates) a directory of TileDB dense arrays, one per
// mosaic, under a shared context and config.
type Cache struct {
	dir    string
	config *tiledb.Config
	ctx    *tiledb.Context
}

// Open prepares dir as a tile cache root, creating it if necessary.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("tilecache: creating cache dir %s: %w", dir, err)
	}

	config, err := tiledb.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("tilecache: building config: %w", err)
	}

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		return nil, fmt.Errorf("tilecache: building context: %w", err)
	}

	return &Cache{dir: dir, config: config, ctx: ctx}, nil
}

// URI returns the array path a mosaic named name would live at, without
// requiring it to exist yet.
func (c *Cache) URI(name string) string {
	return filepath.Join(c.dir, name)
}

// Exists reports whether a mosaic array already exists on disk.
func (c *Cache) Exists(name string) bool {
	_, err := os.Stat(c.URI(name))
	return err == nil
}

// Mosaic is a handle to one dense float64 tile mosaic, addressed by row
// and column pixel indices.
type Mosaic struct {
	cache  *Cache
	uri    string
	nrows  uint64
	ncols  uint64
	nodata float64
}

// tileExtent picks a dimension's tile size: the whole axis if it is
// small, else a fixed 2048-pixel tile -- large enough to hold most DEM
// tile downloads in a single write, small enough that a partial mosaic
// update doesn't rewrite the entire array.
func tileExtent(axisLen uint64) uint64 {
	const maxTile = 2048
	if axisLen < maxTile {
		return axisLen
	}
	return maxTile
}

// CreateMosaic creates a new dense array named name, sized nrows x
// ncols, and fills it with nodata. An existing array of the same name
// is an error; callers that want to reuse a cached mosaic should check
// Exists first.
func (c *Cache) CreateMosaic(name string, nrows, ncols int, nodata float64) (*Mosaic, error) {
	if nrows <= 0 || ncols <= 0 {
		return nil, fmt.Errorf("tilecache: mosaic %s: nrows/ncols must be positive, got (%d, %d)", name, nrows, ncols)
	}
	uri := c.URI(name)

	schema, err := c.mosaicSchema(uint64(nrows), uint64(ncols))
	if err != nil {
		return nil, fmt.Errorf("tilecache: mosaic %s: building schema: %w", name, err)
	}
	defer schema.Free()

	array, err := tiledb.NewArray(c.ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("tilecache: mosaic %s: %w", name, err)
	}
	defer array.Free()

	if err := array.Create(schema); err != nil {
		return nil, fmt.Errorf("tilecache: mosaic %s: creating array: %w", name, err)
	}

	m := &Mosaic{cache: c, uri: uri, nrows: uint64(nrows), ncols: uint64(ncols), nodata: nodata}
	if err := m.fill(nodata); err != nil {
		return nil, err
	}
	return m, nil
}

// mosaicSchema builds the dense ROW/COL array schema: a delta+zstd
// filtered dimension pair (rows vary slowest, per row-major order) and
// a single zstd-compressed float64 "value" attribute.
func (c *Cache) mosaicSchema(nrows, ncols uint64) (*tiledb.ArraySchema, error) {
	domain, err := tiledb.NewDomain(c.ctx)
	if err != nil {
		return nil, err
	}
	defer domain.Free()

	rowDim, err := tiledb.NewDimension(c.ctx, "ROW", tiledb.TILEDB_UINT64, []uint64{0, nrows - 1}, tileExtent(nrows))
	if err != nil {
		return nil, err
	}
	defer rowDim.Free()

	colDim, err := tiledb.NewDimension(c.ctx, "COL", tiledb.TILEDB_UINT64, []uint64{0, ncols - 1}, tileExtent(ncols))
	if err != nil {
		return nil, err
	}
	defer colDim.Free()

	for _, dim := range []*tiledb.Dimension{rowDim, colDim} {
		filters, err := tiledb.NewFilterList(c.ctx)
		if err != nil {
			return nil, err
		}
		defer filters.Free()

		delta, err := tiledb.NewFilter(c.ctx, tiledb.TILEDB_FILTER_POSITIVE_DELTA)
		if err != nil {
			return nil, err
		}
		defer delta.Free()

		zstd, err := zstdFilter(c.ctx, 16)
		if err != nil {
			return nil, err
		}
		defer zstd.Free()

		if err := addFilters(filters, delta, zstd); err != nil {
			return nil, err
		}
		if err := dim.SetFilterList(filters); err != nil {
			return nil, err
		}
	}

	if err := domain.AddDimensions(rowDim, colDim); err != nil {
		return nil, err
	}

	schema, err := tiledb.NewArraySchema(c.ctx, tiledb.TILEDB_DENSE)
	if err != nil {
		return nil, err
	}
	if err := schema.SetDomain(domain); err != nil {
		return nil, err
	}
	if err := schema.SetCellOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return nil, err
	}
	if err := schema.SetTileOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return nil, err
	}

	attrFilters, err := tiledb.NewFilterList(c.ctx)
	if err != nil {
		return nil, err
	}
	defer attrFilters.Free()

	zstd, err := zstdFilter(c.ctx, 16)
	if err != nil {
		return nil, err
	}
	defer zstd.Free()
	if err := addFilters(attrFilters, zstd); err != nil {
		return nil, err
	}

	attr, err := tiledb.NewAttribute(c.ctx, valueAttr, tiledb.TILEDB_FLOAT64)
	if err != nil {
		return nil, err
	}
	defer attr.Free()
	if err := attr.SetFilterList(attrFilters); err != nil {
		return nil, err
	}
	if err := schema.AddAttributes(attr); err != nil {
		return nil, err
	}

	return schema, nil
}

func zstdFilter(ctx *tiledb.Context, level int32) (*tiledb.Filter, error) {
	filt, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_ZSTD)
	if err != nil {
		return nil, err
	}
	if err := filt.SetOption(tiledb.TILEDB_COMPRESSION_LEVEL, level); err != nil {
		filt.Free()
		return nil, err
	}
	return filt, nil
}

func addFilters(list *tiledb.FilterList, filters ...*tiledb.Filter) error {
	for _, f := range filters {
		if err := list.AddFilter(f); err != nil {
			return err
		}
	}
	return nil
}

// OpenMosaic opens an existing dense mosaic array for reading and
// writing. nrows/ncols/nodata describe the array's known shape and
// fill value -- the caller is expected to have recorded these when the
// mosaic was created (TileDB's own schema does not round-trip nodata
// semantics).
func (c *Cache) OpenMosaic(name string, nrows, ncols int, nodata float64) (*Mosaic, error) {
	return &Mosaic{cache: c, uri: c.URI(name), nrows: uint64(nrows), ncols: uint64(ncols), nodata: nodata}, nil
}

// Shape returns the mosaic's (nrows, ncols).
func (m *Mosaic) Shape() (int, int) { return int(m.nrows), int(m.ncols) }

// NoData returns the mosaic's fill value.
func (m *Mosaic) NoData() float64 { return m.nodata }

func (m *Mosaic) fill(nodata float64) error {
	data := make([]float64, m.nrows*m.ncols)
	for i := range data {
		data[i] = nodata
	}
	return m.WriteWindow(0, int(m.nrows), 0, int(m.ncols), data)
}

// WriteWindow writes a row-major data slice of length
// (rowEnd-rowStart)*(colEnd-colStart) into the mosaic's
// [rowStart,rowEnd) x [colStart,colEnd) window. This is how data/dem
// copies one downloaded tile into its aligned slot in the mosaic.
func (m *Mosaic) WriteWindow(rowStart, rowEnd, colStart, colEnd int, data []float64) error {
	want := (rowEnd - rowStart) * (colEnd - colStart)
	if len(data) != want {
		return fmt.Errorf("tilecache: WriteWindow: data has %d elements, want %d for window [%d:%d, %d:%d]", len(data), want, rowStart, rowEnd, colStart, colEnd)
	}

	array, err := tiledb.NewArray(m.cache.ctx, m.uri)
	if err != nil {
		return err
	}
	defer array.Free()
	if err := array.Open(tiledb.TILEDB_WRITE); err != nil {
		array.Free()
		return err
	}
	defer array.Close()

	query, err := tiledb.NewQuery(m.cache.ctx, array)
	if err != nil {
		return err
	}
	defer query.Free()

	if err := query.SetLayout(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return err
	}
	if _, err := query.SetDataBuffer(valueAttr, data); err != nil {
		return err
	}

	subarr, err := array.NewSubarray()
	if err != nil {
		return err
	}
	defer subarr.Free()

	if err := subarr.AddRangeByName("ROW", tiledb.MakeRange(uint64(rowStart), uint64(rowEnd-1))); err != nil {
		return err
	}
	if err := subarr.AddRangeByName("COL", tiledb.MakeRange(uint64(colStart), uint64(colEnd-1))); err != nil {
		return err
	}
	if err := query.SetSubarray(subarr); err != nil {
		return err
	}

	if err := query.Submit(); err != nil {
		return err
	}
	return query.Finalize()
}

// ReadWindow reads the mosaic's [rowStart,rowEnd) x [colStart,colEnd)
// window back out, row-major.
func (m *Mosaic) ReadWindow(rowStart, rowEnd, colStart, colEnd int) ([]float64, error) {
	n := (rowEnd - rowStart) * (colEnd - colStart)
	if n <= 0 {
		return nil, fmt.Errorf("tilecache: ReadWindow: empty window [%d:%d, %d:%d]", rowStart, rowEnd, colStart, colEnd)
	}

	array, err := tiledb.NewArray(m.cache.ctx, m.uri)
	if err != nil {
		return nil, err
	}
	defer array.Free()
	if err := array.Open(tiledb.TILEDB_READ); err != nil {
		array.Free()
		return nil, err
	}
	defer array.Close()

	query, err := tiledb.NewQuery(m.cache.ctx, array)
	if err != nil {
		return nil, err
	}
	defer query.Free()

	if err := query.SetLayout(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return nil, err
	}

	data := make([]float64, n)
	if _, err := query.SetDataBuffer(valueAttr, data); err != nil {
		return nil, err
	}

	subarr, err := array.NewSubarray()
	if err != nil {
		return nil, err
	}
	defer subarr.Free()

	if err := subarr.AddRangeByName("ROW", tiledb.MakeRange(uint64(rowStart), uint64(rowEnd-1))); err != nil {
		return nil, err
	}
	if err := subarr.AddRangeByName("COL", tiledb.MakeRange(uint64(colStart), uint64(colEnd-1))); err != nil {
		return nil, err
	}
	if err := query.SetSubarray(subarr); err != nil {
		return nil, err
	}

	if err := query.Submit(); err != nil {
		return nil, err
	}
	if err := query.Finalize(); err != nil {
		return nil, err
	}

	return data, nil
}

// ReadAll reads the whole mosaic, row-major.
func (m *Mosaic) ReadAll() ([]float64, error) {
	return m.ReadWindow(0, int(m.nrows), 0, int(m.ncols))
}

// Remove deletes the mosaic's backing array from the cache directory.
func (m *Mosaic) Remove() error {
	return os.RemoveAll(m.uri)
}
