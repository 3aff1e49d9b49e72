// Package projection implements the immutable spatial-metadata
// primitives shared by every raster and vector operation in pfdf-go:
// CRS, Transform, and BoundingBox.
package projection

import (
	"fmt"
	"strings"
	"sync"

	"github.com/airbusgeo/godal"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

// unitInfo describes a linear or angular unit of measure: its canonical
// name and the conversion factor into metres (linear) or radians
// (angular).
type unitInfo struct {
	name   string
	factor float64
}

// Well-known linear units, keyed by the name GDAL/OSR reports for them.
var linearUnits = map[string]unitInfo{
	"metre":             {"metre", 1.0},
	"meter":             {"metre", 1.0},
	"foot":              {"foot", 0.3048},
	"us survey foot":    {"us survey foot", 1200.0 / 3937.0},
	"kilometre":         {"kilometre", 1000.0},
	"kilometer":         {"kilometre", 1000.0},
	"us survey foot (km equiv)": {"us survey foot", 1200.0 / 3937.0},
}

// Well-known angular units, in radians per unit.
var angularUnits = map[string]unitInfo{
	"degree": {"degree", 0.017453292519943295},
	"radian": {"radian", 1.0},
	"grad":   {"grad", 0.015707963267948967},
}

// CRS is an immutable coordinate reference system identifier. It
// resolves lazily (and only once) to an authority record backed by
// godal's spatial-reference bindings, so constructing a CRS from an
// EPSG code or WKT string never itself fails.
type CRS struct {
	epsg int    // 0 if unset
	wkt  string // "" if unset

	mu       sync.Mutex
	resolved bool
	name     string
	axisX    string
	axisY    string
	isAngular bool
	unit     unitInfo
	err      error
}

// FromEPSG builds a CRS from an integer authority code.
func FromEPSG(code int) *CRS {
	return &CRS{epsg: code}
}

// FromWKT builds a CRS from a WKT string.
func FromWKT(wkt string) *CRS {
	return &CRS{wkt: wkt}
}

// FromCRS copies another CRS. A nil receiver is preserved as nil, since
// an absent CRS is a legal wildcard throughout pfdf-go.
func FromCRS(other *CRS) *CRS {
	if other == nil {
		return nil
	}
	return &CRS{epsg: other.epsg, wkt: other.wkt}
}

// IsSet reports whether c carries any authority information. A nil CRS
// reports false.
func (c *CRS) IsSet() bool {
	return c != nil && (c.epsg != 0 || c.wkt != "")
}

// spatialRef resolves c to a godal.SpatialRef. Callers must Close() the
// result.
func (c *CRS) spatialRef() (*godal.SpatialRef, error) {
	if c.epsg != 0 {
		return godal.NewSpatialRefFromEPSG(c.epsg)
	}
	if c.wkt != "" {
		return godal.NewSpatialRefFromWKT(c.wkt)
	}
	return nil, fmt.Errorf("crs has neither epsg nor wkt set: %w", pfdferrors.ErrCRS)
}

// resolve populates the cached authority-record fields. Safe to call
// concurrently; resolution runs at most once.
func (c *CRS) resolve() error {
	if c == nil {
		return fmt.Errorf("crs is not set: %w", pfdferrors.ErrMissingCRS)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resolved {
		return c.err
	}
	c.resolved = true

	if !c.IsSet() {
		c.err = fmt.Errorf("crs is not set: %w", pfdferrors.ErrMissingCRS)
		return c.err
	}

	sr, err := c.spatialRef()
	if err != nil {
		c.err = fmt.Errorf("could not resolve crs: %w: %v", pfdferrors.ErrCRS, err)
		return c.err
	}
	defer sr.Close()

	wkt, err := sr.WKT()
	if err != nil {
		c.err = fmt.Errorf("could not export crs wkt: %w: %v", pfdferrors.ErrCRS, err)
		return c.err
	}
	c.name = crsName(wkt)
	c.isAngular = sr.IsGeographic()
	c.axisX, c.axisY = "x", "y"
	if c.isAngular {
		c.axisX, c.axisY = "longitude", "latitude"
	}

	unitName, factor := sr.LinearUnits()
	if c.isAngular {
		unitName, factor = sr.AngularUnits()
		c.unit = resolveAngular(unitName, factor)
	} else {
		c.unit = resolveLinear(unitName, factor)
	}
	return nil
}

func resolveLinear(name string, factor float64) unitInfo {
	key := strings.ToLower(strings.TrimSpace(name))
	if u, ok := linearUnits[key]; ok {
		return u
	}
	if factor <= 0 {
		factor = 1.0
	}
	return unitInfo{name: key, factor: factor}
}

func resolveAngular(name string, factor float64) unitInfo {
	key := strings.ToLower(strings.TrimSpace(name))
	if u, ok := angularUnits[key]; ok {
		return u
	}
	if factor <= 0 {
		factor = angularUnits["degree"].factor
	}
	return unitInfo{name: key, factor: factor}
}

// crsName extracts the outermost quoted name from a WKT string, e.g.
// `GEOGCS["WGS 84",...]` -> "WGS 84".
func crsName(wkt string) string {
	start := strings.Index(wkt, `"`)
	if start < 0 {
		return wkt
	}
	end := strings.Index(wkt[start+1:], `"`)
	if end < 0 {
		return wkt
	}
	return wkt[start+1 : start+1+end]
}

// Name returns the CRS's authority display name.
func (c *CRS) Name() (string, error) {
	if err := c.resolve(); err != nil {
		return "", err
	}
	return c.name, nil
}

// AxisInfo returns the names of the x and y axes, e.g. ("longitude",
// "latitude") for an angular CRS or ("x", "y") otherwise.
func (c *CRS) AxisInfo() (x, y string, err error) {
	if err := c.resolve(); err != nil {
		return "", "", err
	}
	return c.axisX, c.axisY, nil
}

// Units returns the unit name used by this CRS's coordinate values
// ("metre", "degree", ...).
func (c *CRS) Units() (string, error) {
	if err := c.resolve(); err != nil {
		return "", err
	}
	return c.unit.name, nil
}

// IsAngular reports whether the CRS uses angular (lon/lat) coordinates.
func (c *CRS) IsAngular() (bool, error) {
	if err := c.resolve(); err != nil {
		return false, err
	}
	return c.isAngular, nil
}

// UnitsPerM reports the number of c's coordinate units in one metre. For
// angular CRS the x-axis conversion depends on latitude: the caller
// supplies the reference latitude in degrees. If lat is nil, the equator
// (worst-case conversion) is used.
func (c *CRS) UnitsPerM(lat *float64) (xPerM, yPerM float64, err error) {
	if err := c.resolve(); err != nil {
		return 0, 0, err
	}
	if !c.isAngular {
		return 1.0 / c.unit.factor, 1.0 / c.unit.factor, nil
	}
	latitude := 0.0
	if lat != nil {
		latitude = *lat
	}
	xPerM, yPerM = haversineUnitsPerM(latitude)
	// convert from degrees-per-metre to the CRS's angular unit
	degToUnit := angularUnits["degree"].factor / c.unit.factor
	return xPerM * degToUnit, yPerM * degToUnit, nil
}

// UTMZone returns the EPSG code of the UTM zone containing (lon, lat),
// in degrees.
func UTMZone(lon, lat float64) int {
	zone := int((lon+180)/6) + 1
	if zone < 1 {
		zone = 1
	}
	if zone > 60 {
		zone = 60
	}
	if lat >= 0 {
		return 32600 + zone
	}
	return 32700 + zone
}

// UTMZone returns the EPSG code of the UTM zone containing (lon, lat).
// Implemented as a package function (UTMZone) since it depends on a
// location, not on an existing CRS's authority record.
func (c *CRS) UTMZone(lon, lat float64) int {
	return UTMZone(lon, lat)
}

// Compatible reports whether c and other are compatible: either is
// unset, or they resolve to the same authority record (compared by WKT).
func (c *CRS) Compatible(other *CRS) (bool, error) {
	if !c.IsSet() || !other.IsSet() {
		return true, nil
	}
	aWKT, err := c.exportWKT()
	if err != nil {
		return false, err
	}
	bWKT, err := other.exportWKT()
	if err != nil {
		return false, err
	}
	return aWKT == bWKT, nil
}

func (c *CRS) exportWKT() (string, error) {
	sr, err := c.spatialRef()
	if err != nil {
		return "", fmt.Errorf("could not resolve crs: %w: %v", pfdferrors.ErrCRS, err)
	}
	defer sr.Close()
	wkt, err := sr.WKT()
	if err != nil {
		return "", fmt.Errorf("could not export crs wkt: %w: %v", pfdferrors.ErrCRS, err)
	}
	return wkt, nil
}

// WKT exports c to a WKT string.
func (c *CRS) WKT() (string, error) {
	if !c.IsSet() {
		return "", fmt.Errorf("crs is not set: %w", pfdferrors.ErrMissingCRS)
	}
	return c.exportWKT()
}

// Reproject converts paired coordinate slices from src to dst.
func Reproject(src, dst *CRS, xs, ys []float64) ([]float64, []float64, error) {
	if len(xs) != len(ys) {
		return nil, nil, pfdferrors.WithArg(pfdferrors.ErrShape, "ys", "length %d does not match xs length %d", len(ys), len(xs))
	}
	if !src.IsSet() || !dst.IsSet() {
		return nil, nil, fmt.Errorf("both src and dst crs must be set: %w", pfdferrors.ErrMissingCRS)
	}
	ok, err := src.Compatible(dst)
	if err != nil {
		return nil, nil, err
	}
	if ok {
		outX := append([]float64(nil), xs...)
		outY := append([]float64(nil), ys...)
		return outX, outY, nil
	}

	srcSR, err := src.spatialRef()
	if err != nil {
		return nil, nil, fmt.Errorf("could not resolve src crs: %w: %v", pfdferrors.ErrCRS, err)
	}
	defer srcSR.Close()
	dstSR, err := dst.spatialRef()
	if err != nil {
		return nil, nil, fmt.Errorf("could not resolve dst crs: %w: %v", pfdferrors.ErrCRS, err)
	}
	defer dstSR.Close()

	transform, err := godal.NewTransform(srcSR, dstSR)
	if err != nil {
		return nil, nil, fmt.Errorf("could not build coordinate transform: %w: %v", pfdferrors.ErrTransform, err)
	}
	defer transform.Close()

	outX := append([]float64(nil), xs...)
	outY := append([]float64(nil), ys...)
	if err := transform.TransformEx(outX, outY, nil, nil); err != nil {
		return nil, nil, fmt.Errorf("coordinate transform failed: %w: %v", pfdferrors.ErrTransform, err)
	}
	return outX, outY, nil
}
