package segments

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/wildfire-hazards/pfdf-go/raster"
	"github.com/wildfire-hazards/pfdf-go/watershed"
)

// Length returns each segment's reach length (its full polyline,
// including the hand-off vertex to whatever lies downstream), in
// units ("base", "meters", "feet", "kilometers", ...; "" and "base"
// leave lengths in the flow raster's native coordinate units, which
// for a geographic CRS is degrees, not a linear distance).
func (s *Segments) Length(units string) ([]float64, error) {
	unitsPerMeter := 1.0
	if units != "" && units != "base" {
		f, err := raster.UnitsPerMeter(units)
		if err != nil {
			return nil, err
		}
		unitsPerMeter = f
	}
	out := make([]float64, len(s.lines))
	for i, line := range s.lines {
		total, err := s.lineLength(line, units, unitsPerMeter)
		if err != nil {
			return nil, err
		}
		out[i] = total
	}
	return out, nil
}

// lineLength measures line in its own coordinate space when units is
// "" or "base", or converts each vertex-to-vertex step through the
// flow raster's CRS (latitude-aware, for a geographic CRS) when a
// linear unit is requested.
func (s *Segments) lineLength(line orb.LineString, units string, unitsPerMeter float64) (float64, error) {
	if units == "" || units == "base" || s.Flow.Transform == nil || s.Flow.CRS == nil {
		var total float64
		for j := 1; j < len(line); j++ {
			total += math.Hypot(line[j-1][0]-line[j][0], line[j-1][1]-line[j][1])
		}
		return total, nil
	}
	var total float64
	for j := 1; j < len(line); j++ {
		lat := (line[j-1][1] + line[j][1]) / 2
		xres, yres, err := s.Flow.Transform.Resolution(unitsPerMeter, &lat)
		if err != nil {
			return 0, err
		}
		dxUnits := s.Flow.Transform.Dx
		dyUnits := s.Flow.Transform.Dy
		if dxUnits == 0 {
			dxUnits = 1
		}
		if dyUnits == 0 {
			dyUnits = 1
		}
		stepX := (line[j][0] - line[j-1][0]) / dxUnits * xres
		stepY := (line[j][1] - line[j-1][1]) / dyUnits * yres
		total += math.Hypot(stepX, stepY)
	}
	return total, nil
}

// pixelArea returns the area of one pixel in units^2 at the given
// outlet (CRS- and, for a geographic CRS, latitude-aware), or the raw
// Dx*Dy grid-cell area if the flow raster carries no transform.
func (s *Segments) pixelArea(outlet [2]int, units string, unitsPerMeter float64) (float64, error) {
	if s.Flow.Transform == nil {
		return 1, nil
	}
	if s.Flow.CRS == nil {
		area := s.Flow.Transform.Dx * s.Flow.Transform.Dy
		if area < 0 {
			area = -area
		}
		return area * unitsPerMeter * unitsPerMeter, nil
	}
	_, lat := s.Flow.Transform.Center(outlet[0], outlet[1])
	return s.Flow.Transform.PixelArea(unitsPerMeter, &lat)
}

// Area returns each segment's total drainage area (the full upslope
// catchment at its outlet, not restricted to the network mask), in
// units^2.
func (s *Segments) Area(units string) ([]float64, error) {
	unitsPerMeter := 1.0
	if units != "" && units != "base" {
		f, err := raster.UnitsPerMeter(units)
		if err != nil {
			return nil, err
		}
		unitsPerMeter = f
	}
	counts, err := s.CatchmentSum(nil, nil, nil, false, false)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(counts))
	for i, c := range counts {
		pxArea, err := s.pixelArea(s.outlet[i], units, unitsPerMeter)
		if err != nil {
			return nil, err
		}
		out[i] = c * pxArea
	}
	return out, nil
}

// DevelopedArea returns each segment's developed catchment area (the
// drainage area covering pixels where isdeveloped is true), in
// units^2.
func (s *Segments) DevelopedArea(isdeveloped *raster.Raster, units string) ([]float64, error) {
	unitsPerMeter := 1.0
	if units != "" && units != "base" {
		f, err := raster.UnitsPerMeter(units)
		if err != nil {
			return nil, err
		}
		unitsPerMeter = f
	}
	counts, err := s.CatchmentSum(isdeveloped, nil, nil, false, false)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(counts))
	for i, c := range counts {
		pxArea, err := s.pixelArea(s.outlet[i], units, unitsPerMeter)
		if err != nil {
			return nil, err
		}
		out[i] = c * pxArea
	}
	return out, nil
}

// BurnRatio returns, for each segment, the fraction of its catchment
// pixels where isburned is true.
func (s *Segments) BurnRatio(isburned *raster.Raster) ([]float64, error) {
	return s.CatchmentMean(isburned, nil, nil, false, false)
}

// KfFactor returns each segment's catchment-mean soil KF-factor. If
// weighted, pixels are weighted by their own local (unmasked)
// contributing-area accumulation, so heavily-channelized portions of
// the catchment count more than diffuse hillslope pixels; otherwise
// every catchment pixel counts equally.
func (s *Segments) KfFactor(kf *raster.Raster, omitNaN, weighted bool) ([]float64, error) {
	var weights *raster.Raster
	if weighted {
		w, err := watershed.Accumulation(s.Flow, nil, nil)
		if err != nil {
			return nil, err
		}
		weights = w
	}
	return s.CatchmentMean(kf, weights, nil, omitNaN, false)
}

// Relief samples relief (the vertical drop from each pixel to its
// upstream ridge, per watershed.Relief) at each segment's outlet.
func (s *Segments) Relief(relief *raster.Raster) ([]float64, error) {
	if err := s.Flow.MatchesFlow(relief, "relief"); err != nil {
		return nil, err
	}
	out := make([]float64, len(s.outlet))
	for i, o := range s.outlet {
		out[i] = relief.At(o[0], o[1])
	}
	return out, nil
}

// NPixels returns each segment's npixels (the contributing pixel count
// sampled at its outlet, computed during construction). If
// terminalOnly is set, non-terminal segments report NaN.
func (s *Segments) NPixels(terminalOnly bool) []float64 {
	out := make([]float64, len(s.npixels))
	for i, v := range s.npixels {
		if terminalOnly && s.child[i] >= 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = v
	}
	return out
}

// Slope returns each segment's mean slope, averaged over the slopes
// raster's values at the segment's own owned pixels (ignoring any
// NoData pixel among them).
func (s *Segments) Slope(slopes *raster.Raster) ([]float64, error) {
	if err := s.Flow.MatchesFlow(slopes, "slopes"); err != nil {
		return nil, err
	}
	return s.meanOwnedValue(slopes), nil
}

// SineTheta returns sin(atan(slope)) for each segment's mean slope --
// the sine of the slope angle, used by hazard models that need a
// unitless measure of steepness rather than a rise/run ratio.
func (s *Segments) SineTheta(slopes *raster.Raster) ([]float64, error) {
	meanSlope, err := s.Slope(slopes)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(meanSlope))
	for i, slope := range meanSlope {
		theta := math.Atan(slope)
		out[i] = math.Sin(theta)
	}
	return out, nil
}

func (s *Segments) meanOwnedValue(values *raster.Raster) []float64 {
	out := make([]float64, len(s.pixels))
	for i, pixels := range s.pixels {
		var sum float64
		var count int
		for _, p := range pixels {
			if values.IsNoData(p[0], p[1]) {
				continue
			}
			v := values.At(p[0], p[1])
			if math.IsNaN(v) {
				continue
			}
			sum += v
			count++
		}
		if count == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(count)
	}
	return out
}

// Confinement estimates, for each segment, the opening angle of the
// valley at its centreline: at each interior owned pixel, elevation is
// sampled neighborhood pixels out along the perpendicular to local flow
// direction on both sides, and the two side slopes are combined into an
// angle; the segment's confinement is the mean angle (degrees) across
// its qualifying pixels. A narrow, deeply-incised channel has a small
// angle; a broad, unconfined one approaches 180.
func (s *Segments) Confinement(dem *raster.Raster, neighborhood int) ([]float64, error) {
	if err := s.Flow.MatchesFlow(dem, "dem"); err != nil {
		return nil, err
	}
	if neighborhood < 1 {
		neighborhood = 4
	}
	dx, dy := 1.0, 1.0
	if s.Flow.Transform != nil {
		dx, dy = s.Flow.Transform.Dx, s.Flow.Transform.Dy
		if dx < 0 {
			dx = -dx
		}
		if dy < 0 {
			dy = -dy
		}
	}

	nrows, ncols := dem.NRows, dem.NCols
	out := make([]float64, len(s.pixels))
	for i, pixels := range s.pixels {
		var sum float64
		var count int
		for j := 1; j < len(pixels)-1; j++ {
			prev, cur, next := pixels[j-1], pixels[j], pixels[j+1]
			fr, fc := float64(next[0]-prev[0]), float64(next[1]-prev[1])
			if fr == 0 && fc == 0 {
				continue
			}
			// perpendicular direction in grid steps, normalized to a
			// unit 8-connected step.
			pr, pc := -fc, fr
			norm := math.Max(math.Abs(pr), math.Abs(pc))
			if norm == 0 {
				continue
			}
			pr, pc = pr/norm, pc/norm
			ir, ic := int(math.Round(pr)), int(math.Round(pc))
			if ir == 0 && ic == 0 {
				continue
			}

			centerElev := dem.At(cur[0], cur[1])
			angle1, ok1 := sideAngle(dem, cur[0], cur[1], ir, ic, neighborhood, centerElev, dx, dy, nrows, ncols)
			angle2, ok2 := sideAngle(dem, cur[0], cur[1], -ir, -ic, neighborhood, centerElev, dx, dy, nrows, ncols)
			if !ok1 || !ok2 {
				continue
			}
			confinement := 180 - (angle1 + angle2)
			if confinement < 0 {
				confinement = 0
			}
			sum += confinement
			count++
		}
		if count == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(count)
	}
	return out, nil
}

// sideAngle samples the elevation neighborhood steps away from (r, c)
// along (dr, dc) and returns the angle (degrees, from horizontal) of
// the rise from centerElev over that run.
func sideAngle(dem *raster.Raster, r, c, dr, dc, neighborhood int, centerElev, dx, dy float64, nrows, ncols int) (float64, bool) {
	nr, nc := r+dr*neighborhood, c+dc*neighborhood
	if nr < 0 || nr >= nrows || nc < 0 || nc >= ncols || dem.IsNoData(nr, nc) {
		return 0, false
	}
	rise := dem.At(nr, nc) - centerElev
	run := math.Hypot(float64(dr*neighborhood)*dx, float64(dc*neighborhood)*dy)
	if run == 0 {
		return 0, false
	}
	return math.Atan2(rise, run) * 180 / math.Pi, true
}
