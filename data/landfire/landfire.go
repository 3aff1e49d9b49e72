// Package landfire documents the LANDFIRE LFPS data-acquisition
// contract (job submission, polling, download) without implementing
// the network calls themselves -- wiring a live LFPS client is out of
// scope here; this package exists so the core's data.Downloader
// contract has a named, documented home for it.
package landfire

import (
	"context"
	"time"

	"github.com/wildfire-hazards/pfdf-go/projection"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

// Job describes an LFPS export job: Layer is the LFPS raster layer
// name (e.g. "200EVT"), Bounds constrains the query to a domain.
type Job struct {
	Layer  string
	Bounds *projection.BoundingBox
}

// Downloader submits an LFPS job, polls it on RefreshRate until it
// succeeds or MaxJobTime elapses, then downloads the completed product
// to a local folder. It implements data.Downloader.
//
// MaxJobTime of 0 disables the job-timeout limit, matching the
// original's max_job_time=None semantics; RefreshRate of 0 defaults to
// 15 seconds.
type Downloader struct {
	Job         Job
	MaxJobTime  time.Duration
	RefreshRate time.Duration
}

// Download is unimplemented: submitting and polling an LFPS job
// requires a live network client, which is out of scope for this
// module. Callers needing real LANDFIRE acquisition provide their own
// data.Downloader implementation against this contract;
// errors.ErrInvalidLFPSJob and errors.ErrLFPSJobTimeout are the error
// kinds such an implementation is expected to report.
func (d *Downloader) Download(ctx context.Context, path string, overwrite bool, timeout time.Duration) (string, error) {
	return "", pfdferrors.WithArg(pfdferrors.ErrInvalidLFPSJob, "layer", "LANDFIRE LFPS acquisition is a documented contract, not an implemented client, in this module")
}
