package gainmap

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// Error kinds the core produces, wrapped with context via github.com/pkg/errors.
// Use errors.Is(err, gainmap.ErrInvalidArgument) (etc.) to branch on kind.
var (
	// ErrInvalidArgument covers null inputs, negative headroom, malformed
	// metadata, fraction-conversion failures, and dimension mismatches.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotImplemented covers unsupported RGB color spaces, unsupported
	// primary-pair conversions, and ICC profiles present where unsupported.
	ErrNotImplemented = errors.New("not implemented")
	// ErrOutOfMemory covers allocation failure for the outlier histogram
	// or the compute engine's float planes.
	ErrOutOfMemory = errors.New("out of memory")
)

// Diagnostics is a borrowed, clearable text buffer, mirroring
// avifDiagnostics in the reference implementation. ApplyRGB and ComputeRGB
// clear the one passed in their options on entry and append a descriptive
// message for most failures; some error paths (nil inputs, transfer and
// fraction conversion errors, YUV decoding in ApplyImage/ComputeImage)
// return the error without writing a diagnostic line. A nil *Diagnostics
// is valid and simply discards writes.
type Diagnostics struct {
	mu   sync.Mutex
	text string
}

// Clear discards any previously recorded diagnostic text.
func (d *Diagnostics) Clear() {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.text = ""
	d.mu.Unlock()
}

// Printf appends a formatted diagnostic line.
func (d *Diagnostics) Printf(format string, args ...interface{}) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.text != "" {
		d.text += "\n"
	}
	d.text += fmt.Sprintf(format, args...)
}

// String returns the accumulated diagnostic text.
func (d *Diagnostics) String() string {
	if d == nil {
		return ""
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text
}
