package gainmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveHeadroomsNilOptionsReturnsUnsetSentinel(t *testing.T) {
	var opts *ComputeOptions
	base, alt := opts.resolveHeadrooms()
	assert.Equal(t, unsetHeadroom, base)
	assert.Equal(t, unsetHeadroom, alt)
}

func TestResolveHeadroomsEmptyOptionsReturnsUnsetSentinel(t *testing.T) {
	opts := &ComputeOptions{}
	base, alt := opts.resolveHeadrooms()
	assert.Equal(t, unsetHeadroom, base)
	assert.Equal(t, unsetHeadroom, alt)
}

func TestResolveHeadroomsExplicitOptionsWin(t *testing.T) {
	opts := &ComputeOptions{BaseHdrHeadroom: headroomPtr(1.5), AlternateHdrHeadroom: headroomPtr(3.5)}
	base, alt := opts.resolveHeadrooms()
	assert.Equal(t, 1.5, base)
	assert.Equal(t, 3.5, alt)
}

func TestResolveHeadroomsManualGlobalIsUsedWhenOptionsDoNotOverride(t *testing.T) {
	SetManualBaseHdrHeadroom(2.0)
	defer SetManualBaseHdrHeadroom(unsetHeadroom)

	opts := &ComputeOptions{}
	base, alt := opts.resolveHeadrooms()
	assert.Equal(t, 2.0, base)
	assert.Equal(t, unsetHeadroom, alt)
}

func TestResolveHeadroomsExplicitOptionBeatsManualGlobal(t *testing.T) {
	SetManualBaseHdrHeadroom(2.0)
	defer SetManualBaseHdrHeadroom(unsetHeadroom)

	opts := &ComputeOptions{BaseHdrHeadroom: headroomPtr(5.0)}
	base, _ := opts.resolveHeadrooms()
	assert.Equal(t, 5.0, base)
}

func TestResolveHeadroomsExplicitZeroIsDistinctFromUnset(t *testing.T) {
	// 0.0 is a legitimate headroom (an SDR image has no extra stops above
	// SDR white) and must not be confused with "not provided".
	opts := &ComputeOptions{BaseHdrHeadroom: headroomPtr(0)}
	base, alt := opts.resolveHeadrooms()
	assert.Equal(t, 0.0, base)
	assert.Equal(t, unsetHeadroom, alt)
}
