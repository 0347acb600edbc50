package gainmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeTIFFRejectsGarbageData(t *testing.T) {
	_, err := DecodeTIFF([]byte("not a tiff file"))
	assert.Error(t, err)
}

func TestDecodeTIFFRejectsEmptyData(t *testing.T) {
	_, err := DecodeTIFF(nil)
	assert.Error(t, err)
}
