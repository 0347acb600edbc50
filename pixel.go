package gainmap

// RGBAAt reads the pixel at (x, y) as a premultiplied-alpha-free RGBA
// quadruple, as stored. Images in FormatRGB report alpha as 1.
func (img *RGBImage) RGBAAt(x, y int) (r, g, b, a float32) {
	ch := img.channels()
	off := y*img.Stride + x*ch
	r = img.Pix[off]
	g = img.Pix[off+1]
	b = img.Pix[off+2]
	if ch == 4 {
		a = img.Pix[off+3]
	} else {
		a = 1
	}
	return
}

// SetRGBAAt writes r, g, b (and a, if the image carries alpha) at (x, y).
func (img *RGBImage) SetRGBAAt(x, y int, r, g, b, a float32) {
	ch := img.channels()
	off := y*img.Stride + x*ch
	img.Pix[off] = r
	img.Pix[off+1] = g
	img.Pix[off+2] = b
	if ch == 4 {
		img.Pix[off+3] = a
	}
}

