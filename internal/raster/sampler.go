package raster

import "image"

// SampleTexture performs bilinear filtering with UV wrapping.
// Reads tex.Pix directly; v = 0 is the top row.
func SampleTexture(tex *image.NRGBA, u, v float64) (r, g, b, a uint8) {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()
	if w == 0 || h == 0 {
		return 0, 0, 0, 0
	}

	u = wrap01(u)
	v = wrap01(v)

	fx := u * float64(w-1)
	fy := v * float64(h-1)
	x0, y0 := int(fx), int(fy)
	x1, y1 := (x0+1)%w, (y0+1)%h
	dx, dy := fx-float64(x0), fy-float64(y0)

	i00 := y0*tex.Stride + x0*4
	i10 := y0*tex.Stride + x1*4
	i01 := y1*tex.Stride + x0*4
	i11 := y1*tex.Stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	var out [4]uint8
	pix := tex.Pix
	for c := 0; c < 4; c++ {
		f := float64(pix[i00+c])*w00 + float64(pix[i10+c])*w10 + float64(pix[i01+c])*w01 + float64(pix[i11+c])*w11
		out[c] = uint8(f + 0.5)
	}
	return out[0], out[1], out[2], out[3]
}

func wrap01(t float64) float64 {
	t -= float64(int(t))
	if t < 0 {
		t += 1
	}
	return t
}
