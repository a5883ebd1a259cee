package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// OpaqueBounds returns the bounding box of pixels with non-zero alpha, or an
// empty rectangle when the image is fully transparent.
func OpaqueBounds(img *image.NRGBA) image.Rectangle {
	b := img.Bounds()
	box := image.Rectangle{}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[row+(x-b.Min.X)*4+3] == 0 {
				continue
			}
			box = box.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	return box
}

// CropAndCenter crops to the opaque bounding box, then scales it to fill
// fillRatio of a size×size transparent canvas and centers it.
func CropAndCenter(img *image.NRGBA, size int, fillRatio float64) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, size, size))
	box := OpaqueBounds(img)
	if box.Empty() {
		return canvas
	}

	srcW, srcH := box.Dx(), box.Dy()
	scale := float64(size) * fillRatio / float64(max(srcW, srcH))
	newW := max(int(float64(srcW)*scale+0.5), 1)
	newH := max(int(float64(srcH)*scale+0.5), 1)

	offX := (size - newW) / 2
	offY := (size - newH) / 2
	dst := image.Rect(offX, offY, offX+newW, offY+newH)
	draw.CatmullRom.Scale(canvas, dst, img, box, draw.Src, nil)
	return canvas
}
