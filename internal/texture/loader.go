package texture

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
)

type decodeFunc func(io.Reader) (image.Image, error)

// The tga package registers itself with image.Decode under an empty magic
// string, which claims every input, so decoders are picked explicitly.
var decoders = map[string]decodeFunc{
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".gif":  gif.Decode,
	".bmp":  bmp.Decode,
	".tga":  tga.Decode,
}

// Load decodes a PNG, JPEG, GIF, BMP or TGA file into an NRGBA image.
// The decoder is chosen by extension; files without a known extension are
// sniffed, and anything unrecognised is tried as TGA, which has no magic.
func Load(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	decode, ok := decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		decode = sniff(r)
	}
	img, err := decode(r)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return toNRGBA(img), nil
}

func sniff(r *bufio.Reader) decodeFunc {
	head, _ := r.Peek(8)
	switch {
	case bytes.HasPrefix(head, []byte("\x89PNG")):
		return png.Decode
	case bytes.HasPrefix(head, []byte("\xff\xd8")):
		return jpeg.Decode
	case bytes.HasPrefix(head, []byte("GIF8")):
		return gif.Decode
	case bytes.HasPrefix(head, []byte("BM")):
		return bmp.Decode
	}
	return tga.Decode
}

// toNRGBA converts any image to NRGBA format.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	switch src.(type) {
	case *image.YCbCr, *image.Gray:
		// No alpha in the source; draw.Src leaves A at 255.
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
				dst.SetNRGBA(x-b.Min.X, y-b.Min.Y, c)
			}
		}
	}
	return dst
}

// Solid returns a 1×1 texture of a diffuse color with channels in 0..1.
func Solid(r, g, b float32) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.Pix[0] = channel(r)
	img.Pix[1] = channel(g)
	img.Pix[2] = channel(b)
	img.Pix[3] = 255
	return img
}

func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}

// Checker colors used for missing textures.
var (
	CheckerLight = color.NRGBA{R: 150, G: 200, B: 255, A: 255}
	CheckerDark  = color.NRGBA{R: 200, G: 150, B: 100, A: 255}
)

// Checker returns a size×size debug pattern with square cells of the given width.
func Checker(size, cell int) *image.NRGBA {
	if cell <= 0 {
		cell = 1
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := CheckerDark
			if (x/cell+y/cell)%2 == 0 {
				c = CheckerLight
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}
