package bitmap

import (
	"image"
	"image/color"

	"tinygo.org/x/drivers"
)

// imageDisplay 把 image.RGBA 包装成 drivers.Displayer，tinyfont 通过它逐像素落笔。
type imageDisplay struct {
	img *image.RGBA
}

var _ drivers.Displayer = (*imageDisplay)(nil)

func newImageDisplay(w, h int) *imageDisplay {
	return &imageDisplay{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (d *imageDisplay) Size() (x, y int16) {
	b := d.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

// SetPixel 以 source-over 方式混合半透明颜色，越界像素直接丢弃。
func (d *imageDisplay) SetPixel(x, y int16, c color.RGBA) {
	ix, iy := int(x), int(y)
	if !image.Pt(ix, iy).In(d.img.Bounds()) {
		return
	}
	if c.A == 0xff {
		d.img.SetRGBA(ix, iy, c)
		return
	}
	dst := d.img.RGBAAt(ix, iy)
	a := uint32(c.A)
	blend := func(s, t uint8) uint8 {
		return uint8((uint32(s)*a + uint32(t)*(0xff-a)) / 0xff)
	}
	d.img.SetRGBA(ix, iy, color.RGBA{
		R: blend(c.R, dst.R),
		G: blend(c.G, dst.G),
		B: blend(c.B, dst.B),
		A: uint8(a + uint32(dst.A)*(0xff-a)/0xff),
	})
}

func (d *imageDisplay) Display() error { return nil }

func (d *imageDisplay) fill(c color.RGBA) {
	b := d.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			d.img.SetRGBA(x, y, c)
		}
	}
}
