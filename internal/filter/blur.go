// Package filter implements the CPU image filters used by the
// software graphics device.
package filter

import "image"

// GaussianBlur blurs img in place with a separable two-pass Gaussian
// of the given standard deviation. Samples outside the image are
// treated as transparent, so content bleeds softly past its border
// instead of smearing edge pixels.
func GaussianBlur(img *image.RGBA, sigma float64) {
	if img == nil || sigma <= 0 {
		return
	}
	b := img.Bounds()
	width := b.Dx()
	height := b.Dy()
	if width == 0 || height == 0 {
		return
	}

	kernel := CachedGaussianKernel(sigma)
	half := len(kernel) / 2

	temp := make([]float32, width*height*4)

	// Pass 1: horizontal, img -> temp.
	for y := 0; y < height; y++ {
		row := img.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < width; x++ {
			var r, g, bl, a float32
			for k, weight := range kernel {
				kx := x + k - half
				if kx < 0 || kx >= width {
					continue // transparent outside
				}
				i := row + kx*4
				r += float32(img.Pix[i+0]) * weight
				g += float32(img.Pix[i+1]) * weight
				bl += float32(img.Pix[i+2]) * weight
				a += float32(img.Pix[i+3]) * weight
			}
			t := (y*width + x) * 4
			temp[t+0] = r
			temp[t+1] = g
			temp[t+2] = bl
			temp[t+3] = a
		}
	}

	// Pass 2: vertical, temp -> img.
	for y := 0; y < height; y++ {
		row := img.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < width; x++ {
			var r, g, bl, a float32
			for k, weight := range kernel {
				ky := y + k - half
				if ky < 0 || ky >= height {
					continue
				}
				t := (ky*width + x) * 4
				r += temp[t+0] * weight
				g += temp[t+1] * weight
				bl += temp[t+2] * weight
				a += temp[t+3] * weight
			}
			i := row + x*4
			img.Pix[i+0] = clampUint8(r)
			img.Pix[i+1] = clampUint8(g)
			img.Pix[i+2] = clampUint8(bl)
			img.Pix[i+3] = clampUint8(a)
		}
	}
}

func clampUint8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
