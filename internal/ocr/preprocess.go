package ocr

import (
	"image"
	"image/color"
	"sort"
)

// Classical binarization and contrast variants for low-quality receipt
// photos. These operate on *image.Gray directly: no pure-Go imaging library
// ships local/Otsu thresholding, and the OpenCV bindings would pull in cgo
// for what amounts to a few pixel loops.

func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return out
}

// adaptiveThreshold binarizes against the mean of a (2*radius+1)-square
// neighborhood minus a small constant. Handles uneven lighting, the usual
// failure mode of phone photos.
func adaptiveThreshold(g *image.Gray, radius, c int) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(b)

	// Summed-area table so each window mean is O(1).
	integral := make([]int64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		var rowSum int64
		for x := 0; x < w; x++ {
			rowSum += int64(g.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			integral[(y+1)*(w+1)+x+1] = integral[y*(w+1)+x+1] + rowSum
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, y0 := max(0, x-radius), max(0, y-radius)
			x1, y1 := min(w-1, x+radius), min(h-1, y+radius)
			count := int64(x1-x0+1) * int64(y1-y0+1)
			sum := integral[(y1+1)*(w+1)+x1+1] -
				integral[y0*(w+1)+x1+1] -
				integral[(y1+1)*(w+1)+x0] +
				integral[y0*(w+1)+x0]
			mean := sum / count

			v := uint8(0)
			if int64(g.GrayAt(b.Min.X+x, b.Min.Y+y).Y) > mean-int64(c) {
				v = 255
			}
			out.SetGray(b.Min.X+x, b.Min.Y+y, color.Gray{Y: v})
		}
	}
	return out
}

// otsuThreshold binarizes at the global threshold maximizing between-class
// variance. Works well on bimodal receipt scans.
func otsuThreshold(g *image.Gray) *image.Gray {
	b := g.Bounds()
	var hist [256]int64
	total := int64(b.Dx()) * int64(b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			hist[g.GrayAt(x, y).Y]++
		}
	}

	var sumAll int64
	for i, n := range hist {
		sumAll += int64(i) * n
	}

	var sumBg, wBg int64
	var bestVar float64
	threshold := 0
	for t := 0; t < 256; t++ {
		wBg += hist[t]
		if wBg == 0 {
			continue
		}
		wFg := total - wBg
		if wFg == 0 {
			break
		}
		sumBg += int64(t) * hist[t]
		meanBg := float64(sumBg) / float64(wBg)
		meanFg := float64(sumAll-sumBg) / float64(wFg)
		diff := meanBg - meanFg
		betweenVar := float64(wBg) * float64(wFg) * diff * diff
		if betweenVar > bestVar {
			bestVar = betweenVar
			threshold = t
		}
	}

	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := uint8(0)
			if int(g.GrayAt(x, y).Y) > threshold {
				v = 255
			}
			out.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return out
}

// equalizeHistogram stretches the intensity distribution over the full
// range, boosting contrast on washed-out screenshots.
func equalizeHistogram(g *image.Gray) *image.Gray {
	b := g.Bounds()
	total := int64(b.Dx()) * int64(b.Dy())
	if total == 0 {
		return image.NewGray(b)
	}

	var hist [256]int64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			hist[g.GrayAt(x, y).Y]++
		}
	}

	var lut [256]uint8
	var cum int64
	for i := 0; i < 256; i++ {
		cum += hist[i]
		lut[i] = uint8(cum * 255 / total)
	}

	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.SetGray(x, y, color.Gray{Y: lut[g.GrayAt(x, y).Y]})
		}
	}
	return out
}

// medianFilter applies a 3x3 median, knocking out salt-and-pepper noise
// before re-thresholding.
func medianFilter(g *image.Gray) *image.Gray {
	b := g.Bounds()
	out := image.NewGray(b)
	window := make([]uint8, 0, 9)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			window = window[:0]
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < b.Min.X || nx >= b.Max.X || ny < b.Min.Y || ny >= b.Max.Y {
						continue
					}
					window = append(window, g.GrayAt(nx, ny).Y)
				}
			}
			sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })
			out.SetGray(x, y, color.Gray{Y: window[len(window)/2]})
		}
	}
	return out
}
