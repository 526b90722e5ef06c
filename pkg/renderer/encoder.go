package renderer

import (
	"math"
	"strconv"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// intensity is the range every gamma-corrected channel is clamped to
var intensity = core.NewInterval(0.000, 0.999)

// Encoder appends the representation of one finished pixel to dst
type Encoder interface {
	EncodePixel(dst []byte, sum core.Color, samples int) []byte
}

// PPMEncoder writes pixels as plain-text PPM triples, one "r g b" line each
type PPMEncoder struct{}

// EncodePixel implements Encoder
func (PPMEncoder) EncodePixel(dst []byte, sum core.Color, samples int) []byte {
	r, g, b := ToBytes(sum, samples)
	dst = strconv.AppendInt(dst, int64(r), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(g), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(b), 10)
	return append(dst, '\n')
}

// RGBEncoder writes pixels as three raw bytes
type RGBEncoder struct{}

// EncodePixel implements Encoder
func (RGBEncoder) EncodePixel(dst []byte, sum core.Color, samples int) []byte {
	r, g, b := ToBytes(sum, samples)
	return append(dst, r, g, b)
}

// ToBytes averages a summed color over samples, applies gamma 2 and
// quantizes each channel to [0, 255]
func ToBytes(sum core.Color, samples int) (r, g, b uint8) {
	scale := 1.0 / float64(samples)
	return quantize(sum.X * scale), quantize(sum.Y * scale), quantize(sum.Z * scale)
}

func quantize(linear float64) uint8 {
	return uint8(256 * intensity.Clamp(linearToGamma(linear)))
}

// linearToGamma maps a linear channel value to gamma 2 space
func linearToGamma(linear float64) float64 {
	if linear > 0 {
		return math.Sqrt(linear)
	}
	return 0
}
