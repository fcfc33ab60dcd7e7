package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/df07/go-photon-renderer/pkg/renderer"
)

// ErrMalformedPPM is returned for PPM data that cannot be read
var ErrMalformedPPM = errors.New("malformed ppm")

// WritePPM writes img as a plain (P3) PPM. Values are quantized with the
// image resolution; a luminance other than 1 is kept in a "#MAX=" comment so
// the reader can restore the original range.
func WritePPM(w io.Writer, img *renderer.Image) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "P3")
	if img.MaxLuminance != 1 {
		fmt.Fprintf(bw, "#MAX=%s\n", strconv.FormatFloat(img.MaxLuminance, 'g', -1, 64))
	}
	fmt.Fprintf(bw, "%d %d\n%d\n", img.Width, img.Height, img.Resolution)

	for i := 0; i < img.Height; i++ {
		for j := 0; j < img.Width; j++ {
			c := img.At(i, j)
			fmt.Fprintf(bw, "%d %d %d ", img.Quantize(c.X), img.Quantize(c.Y), img.Quantize(c.Z))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ppmReader tokenizes a plain PPM, skipping comments and noting a "#MAX="
// comment seen before the pixel data
type ppmReader struct {
	scanner   *bufio.Scanner
	fields    []string
	luminance float64
	foundMax  bool
	inPixels  bool
}

func (p *ppmReader) next() (string, error) {
	for len(p.fields) == 0 {
		if !p.scanner.Scan() {
			if err := p.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}

		line := p.scanner.Text()
		if k := strings.IndexByte(line, '#'); k >= 0 {
			if !p.inPixels && !p.foundMax {
				p.parseMax(line[k+1:])
			}
			line = line[:k]
		}
		p.fields = strings.Fields(line)
	}

	token := p.fields[0]
	p.fields = p.fields[1:]
	return token, nil
}

// parseMax accepts "MAX=4", "MAX = 4" and "MAX =4" with any spacing
func (p *ppmReader) parseMax(comment string) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(comment), "MAX")
	if !ok {
		return
	}
	rest, ok = strings.CutPrefix(strings.TrimSpace(rest), "=")
	if !ok {
		return
	}
	value := strings.Fields(rest)
	if len(value) == 0 {
		return
	}
	if lum, err := strconv.ParseFloat(value[0], 64); err == nil && lum > 0 {
		p.luminance = lum
		p.foundMax = true
	}
}

func (p *ppmReader) nextInt(what string) (int, error) {
	token, err := p.next()
	if err != nil {
		return 0, fmt.Errorf("%w: reading %s: %v", ErrMalformedPPM, what, err)
	}
	n, err := strconv.Atoi(token)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: bad %s %q", ErrMalformedPPM, what, token)
	}
	return n, nil
}

// ReadPPM reads a plain (P3) PPM. Blank lines, comments and arbitrary
// whitespace between values are tolerated.
func ReadPPM(r io.Reader) (*renderer.Image, error) {
	p := &ppmReader{scanner: bufio.NewScanner(r), luminance: 1}

	magic, err := p.next()
	if err != nil || magic != "P3" {
		return nil, fmt.Errorf("%w: expected P3 header", ErrMalformedPPM)
	}

	width, err := p.nextInt("width")
	if err != nil {
		return nil, err
	}
	height, err := p.nextInt("height")
	if err != nil {
		return nil, err
	}
	resolution, err := p.nextInt("resolution")
	if err != nil {
		return nil, err
	}
	if resolution == 0 {
		return nil, fmt.Errorf("%w: resolution must be positive", ErrMalformedPPM)
	}

	img := renderer.NewImage(width, height)
	img.Resolution = resolution
	img.MaxLuminance = p.luminance
	scale := p.luminance / float64(resolution)
	p.inPixels = true

	planes := [3][]float64{img.Red, img.Green, img.Blue}
	for k := 0; k < img.Pixels(); k++ {
		for c := range planes {
			v, err := p.nextInt("pixel value")
			if err != nil {
				return nil, err
			}
			planes[c][k] = float64(v) * scale
		}
	}
	return img, nil
}
