package commands

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	FormatSVG   = "svg"
	MimeJPEG    = "image/jpeg"
	JPEGQuality = 90
)

// ErrEmptyEncoding is returned when an encoder finishes without producing any bytes
var ErrEmptyEncoding = errors.New("encoder produced no data")

// DecodeImage decodes raster formats registered with the image package (JPEG, PNG, GIF, BMP,
// TIFF, WebP) and SVG documents. SVGs without explicit width/height are rendered at the
// fallback size; a non-positive fallback makes such SVGs an error.
func DecodeImage(data []byte, svgFallbackWidth, svgFallbackHeight int) (image.Image, string, error) {
	slog.Debug("DecodeImage: start", "input_size_bytes", len(data))

	if isSVGData(data) {
		img, err := decodeSVG(data, svgFallbackWidth, svgFallbackHeight)
		if err != nil {
			return nil, "", err
		}
		return img, FormatSVG, nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		slog.Error("DecodeImage: failed to decode image", "error", err)
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	slog.Debug("DecodeImage: decoded raster image",
		"format", format,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())
	return img, format, nil
}

// EncodeJPEG encodes an image as baseline JPEG with the given quality (1-100)
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("jpeg quality must be within 1..100, got %d", quality)
	}

	bb := img.Bounds()
	if bb.Empty() {
		return nil, fmt.Errorf("cannot encode %s image: %w", bb, ErrEmptyEncoding)
	}

	var buf bytes.Buffer
	// Pre-grow buffer to reduce re-allocations; rough heuristic: 1 byte per pixel
	buf.Grow(bb.Dx() * bb.Dy())
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		slog.Error("EncodeJPEG: failed to encode image", "error", err)
		return nil, fmt.Errorf("failed to encode JPEG image: %w", err)
	}
	if buf.Len() == 0 {
		return nil, ErrEmptyEncoding
	}

	slog.Debug("EncodeJPEG: encoding complete",
		"quality", quality,
		"output_size_bytes", buf.Len())
	return buf.Bytes(), nil
}

func decodeSVG(data []byte, fallbackWidth, fallbackHeight int) (image.Image, error) {
	// Try to extract explicit width/height from SVG; if missing, use fallback
	w, h, ok := parseSvgExplicitSize(data)
	if ok {
		slog.Debug("DecodeImage: SVG has explicit size", "width", w, "height", h)
	} else {
		if fallbackWidth <= 0 || fallbackHeight <= 0 {
			return nil, fmt.Errorf("SVG fallback size not set; cannot render SVG without explicit size")
		}
		w, h = fallbackWidth, fallbackHeight
		slog.Debug("DecodeImage: SVG lacks explicit size; using fallback", "width", w, "height", h)
	}

	img, err := renderSVG(data, w, h)
	if err != nil {
		slog.Error("DecodeImage: failed to render SVG", "error", err)
		return nil, fmt.Errorf("failed to render SVG: %w", err)
	}
	return img, nil
}

// parseSvgExplicitSize attempts to extract width and height attributes from the SVG.
// Returns width, height, and ok=true if both are found and parseable.
func parseSvgExplicitSize(data []byte) (int, int, bool) {
	n := min(len(data), 8192)
	s := strings.ToLower(string(data[:n]))
	// Find <svg ...> start
	i := strings.Index(s, "<svg")
	if i < 0 {
		return 0, 0, false
	}
	// Limit to the start tag portion up to '>'
	j := strings.Index(s[i:], ">")
	if j < 0 {
		j = len(s)
	} else {
		j = i + j
	}
	tag := s[i:j]

	w, wOk := parseNumericAttr(tag, "width")
	h, hOk := parseNumericAttr(tag, "height")
	if wOk && hOk && w > 0 && h > 0 {
		return w, h, true
	}
	// viewBox is not treated as a pixel size
	return 0, 0, false
}

// parseNumericAttr extracts the leading integer of a quoted attribute value (e.g. width="123px").
func parseNumericAttr(tag, attr string) (int, bool) {
	pos := strings.Index(tag, " "+attr+"=")
	if pos < 0 {
		return 0, false
	}
	rest := tag[pos+len(attr)+2:]
	if len(rest) == 0 || (rest[0] != '"' && rest[0] != '\'') {
		return 0, false
	}
	quote := rest[0]
	val := rest[1:]
	if end := strings.IndexByte(val, quote); end >= 0 {
		val = val[:end]
	}

	num := 0
	found := false
	for i := 0; i < len(val); i++ {
		ch := val[i]
		if ch < '0' || ch > '9' {
			break
		}
		found = true
		num = num*10 + int(ch-'0')
	}
	if !found || num <= 0 {
		return 0, false
	}
	return num, true
}

// isSVGData performs a lightweight detection of SVG content from raw bytes.
func isSVGData(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	// Only inspect the first ~4KB for detection
	n := min(len(data), 4096)
	header := bytes.ToLower(bytes.TrimSpace(data[:n]))
	return bytes.Contains(header, []byte("<svg")) ||
		bytes.Contains(header, []byte("xmlns=\"http://www.w3.org/2000/svg\"")) ||
		bytes.Contains(header, []byte("xmlns='http://www.w3.org/2000/svg'"))
}

// renderSVG rasterizes an SVG onto a transparent canvas of the given size
func renderSVG(svgData []byte, targetW, targetH int) (*image.RGBA, error) {
	if targetW <= 0 || targetH <= 0 {
		return nil, fmt.Errorf("invalid target dimensions for SVG rendering: %dx%d", targetW, targetH)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}

	icon.SetTarget(0, 0, float64(targetW), float64(targetH))

	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	scanner := rasterx.NewScannerGV(targetW, targetH, dst, dst.Bounds())
	dasher := rasterx.NewDasher(targetW, targetH, scanner)
	icon.Draw(dasher, 1.0)

	return dst, nil
}
