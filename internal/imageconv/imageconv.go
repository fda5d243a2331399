package imageconv

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/http"
	"strings"

	"github.com/kolesa-team/go-webp/decoder"
	"github.com/kolesa-team/go-webp/webp"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

const (
	MimeSVG  = "image/svg+xml"
	MimeWEBP = "image/webp"
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"

	defaultSVGSize = 1024
)

var ErrSVG = errors.New("Gagal konversi SVG ke PNG")

// NeedsConversion reports whether the metadata model cannot take mime as is.
func NeedsConversion(mime string) bool {
	mime = normalize(mime)
	return mime == MimeSVG || mime == MimeWEBP
}

// ToPNG re-encodes data as PNG. SVG is drawn over a white background.
func ToPNG(data []byte, mime string) ([]byte, error) {
	var (
		img image.Image
		err error
	)
	switch normalize(mime) {
	case MimeSVG:
		img, err = rasterizeSVG(data)
	case MimeWEBP:
		img, err = webp.Decode(bytes.NewReader(data), &decoder.Options{})
	default:
		if isWEBP(data) {
			img, err = webp.Decode(bytes.NewReader(data), &decoder.Options{})
		} else {
			img, _, err = image.Decode(bytes.NewReader(data))
		}
	}
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func rasterizeSVG(data []byte) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSVG, err)
	}
	w, h := int(icon.ViewBox.W), int(icon.ViewBox.H)
	if w <= 0 {
		w = defaultSVGSize
	}
	if h <= 0 {
		h = defaultSVGSize
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), image.White, image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return rgba, nil
}

// DetectMime picks a mime type from the upload header, falling back to
// content sniffing and finally to JPEG.
func DetectMime(header string, data []byte) string {
	mime := normalize(header)
	if mime != "" && mime != "application/octet-stream" {
		return mime
	}
	if isWEBP(data) {
		return MimeWEBP
	}
	if looksLikeSVG(data) {
		return MimeSVG
	}
	mime = normalize(http.DetectContentType(data))
	if strings.HasPrefix(mime, "image/") {
		return mime
	}
	return MimeJPEG
}

func normalize(mime string) string {
	mime = strings.TrimSpace(mime)
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	return strings.ToLower(mime)
}

func isWEBP(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	return string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}

func looksLikeSVG(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}
