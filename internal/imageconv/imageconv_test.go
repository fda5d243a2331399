package imageconv

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

const square = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 20 10" width="20" height="10">
<rect x="0" y="0" width="10" height="10" fill="#ff0000"/>
</svg>`

func TestNeedsConversion(t *testing.T) {
	cases := map[string]bool{
		"image/svg+xml":             true,
		"image/webp":                true,
		"IMAGE/WEBP; charset=utf-8": true,
		"image/png":                 false,
		"image/jpeg":                false,
		"":                          false,
	}
	for mime, want := range cases {
		if got := NeedsConversion(mime); got != want {
			t.Errorf("NeedsConversion(%q) = %v, want %v", mime, got, want)
		}
	}
}

func TestToPNG_SVGOnWhite(t *testing.T) {
	out, err := ToPNG([]byte(square), MimeSVG)
	if err != nil {
		t.Fatalf("ToPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Fatalf("bounds = %v", b)
	}
	r, g, b, _ := img.At(15, 5).RGBA()
	if r>>8 != 0xff || g>>8 != 0xff || b>>8 != 0xff {
		t.Errorf("background at (15,5) = %d,%d,%d, want white", r>>8, g>>8, b>>8)
	}
	r, g, _, _ = img.At(5, 5).RGBA()
	if r>>8 < 0xf0 || g>>8 > 0x10 {
		t.Errorf("rect at (5,5) = %d,%d, want red", r>>8, g>>8)
	}
}

func TestToPNG_InvalidSVG(t *testing.T) {
	if _, err := ToPNG([]byte("<svg><rect></svg>"), MimeSVG); err == nil {
		t.Fatal("expected error")
	}
}

func TestToPNG_PassesThroughPNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(1, 1, color.RGBA{0, 0, 255, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	out, err := ToPNG(buf.Bytes(), MimePNG)
	if err != nil {
		t.Fatalf("ToPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, b, _ := img.At(1, 1).RGBA(); b>>8 != 0xff {
		t.Errorf("pixel lost: blue = %d", b>>8)
	}
}

func TestDetectMime(t *testing.T) {
	var pngBuf bytes.Buffer
	_ = png.Encode(&pngBuf, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	webpHead := []byte("RIFF\x00\x00\x00\x00WEBPVP8 ")

	cases := []struct {
		name   string
		header string
		data   []byte
		want   string
	}{
		{"header wins", "image/png; q=1", []byte("x"), "image/png"},
		{"octet stream sniffed", "application/octet-stream", pngBuf.Bytes(), MimePNG},
		{"webp magic", "", webpHead, MimeWEBP},
		{"svg markup", "", []byte(square), MimeSVG},
		{"unknown defaults to jpeg", "", []byte("hello"), MimeJPEG},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectMime(tc.header, tc.data); got != tc.want {
				t.Errorf("DetectMime = %q, want %q", got, tc.want)
			}
		})
	}
}
