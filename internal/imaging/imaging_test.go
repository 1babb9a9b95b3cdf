package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func createTestJPEG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

// decodePayload decodes the data URL back into an image for dimension checks.
func decodePayload(t *testing.T, p *Payload) image.Image {
	t.Helper()
	mime, data, err := DecodeDataURL(p.DataURL)
	if err != nil {
		t.Fatalf("decoding data URL: %v", err)
	}
	if mime != "image/jpeg" {
		t.Errorf("expected image/jpeg payload, got %s", mime)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding payload bytes: %v", err)
	}
	return img
}

func TestTranscodeSmallImageUnchanged(t *testing.T) {
	data := createTestJPEG(400, 400)
	p, err := Transcode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	if p.Width != 400 || p.Height != 400 {
		t.Errorf("small image should keep dimensions: got %dx%d", p.Width, p.Height)
	}

	img := decodePayload(t, p)
	if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 400 {
		t.Errorf("payload dimensions changed: got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestTranscodeDownscalesLandscape(t *testing.T) {
	data := createTestJPEG(3000, 1500)
	p, err := Transcode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	if p.Width != 600 || p.Height != 300 {
		t.Errorf("expected 600x300, got %dx%d", p.Width, p.Height)
	}
}

func TestTranscodeDownscalesPortrait(t *testing.T) {
	data := createTestPNG(1500, 3000)
	p, err := Transcode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	if p.Width != 300 || p.Height != 600 {
		t.Errorf("expected 300x600, got %dx%d", p.Width, p.Height)
	}
}

func TestTranscodePreservesAspectRatio(t *testing.T) {
	// Odd aspect ratios must come out within a pixel of exact.
	cases := []struct{ w, h int }{
		{1000, 707},
		{707, 1000},
		{2048, 2048},
		{601, 600},
		{4000, 123},
	}
	for _, c := range cases {
		data := createTestJPEG(c.w, c.h)
		p, err := Transcode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("Transcode %dx%d: %v", c.w, c.h, err)
		}

		longest := p.Width
		if p.Height > longest {
			longest = p.Height
		}
		if longest != MaxDimension {
			t.Errorf("%dx%d: longest edge %d, want %d", c.w, c.h, longest, MaxDimension)
		}

		srcRatio := float64(c.w) / float64(c.h)
		gotRatio := float64(p.Width) / float64(p.Height)
		// One pixel of rounding slack on the short edge.
		slack := srcRatio / float64(min(p.Width, p.Height))
		if diff := gotRatio - srcRatio; diff > slack || diff < -slack {
			t.Errorf("%dx%d: aspect ratio %f, want %f", c.w, c.h, gotRatio, srcRatio)
		}
	}
}

func TestTranscodePNGOutputsJPEG(t *testing.T) {
	data := createTestPNG(100, 100)
	p, err := Transcode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Transcode PNG: %v", err)
	}
	mime, _, err := DecodeDataURL(p.DataURL)
	if err != nil {
		t.Fatalf("DecodeDataURL: %v", err)
	}
	if mime != "image/jpeg" {
		t.Errorf("expected image/jpeg (always outputs JPEG), got %s", mime)
	}
}

func TestTranscodeOutputWithinCeiling(t *testing.T) {
	data := createTestJPEG(3000, 3000)
	p, err := Transcode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	if len(p.DataURL) > MaxEncodedChars {
		t.Errorf("payload exceeds ceiling: %d chars", len(p.DataURL))
	}
}

func TestTranscodeInvalidFormat(t *testing.T) {
	_, err := Transcode(bytes.NewReader([]byte("not an image")))
	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode for invalid format, got %v", err)
	}
}

func TestTranscodeGIFRejected(t *testing.T) {
	// GIF magic bytes.
	_, err := Transcode(bytes.NewReader([]byte("GIF89a...")))
	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode for GIF, got %v", err)
	}
}

func TestTranscodeTruncatedJPEG(t *testing.T) {
	data := createTestJPEG(100, 100)
	_, err := Transcode(bytes.NewReader(data[:20]))
	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode for truncated JPEG, got %v", err)
	}
}

func TestEncodePayloadCeiling(t *testing.T) {
	// Base64 expands 4/3, so 700 KB of encoded bytes lands over the
	// 900000-char ceiling.
	_, err := encodePayload(make([]byte, 700_000))
	if !errors.Is(err, ErrOversize) {
		t.Errorf("expected ErrOversize, got %v", err)
	}

	url, err := encodePayload(make([]byte, 1000))
	if err != nil {
		t.Fatalf("encodePayload: %v", err)
	}
	if len(url) > MaxEncodedChars {
		t.Errorf("payload exceeds ceiling: %d chars", len(url))
	}
}

func TestTargetSize(t *testing.T) {
	cases := []struct {
		w, h         int
		wantW, wantH int
	}{
		{400, 400, 400, 400},
		{600, 600, 600, 600},
		{3000, 1500, 600, 300},
		{1500, 3000, 300, 600},
		{601, 601, 600, 600},
		{10000, 1, 600, 1},
		{1, 10000, 1, 600},
	}
	for _, c := range cases {
		gotW, gotH := targetSize(c.w, c.h, MaxDimension)
		if gotW != c.wantW || gotH != c.wantH {
			t.Errorf("targetSize(%d, %d) = %dx%d, want %dx%d", c.w, c.h, gotW, gotH, c.wantW, c.wantH)
		}
	}
}

func TestDecodeDataURLRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "plainstring", "data:image/jpeg,nope", "data:image/jpeg;base64,!!!"} {
		if _, _, err := DecodeDataURL(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}
