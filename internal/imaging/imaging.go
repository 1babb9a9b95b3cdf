package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"net/http"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxDimension is the longest-edge cap for stored photos. Smaller
// images keep their dimensions; larger ones are scaled down to fit a
// MaxDimension square without cropping or distortion.
const MaxDimension = 600

// JPEGQuality is the fixed compression quality for output. Deliberately
// aggressive: the payload is persisted inline, so size wins over fidelity.
const JPEGQuality = 50

// MaxEncodedChars is the hard ceiling on the persisted text form of the
// payload (the full data URL). Enforced here because the store performs
// no validation of its own.
const MaxEncodedChars = 900000

// dataURLPrefix is the self-describing header of every payload.
const dataURLPrefix = "data:image/jpeg;base64,"

// Transcode failure modes, matchable with errors.Is.
var (
	ErrDecode   = errors.New("image cannot be decoded")
	ErrOversize = errors.New("encoded image exceeds size ceiling")
)

// AllowedMIME lists the accepted input MIME types, sniffed from bytes.
var AllowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Payload is a transcoded photo ready to persist: a base64 data URL
// plus the output dimensions for callers that care about geometry.
type Payload struct {
	DataURL string
	Width   int
	Height  int
}

// Transcode reads a user-supplied photo, validates the format by
// sniffing bytes, downscales it to fit within a MaxDimension bounding
// box preserving aspect ratio, re-encodes it as JPEG at the fixed
// quality, and wraps the result in a data URL. Fails with ErrDecode for
// unreadable input and ErrOversize if the encoded text form exceeds
// MaxEncodedChars; nothing is retried or recompressed.
func Transcode(r io.Reader) (*Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	// Sniff actual MIME type from bytes (not trusting client headers).
	detected := http.DetectContentType(data)
	if !AllowedMIME[detected] {
		return nil, fmt.Errorf("%w: unsupported format %s", ErrDecode, detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	img = downscale(img, MaxDimension)
	bounds := img.Bounds()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	dataURL, err := encodePayload(buf.Bytes())
	if err != nil {
		return nil, err
	}

	return &Payload{
		DataURL: dataURL,
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
	}, nil
}

// encodePayload wraps encoded JPEG bytes in a data URL and enforces the
// persisted-size ceiling on the text form, as it will be stored.
func encodePayload(encoded []byte) (string, error) {
	dataURL := dataURLPrefix + base64.StdEncoding.EncodeToString(encoded)
	if len(dataURL) > MaxEncodedChars {
		return "", fmt.Errorf("%w: %d chars (max %d)", ErrOversize, len(dataURL), MaxEncodedChars)
	}
	return dataURL, nil
}

// DecodeDataURL splits a stored payload back into its MIME type and raw
// bytes, for serving over HTTP.
func DecodeDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URL")
	}
	mime, b64, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return "", nil, fmt.Errorf("missing base64 marker in data URL")
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", nil, fmt.Errorf("decoding data URL payload: %w", err)
	}
	return mime, data, nil
}

// targetSize computes output dimensions: unchanged if the longest edge
// is within maxDim, otherwise both edges scaled by maxDim/longest,
// rounded to nearest with a floor of 1 pixel.
func targetSize(w, h, maxDim int) (int, int) {
	if w <= maxDim && h <= maxDim {
		return w, h
	}

	longest := w
	if h > w {
		longest = h
	}
	scale := float64(maxDim) / float64(longest)

	newW := int(math.Round(float64(w) * scale))
	newH := int(math.Round(float64(h) * scale))
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	return newW, newH
}

// downscale resizes the image so neither dimension exceeds maxDim,
// using Catmull-Rom interpolation. Returns the original image if
// already within bounds.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	newW, newH := targetSize(w, h, maxDim)
	if newW == w && newH == h {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	// Register decoders (jpeg is registered by default, but be explicit;
	// webp registers itself via its package init).
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
