package imagegen

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Format describes decoded image bytes.
type Format struct {
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// Describe sniffs the container format and dimensions without decoding pixels.
// Unknown data is reported as PNG with zero dimensions, which is what the
// model returns in practice.
func Describe(data []byte) Format {
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Format{ContentType: "image/png", Ext: "png"}
	}
	f := Format{Width: cfg.Width, Height: cfg.Height}
	switch name {
	case "jpeg":
		f.ContentType, f.Ext = "image/jpeg", "jpg"
	case "webp":
		f.ContentType, f.Ext = "image/webp", "webp"
	default:
		f.ContentType, f.Ext = "image/png", "png"
	}
	return f
}
