package imagegen

import (
	"fmt"
	"strings"

	"github.com/yungbote/brandcopilot-backend/internal/ai/aierr"
)

type Size struct {
	Width  int
	Height int
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// AllowedSizes are the only output geometries offered: square, landscape, portrait.
var AllowedSizes = []Size{
	{Width: 1024, Height: 1024},
	{Width: 1280, Height: 720},
	{Width: 720, Height: 1280},
}

// DefaultSize applies when the caller omits width and height.
var DefaultSize = AllowedSizes[0]

func ValidateSize(width, height int) error {
	for _, s := range AllowedSizes {
		if s.Width == width && s.Height == height {
			return nil
		}
	}
	names := make([]string, 0, len(AllowedSizes))
	for _, s := range AllowedSizes {
		names = append(names, s.String())
	}
	return aierr.Argument(aierr.UnsupportedSize, "%dx%d is not supported; allowed: %s", width, height, strings.Join(names, ", "))
}
