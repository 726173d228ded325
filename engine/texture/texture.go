// Package texture decodes the earth's image maps into RGBA8 staging data.
package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-earth/common"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Role names one of the three fixed earth images.
type Role string

const (
	RoleBump Role = "bump"
	RoleMap  Role = "map"
	RoleSpec Role = "spec"
)

// Roles lists the images in load order.
var Roles = []Role{RoleBump, RoleMap, RoleSpec}

// Linear reports whether the role holds data rather than colour. Data images skip sRGB decoding on the GPU.
func (r Role) Linear() bool {
	return r != RoleMap
}

// Source is one image to load.
type Source struct {
	Role Role
	Path string
	// Data, when set, is decoded instead of reading Path.
	Data []byte
}

// Set holds the decoded images by role.
type Set struct {
	Bump common.TextureStagingData
	Map  common.TextureStagingData
	Spec common.TextureStagingData
}

// Get returns the staging data of a role.
func (s Set) Get(r Role) (common.TextureStagingData, bool) {
	switch r {
	case RoleBump:
		return s.Bump, true
	case RoleMap:
		return s.Map, true
	case RoleSpec:
		return s.Spec, true
	}
	return common.TextureStagingData{}, false
}

func (s *Set) put(r Role, d common.TextureStagingData) {
	switch r {
	case RoleBump:
		s.Bump = d
	case RoleMap:
		s.Map = d
	case RoleSpec:
		s.Spec = d
	}
}

// Decode reads a JPEG, PNG, BMP or WebP image and converts it to tightly packed RGBA8.
//
// Parameters:
//   - r: the encoded image
//   - linear: marks the result as data for linear sampling
//
// Returns:
//   - common.TextureStagingData: the pixels, rows top to bottom
//   - error: the decode error
func Decode(r io.Reader, linear bool) (common.TextureStagingData, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return common.TextureStagingData{}, err
	}
	return ToRGBA(img, linear), nil
}

// ToRGBA copies any image into a zero-origin RGBA8 buffer with a stride of exactly four bytes per pixel.
func ToRGBA(img image.Image, linear bool) common.TextureStagingData {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return common.TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(width),
		Height: uint32(height),
		Linear: linear,
	}
}

// load decodes one source.
func load(src Source) (common.TextureStagingData, error) {
	if len(src.Data) > 0 {
		d, err := Decode(bytes.NewReader(src.Data), src.Role.Linear())
		if err != nil {
			return d, fmt.Errorf("failed to decode embedded %s image: %w", src.Role, err)
		}
		return d, nil
	}
	if src.Path == "" {
		return common.TextureStagingData{}, fmt.Errorf("%s image has neither data nor path", src.Role)
	}

	file, err := os.Open(src.Path)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("failed to open %s image %s: %w", src.Role, src.Path, err)
	}
	defer file.Close()

	d, err := Decode(file, src.Role.Linear())
	if err != nil {
		return d, fmt.Errorf("failed to decode %s image %s: %w", src.Role, src.Path, err)
	}
	if d.Width == 0 || d.Height == 0 {
		return d, fmt.Errorf("%s image %s is empty", src.Role, src.Path)
	}
	return d, nil
}
