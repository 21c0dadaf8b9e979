package layout

import (
	"strings"

	"github.com/Faultbox/bspslice/pkg/bsp"
)

// skyPrefix marks sky textures, which are never drawn.
const skyPrefix = "sky"

// builtinIgnore lists tool textures that have no visible surface.
var builtinIgnore = []string{"clip", "hint", "trigger"}

// FaceFilter drops faces by texture name.
type FaceFilter struct {
	ignore map[string]struct{}
}

// NewFaceFilter returns a filter ignoring sky textures, the built-in tool
// textures, and the given names. Names match exactly and case-sensitively.
func NewFaceFilter(ignore []string) *FaceFilter {
	f := &FaceFilter{ignore: make(map[string]struct{}, len(ignore)+len(builtinIgnore))}
	for _, name := range builtinIgnore {
		f.ignore[name] = struct{}{}
	}
	for _, name := range ignore {
		f.ignore[name] = struct{}{}
	}
	return f
}

// Keep reports whether faces with the given texture are kept.
func (f *FaceFilter) Keep(texture string) bool {
	if strings.HasPrefix(texture, skyPrefix) {
		return false
	}
	_, ignored := f.ignore[texture]
	return !ignored
}

// Apply returns the kept faces in their original order.
func (f *FaceFilter) Apply(faces []*bsp.Face) []*bsp.Face {
	kept := make([]*bsp.Face, 0, len(faces))
	for _, face := range faces {
		if f.Keep(face.TextureName) {
			kept = append(kept, face)
		}
	}
	return kept
}
