package rendering

import (
	"sync"
)

// skinDef describes one built-in skin.
type skinDef struct {
	id          string
	layout      Layout
	empty       EmptyPolicy
	inlineEdit  bool
	headerStyle string
}

// builtin lists the skins in display order.
var builtin = []skinDef{
	{id: "classic", layout: LayoutStacked, empty: OmitEmpty, headerStyle: "centered"},
	{id: "modern", layout: LayoutSidebar, empty: Placeholder, inlineEdit: true, headerStyle: "banner"},
	{id: "minimal", layout: LayoutStacked, empty: OmitEmpty, headerStyle: "left"},
	{id: "executive", layout: LayoutStacked, empty: OmitEmpty, headerStyle: "banner"},
	{id: "creative", layout: LayoutSidebar, empty: Placeholder, inlineEdit: true, headerStyle: "left"},
	{id: "technical", layout: LayoutSidebar, empty: OmitEmpty, headerStyle: "left"},
	{id: "elegant", layout: LayoutStacked, empty: Placeholder, headerStyle: "centered"},
	{id: "compact", layout: LayoutStacked, empty: OmitEmpty, headerStyle: "left"},
}

func skinRank(id string) int {
	for i, s := range builtin {
		if s.id == id {
			return i
		}
	}
	return len(builtin)
}

var (
	defaultRegistry *Registry
	defaultErr      error
	defaultOnce     sync.Once
)

// NewRegistry parses every built-in skin.
func NewRegistry() (*Registry, error) {
	r := &Registry{skins: make(map[string]*Skin, len(builtin))}
	for _, def := range builtin {
		skin, err := newSkin(def.id, def.layout, def.empty, def.inlineEdit, def.headerStyle)
		if err != nil {
			return nil, err
		}
		r.skins[def.id] = skin
	}
	return r, nil
}

// Default returns the shared registry of built-in skins.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = NewRegistry()
	})
	return defaultRegistry, defaultErr
}

// MustDefault is like Default but panics if the embedded templates are broken.
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}

// Names returns the ids of the built-in skins.
func Names() []string {
	out := make([]string, len(builtin))
	for i, s := range builtin {
		out[i] = s.id
	}
	return out
}

// Exists reports whether id names a built-in skin.
func Exists(id string) bool {
	return skinRank(id) < len(builtin)
}
