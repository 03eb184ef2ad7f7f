package browser

import (
	"bytes"
	"encoding/json"
)

// ExternalScene is a structure supplied by the host rather than picked in the browser
type ExternalScene struct {
	Scene    json.RawMessage
	Loading  bool
	Err      string
	Filename string
}

// EffectiveScene is the single scene value the render path consumes
type EffectiveScene struct {
	Scene    json.RawMessage
	Loading  bool
	Err      string
	Filename string
	// Remote is set when the value came from the browser selection
	Remote bool
}

// Renderable reports whether there is a scene to draw
func (e EffectiveScene) Renderable() bool {
	trimmed := bytes.TrimSpace(e.Scene)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) && !e.Loading && e.Err == ""
}

// Resolve uses the remote structure variants when one is active and the
// external scene otherwise. The two sources are never mixed.
func Resolve(sel Selection, ext ExternalScene) EffectiveScene {
	switch s := sel.(type) {
	case LoadingStructure:
		return EffectiveScene{Loading: true, Filename: baseName(s.Path), Remote: true}
	case Structure:
		return EffectiveScene{Scene: s.Scene, Filename: s.Name, Remote: true}
	case StructureError:
		return EffectiveScene{Err: s.Message, Filename: baseName(s.Path), Remote: true}
	}
	return EffectiveScene{
		Scene:    ext.Scene,
		Loading:  ext.Loading,
		Err:      ext.Err,
		Filename: ext.Filename,
	}
}
