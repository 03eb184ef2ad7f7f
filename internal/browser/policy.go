package browser

import (
	"fmt"
	"path"
	"strings"

	"github.com/HaiFongPan/xtal-cli/internal/api"
)

// Action is what activating a file entry does
type Action int

const (
	ActionDownload Action = iota
	ActionStructure
	ActionPreview
	ActionReject
)

func (a Action) String() string {
	switch a {
	case ActionStructure:
		return "structure"
	case ActionPreview:
		return "preview"
	case ActionReject:
		return "reject"
	default:
		return "download"
	}
}

// Policy names accepted by ui.preview_policy
const (
	PolicyStructure = "structure"
	PolicyText      = "text"
)

// PreviewPolicy classifies file entries. allowed is the listing's extension allow-list, if any.
type PreviewPolicy interface {
	Name() string
	Classify(entry api.DirectoryEntry, allowed []string) Action
}

// StructureSuffix marks structure files under the structure policy
const StructureSuffix = ".cif"

// StructureNames are bare file names treated as structures
var StructureNames = []string{"POSCAR", "CONTCAR"}

// DefaultTextExtensions is used when the listing supplies no allow-list
var DefaultTextExtensions = []string{
	"txt", "md", "json", "yaml", "yml", "toml", "csv", "log", "py", "go", "js", "ts",
	"cif", "xyz", "poscar", "in", "out", "cfg", "ini", "xml", "html", "sh",
}

// StructurePolicy renders structure files and downloads everything else
type StructurePolicy struct{}

func (StructurePolicy) Name() string { return PolicyStructure }

func (StructurePolicy) Classify(entry api.DirectoryEntry, _ []string) Action {
	if IsStructureFile(entry.Name) {
		return ActionStructure
	}
	return ActionDownload
}

// IsStructureFile matches the structure suffix or one of the bare structure names, ignoring case
func IsStructureFile(name string) bool {
	if strings.HasSuffix(strings.ToLower(name), StructureSuffix) {
		return true
	}
	for _, bare := range StructureNames {
		if strings.EqualFold(name, bare) {
			return true
		}
	}
	return false
}

// TextPolicy previews files whose extension is allowed and rejects the rest
type TextPolicy struct {
	Defaults []string
}

func (TextPolicy) Name() string { return PolicyText }

func (p TextPolicy) Classify(entry api.DirectoryEntry, allowed []string) Action {
	list := allowed
	if len(list) == 0 {
		list = p.Defaults
	}
	if len(list) == 0 {
		list = DefaultTextExtensions
	}

	ext := extension(entry.Name)
	if ext == "" {
		return ActionReject
	}
	for _, candidate := range list {
		if strings.EqualFold(strings.TrimPrefix(candidate, "."), ext) {
			return ActionPreview
		}
	}
	return ActionReject
}

// extension returns the lower-cased extension without the dot. Bare names such
// as POSCAR count as their own extension so they match "poscar".
func extension(name string) string {
	ext := path.Ext(name)
	if ext == "" {
		return strings.ToLower(name)
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ParsePolicy returns the policy for a configuration name
func ParsePolicy(name string) (PreviewPolicy, error) {
	switch strings.ToLower(name) {
	case "", PolicyStructure:
		return StructurePolicy{}, nil
	case PolicyText:
		return TextPolicy{Defaults: DefaultTextExtensions}, nil
	default:
		return nil, fmt.Errorf("unknown preview policy: %s", name)
	}
}
