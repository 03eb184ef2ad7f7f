package utils

import (
	"mime"
	"path"
	"strings"
)

// structureTypes maps crystal structure formats to their registered MIME types
var structureTypes = map[string]string{
	".cif":    "chemical/x-cif",
	".mcif":   "chemical/x-mcif",
	".xyz":    "chemical/x-xyz",
	".pdb":    "chemical/x-pdb",
	".poscar": "chemical/x-vasp",
	".vasp":   "chemical/x-vasp",
}

var commonTypes = map[string]string{
	".txt":  "text/plain",
	".log":  "text/plain",
	".out":  "text/plain",
	".in":   "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".json": "application/json",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".toml": "application/toml",
	".xml":  "application/xml",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".zip":  "application/zip",
	".tar":  "application/x-tar",
	".gz":   "application/gzip",
	".h5":   "application/x-hdf5",
}

// DetectContentType guesses the MIME type of a remote file from its name.
// VASP structure files carry no extension and are matched by name.
func DetectContentType(name string) string {
	base := strings.ToUpper(path.Base(name))
	if base == "POSCAR" || base == "CONTCAR" {
		return "chemical/x-vasp"
	}

	ext := strings.ToLower(path.Ext(name))
	if contentType, ok := structureTypes[ext]; ok {
		return contentType
	}
	if contentType, ok := commonTypes[ext]; ok {
		return contentType
	}
	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return contentType
	}
	return "application/octet-stream"
}

// GetFileCategory returns a general category for the content type
func GetFileCategory(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "chemical/"):
		return "structure"
	case strings.HasPrefix(contentType, "image/"):
		return "image"
	case strings.HasPrefix(contentType, "text/"):
		return "text"
	case strings.Contains(contentType, "json") || strings.Contains(contentType, "yaml") ||
		strings.Contains(contentType, "toml") || strings.Contains(contentType, "xml") ||
		strings.Contains(contentType, "hdf5"):
		return "data"
	case strings.Contains(contentType, "zip") || strings.Contains(contentType, "tar") || strings.Contains(contentType, "gzip"):
		return "archive"
	default:
		return "other"
	}
}
