package relevance

import "strings"

// purposeDirs maps a directory name to its label, checked in order.
var purposeDirs = []struct {
	dir   string
	label string
}{
	{"components", "React component"},
	{"hooks", "React hook"},
	{"lib", "Utility library"},
	{"utils", "Utility functions"},
	{"types", "Type definitions"},
	{"styles", "Stylesheet"},
	{"api", "API route"},
	{"services", "Service module"},
}

// detectPurpose classifies a file into a short human-readable label for
// summary entries. Rules are checked in priority order: well-known
// page/layout filenames, then directory membership, then extension, then
// a generic fallback. First match wins.
func detectPurpose(path string) string {
	pathLower := strings.ToLower(path)
	filename := strings.ToLower(baseName(path))

	switch filename {
	case "page.tsx", "page.ts":
		return "Page component"
	case "layout.tsx", "layout.ts":
		return "Layout component"
	}

	for _, d := range purposeDirs {
		if inDir(pathLower, d.dir) {
			return d.label
		}
	}

	switch {
	case strings.HasSuffix(filename, ".css"), strings.HasSuffix(filename, ".scss"):
		return "Stylesheet"
	case strings.HasSuffix(filename, ".tsx"):
		return "React component"
	case strings.HasSuffix(filename, ".ts"):
		return "TypeScript module"
	case strings.HasSuffix(filename, ".json"):
		return "Configuration"
	case strings.HasSuffix(filename, ".md"):
		return "Documentation"
	}

	return "Source file"
}

// inDir reports whether the lowercased path has dir as one of its
// leading or intermediate segments.
func inDir(pathLower, dir string) bool {
	return strings.Contains(pathLower, "/"+dir+"/") || strings.HasPrefix(pathLower, dir+"/")
}

// languageHint returns the fenced-code-block language tag for a path, or
// an empty string for extensions the agent prompt does not highlight.
func languageHint(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	switch ext := path[i+1:]; ext {
	case "tsx", "ts", "css", "scss", "json", "md":
		return ext
	}
	return ""
}
