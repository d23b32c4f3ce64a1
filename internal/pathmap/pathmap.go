// Package pathmap rewrites source-map path-override mappings against a
// concrete web root.
//
// IDE launch configurations reference the web root symbolically via the
// ${webRoot} placeholder. Before the mapping is handed to the source-map
// subsystem, every occurrence of the placeholder at the start of a
// pattern or replacement string must be substituted with the absolute
// web root directory. The placeholder is only meaningful as a prefix; a
// mid-string occurrence is left untouched.
package pathmap

import "strings"

// WebRootToken is the symbolic placeholder for the web root directory.
const WebRootToken = "${webRoot}"

// DefaultSourceMapPathOverrides are applied when a launch configuration
// supplies no overrides of its own. The patterns cover the URL schemes
// emitted by common bundlers.
var DefaultSourceMapPathOverrides = map[string]string{
	"webpack:///./~/*": WebRootToken + "/node_modules/*",
	"webpack:///./*":   WebRootToken + "/*",
	"webpack:///*":     "*",
	"webpack:///src/*": WebRootToken + "/src/*",
	"meteor://💻app/*": WebRootToken + "/*",
}

// ResolveWebRootPattern returns a fresh mapping in which every key and
// value that starts with the ${webRoot} placeholder has that leading
// occurrence replaced by root. Keys and values are rewritten
// independently; strings whose placeholder is not at position 0 pass
// through unchanged. The input map is never mutated.
//
// If two rewritten keys collide, the surviving value is unspecified
// (last write wins in map iteration order).
func ResolveWebRootPattern(root string, overrides map[string]string) map[string]string {
	resolved := make(map[string]string, len(overrides))
	for pattern, replacement := range overrides {
		resolved[replacePrefix(pattern, root)] = replacePrefix(replacement, root)
	}
	return resolved
}

// ResolveOrDefault resolves the given overrides, falling back to the
// default bundler overrides when none are supplied.
func ResolveOrDefault(root string, overrides map[string]string) map[string]string {
	if len(overrides) == 0 {
		return ResolveWebRootPattern(root, DefaultSourceMapPathOverrides)
	}
	return ResolveWebRootPattern(root, overrides)
}

// replacePrefix substitutes a leading ${webRoot} with root, leaving the
// remainder of the string untouched.
func replacePrefix(s, root string) string {
	if strings.HasPrefix(s, WebRootToken) {
		return root + s[len(WebRootToken):]
	}
	return s
}
