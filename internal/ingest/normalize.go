package ingest

import (
	"regexp"
	"strings"
)

const namespacePrefix = "minecraft:"

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeDimension maps a namespaced dimension identifier to its simple
// name. The three vanilla dimensions get their short names, any other
// "minecraft:" identifier has the prefix stripped, and unprefixed strings
// pass through unchanged. Empty input stays empty and is rejected later by
// validation as a missing field.
func NormalizeDimension(dimension string) string {
	switch dimension {
	case "minecraft:overworld":
		return "overworld"
	case "minecraft:the_nether":
		return "nether"
	case "minecraft:the_end":
		return "end"
	}
	if strings.HasPrefix(dimension, namespacePrefix) {
		return strings.TrimPrefix(dimension, namespacePrefix)
	}
	return dimension
}

// NormalizeItemID canonicalizes a free-text item name: lowercased, trimmed,
// internal whitespace runs collapsed to a single underscore. Empty input
// yields the empty string, which validation rejects as required.
func NormalizeItemID(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return ""
	}
	return whitespaceRun.ReplaceAllString(name, "_")
}

// NormalizeRaw converts CRLF line endings to LF so the dedup hash is stable
// across relay transports.
func NormalizeRaw(raw string) string {
	return strings.ReplaceAll(raw, "\r\n", "\n")
}
