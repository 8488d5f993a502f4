package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// Accepted values for request parameters.
var (
	formats  = []string{"svg", "json", "dot", "png", "pdf"}
	vizTypes = []string{"tree", "nodelink"}
	styles   = []string{"simple", "outline"}
)

// Formats returns the accepted output formats.
func Formats() []string { return append([]string(nil), formats...) }

// VizTypes returns the accepted visualization types.
func VizTypes() []string { return append([]string(nil), vizTypes...) }

// Styles returns the accepted render styles.
func Styles() []string { return append([]string(nil), styles...) }

// ValidateFormat checks an output format name.
func ValidateFormat(format string) error {
	if !contains(formats, format) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(formats, ", "))
	}
	return nil
}

// ValidateVizType checks a visualization type. Empty means the default tree.
func ValidateVizType(vizType string) error {
	if vizType != "" && !contains(vizTypes, vizType) {
		return New(ErrCodeInvalidVizType, "unsupported visualization type %q (want one of %s)", vizType, strings.Join(vizTypes, ", "))
	}
	return nil
}

// ValidateStyle checks a render style. Empty means the default style.
func ValidateStyle(style string) error {
	if style != "" && !contains(styles, style) {
		return New(ErrCodeInvalidStyle, "unsupported style %q (want one of %s)", style, strings.Join(styles, ", "))
	}
	return nil
}

// ValidateSize rejects inputs larger than max bytes. A non-positive max
// disables the check.
func ValidateSize(n, max int64) error {
	if max > 0 && n > max {
		return New(ErrCodeTooLarge, "input is %d bytes (max %d)", n, max)
	}
	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// ValidateFilename turns a client-supplied filename into a safe basename.
//
// Directory components are dropped, whitespace becomes '_', every other
// character outside [A-Za-z0-9_.-] is removed and leading dots are stripped
// so the result can never name a hidden file or leave its directory.
// A name with nothing left is rejected.
func ValidateFilename(name string) (string, error) {
	for _, r := range name {
		if r == '\x00' || unicode.IsControl(r) {
			return "", New(ErrCodeInvalidName, "filename contains invalid control characters")
		}
	}

	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, ".")

	if name == "" {
		return "", New(ErrCodeInvalidName, "filename is empty after sanitizing")
	}

	const maxLength = 255
	if len(name) > maxLength {
		name = name[len(name)-maxLength:]
		name = strings.TrimLeft(name, ".")
	}
	return name, nil
}

// artifactNameRegex matches stored artifact names: a UUID plus an extension.
var artifactNameRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}(\.[A-Za-z0-9]+)?$`)

// ValidateArtifactName checks a name used to fetch a stored artifact.
func ValidateArtifactName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "artifact name cannot be empty")
	}
	if !artifactNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid artifact name: %q", name)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
