// Package naming converts between the spellings a component name can take:
// angle-bracket (HelloWorld, Ui::Button), dashed (hello-world, ui/button) and
// the camelised identifiers used for bound imports.
package naming

import (
	"strings"
	"unicode"
)

// Dasherize turns an angle-bracket tag into its canonical dashed name.
// Each "::" becomes a "/" and every upper-case letter after the first
// character of a segment is preceded by a "-".
//
//	HelloWorld     -> hello-world
//	Ui::TextField  -> ui/text-field
//	already-dashed -> already-dashed
func Dasherize(tag string) string {
	segments := strings.Split(tag, "::")
	for i, seg := range segments {
		var sb strings.Builder
		for j, r := range seg {
			if unicode.IsUpper(r) {
				if j > 0 {
					sb.WriteByte('-')
				}
				sb.WriteRune(unicode.ToLower(r))
				continue
			}
			sb.WriteRune(r)
		}
		segments[i] = sb.String()
	}
	return strings.Join(segments, "/")
}

// LastSegment returns the part of a slash separated name after the final "/".
func LastSegment(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Camelize turns a dashed or underscored name into lowerCamelCase and drops
// every character that cannot appear in an identifier. A leading digit is
// prefixed with "_".
func Camelize(name string) string {
	var sb strings.Builder
	upperNext := false
	for _, r := range name {
		switch {
		case r == '-' || r == '_' || r == '.' || r == '/' || r == ':':
			upperNext = sb.Len() > 0
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if upperNext {
				r = unicode.ToUpper(r)
				upperNext = false
			} else if sb.Len() == 0 {
				r = unicode.ToLower(r)
			}
			sb.WriteRune(r)
		}
	}
	out := sb.String()
	if out == "" {
		return "_"
	}
	if unicode.IsDigit(rune(out[0])) {
		return "_" + out
	}
	return out
}

// Capitalize upper-cases the first letter of a camelised name, giving the
// angle-bracket spelling suggested in diagnostics.
func Capitalize(name string) string {
	if name == "" {
		return name
	}
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
