package gen

import (
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"

	"github.com/syssam/flute/compiler/introspect"
)

// Camelize converts a database style name to an upper camel case name:
// MEMBER_NAME and member_name both yield MemberName.
func Camelize(s string) string {
	if strings.ToUpper(s) == s {
		s = strings.ToLower(s)
	}
	return inflect.Camelize(s)
}

// CapCamel is Camelize with a guaranteed uppercase initial.
func CapCamel(s string) string { return Capitalize(Camelize(s)) }

// UncapCamel is Camelize with a lowercase initial: memberName.
func UncapCamel(s string) string { return Uncapitalize(Camelize(s)) }

// Capitalize upper-cases the first rune only.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Uncapitalize lower-cases the first rune only.
func Uncapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// indent prefixes every non-empty line of s with n spaces.
func indent(n int, s string) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}

// Funcs are the functions available to every template.
var Funcs = template.FuncMap{
	"camelize":     Camelize,
	"capCamel":     CapCamel,
	"uncapCamel":   UncapCamel,
	"capitalize":   Capitalize,
	"uncapitalize": Uncapitalize,
	"pluralize":    inflect.Pluralize,
	"singularize":  inflect.Singularize,
	"underscore":   inflect.Underscore,
	"lower":        strings.ToLower,
	"upper":        strings.ToUpper,
	"hasPrefix":    strings.HasPrefix,
	"hasSuffix":    strings.HasSuffix,
	"trimSuffix":   func(s, suffix string) string { return strings.TrimSuffix(s, suffix) },
	"join":         func(sep string, elems []string) string { return strings.Join(elems, sep) },
	"indent":       indent,
	"prop":         introspect.Get,
}
