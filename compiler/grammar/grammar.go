// Package grammar defines the syntax primitives the generator needs from a
// target output language.
//
// A Grammar is stateless and immutable. One instance is selected per
// generation run by language name and handed to the templates, which build
// declarations, generic hints and accessor calls through it instead of
// hard-coding one language's syntax.
//
//	g, err := grammar.Lookup("scala")
//	hint, err := g.BuildGenericOneClassHint("Member") // "[Member]"
//
// Constructs a language cannot express fail with an error matching
// ErrUnsupported; a grammar never guesses.
package grammar

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrUnsupported is matched by every UnsupportedError.
	ErrUnsupported = errors.New("flute: syntax not supported by grammar")
	// ErrContractViolation reports arguments a caller must never pass together.
	ErrContractViolation = errors.New("flute: grammar contract violation")
	// ErrUnknownLanguage is returned by Lookup for unregistered names.
	ErrUnknownLanguage = errors.New("flute: unknown target language")
)

// Property is a named bean property of a generated class, typically a column.
type Property interface {
	PropertyName() string
}

// Grammar describes the syntax of one target language.
type Grammar interface {
	// Name returns the language identifier, e.g. "java".
	Name() string
	// ClassFileExtension returns the source file extension without dot.
	ClassFileExtension() string

	ExtendsMark() string
	ImplementsMark() string
	ImplementsDelimiter() string
	PublicModifier() string
	ProtectedModifier() string
	PublicFinal() string
	PublicStaticFinal() string
	GenericBeginMark() string
	GenericEndMark() string

	// BuildVariableDefinition declares a variable of the given type.
	BuildVariableDefinition(typ, name string) string
	AdjustMethodInitialChar(name string) string
	AdjustPropertyInitialChar(name string) string
	// BuildPropertyGetterCall returns the expression reading a property.
	BuildPropertyGetterCall(name string) string
	BuildClassTypeLiteral(name string) (string, error)
	BuildGenericOneClassHint(first string) (string, error)
	BuildGenericTwoClassHint(first, second string) (string, error)
	BuildGenericThreeClassHint(first, second, third string) (string, error)
	// BuildEntityPropertyGetSet copies the value of from into to.
	BuildEntityPropertyGetSet(from, to Property) string
	// BuildDefaultValueLiteral returns the literal a field of nativeType
	// starts with.
	BuildDefaultValueLiteral(nativeType string) string
	// BuildCDefElementValue wraps a classification element expression with
	// the requested coercion. At most one flag may be set.
	BuildCDefElementValue(base string, toNumber, toBoolean bool) (string, error)
	IsReservedWord(name string) bool
	EscapeDocComment(text string) string
	BuildDocCommentLineAndIndent(lineSeparator, indent string) string
	// MapNativeType resolves a generic database type name to the
	// language's native type.
	MapNativeType(dbType string) string
}

// UnsupportedError reports a syntax construct the grammar's language lacks.
type UnsupportedError struct {
	Grammar   string
	Operation string
	Args      []string
}

// Error implements the error interface.
func (e *UnsupportedError) Error() string {
	var b strings.Builder
	b.WriteString("flute: ")
	b.WriteString(e.Operation)
	b.WriteString(" is not supported by the ")
	b.WriteString(e.Grammar)
	b.WriteString(" grammar")
	if len(e.Args) > 0 {
		fmt.Fprintf(&b, " (args: %s)", strings.Join(e.Args, ", "))
	}
	return b.String()
}

// Is reports whether the target matches ErrUnsupported.
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

func unsupported(g Grammar, op string, args ...string) error {
	return &UnsupportedError{Grammar: g.Name(), Operation: op, Args: args}
}

// IsUnsupported reports whether the error is an UnsupportedError.
func IsUnsupported(err error) bool {
	var ue *UnsupportedError
	return errors.As(err, &ue)
}

func checkCDefFlags(g Grammar, base string, toNumber, toBoolean bool) error {
	if toNumber && toBoolean {
		return fmt.Errorf("%w: %s grammar asked to coerce %q to both number and boolean",
			ErrContractViolation, g.Name(), base)
	}
	return nil
}

var registry = map[string]func() Grammar{
	"java":  func() Grammar { return NewJava() },
	"php":   func() Grammar { return NewPHP() },
	"scala": func() Grammar { return NewScala() },
}

// Lookup returns the grammar registered for the language name.
// Names are matched case-insensitively.
func Lookup(name string) (Grammar, error) {
	f, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownLanguage, name, strings.Join(Languages(), ", "))
	}
	return f(), nil
}

// Languages returns the registered language names in sorted order.
func Languages() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func initUncap(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func initCap(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func words(ws ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ws))
	for _, w := range ws {
		m[w] = struct{}{}
	}
	return m
}

// dbTypeKey normalizes "VARCHAR(200)" and "varchar" to "VARCHAR".
func dbTypeKey(dbType string) string {
	t := strings.ToUpper(strings.TrimSpace(dbType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

var (
	_ Grammar = (*Java)(nil)
	_ Grammar = (*PHP)(nil)
	_ Grammar = (*Scala)(nil)
)
