package grammar

import "strings"

// Scala is the grammar for Scala sources. Identifier casing and the database
// type table come from a held Java grammar.
type Scala struct {
	java *Java
}

// NewScala returns the Scala grammar.
func NewScala() *Scala { return &Scala{java: NewJava()} }

func (*Scala) Name() string                { return "scala" }
func (*Scala) ClassFileExtension() string  { return "scala" }
func (s *Scala) ExtendsMark() string       { return s.java.ExtendsMark() }
func (*Scala) ImplementsMark() string      { return "with" }
func (*Scala) ImplementsDelimiter() string { return " with " }
func (*Scala) PublicModifier() string      { return "" }
func (*Scala) ProtectedModifier() string   { return "protected " }
func (*Scala) PublicFinal() string         { return "final " }
func (*Scala) PublicStaticFinal() string   { return "final " }
func (*Scala) GenericBeginMark() string    { return "[" }
func (*Scala) GenericEndMark() string      { return "]" }

func (*Scala) BuildVariableDefinition(typ, name string) string {
	return name + ": " + typ
}

func (s *Scala) AdjustMethodInitialChar(name string) string {
	return s.java.AdjustMethodInitialChar(name)
}

func (s *Scala) AdjustPropertyInitialChar(name string) string {
	return s.java.AdjustPropertyInitialChar(name)
}

func (s *Scala) BuildPropertyGetterCall(name string) string {
	return s.java.AdjustPropertyInitialChar(name)
}

func (*Scala) BuildClassTypeLiteral(name string) (string, error) {
	return "classOf[" + name + "]", nil
}

func (s *Scala) BuildGenericOneClassHint(first string) (string, error) {
	return s.generic(first), nil
}

func (s *Scala) BuildGenericTwoClassHint(first, second string) (string, error) {
	return s.generic(first, second), nil
}

func (s *Scala) BuildGenericThreeClassHint(first, second, third string) (string, error) {
	return s.generic(first, second, third), nil
}

func (s *Scala) generic(types ...string) string {
	return s.GenericBeginMark() + strings.Join(types, ", ") + s.GenericEndMark()
}

func (s *Scala) BuildEntityPropertyGetSet(from, to Property) string {
	return "set" + initCap(to.PropertyName()) + "(" + s.java.AdjustPropertyInitialChar(from.PropertyName()) + ")"
}

func (*Scala) BuildDefaultValueLiteral(nativeType string) string {
	switch {
	case nativeType == "Int", nativeType == "Long", nativeType == "Short", nativeType == "Byte":
		return "0"
	case nativeType == "Float", nativeType == "Double":
		return "0.0"
	case nativeType == "Boolean":
		return "false"
	case strings.HasPrefix(nativeType, "Option["):
		return "None"
	default:
		return "null"
	}
}

func (s *Scala) BuildCDefElementValue(base string, toNumber, toBoolean bool) (string, error) {
	if err := checkCDefFlags(s, base, toNumber, toBoolean); err != nil {
		return "", err
	}
	switch {
	case toNumber:
		return base + ".toInt", nil
	case toBoolean:
		return base + ".toBoolean", nil
	default:
		return base, nil
	}
}

func (*Scala) IsReservedWord(name string) bool {
	_, ok := scalaReserved[name]
	return ok
}

func (s *Scala) EscapeDocComment(text string) string {
	return s.java.EscapeDocComment(text)
}

func (*Scala) BuildDocCommentLineAndIndent(lineSeparator, indent string) string {
	return lineSeparator + indent + "  * "
}

func (s *Scala) MapNativeType(dbType string) string {
	t := s.java.MapNativeType(dbType)
	if st, ok := scalaBoxed[t]; ok {
		return st
	}
	return t
}

var scalaBoxed = map[string]string{
	"Integer": "Int",
	"Object":  "Any",
	"byte[]":  "Array[Byte]",
}

var scalaReserved = words(
	"abstract", "case", "catch", "class", "def", "do", "else", "extends",
	"false", "final", "finally", "for", "forSome", "given", "if", "implicit",
	"import", "lazy", "match", "new", "null", "object", "override", "package",
	"private", "protected", "return", "sealed", "super", "then", "this",
	"throw", "trait", "true", "try", "type", "val", "var", "while", "with",
	"yield",
)
