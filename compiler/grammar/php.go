package grammar

import "strings"

// PHP is the grammar for PHP sources. PHP has no generics and no class
// literal expression, so those builders report ErrUnsupported.
type PHP struct{}

// NewPHP returns the PHP grammar.
func NewPHP() *PHP { return &PHP{} }

func (*PHP) Name() string                { return "php" }
func (*PHP) ClassFileExtension() string  { return "php" }
func (*PHP) ExtendsMark() string         { return "extends" }
func (*PHP) ImplementsMark() string      { return "implements" }
func (*PHP) ImplementsDelimiter() string { return ", " }
func (*PHP) PublicModifier() string      { return "public " }
func (*PHP) ProtectedModifier() string   { return "protected " }
func (*PHP) PublicFinal() string         { return "public final " }
func (*PHP) PublicStaticFinal() string   { return "public static " }
func (*PHP) GenericBeginMark() string    { return "" }
func (*PHP) GenericEndMark() string      { return "" }

func (*PHP) BuildVariableDefinition(_, name string) string {
	return "$" + name
}

func (*PHP) AdjustMethodInitialChar(name string) string   { return initUncap(name) }
func (*PHP) AdjustPropertyInitialChar(name string) string { return initUncap(name) }

func (*PHP) BuildPropertyGetterCall(name string) string {
	return "get" + initCap(name) + "()"
}

func (p *PHP) BuildClassTypeLiteral(name string) (string, error) {
	return "", unsupported(p, "BuildClassTypeLiteral", name)
}

func (p *PHP) BuildGenericOneClassHint(first string) (string, error) {
	return "", unsupported(p, "BuildGenericOneClassHint", first)
}

func (p *PHP) BuildGenericTwoClassHint(first, second string) (string, error) {
	return "", unsupported(p, "BuildGenericTwoClassHint", first, second)
}

func (p *PHP) BuildGenericThreeClassHint(first, second, third string) (string, error) {
	return "", unsupported(p, "BuildGenericThreeClassHint", first, second, third)
}

func (*PHP) BuildEntityPropertyGetSet(from, to Property) string {
	return "set" + initCap(to.PropertyName()) + "($this->get" + initCap(from.PropertyName()) + "())"
}

func (*PHP) BuildDefaultValueLiteral(nativeType string) string {
	switch nativeType {
	case "int":
		return "0"
	case "float":
		return "0.0"
	case "bool":
		return "false"
	case "array":
		return "[]"
	default:
		return "null"
	}
}

func (p *PHP) BuildCDefElementValue(base string, toNumber, toBoolean bool) (string, error) {
	if err := checkCDefFlags(p, base, toNumber, toBoolean); err != nil {
		return "", err
	}
	switch {
	case toNumber:
		return "intval(" + base + ")", nil
	case toBoolean:
		return "boolval(" + base + ")", nil
	default:
		return base, nil
	}
}

// IsReservedWord matches case-insensitively as PHP keywords do.
func (*PHP) IsReservedWord(name string) bool {
	_, ok := phpReserved[strings.ToLower(name)]
	return ok
}

func (*PHP) EscapeDocComment(text string) string {
	return escapeBlockComment(text)
}

func (*PHP) BuildDocCommentLineAndIndent(lineSeparator, indent string) string {
	return lineSeparator + indent + " * "
}

func (*PHP) MapNativeType(dbType string) string {
	switch dbTypeKey(dbType) {
	case "INT", "INTEGER", "SMALLINT", "TINYINT", "BIGINT":
		return "int"
	case "REAL", "FLOAT", "DOUBLE":
		return "float"
	case "BOOLEAN", "BIT":
		return "bool"
	case "DATE", "TIME", "TIMESTAMP", "DATETIME":
		return "\\DateTimeImmutable"
	default:
		return "string"
	}
}

var phpReserved = words(
	"abstract", "and", "array", "as", "break", "callable", "case", "catch",
	"class", "clone", "const", "continue", "declare", "default", "do", "echo",
	"else", "elseif", "empty", "enddeclare", "endfor", "endforeach", "endif",
	"endswitch", "endwhile", "enum", "eval", "exit", "extends", "final",
	"finally", "fn", "for", "foreach", "function", "global", "goto", "if",
	"implements", "include", "instanceof", "insteadof", "interface", "isset",
	"list", "match", "namespace", "new", "or", "print", "private", "protected",
	"public", "readonly", "require", "return", "static", "switch", "throw",
	"trait", "try", "unset", "use", "var", "while", "xor", "yield",
)
