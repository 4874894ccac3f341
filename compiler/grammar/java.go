package grammar

import "strings"

// Java is the grammar for Java sources.
type Java struct{}

// NewJava returns the Java grammar.
func NewJava() *Java { return &Java{} }

func (*Java) Name() string                { return "java" }
func (*Java) ClassFileExtension() string  { return "java" }
func (*Java) ExtendsMark() string         { return "extends" }
func (*Java) ImplementsMark() string      { return "implements" }
func (*Java) ImplementsDelimiter() string { return ", " }
func (*Java) PublicModifier() string      { return "public " }
func (*Java) ProtectedModifier() string   { return "protected " }
func (*Java) PublicFinal() string         { return "public final " }
func (*Java) PublicStaticFinal() string   { return "public static final " }
func (*Java) GenericBeginMark() string    { return "<" }
func (*Java) GenericEndMark() string      { return ">" }

func (*Java) BuildVariableDefinition(typ, name string) string {
	return typ + " " + name
}

func (*Java) AdjustMethodInitialChar(name string) string   { return initUncap(name) }
func (*Java) AdjustPropertyInitialChar(name string) string { return initUncap(name) }

func (*Java) BuildPropertyGetterCall(name string) string {
	return "get" + initCap(name) + "()"
}

func (*Java) BuildClassTypeLiteral(name string) (string, error) {
	return name + ".class", nil
}

func (j *Java) BuildGenericOneClassHint(first string) (string, error) {
	return j.generic(first), nil
}

func (j *Java) BuildGenericTwoClassHint(first, second string) (string, error) {
	return j.generic(first, second), nil
}

func (j *Java) BuildGenericThreeClassHint(first, second, third string) (string, error) {
	return j.generic(first, second, third), nil
}

func (j *Java) generic(types ...string) string {
	return j.GenericBeginMark() + strings.Join(types, ", ") + j.GenericEndMark()
}

func (*Java) BuildEntityPropertyGetSet(from, to Property) string {
	return "set" + initCap(to.PropertyName()) + "(get" + initCap(from.PropertyName()) + "())"
}

func (*Java) BuildDefaultValueLiteral(nativeType string) string {
	switch nativeType {
	case "int", "long", "short", "byte":
		return "0"
	case "float", "double":
		return "0.0"
	case "boolean":
		return "false"
	case "char":
		return "'\\u0000'"
	default:
		return "null"
	}
}

func (j *Java) BuildCDefElementValue(base string, toNumber, toBoolean bool) (string, error) {
	if err := checkCDefFlags(j, base, toNumber, toBoolean); err != nil {
		return "", err
	}
	switch {
	case toNumber:
		return "toNumber(" + base + ")", nil
	case toBoolean:
		return "toBoolean(" + base + ")", nil
	default:
		return base, nil
	}
}

func (*Java) IsReservedWord(name string) bool {
	_, ok := javaReserved[name]
	return ok
}

func (*Java) EscapeDocComment(text string) string {
	return escapeBlockComment(text)
}

func (*Java) BuildDocCommentLineAndIndent(lineSeparator, indent string) string {
	return lineSeparator + indent + " * "
}

func (*Java) MapNativeType(dbType string) string {
	if t, ok := javaTypes[dbTypeKey(dbType)]; ok {
		return t
	}
	return "Object"
}

// escapeBlockComment keeps text from terminating a /** */ block early.
func escapeBlockComment(text string) string {
	text = strings.ReplaceAll(text, "*/", "*&#47;")
	return strings.ReplaceAll(text, "@", "&#64;")
}

var javaTypes = map[string]string{
	"CHAR":      "String",
	"VARCHAR":   "String",
	"NVARCHAR":  "String",
	"TEXT":      "String",
	"CLOB":      "String",
	"UUID":      "java.util.UUID",
	"INT":       "Integer",
	"INTEGER":   "Integer",
	"SMALLINT":  "Integer",
	"TINYINT":   "Integer",
	"BIGINT":    "Long",
	"NUMERIC":   "java.math.BigDecimal",
	"DECIMAL":   "java.math.BigDecimal",
	"REAL":      "Float",
	"FLOAT":     "Double",
	"DOUBLE":    "Double",
	"BOOLEAN":   "Boolean",
	"BIT":       "Boolean",
	"DATE":      "java.time.LocalDate",
	"TIME":      "java.time.LocalTime",
	"TIMESTAMP": "java.time.LocalDateTime",
	"DATETIME":  "java.time.LocalDateTime",
	"BLOB":      "byte[]",
	"BINARY":    "byte[]",
	"VARBINARY": "byte[]",
	"JSON":      "String",
}

var javaReserved = words(
	"abstract", "assert", "boolean", "break", "byte", "case", "catch", "char",
	"class", "const", "continue", "default", "do", "double", "else", "enum",
	"extends", "final", "finally", "float", "for", "goto", "if", "implements",
	"import", "instanceof", "int", "interface", "long", "native", "new",
	"package", "private", "protected", "public", "return", "short", "static",
	"strictfp", "super", "switch", "synchronized", "this", "throw", "throws",
	"transient", "try", "void", "volatile", "while", "true", "false", "null",
	"var", "record", "yield",
)
