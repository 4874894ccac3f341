package load

import (
	"strings"

	"ariga.io/atlas/sql/schema"
)

// FromAtlas converts an inspected Atlas schema into a linked model.
func FromAtlas(s *schema.Schema) (*Database, error) {
	if s == nil {
		return nil, NewSchemaError("", "", "nil atlas schema", nil)
	}
	db := &Database{Name: s.Name, Schema: s.Name}
	for _, at := range s.Tables {
		t := &Table{
			Name:    at.Name,
			Schema:  s.Name,
			Comment: atlasComment(at.Attrs),
		}
		for _, ac := range at.Columns {
			t.Columns = append(t.Columns, atlasColumn(ac))
		}
		if pk := at.PrimaryKey; pk != nil {
			for _, p := range pk.Parts {
				if p.C == nil {
					return nil, NewSchemaError(at.Name, "", "expression primary key is not supported", nil)
				}
				t.PrimaryKey = append(t.PrimaryKey, p.C.Name)
			}
		}
		for _, afk := range at.ForeignKeys {
			if afk.RefTable == nil {
				return nil, NewSchemaError(at.Name, afk.Symbol, "foreign key without referenced table", nil)
			}
			fk := &ForeignKey{
				Name:         afk.Symbol,
				ForeignTable: afk.RefTable.Name,
			}
			for _, c := range afk.Columns {
				fk.LocalColumns = append(fk.LocalColumns, c.Name)
			}
			for _, c := range afk.RefColumns {
				fk.ForeignColumns = append(fk.ForeignColumns, c.Name)
			}
			t.ForeignKeys = append(t.ForeignKeys, fk)
		}
		db.Tables = append(db.Tables, t)
	}
	return db, db.Link()
}

func atlasColumn(ac *schema.Column) *Column {
	c := &Column{
		Name:    ac.Name,
		Comment: atlasComment(ac.Attrs),
	}
	if ac.Type != nil {
		c.Nullable = ac.Type.Null
		c.DBType, c.Size, c.Scale = atlasType(ac.Type)
	}
	switch d := ac.Default.(type) {
	case *schema.Literal:
		c.Default = d.V
	case *schema.RawExpr:
		c.Default = d.X
	}
	return c
}

func atlasType(ct *schema.ColumnType) (name string, size, scale int) {
	switch t := ct.Type.(type) {
	case *schema.StringType:
		return upperOr(t.T, "VARCHAR"), t.Size, 0
	case *schema.IntegerType:
		return upperOr(t.T, "INTEGER"), 0, 0
	case *schema.DecimalType:
		return upperOr(t.T, "DECIMAL"), t.Precision, t.Scale
	case *schema.FloatType:
		return upperOr(t.T, "DOUBLE"), 0, 0
	case *schema.BoolType:
		return "BOOLEAN", 0, 0
	case *schema.TimeType:
		return upperOr(t.T, "TIMESTAMP"), 0, 0
	case *schema.BinaryType:
		return "BLOB", 0, 0
	case *schema.JSONType:
		return "JSON", 0, 0
	case *schema.UUIDType:
		return "UUID", 0, 0
	case *schema.EnumType:
		return "VARCHAR", 0, 0
	default:
		return upperOr(ct.Raw, "OTHER"), 0, 0
	}
}

func atlasComment(attrs []schema.Attr) string {
	for _, a := range attrs {
		if c, ok := a.(*schema.Comment); ok {
			return c.Text
		}
	}
	return ""
}

func upperOr(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return strings.ToUpper(s)
}
