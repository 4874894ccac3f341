// Package load holds the schema model consumed by the generator and the
// loaders that build it from files, snapshots and Atlas schemas.
//
// The model is read-only once linked: templates walk Database.Tables,
// Table.Columns and the foreign keys in both directions.
package load

import (
	"strings"

	"github.com/go-openapi/inflect"
)

// Database is the root of a loaded schema.
type Database struct {
	Name   string   `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	Schema string   `json:"schema,omitempty" yaml:"schema,omitempty" msgpack:"schema,omitempty"`
	Tables []*Table `json:"tables,omitempty" yaml:"tables,omitempty" msgpack:"tables,omitempty"`
}

// Table is a table or view of the schema.
type Table struct {
	Name        string        `json:"name" yaml:"name" msgpack:"name"`
	Schema      string        `json:"schema,omitempty" yaml:"schema,omitempty" msgpack:"schema,omitempty"`
	Comment     string        `json:"comment,omitempty" yaml:"comment,omitempty" msgpack:"comment,omitempty"`
	View        bool          `json:"view,omitempty" yaml:"view,omitempty" msgpack:"view,omitempty"`
	Columns     []*Column     `json:"columns,omitempty" yaml:"columns,omitempty" msgpack:"columns,omitempty"`
	PrimaryKey  []string      `json:"primary_key,omitempty" yaml:"primary_key,omitempty" msgpack:"primary_key,omitempty"`
	ForeignKeys []*ForeignKey `json:"foreign_keys,omitempty" yaml:"foreign_keys,omitempty" msgpack:"foreign_keys,omitempty"`

	// Referrers are the foreign keys of other tables pointing here.
	// Filled by Database.Link.
	Referrers []*ForeignKey `json:"-" yaml:"-" msgpack:"-"`
}

// Column is a column of a table.
type Column struct {
	Name          string `json:"name" yaml:"name" msgpack:"name"`
	DBType        string `json:"db_type,omitempty" yaml:"db_type,omitempty" msgpack:"db_type,omitempty"`
	NativeType    string `json:"native_type,omitempty" yaml:"native_type,omitempty" msgpack:"native_type,omitempty"`
	Size          int    `json:"size,omitempty" yaml:"size,omitempty" msgpack:"size,omitempty"`
	Scale         int    `json:"scale,omitempty" yaml:"scale,omitempty" msgpack:"scale,omitempty"`
	Nullable      bool   `json:"nullable,omitempty" yaml:"nullable,omitempty" msgpack:"nullable,omitempty"`
	PrimaryKey    bool   `json:"primary_key,omitempty" yaml:"primary_key,omitempty" msgpack:"primary_key,omitempty"`
	AutoIncrement bool   `json:"auto_increment,omitempty" yaml:"auto_increment,omitempty" msgpack:"auto_increment,omitempty"`
	Default       string `json:"default,omitempty" yaml:"default,omitempty" msgpack:"default,omitempty"`
	Comment       string `json:"comment,omitempty" yaml:"comment,omitempty" msgpack:"comment,omitempty"`

	table *Table
}

// ForeignKey relates local columns to the columns of a foreign table.
type ForeignKey struct {
	Name           string   `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	ForeignTable   string   `json:"foreign_table" yaml:"foreign_table" msgpack:"foreign_table"`
	LocalColumns   []string `json:"local_columns" yaml:"local_columns" msgpack:"local_columns"`
	ForeignColumns []string `json:"foreign_columns" yaml:"foreign_columns" msgpack:"foreign_columns"`

	local   *Table
	foreign *Table
}

// Table returns the table with the given name, compared case-insensitively.
func (d *Database) Table(name string) *Table {
	for _, t := range d.Tables {
		if strings.EqualFold(t.Name, name) {
			return t
		}
	}
	return nil
}

// Link sets the back references of columns and foreign keys and fills the
// referrer lists. It fails on duplicate tables and dangling references.
func (d *Database) Link() error {
	seen := make(map[string]bool, len(d.Tables))
	for _, t := range d.Tables {
		key := strings.ToLower(t.Name)
		if seen[key] {
			return NewSchemaError(t.Name, "", "duplicate table", nil)
		}
		seen[key] = true
		t.Referrers = nil
		for _, c := range t.Columns {
			c.table = t
		}
		for _, pk := range t.PrimaryKey {
			c := t.Column(pk)
			if c == nil {
				return NewSchemaError(t.Name, pk, "primary key column not found", nil)
			}
			c.PrimaryKey = true
		}
	}
	for _, t := range d.Tables {
		for _, fk := range t.ForeignKeys {
			ft := d.Table(fk.ForeignTable)
			if ft == nil {
				return NewSchemaError(t.Name, "", "foreign table "+fk.ForeignTable+" not found", nil)
			}
			if len(fk.LocalColumns) == 0 || len(fk.LocalColumns) != len(fk.ForeignColumns) {
				return NewSchemaError(t.Name, fk.Name, "foreign key column count mismatch", nil)
			}
			for _, c := range fk.LocalColumns {
				if t.Column(c) == nil {
					return NewSchemaError(t.Name, c, "foreign key column not found", nil)
				}
			}
			for _, c := range fk.ForeignColumns {
				if ft.Column(c) == nil {
					return NewSchemaError(ft.Name, c, "referenced column not found", nil)
				}
			}
			fk.local, fk.foreign = t, ft
			ft.Referrers = append(ft.Referrers, fk)
		}
	}
	return nil
}

// NativeTypeMapper resolves database types to target language types.
type NativeTypeMapper interface {
	MapNativeType(dbType string) string
}

// NativeTypeFor returns the column's declared NativeType, or the type m
// maps its DBType to. The column is not modified, so one model can serve
// several target languages.
func (c *Column) NativeTypeFor(m NativeTypeMapper) string {
	if c.NativeType != "" || m == nil {
		return c.NativeType
	}
	return m.MapNativeType(c.DBType)
}

// Column returns the column with the given name, compared case-insensitively.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// ClassName returns the entity class name, e.g. "MemberStatus" for MEMBER_STATUS.
func (t *Table) ClassName() string { return camelize(t.Name) }

// PropertyName returns the class name with a lowercase initial.
func (t *Table) PropertyName() string { return inflect.CamelizeDownFirst(normalize(t.Name)) }

// PrimaryKeyColumns returns the primary key columns in key order.
func (t *Table) PrimaryKeyColumns() []*Column {
	cs := make([]*Column, 0, len(t.PrimaryKey))
	for _, pk := range t.PrimaryKey {
		if c := t.Column(pk); c != nil {
			cs = append(cs, c)
		}
	}
	return cs
}

// HasPrimaryKey reports whether the table declares a primary key.
func (t *Table) HasPrimaryKey() bool { return len(t.PrimaryKey) > 0 }

// Table returns the owning table. It is nil before Database.Link.
func (c *Column) Table() *Table { return c.table }

// PropertyName returns the bean property name, e.g. "memberName".
func (c *Column) PropertyName() string { return inflect.CamelizeDownFirst(normalize(c.Name)) }

// PropertyNameCap returns the property name with an uppercase initial.
func (c *Column) PropertyNameCap() string { return camelize(c.Name) }

// LocalTable returns the table declaring the key. It is nil before Link.
func (fk *ForeignKey) LocalTable() *Table { return fk.local }

// Foreign returns the referenced table. It is nil before Link.
func (fk *ForeignKey) Foreign() *Table { return fk.foreign }

// PropertyName names the relation property on the local entity,
// e.g. "memberStatus" for a key to MEMBER_STATUS.
func (fk *ForeignKey) PropertyName() string {
	return inflect.CamelizeDownFirst(normalize(fk.ForeignTable))
}

// ReferrerPropertyName names the referrer list property on the foreign
// entity, e.g. "purchaseList".
func (fk *ForeignKey) ReferrerPropertyName() string {
	if fk.local == nil {
		return ""
	}
	return fk.local.PropertyName() + "List"
}

func camelize(s string) string { return inflect.Camelize(normalize(s)) }

// normalize lowers database names written in upper case so that camelizing
// MEMBER_NAME yields MemberName rather than one word per letter.
func normalize(s string) string {
	if strings.ToUpper(s) == s {
		return strings.ToLower(s)
	}
	return s
}
