package load

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ariga.io/atlas/sql/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const memberYAML = `
name: maihamadb
tables:
  - name: MEMBER
    comment: member of the service
    primary_key: [MEMBER_ID]
    columns:
      - {name: MEMBER_ID, db_type: INTEGER, auto_increment: true}
      - {name: MEMBER_NAME, db_type: VARCHAR, size: 200}
      - {name: MEMBER_STATUS_CODE, db_type: CHAR, size: 3}
    foreign_keys:
      - name: FK_MEMBER_STATUS
        foreign_table: MEMBER_STATUS
        local_columns: [MEMBER_STATUS_CODE]
        foreign_columns: [MEMBER_STATUS_CODE]
  - name: MEMBER_STATUS
    primary_key: [MEMBER_STATUS_CODE]
    columns:
      - {name: MEMBER_STATUS_CODE, db_type: CHAR, size: 3}
      - {name: STATUS_NAME, db_type: VARCHAR, size: 50, nullable: true}
`

func TestYAML(t *testing.T) {
	db, err := YAML([]byte(memberYAML))
	require.NoError(t, err)
	require.Len(t, db.Tables, 2)

	member := db.Table("member")
	require.NotNil(t, member)
	assert.Equal(t, "Member", member.ClassName())
	assert.Equal(t, "member", member.PropertyName())
	assert.True(t, member.Column("MEMBER_ID").PrimaryKey)
	assert.Equal(t, member, member.Column("MEMBER_ID").Table())
	assert.Equal(t, []*Column{member.Column("MEMBER_ID")}, member.PrimaryKeyColumns())

	status := db.Table("MEMBER_STATUS")
	require.NotNil(t, status)
	assert.Equal(t, "MemberStatus", status.ClassName())
	require.Len(t, status.Referrers, 1)
	fk := status.Referrers[0]
	assert.Equal(t, member, fk.LocalTable())
	assert.Equal(t, status, fk.Foreign())
	assert.Equal(t, "memberStatus", fk.PropertyName())
	assert.Equal(t, "memberList", fk.ReferrerPropertyName())
}

func TestColumnNames(t *testing.T) {
	tests := []struct {
		name     string
		property string
		cap      string
	}{
		{"MEMBER_NAME", "memberName", "MemberName"},
		{"member_name", "memberName", "MemberName"},
		{"birthdate", "birthdate", "Birthdate"},
		{"memberName", "memberName", "MemberName"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Column{Name: tt.name}
			assert.Equal(t, tt.property, c.PropertyName())
			assert.Equal(t, tt.cap, c.PropertyNameCap())
		})
	}
}

func TestLinkErrors(t *testing.T) {
	tests := []struct {
		name string
		db   *Database
		msg  string
	}{
		{
			name: "duplicate table",
			db:   &Database{Tables: []*Table{{Name: "A"}, {Name: "a"}}},
			msg:  "duplicate table",
		},
		{
			name: "missing primary key column",
			db:   &Database{Tables: []*Table{{Name: "A", PrimaryKey: []string{"ID"}}}},
			msg:  "primary key column not found",
		},
		{
			name: "dangling foreign table",
			db: &Database{Tables: []*Table{{
				Name:        "A",
				Columns:     []*Column{{Name: "B_ID"}},
				ForeignKeys: []*ForeignKey{{ForeignTable: "B", LocalColumns: []string{"B_ID"}, ForeignColumns: []string{"ID"}}},
			}}},
			msg: "foreign table B not found",
		},
		{
			name: "column count mismatch",
			db: &Database{Tables: []*Table{
				{Name: "A", Columns: []*Column{{Name: "B_ID"}}, ForeignKeys: []*ForeignKey{{ForeignTable: "B", LocalColumns: []string{"B_ID"}}}},
				{Name: "B", Columns: []*Column{{Name: "ID"}}},
			}},
			msg: "column count mismatch",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.db.Link()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSchema))
			assert.True(t, IsSchemaError(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

type upperMapper struct{}

func (upperMapper) MapNativeType(dbType string) string { return "T_" + dbType }

func TestNativeTypeFor(t *testing.T) {
	db, err := YAML([]byte(memberYAML))
	require.NoError(t, err)
	db.Table("MEMBER").Column("MEMBER_NAME").NativeType = "Custom"

	assert.Equal(t, "Custom", db.Table("MEMBER").Column("MEMBER_NAME").NativeTypeFor(upperMapper{}))
	id := db.Table("MEMBER").Column("MEMBER_ID")
	assert.Equal(t, "T_INTEGER", id.NativeTypeFor(upperMapper{}))
	assert.Empty(t, id.NativeType, "mapping leaves the model untouched")
	assert.Empty(t, id.NativeTypeFor(nil))
}

func TestFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "schema.yml")
		require.NoError(t, os.WriteFile(path, []byte(memberYAML), 0o644))
		db, err := File(path)
		require.NoError(t, err)
		assert.Equal(t, "maihamadb", db.Name)
	})

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "schema.json")
		data := `{"name":"db","tables":[{"name":"PRODUCT","primary_key":["PRODUCT_ID"],"columns":[{"name":"PRODUCT_ID","db_type":"BIGINT"}]}]}`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
		db, err := File(path)
		require.NoError(t, err)
		assert.Equal(t, "Product", db.Tables[0].ClassName())
	})

	t.Run("unknown yaml field", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("tablez: []\n"), 0o644))
		_, err := File(path)
		require.Error(t, err)
		assert.True(t, IsSchemaError(err))
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(dir, "schema.xml")
		require.NoError(t, os.WriteFile(path, []byte("<db/>"), 0o644))
		_, err := File(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported schema file extension .xml")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := File(filepath.Join(dir, "absent.yaml"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestSnapshot(t *testing.T) {
	db, err := YAML([]byte(memberYAML))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, db))

	got, err := ReadSnapshot(&buf)
	require.NoError(t, err)
	require.Len(t, got.Tables, 2)
	assert.Equal(t, db.Table("MEMBER").Columns[1].Size, got.Table("MEMBER").Columns[1].Size)
	// referrers are rebuilt by Link, not encoded
	require.Len(t, got.Table("MEMBER_STATUS").Referrers, 1)
	assert.Equal(t, got.Table("MEMBER"), got.Table("MEMBER_STATUS").Referrers[0].LocalTable())

	t.Run("file round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "schema.msgpack")
		require.NoError(t, WriteSnapshotFile(path, db))
		got, err := File(path)
		require.NoError(t, err)
		assert.Equal(t, "maihamadb", got.Name)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ReadSnapshot(bytes.NewReader([]byte{0xc1}))
		require.Error(t, err)
		assert.True(t, IsSchemaError(err))
	})
}

func TestFromAtlas(t *testing.T) {
	statusCode := &schema.Column{Name: "status_code", Type: &schema.ColumnType{Type: &schema.StringType{T: "char", Size: 3}}}
	status := &schema.Table{
		Name:    "member_status",
		Columns: []*schema.Column{statusCode},
		Attrs:   []schema.Attr{&schema.Comment{Text: "status of member"}},
	}
	status.PrimaryKey = &schema.Index{Parts: []*schema.IndexPart{{C: statusCode}}}

	memberID := &schema.Column{Name: "member_id", Type: &schema.ColumnType{Type: &schema.IntegerType{T: "bigint"}}}
	memberStatus := &schema.Column{Name: "status_code", Type: &schema.ColumnType{Type: &schema.StringType{T: "char", Size: 3}, Null: true}}
	price := &schema.Column{
		Name:    "balance",
		Type:    &schema.ColumnType{Type: &schema.DecimalType{T: "decimal", Precision: 10, Scale: 2}},
		Default: &schema.Literal{V: "0"},
	}
	member := &schema.Table{
		Name:    "member",
		Columns: []*schema.Column{memberID, memberStatus, price},
	}
	member.PrimaryKey = &schema.Index{Parts: []*schema.IndexPart{{C: memberID}}}
	member.ForeignKeys = []*schema.ForeignKey{{
		Symbol:     "fk_member_status",
		Table:      member,
		Columns:    []*schema.Column{memberStatus},
		RefTable:   status,
		RefColumns: []*schema.Column{statusCode},
	}}

	db, err := FromAtlas(&schema.Schema{Name: "public", Tables: []*schema.Table{member, status}})
	require.NoError(t, err)

	m := db.Table("member")
	require.NotNil(t, m)
	assert.Equal(t, "BIGINT", m.Column("member_id").DBType)
	assert.True(t, m.Column("member_id").PrimaryKey)
	assert.True(t, m.Column("status_code").Nullable)
	assert.Equal(t, "DECIMAL", m.Column("balance").DBType)
	assert.Equal(t, 10, m.Column("balance").Size)
	assert.Equal(t, 2, m.Column("balance").Scale)
	assert.Equal(t, "0", m.Column("balance").Default)

	s := db.Table("member_status")
	assert.Equal(t, "status of member", s.Comment)
	assert.Equal(t, "CHAR", s.Column("status_code").DBType)
	require.Len(t, s.Referrers, 1)
	assert.Equal(t, "fk_member_status", s.Referrers[0].Name)

	_, err = FromAtlas(nil)
	require.Error(t, err)
}
