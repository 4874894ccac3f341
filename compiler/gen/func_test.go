package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNaming(t *testing.T) {
	tests := []struct {
		in, camel, uncap string
	}{
		{"MEMBER_NAME", "MemberName", "memberName"},
		{"member_name", "MemberName", "memberName"},
		{"memberName", "MemberName", "memberName"},
		{"ID", "Id", "id"},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.camel, Camelize(tt.in))
			assert.Equal(t, tt.camel, CapCamel(tt.in))
			assert.Equal(t, tt.uncap, UncapCamel(tt.in))
		})
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Member", Capitalize("member"))
	assert.Equal(t, "member", Uncapitalize("Member"))
	assert.Equal(t, "URL", Capitalize("uRL"))
	assert.Equal(t, "éclair", Uncapitalize("Éclair"))
	assert.Empty(t, Capitalize(""))
	assert.Empty(t, Uncapitalize(""))
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "  a\n\n  b", indent(2, "a\n\nb"))
	assert.Equal(t, "a", indent(0, "a"))
}

func TestFuncs(t *testing.T) {
	g := newTestGenerator(t, map[string]string{
		"f.tmpl": `{{ pluralize "member" }}|{{ underscore "MemberStatus" }}|{{ join "," .list }}|{{ prop .obj "delimiter" }}|{{ upper "x" }}|{{ trimSuffix "  * " "* " }}|{{ shout "hi" }}`,
	}, WithFuncs(map[string]any{"shout": func(s string) string { return s + "!" }}))
	_, err := g.RenderControl("f.tmpl", Context{"list": []string{"a", "b"}, "obj": &StringHelper{Delimiter: ";"}})
	assert.NoError(t, err)
	text, err := g.Render("f.tmpl", "")
	assert.NoError(t, err)
	assert.Equal(t, "members|member_status|a,b|;|X|  |hi!", text)
}
