package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/flute/compiler/config"
	"github.com/syssam/flute/compiler/gen"
)

func TestMaihamaExample(t *testing.T) {
	p, err := config.Load(filepath.Join("..", "examples", "maihama", config.DefaultFile))
	require.NoError(t, err)
	out := t.TempDir()

	res, err := Run(context.Background(), p, gen.WithOutputDir(out), quiet())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Schema.Tables)
	assert.Equal(t, []string{"entity/Member.java", "entity/MemberStatus.java", "entity/Purchase.java"}, res.Schema.Parsed)
	assert.Equal(t, []string{
		"cdef/org/docksidestage/cdef/MemberStatus.java",
		"cdef/org/docksidestage/cdef/PaymentMethod.java",
	}, res.FreeGen.Parsed)

	data, err := os.ReadFile(filepath.Join(out, "entity", "MemberStatus.java"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "import java.util.List;")
	assert.Contains(t, string(data), "List<Member> memberList")

	data, err = os.ReadFile(filepath.Join(out, "cdef", "org", "docksidestage", "cdef", "MemberStatus.java"))
	require.NoError(t, err)
	assert.Equal(t, `package org.docksidestage.cdef;

/**
 * status of membership (MEMBER_STATUS)
 */
public enum MemberStatus {
    FML,
    PRV,
    WDL,
    ;

    public static final String ALIAS = "MemberStatus";
    public static final String PROPERTY = "memberStatus";
}
`, string(data))

	data, err = os.ReadFile(filepath.Join(out, "cdef", "org", "docksidestage", "cdef", "PaymentMethod.java"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "    HAN,\n    BAK,\n")
	assert.Contains(t, string(data), `ALIAS = "PaymentMethod"`)

	_, err = os.Stat(filepath.Join(out, "entity", "SummaryTmp.java"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
