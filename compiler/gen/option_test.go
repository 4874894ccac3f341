package gen

import (
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTemplateDirs(t *testing.T) {
	t.Run("appends in order", func(t *testing.T) {
		c := &Config{TemplateDirs: []string{"a"}}
		require.NoError(t, WithTemplateDirs("b", "c")(c))
		assert.Equal(t, []string{"a", "b", "c"}, c.TemplateDirs)
	})

	t.Run("rejects empty", func(t *testing.T) {
		err := WithTemplateDirs("")(&Config{})
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestWithOutputDir(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithOutputDir("out")(c))
	assert.Equal(t, "out", c.OutputDir)
	assert.True(t, IsConfigError(WithOutputDir("")(c)))
}

func TestWithTemplateFS(t *testing.T) {
	c := &Config{}
	fsys := fstest.MapFS{}
	require.NoError(t, WithTemplateFS(fsys)(c))
	assert.NotNil(t, c.TemplateFS)
	assert.True(t, IsConfigError(WithTemplateFS(nil)(c)))
}

func TestWithEncoding(t *testing.T) {
	tests := []struct {
		name    string
		enc     string
		wantErr bool
	}{
		{"default", "", false},
		{"utf8", "UTF-8", false},
		{"latin1", "ISO-8859-1", false},
		{"shift_jis", "Shift_JIS", false},
		{"legacy alias", "8859_1", false},
		{"legacy alias upper", "ISO8859_1", false},
		{"unknown", "no-such-charset", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			errT := WithTemplateEncoding(tt.enc)(c)
			errO := WithOutputEncoding(tt.enc)(c)
			if tt.wantErr {
				assert.True(t, IsConfigError(errT))
				assert.True(t, IsConfigError(errO))
				return
			}
			require.NoError(t, errT)
			require.NoError(t, errO)
			assert.Equal(t, tt.enc, c.TemplateEncoding)
			assert.Equal(t, tt.enc, c.OutputEncoding)
		})
	}
}

func TestParseLineSeparator(t *testing.T) {
	tests := []struct {
		in      string
		want    LineSeparator
		wantErr bool
	}{
		{"", KeepLineSeparator, false},
		{"keep", KeepLineSeparator, false},
		{"LF", LF, false},
		{"\n", LF, false},
		{"crlf", CRLF, false},
		{"\r\n", CRLF, false},
		{"cr", KeepLineSeparator, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLineSeparator(tt.in)
			if tt.wantErr {
				assert.True(t, IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithContextObject(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithContextObject("strings", "flute.StringHelper", map[string]any{"delimiter": "|"})(c))
	assert.Equal(t, ContextObject{Type: "flute.StringHelper", Properties: map[string]any{"delimiter": "|"}}, c.ContextObjects["strings"])

	assert.True(t, IsConfigError(WithContextObject("", "t", nil)(c)))
	assert.True(t, IsConfigError(WithContextObject("n", "", nil)(c)))
	assert.True(t, IsConfigError(WithContextType("t", nil)(c)))
}

func TestWithLogger(t *testing.T) {
	c := &Config{}
	l := slog.New(slog.DiscardHandler)
	require.NoError(t, WithLogger(l)(c))
	assert.Same(t, l, c.Logger)
	assert.True(t, IsConfigError(WithLogger(nil)(c)))
}

func TestApply(t *testing.T) {
	t.Run("stops at first error", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(WithOutputDir(""), WithOutputDir("out"))
		require.Error(t, err)
		assert.Empty(t, c.OutputDir)
	})

	t.Run("ApplyAll collects errors", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyAll(WithOutputDir(""), WithLineSeparator("cr"), WithOutputDir("out"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "OutputDir")
		assert.Contains(t, err.Error(), "LineSeparator")
		assert.Equal(t, "out", c.OutputDir)
	})

	t.Run("MustNewConfig panics", func(t *testing.T) {
		assert.Panics(t, func() { MustNewConfig(WithOutputDir("")) })
		assert.NotPanics(t, func() { MustNewConfig(WithOutputDir("out")) })
	})
}
