package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFile(t *testing.T) {
	t.Run("plain text passes through", func(t *testing.T) {
		content, meta, err := FromFile("notes.txt", []byte("  hello world  "))
		require.NoError(t, err)
		assert.Equal(t, "hello world", content)
		assert.Equal(t, 2, meta.WordCount)
		assert.Equal(t, "txt", meta.FileType)
	})

	t.Run("markdown formatting is stripped", func(t *testing.T) {
		src := "# Badger Facts\n\nBadgers are **nocturnal** and dig [burrows](https://example.com).\n\n```\ncode stays\n```\n"
		content, meta, err := FromFile("facts.md", []byte(src))
		require.NoError(t, err)

		assert.Contains(t, content, "Badger Facts")
		assert.Contains(t, content, "nocturnal")
		assert.Contains(t, content, "burrows")
		assert.Contains(t, content, "code stays")
		assert.NotContains(t, content, "#")
		assert.NotContains(t, content, "**")
		assert.NotContains(t, content, "https://example.com")
		assert.Equal(t, "md", meta.FileType)
		assert.Greater(t, meta.WordCount, 5)
	})

	t.Run("extension is case-insensitive", func(t *testing.T) {
		_, _, err := FromFile("README.MD", []byte("# title"))
		assert.NoError(t, err)
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, _, err := FromFile("scan.pdf", []byte{1, 2, 3})
		assert.ErrorIs(t, err, ErrUnsupportedFileType)
	})
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a.txt"))
	assert.True(t, Supported("a.md"))
	assert.True(t, Supported("a.markdown"))
	assert.False(t, Supported("a.docx"))
	assert.False(t, Supported("noextension"))
}
