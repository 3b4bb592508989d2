package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksumFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := ChecksumFromContent("machine learning fundamentals")
		b := ChecksumFromContent("machine learning fundamentals")
		assert.Equal(t, a, b)
		assert.Len(t, a, 32) // 16 bytes hex encoded
	})

	t.Run("distinct content yields distinct checksums", func(t *testing.T) {
		a := ChecksumFromContent("first document")
		b := ChecksumFromContent("second document")
		assert.NotEqual(t, a, b)
	})

	t.Run("empty content", func(t *testing.T) {
		assert.NotEmpty(t, ChecksumFromContent(""))
	})
}

func TestNormalizeStackName(t *testing.T) {
	assert.Equal(t, "docs", NormalizeStackName("  Docs "))
	assert.Equal(t, "my stack", NormalizeStackName("My Stack"))
	assert.Equal(t, "", NormalizeStackName("   "))
}

func TestDocumentSearchable(t *testing.T) {
	doc := &Document{Status: DocumentStatusCompleted, Content: "text"}
	assert.True(t, doc.Searchable())

	assert.False(t, (&Document{Status: DocumentStatusCompleted}).Searchable())
	assert.False(t, (&Document{Status: DocumentStatusProcessing, Content: "text"}).Searchable())
	assert.False(t, (&Document{Status: DocumentStatusFailed, Content: "text"}).Searchable())
}
