package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnowledgeStackValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		s := &KnowledgeStack{Name: "Research Papers"}
		assert.NoError(t, s.Validate())
	})

	t.Run("blank name", func(t *testing.T) {
		s := &KnowledgeStack{Name: "   "}
		assert.Equal(t, ErrEmptyStackName, s.Validate())
	})
}

func TestDocumentValidate(t *testing.T) {
	valid := Document{
		Name:    "notes.txt",
		StackID: "stack-1",
		Status:  DocumentStatusCompleted,
	}

	t.Run("valid", func(t *testing.T) {
		d := valid
		assert.NoError(t, d.Validate())
	})

	t.Run("missing name", func(t *testing.T) {
		d := valid
		d.Name = ""
		assert.Equal(t, ErrEmptyDocumentName, d.Validate())
	})

	t.Run("missing stack id", func(t *testing.T) {
		d := valid
		d.StackID = ""
		assert.Equal(t, ErrMissingStackID, d.Validate())
	})

	t.Run("bad status", func(t *testing.T) {
		d := valid
		d.Status = "queued"
		assert.Equal(t, ErrInvalidDocumentStatus, d.Validate())
	})
}
