package core

import "errors"

// Validation errors for domain entities.
var (
	// ErrEmptyStackName indicates a stack was created without a name.
	ErrEmptyStackName = errors.New("stack name cannot be empty")

	// ErrEmptyDocumentName indicates a document was created without a name.
	ErrEmptyDocumentName = errors.New("document name cannot be empty")

	// ErrMissingStackID indicates a document is not attached to a stack.
	ErrMissingStackID = errors.New("document must belong to a stack")

	// ErrInvalidDocumentStatus indicates an unrecognized document status value.
	ErrInvalidDocumentStatus = errors.New("invalid document status")
)

// Validate checks that the stack is well formed before persistence.
func (s *KnowledgeStack) Validate() error {
	if NormalizeStackName(s.Name) == "" {
		return ErrEmptyStackName
	}
	return nil
}

// Validate checks that the document is well formed before persistence.
func (d *Document) Validate() error {
	if d.Name == "" {
		return ErrEmptyDocumentName
	}
	if d.StackID == "" {
		return ErrMissingStackID
	}
	switch d.Status {
	case DocumentStatusProcessing, DocumentStatusCompleted, DocumentStatusFailed:
	default:
		return ErrInvalidDocumentStatus
	}
	return nil
}
