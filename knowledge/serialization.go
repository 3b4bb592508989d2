package knowledge

import (
	"encoding/json"

	"github.com/AishSoni/Narada-AI/core"
)

// Records are stored as JSON. Rows are small and read whole, so a binary
// codec would buy nothing here, and JSON keeps the on-disk format inspectable
// with standard tooling.

func marshalStack(stack *core.KnowledgeStack) ([]byte, error) {
	return json.Marshal(stack)
}

func unmarshalStack(data []byte) (*core.KnowledgeStack, error) {
	var stack core.KnowledgeStack
	if err := json.Unmarshal(data, &stack); err != nil {
		return nil, err
	}
	return &stack, nil
}

func marshalDocument(doc *core.Document) ([]byte, error) {
	return json.Marshal(doc)
}

func unmarshalDocument(data []byte) (*core.Document, error) {
	var doc core.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
