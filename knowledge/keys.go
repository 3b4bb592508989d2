package knowledge

import "fmt"

// Key prefixes for different data types
const (
	stackPrefix     = "stack"
	stackNamePrefix = "stackname"
	documentPrefix  = "doc"
	checksumPrefix  = "docsum"
)

// makeStackKey generates a key for a stack record by ID.
func makeStackKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", stackPrefix, id))
}

// makeStackNameKey generates a key for the case-insensitive name index.
// The name must already be normalized.
func makeStackNameKey(normalizedName string) []byte {
	return []byte(fmt.Sprintf("%s:%s", stackNamePrefix, normalizedName))
}

// makeDocumentKey generates a composite key for a document record.
// Format: prefix:stackID:documentID, so one prefix scan lists a stack's documents.
func makeDocumentKey(stackID, documentID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", documentPrefix, stackID, documentID))
}

// makeDocumentPrefix generates the scan prefix for all documents in a stack.
func makeDocumentPrefix(stackID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", documentPrefix, stackID))
}

// makeChecksumKey generates a key for the per-stack content checksum index,
// used to reject duplicate uploads.
func makeChecksumKey(stackID, checksum string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", checksumPrefix, stackID, checksum))
}
