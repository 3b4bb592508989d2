// Package knowledge persists knowledge stacks and their documents in
// BadgerDB and implements the retrieval dispatch policy: vector search is
// preferred, keyword search is the fallback, and the two are never merged
// within a single query. Document embedding runs asynchronously on a worker
// pool and its failures never invalidate the document.
package knowledge
