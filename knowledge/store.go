// Copyright 2025 Narada AI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package knowledge

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/AishSoni/Narada-AI/core"
	"github.com/AishSoni/Narada-AI/keyword"
	"github.com/AishSoni/Narada-AI/vector"
	"github.com/dgraph-io/badger/v4"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200

	// Vector search casts a wider net than the requested limit and filters
	// by similarity; keyword search only runs when this path yields nothing.
	vectorScoreThreshold = 0.7
	candidateMultiplier  = 2
)

// Store persists knowledge stacks and documents and dispatches retrieval
// between the vector and keyword paths.
type Store struct {
	backend *Backend
	vectors vector.Store
	pool    *ants.Pool
	jobs    sync.WaitGroup

	chunkSize    int
	chunkOverlap int
	logger       *slog.Logger
}

// Option configures a Store.
type Option func(*Store) error

// WithPoolSize sets the worker pool size for background embedding jobs.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Store) error {
		if size < 1 {
			size = 1
		}
		if s.pool != nil {
			s.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		s.pool = pool
		return nil
	}
}

// WithChunking overrides the default chunk size and overlap used when
// splitting document content for embedding.
func WithChunking(size, overlap int) Option {
	return func(s *Store) error {
		if size > 0 {
			s.chunkSize = size
		}
		if overlap >= 0 && overlap < s.chunkSize {
			s.chunkOverlap = overlap
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewStore creates a knowledge store on the given backend and vector store.
func NewStore(backend *Backend, vectors vector.Store, opts ...Option) (*Store, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	if vectors == nil {
		return nil, ErrVectorStoreRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	s := &Store{
		backend:      backend,
		vectors:      vectors,
		pool:         pool,
		chunkSize:    defaultChunkSize,
		chunkOverlap: defaultChunkOverlap,
		logger:       slog.Default().With("component", "knowledge-store"),
	}
	for _, opt := range opts {
		if optErr := opt(s); optErr != nil {
			s.Release()
			return nil, optErr
		}
	}
	return s, nil
}

// Release waits for queued embedding jobs and shuts down the worker pool.
// The store should not be used after calling Release.
func (s *Store) Release() {
	s.jobs.Wait()
	if s.pool != nil {
		s.pool.Release()
	}
}

// Flush blocks until all queued embedding jobs have finished.
func (s *Store) Flush() {
	s.jobs.Wait()
}

// CreateStack creates a new stack. Names are unique case-insensitively.
func (s *Store) CreateStack(ctx context.Context, name, description string) (*core.KnowledgeStack, error) {
	now := time.Now().UTC()
	stack := &core.KnowledgeStack{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Size:        humanize.Bytes(0),
		CreatedAt:   now,
		LastUpdated: now,
	}
	if err := stack.Validate(); err != nil {
		return nil, err
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		nameKey := makeStackNameKey(core.NormalizeStackName(name))
		if _, err := tx.Get(nameKey); err == nil {
			return core.ErrStackNameTaken
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		value, err := marshalStack(stack)
		if err != nil {
			return err
		}
		if err := tx.Set(makeStackKey(stack.ID), value); err != nil {
			return err
		}
		if err := tx.Set(nameKey, []byte(stack.ID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	s.logger.Info("created knowledge stack", "stack", stack.ID, "name", name)
	return stack, nil
}

// GetStack retrieves a stack by ID.
func (s *Store) GetStack(ctx context.Context, id string) (*core.KnowledgeStack, error) {
	var stack *core.KnowledgeStack
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		stack, err = readStack(tx, id)
		return err
	}, false)
	return stack, err
}

// GetStackByName retrieves a stack by its case-insensitive name.
func (s *Store) GetStackByName(ctx context.Context, name string) (*core.KnowledgeStack, error) {
	var stack *core.KnowledgeStack
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeStackNameKey(core.NormalizeStackName(name)))
		if err == badger.ErrKeyNotFound {
			return core.ErrKnowledgeStackNotFound
		}
		if err != nil {
			return err
		}
		var id string
		if err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}
		stack, err = readStack(tx, id)
		return err
	}, false)
	return stack, err
}

// ListStacks returns all stacks sorted by name.
func (s *Store) ListStacks(ctx context.Context) ([]*core.KnowledgeStack, error) {
	var stacks []*core.KnowledgeStack
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(stackPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var stack *core.KnowledgeStack
			err := iter.Item().Value(func(val []byte) error {
				var err error
				stack, err = unmarshalStack(val)
				return err
			})
			if err != nil {
				return err
			}
			stacks = append(stacks, stack)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sort.Slice(stacks, func(i, j int) bool {
		return core.NormalizeStackName(stacks[i].Name) < core.NormalizeStackName(stacks[j].Name)
	})
	return stacks, nil
}

// UpdateStack renames a stack or changes its description, maintaining the
// name index.
func (s *Store) UpdateStack(ctx context.Context, id, name, description string) (*core.KnowledgeStack, error) {
	var updated *core.KnowledgeStack
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		stack, err := readStack(tx, id)
		if err != nil {
			return err
		}

		oldNorm := core.NormalizeStackName(stack.Name)
		newNorm := core.NormalizeStackName(name)
		if oldNorm != newNorm {
			newNameKey := makeStackNameKey(newNorm)
			if _, err := tx.Get(newNameKey); err == nil {
				return core.ErrStackNameTaken
			} else if err != badger.ErrKeyNotFound {
				return err
			}
			if err := tx.Delete(makeStackNameKey(oldNorm)); err != nil {
				return err
			}
			if err := tx.Set(newNameKey, []byte(id)); err != nil {
				return err
			}
		}

		stack.Name = name
		stack.Description = description
		stack.LastUpdated = time.Now().UTC()
		if err := stack.Validate(); err != nil {
			return err
		}

		value, err := marshalStack(stack)
		if err != nil {
			return err
		}
		if err := tx.Set(makeStackKey(id), value); err != nil {
			return err
		}
		updated = stack
		return tx.Commit()
	}, true)
	return updated, err
}

// DeleteStack removes the stack, all its documents, and their vectors.
func (s *Store) DeleteStack(ctx context.Context, id string) error {
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		stack, err := readStack(tx, id)
		if err != nil {
			return err
		}

		// Collect keys first; deleting while iterating is unsafe.
		var keys [][]byte
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeDocumentPrefix(id)
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			keys = append(keys, item.KeyCopy(nil))
			var doc *core.Document
			if err := item.Value(func(val []byte) error {
				var err error
				doc, err = unmarshalDocument(val)
				return err
			}); err != nil {
				iter.Close()
				return err
			}
			if doc.Checksum != "" {
				keys = append(keys, makeChecksumKey(id, doc.Checksum))
			}
		}
		iter.Close()

		keys = append(keys,
			makeStackNameKey(core.NormalizeStackName(stack.Name)),
			makeStackKey(id))
		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	if err := s.vectors.RemoveStack(ctx, id); err != nil {
		s.logger.Error("failed to remove stack vectors", "stack", id, "err", err)
	}
	s.logger.Info("deleted knowledge stack", "stack", id)
	return nil
}

// AddDocument stores a document in the stack and, when the document is
// searchable and an embedding provider is available, queues an asynchronous
// embedding job. Embedding failures are logged and swallowed; the document
// stays keyword-searchable regardless of embedding outcome.
func (s *Store) AddDocument(ctx context.Context, stackID string, doc *core.Document) (*core.Document, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	doc.StackID = stackID
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}
	if doc.Status == "" {
		doc.Status = core.DocumentStatusCompleted
	}
	if doc.Content != "" && doc.Checksum == "" {
		doc.Checksum = core.ChecksumFromContent(doc.Content)
	}
	if doc.Size == "" {
		doc.Size = humanize.Bytes(uint64(len(doc.Content)))
	}

	embed := doc.Searchable() && s.vectors.IsEmbeddingAvailable()
	if doc.Searchable() {
		if embed {
			doc.EmbeddingStatus = core.EmbeddingStatusPending
		} else {
			doc.EmbeddingStatus = core.EmbeddingStatusSkipped
		}
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		if _, err := readStack(tx, stackID); err != nil {
			return err
		}

		if doc.Checksum != "" {
			checksumKey := makeChecksumKey(stackID, doc.Checksum)
			if _, err := tx.Get(checksumKey); err == nil {
				return core.ErrDuplicateDocument
			} else if err != badger.ErrKeyNotFound {
				return err
			}
			if err := tx.Set(checksumKey, []byte(doc.ID)); err != nil {
				return err
			}
		}

		value, err := marshalDocument(doc)
		if err != nil {
			return err
		}
		if err := tx.Set(makeDocumentKey(stackID, doc.ID), value); err != nil {
			return err
		}
		if err := recomputeStack(tx, stackID); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	if embed {
		s.queueEmbedding(doc.ID, stackID, doc.Name, doc.Content, doc.Type)
	}

	s.logger.Info("added document", "stack", stackID, "document", doc.ID,
		"name", doc.Name, "embedding", doc.EmbeddingStatus)
	return doc, nil
}

// GetDocument retrieves a single document.
func (s *Store) GetDocument(ctx context.Context, stackID, documentID string) (*core.Document, error) {
	var doc *core.Document
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		doc, err = readDocument(tx, stackID, documentID)
		return err
	}, false)
	return doc, err
}

// ListDocuments returns all documents in the stack sorted by upload time.
func (s *Store) ListDocuments(ctx context.Context, stackID string) ([]*core.Document, error) {
	var docs []*core.Document
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		if _, err := readStack(tx, stackID); err != nil {
			return err
		}
		var err error
		docs, err = readStackDocuments(tx, stackID)
		return err
	}, false)
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.Before(docs[j].UploadedAt)
	})
	return docs, nil
}

// DeleteDocument removes a document and its vectors.
func (s *Store) DeleteDocument(ctx context.Context, stackID, documentID string) error {
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		doc, err := readDocument(tx, stackID, documentID)
		if err != nil {
			return err
		}
		if doc.Checksum != "" {
			if err := tx.Delete(makeChecksumKey(stackID, doc.Checksum)); err != nil {
				return err
			}
		}
		if err := tx.Delete(makeDocumentKey(stackID, documentID)); err != nil {
			return err
		}
		if err := recomputeStack(tx, stackID); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	if err := s.vectors.RemoveDocument(ctx, documentID); err != nil {
		s.logger.Error("failed to remove document vectors", "document", documentID, "err", err)
	}
	return nil
}

// SearchDocuments retrieves the documents most relevant to the query.
//
// Vector search is preferred: it requests limit*2 candidates above the
// similarity threshold and maps hits back to their owning documents. Keyword
// search runs only when the vector path is unavailable or empty; results
// from the two paths are never merged for a single call.
func (s *Store) SearchDocuments(ctx context.Context, stackID, query string, limit int) ([]core.SearchResult, error) {
	if limit <= 0 {
		limit = 5
	}

	docs, err := s.ListDocuments(ctx, stackID)
	if err != nil {
		return nil, err
	}

	searchable := make([]core.Document, 0, len(docs))
	byID := make(map[string]*core.Document, len(docs))
	for _, doc := range docs {
		if doc.Searchable() {
			searchable = append(searchable, *doc)
			byID[doc.ID] = doc
		}
	}
	if len(searchable) == 0 {
		return []core.SearchResult{}, nil
	}

	if s.vectors.IsEmbeddingAvailable() {
		hits, err := s.vectors.SearchSimilar(ctx, stackID, query, limit*candidateMultiplier, vectorScoreThreshold)
		if err != nil {
			s.logger.Error("vector search failed, falling back to keyword search",
				"stack", stackID, "err", err)
		}

		results := make([]core.SearchResult, 0, len(hits))
		seen := make(map[string]bool, len(hits))
		for _, hit := range hits {
			doc, ok := byID[hit.DocumentID]
			if !ok || seen[doc.ID] {
				continue
			}
			seen[doc.ID] = true
			results = append(results, core.SearchResult{
				ID:       doc.ID,
				Name:     doc.Name,
				Score:    hit.Score,
				Content:  doc.Content,
				Snippet:  keyword.ExtractRelevantSnippet(doc.Content, query, keyword.DefaultSnippetLength),
				Metadata: doc.Metadata,
			})
			if len(results) == limit {
				break
			}
		}
		if len(results) > 0 {
			s.logger.Debug("vector search served query", "stack", stackID, "results", len(results))
			return results, nil
		}
	}

	results := keyword.HybridSearch(searchable, query, limit)
	s.logger.Debug("keyword search served query", "stack", stackID, "results", len(results))
	return results, nil
}

// queueEmbedding submits an asynchronous embedding job for the document.
func (s *Store) queueEmbedding(documentID, stackID, name, content, fileType string) {
	s.jobs.Add(1)
	err := s.pool.Submit(func() {
		defer s.jobs.Done()
		s.embedDocument(context.Background(), documentID, stackID, name, content, fileType)
	})
	if err != nil {
		s.jobs.Done()
		s.logger.Error("failed to queue embedding job", "document", documentID, "err", err)
		s.setEmbeddingStatus(documentID, stackID, core.EmbeddingStatusFailed)
	}
}

func (s *Store) embedDocument(ctx context.Context, documentID, stackID, name, content, fileType string) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(s.chunkSize),
		textsplitter.WithChunkOverlap(s.chunkOverlap),
	)
	chunks, err := splitter.SplitText(content)
	if err != nil {
		s.logger.Error("failed to chunk document", "document", documentID, "err", err)
		s.setEmbeddingStatus(documentID, stackID, core.EmbeddingStatusFailed)
		return
	}

	_, err = s.vectors.AddDocument(ctx, stackID, documentID, chunks, vector.ChunkMetadata{
		DocumentName: name,
		FileType:     fileType,
	})
	if err != nil {
		s.logger.Error("embedding job failed, document remains keyword-searchable",
			"document", documentID, "err", err)
		s.setEmbeddingStatus(documentID, stackID, core.EmbeddingStatusFailed)
		return
	}

	s.setEmbeddingStatus(documentID, stackID, core.EmbeddingStatusSucceeded)
	s.logger.Debug("embedded document", "document", documentID, "chunks", len(chunks))
}

func (s *Store) setEmbeddingStatus(documentID, stackID string, status core.EmbeddingStatus) {
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		doc, err := readDocument(tx, stackID, documentID)
		if err != nil {
			return err
		}
		doc.EmbeddingStatus = status
		value, err := marshalDocument(doc)
		if err != nil {
			return err
		}
		if err := tx.Set(makeDocumentKey(stackID, documentID), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		s.logger.Error("failed to update embedding status",
			"document", documentID, "status", status, "err", err)
	}
}

// recomputeStack refreshes the stack's document count, human-readable size,
// and last-updated timestamp. Badger merges the transaction's pending writes
// into iteration, so documents written in this transaction are counted.
func recomputeStack(tx *badger.Txn, stackID string) error {
	stack, err := readStack(tx, stackID)
	if err != nil {
		return err
	}

	docs, err := readStackDocuments(tx, stackID)
	if err != nil {
		return err
	}

	var totalBytes uint64
	for _, doc := range docs {
		totalBytes += uint64(len(doc.Content))
	}

	stack.DocumentsCount = len(docs)
	stack.Size = humanize.Bytes(totalBytes)
	stack.LastUpdated = time.Now().UTC()

	value, err := marshalStack(stack)
	if err != nil {
		return err
	}
	return tx.Set(makeStackKey(stackID), value)
}

func readStack(tx *badger.Txn, id string) (*core.KnowledgeStack, error) {
	item, err := tx.Get(makeStackKey(id))
	if err == badger.ErrKeyNotFound {
		return nil, core.ErrKnowledgeStackNotFound
	}
	if err != nil {
		return nil, err
	}
	var stack *core.KnowledgeStack
	err = item.Value(func(val []byte) error {
		var err error
		stack, err = unmarshalStack(val)
		return err
	})
	return stack, err
}

func readDocument(tx *badger.Txn, stackID, documentID string) (*core.Document, error) {
	item, err := tx.Get(makeDocumentKey(stackID, documentID))
	if err == badger.ErrKeyNotFound {
		return nil, core.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var err error
		doc, err = unmarshalDocument(val)
		return err
	})
	return doc, err
}

func readStackDocuments(tx *badger.Txn, stackID string) ([]*core.Document, error) {
	var docs []*core.Document
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makeDocumentPrefix(stackID)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		var doc *core.Document
		err := iter.Item().Value(func(val []byte) error {
			var err error
			doc, err = unmarshalDocument(val)
			return err
		})
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
