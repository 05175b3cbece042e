package domain

import "errors"

var (
	// ErrSchemaNotFound signals a missing attribute schema file for a catalog.
	ErrSchemaNotFound = errors.New("schema not found")
	// ErrSchemaInvalid signals a malformed attribute schema file.
	ErrSchemaInvalid = errors.New("schema invalid")
	// ErrSessionNotFound signals a missing conversation session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrExtractionFailed signals an exhausted or unparseable attribute extraction.
	// Recovered inside the extractor; never reaches a caller of Search.
	ErrExtractionFailed = errors.New("attribute extraction failed")
	// ErrIndexUnavailable signals that the vector index is unreachable or rejected the query.
	ErrIndexUnavailable = errors.New("vector index unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrLLMProviderError signals an LLM completion provider failure.
	ErrLLMProviderError = errors.New("llm provider error")
)
