package config

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error [%s]: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("found %d configuration error(s):\n", len(errs)))
	for i, err := range errs {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Message))
	}
	return b.String()
}

// Validate validates the complete configuration
func (c *Config) Validate() error {
	var errs ValidationErrors

	if err := c.validateEmbedding(); err != nil {
		errs = append(errs, err...)
	}

	if err := c.validateVectorDB(); err != nil {
		errs = append(errs, err...)
	}

	if err := c.validateQuery(); err != nil {
		errs = append(errs, err...)
	}

	if err := c.validateAssembler(); err != nil {
		errs = append(errs, err...)
	}

	if c.Pipeline != nil {
		if err := c.validatePipeline(); err != nil {
			errs = append(errs, err...)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validateEmbedding validates embedding configuration
func (c *Config) validateEmbedding() ValidationErrors {
	var errs ValidationErrors

	if c.Embedding.Provider == "" {
		errs = append(errs, ValidationError{
			Field:   "embedding.provider",
			Message: "embedding provider is required",
		})
	}

	if c.Embedding.Model == "" {
		errs = append(errs, ValidationError{
			Field:   "embedding.model",
			Message: "embedding model is required",
		})
	}

	// Validate dimensions are reasonable (typical range: 128-4096)
	if c.Embedding.Dimensions > 0 && (c.Embedding.Dimensions < 128 || c.Embedding.Dimensions > 4096) {
		errs = append(errs, ValidationError{
			Field:   "embedding.dimensions",
			Message: fmt.Sprintf("embedding dimensions %d is outside typical range [128, 4096]", c.Embedding.Dimensions),
		})
	}

	if c.Embedding.BatchSize < 0 {
		errs = append(errs, ValidationError{
			Field:   "embedding.batch_size",
			Message: fmt.Sprintf("embedding batch_size must be non-negative, got %d", c.Embedding.BatchSize),
		})
	}

	return errs
}

// validateVectorDB validates vector store configuration
func (c *Config) validateVectorDB() ValidationErrors {
	var errs ValidationErrors

	if c.VectorDB.Provider == "" {
		errs = append(errs, ValidationError{
			Field:   "vectordb.provider",
			Message: "vectordb provider is required",
		})
	}

	switch strings.ToLower(c.VectorDB.Provider) {
	case "", "milvus":
		if c.VectorDB.Provider != "" && c.VectorDB.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "vectordb.host",
				Message: fmt.Sprintf("vectordb host is required for %s provider", c.VectorDB.Provider),
			})
		}
		if c.VectorDB.Provider != "" && c.VectorDB.Collection == "" {
			errs = append(errs, ValidationError{
				Field:   "vectordb.collection",
				Message: fmt.Sprintf("collection name is required for %s provider", c.VectorDB.Provider),
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "vectordb.provider",
			Message: fmt.Sprintf("unsupported vectordb provider %q", c.VectorDB.Provider),
		})
	}

	return errs
}

// validateQuery validates the normalizer data tables
func (c *Config) validateQuery() ValidationErrors {
	var errs ValidationErrors

	for i, rule := range c.Query.IntentRules {
		if rule.Intent == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("query.intent_rules[%d].intent", i),
				Message: "intent name is required",
			})
		}
		if rule.Pattern == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("query.intent_rules[%d].pattern", i),
				Message: "intent pattern is required",
			})
		} else if _, err := regexp.Compile(rule.Pattern); err != nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("query.intent_rules[%d].pattern", i),
				Message: fmt.Sprintf("invalid intent pattern: %v", err),
			})
		}
		if rule.Confidence < 0 || rule.Confidence > 1 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("query.intent_rules[%d].confidence", i),
				Message: fmt.Sprintf("confidence must be in [0, 1], got %.2f", rule.Confidence),
			})
		}
	}

	return errs
}

// validateAssembler validates assembly budgets and filters
func (c *Config) validateAssembler() ValidationErrors {
	var errs ValidationErrors

	if c.Assembler.MinScore < 0 || c.Assembler.MinScore > 1 {
		errs = append(errs, ValidationError{
			Field:   "assembler.min_score",
			Message: fmt.Sprintf("assembler.min_score must be in [0, 1], got %.2f", c.Assembler.MinScore),
		})
	}

	if c.Assembler.MaxChunks < 0 {
		errs = append(errs, ValidationError{
			Field:   "assembler.max_chunks",
			Message: fmt.Sprintf("assembler.max_chunks must be non-negative, got %d", c.Assembler.MaxChunks),
		})
	}

	if c.Assembler.MaxChunks > 100 {
		errs = append(errs, ValidationError{
			Field:   "assembler.max_chunks",
			Message: fmt.Sprintf("assembler.max_chunks %d is too large (max recommended: 100)", c.Assembler.MaxChunks),
		})
	}

	if c.Assembler.MaxTokens < 0 {
		errs = append(errs, ValidationError{
			Field:   "assembler.max_tokens",
			Message: fmt.Sprintf("assembler.max_tokens must be non-negative, got %d", c.Assembler.MaxTokens),
		})
	}

	if c.Assembler.SimilarityThreshold < 0 || c.Assembler.SimilarityThreshold > 1 {
		errs = append(errs, ValidationError{
			Field:   "assembler.similarity_threshold",
			Message: fmt.Sprintf("assembler.similarity_threshold must be in [0, 1], got %.2f", c.Assembler.SimilarityThreshold),
		})
	}

	return errs
}

// validatePipeline validates orchestrator configuration
func (c *Config) validatePipeline() ValidationErrors {
	var errs ValidationErrors

	if c.Pipeline.TopK < 0 {
		errs = append(errs, ValidationError{
			Field:   "pipeline.top_k",
			Message: fmt.Sprintf("pipeline.top_k must be non-negative, got %d", c.Pipeline.TopK),
		})
	}

	if c.Pipeline.RRFK < 0 {
		errs = append(errs, ValidationError{
			Field:   "pipeline.rrf_k",
			Message: fmt.Sprintf("pipeline.rrf_k must be non-negative, got %d", c.Pipeline.RRFK),
		})
	}

	switch c.Pipeline.Fusion {
	case "", "max", "rrf":
	default:
		errs = append(errs, ValidationError{
			Field:   "pipeline.fusion",
			Message: fmt.Sprintf("unsupported fusion strategy %q (want max or rrf)", c.Pipeline.Fusion),
		})
	}

	for i, ret := range c.Pipeline.Retrievers {
		if ret.Type == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("pipeline.retrievers[%d].type", i),
				Message: "retriever type is required",
			})
		}

		switch ret.Type {
		case "bm25":
			if ret.Params["endpoint"] == "" {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("pipeline.retrievers[%d].params.endpoint", i),
					Message: "BM25 retriever requires endpoint parameter",
				})
			}
		}
	}

	return errs
}
