package index

import (
	"fmt"

	"github.com/blevesearch/bleve/v2/document"
	bindex "github.com/blevesearch/bleve_index_api"

	"github.com/indexhouse/mcp-ftindex-server/internal/domain"
)

// DocumentBuilder finalizes domain documents into their indexable form.
// Finalization happens exactly once per submission: each Build call
// produces a fresh engine document with the per-field stored/indexed/
// tokenized flags applied and the deletion-key field appended.
type DocumentBuilder struct {
	analyzer *Analyzer
}

// NewDocumentBuilder creates a builder that analyzes tokenized fields with
// the given analyzer.
func NewDocumentBuilder(analyzer *Analyzer) *DocumentBuilder {
	return &DocumentBuilder{analyzer: analyzer}
}

// Build converts an IndexDocument into an engine document keyed by the
// string form of its external identifier. The reserved deletion-key field
// is always present and always a single exact term.
func (b *DocumentBuilder) Build(doc domain.IndexDocument) (*document.Document, error) {
	key := doc.Key()
	engineDoc := document.NewDocument(key)

	for _, f := range doc.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("document %s: field with empty name", key)
		}
		if f.Name == domain.IDFieldName {
			return nil, fmt.Errorf("document %s: field name %q is reserved for the deletion key", key, domain.IDFieldName)
		}
		engineField, err := b.buildField(f)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", key, err)
		}
		engineDoc.AddField(engineField)
	}

	engineDoc.AddField(document.NewTextFieldCustom(
		domain.IDFieldName, nil, []byte(key),
		bindex.IndexField|bindex.StoreField, b.analyzer.keyword))

	return engineDoc, nil
}

func (b *DocumentBuilder) buildField(f domain.Field) (document.Field, error) {
	var options bindex.FieldIndexingOptions
	if f.Stored {
		options |= bindex.StoreField
	}
	if f.Indexed {
		options |= bindex.IndexField
	}
	if f.Indexed && f.Tokenized {
		options |= bindex.IncludeTermVectors
	}

	switch f.Kind {
	case domain.FieldText:
		analyzer := b.analyzer.keyword
		if f.Tokenized {
			analyzer = b.analyzer.full
		}
		return document.NewTextFieldCustom(f.Name, nil, []byte(f.Text), options, analyzer), nil
	case domain.FieldBytes:
		// Raw bytes are never tokenized; when indexed they form one term.
		return document.NewTextFieldCustom(f.Name, nil, f.Bytes, options, b.analyzer.keyword), nil
	case domain.FieldDateTime:
		ordinal := float64(f.Time.UTC().UnixNano())
		return document.NewNumericFieldWithIndexingOptions(f.Name, nil, ordinal, options), nil
	default:
		return nil, fmt.Errorf("field %q: unknown kind %d", f.Name, f.Kind)
	}
}
