package index

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/indexhouse/mcp-ftindex-server/internal/domain"
)

// NewIndexMapping creates the mapping every index is created with. The
// default analyzer is the standard pipeline (unicode tokenization,
// lower-casing, English stop-word removal) so query-time analysis matches
// what the document builder indexed. The deletion-key field is mapped as a
// stored keyword so exact term lookups work.
func NewIndexMapping() *mapping.IndexMappingImpl {
	idField := bleve.NewTextFieldMapping()
	idField.Analyzer = keyword.Name
	idField.Store = true

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt(domain.IDFieldName, idField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = standard.Name

	return indexMapping
}

// Analyzer converts raw text into normalized tokens. It is stateless,
// deterministic and safe for concurrent use; the same instance serves both
// indexing and query parsing so term matching stays consistent.
type Analyzer struct {
	full    analysis.Analyzer
	keyword analysis.Analyzer
}

// NewAnalyzer resolves the shared analyzer instances from the index mapping.
func NewAnalyzer() *Analyzer {
	m := NewIndexMapping()
	return &Analyzer{
		full:    m.AnalyzerNamed(standard.Name),
		keyword: m.AnalyzerNamed(keyword.Name),
	}
}

// Tokens runs text through the full indexing pipeline and returns the
// normalized terms in order. Calling it twice with the same input yields
// the same sequence.
func (a *Analyzer) Tokens(text string) []string {
	stream := a.full.Analyze([]byte(text))
	tokens := make([]string, 0, len(stream))
	for _, tok := range stream {
		tokens = append(tokens, string(tok.Term))
	}
	return tokens
}
