package index

import (
	"sort"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/indexhouse/mcp-ftindex-server/internal/domain"
)

// SearchBuilder is a read-oriented query handle bound to an index's
// on-disk state at acquisition time. It keeps the index open until Close;
// callers must Close it promptly so writers can take over the segment
// store.
type SearchBuilder struct {
	name string
	idx  bleve.Index
}

// CreateSearchBuilder opens a read handle over the named index. The index
// must exist.
func (s *Store) CreateSearchBuilder(name string) (*SearchBuilder, error) {
	if err := ValidateIndexName(name); err != nil {
		return nil, err
	}
	idx, err := s.openRead(name)
	if err != nil {
		return nil, err
	}
	return &SearchBuilder{name: name, idx: idx}, nil
}

// SearchHit is one matching document with its stored fields.
type SearchHit struct {
	DocumentID int64
	Score      float64
	Fields     map[string]any
}

// Fields enumerates the document field names visible to this builder's
// handle, deduplicated and sorted. It reuses the open handle rather than
// opening the index a second time.
func (b *SearchBuilder) Fields() ([]string, error) {
	raw, err := b.idx.Fields()
	if err != nil {
		return nil, storagef("enumerate fields of %q: %v", b.name, err)
	}
	var fields []string
	for _, f := range raw {
		if strings.HasPrefix(f, "_") {
			continue
		}
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields, nil
}

// Match builds a query whose text runs through the same analyzer used at
// indexing time for the given field.
func (b *SearchBuilder) Match(field, text string) query.Query {
	q := bleve.NewMatchQuery(text)
	q.SetField(field)
	return q
}

// Term builds an exact, unanalyzed term query.
func (b *SearchBuilder) Term(field, term string) query.Query {
	q := bleve.NewTermQuery(term)
	q.SetField(field)
	return q
}

// MatchAll builds a query matching every live document.
func (b *SearchBuilder) MatchAll() query.Query {
	return bleve.NewMatchAllQuery()
}

// Any combines queries as a disjunction.
func (b *SearchBuilder) Any(queries ...query.Query) query.Query {
	return bleve.NewDisjunctionQuery(queries...)
}

// All combines queries as a conjunction.
func (b *SearchBuilder) All(queries ...query.Query) query.Query {
	return bleve.NewConjunctionQuery(queries...)
}

// Run executes a query against the snapshot, returning up to limit hits
// with their stored fields and the total match count.
func (b *SearchBuilder) Run(q query.Query, limit int) ([]SearchHit, uint64, error) {
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	req.Fields = []string{"*"}

	result, err := b.idx.Search(req)
	if err != nil {
		return nil, 0, storagef("search %q: %v", b.name, err)
	}

	hits := make([]SearchHit, 0, len(result.Hits))
	for _, hit := range result.Hits {
		id, _ := strconv.ParseInt(hit.ID, 10, 64)
		hits = append(hits, SearchHit{
			DocumentID: id,
			Score:      hit.Score,
			Fields:     hit.Fields,
		})
	}
	return hits, result.Total, nil
}

// FindByID returns the hits whose deletion-key field equals the given
// external identifier.
func (b *SearchBuilder) FindByID(documentID int64) ([]SearchHit, error) {
	hits, _, err := b.Run(b.Term(domain.IDFieldName, strconv.FormatInt(documentID, 10)), 1)
	return hits, err
}

// Close releases the read handle. The builder must not be used afterward.
func (b *SearchBuilder) Close() error {
	return b.idx.Close()
}
