// Package query implements the query algebra evaluated against an open
// index: a term lookup and a boolean combination of sub-queries. A query
// is an expression tree whose evaluation produces a bitmap of global
// document ids.
//
// Queries are decoupled from the reader implementation through the
// FieldSource interface, which is the one capability evaluation needs:
// resolving a term to its global document bitmap within a field.
package query

import (
	"github.com/RoaringBitmap/roaring"
)

// FieldSource resolves a term to the global document ids containing it
// within one field. A term the field has never seen resolves to an empty
// bitmap.
type FieldSource interface {
	Docs(term []byte) (*roaring.Bitmap, error)
}

// Query is an executable query expression. Execute receives the full
// field map so that every node of the tree can address any field.
type Query interface {
	Execute(fields map[string]FieldSource) (*roaring.Bitmap, error)
}

// Occur states how a clause participates in a boolean query.
type Occur int

const (
	// Filter clauses restrict the result set like Must clauses do.
	Filter Occur = iota
	// Must clauses are intersected: every result document matches all of them.
	Must
	// MustNot clauses are subtracted from the result.
	MustNot
	// Should clauses are optional matches counted against MinShouldMatch.
	Should
)

// TermQuery matches the documents of one field containing one term.
type TermQuery struct {
	field string
	term  string
}

// NewTermQuery creates a term query for the given field and term.
func NewTermQuery(field, term string) *TermQuery {
	return &TermQuery{field: field, term: term}
}

// Execute resolves the term against the named field. An unknown field
// yields an empty bitmap rather than an error: segments are discovered
// lazily, so a field may simply not exist yet.
func (q *TermQuery) Execute(fields map[string]FieldSource) (*roaring.Bitmap, error) {
	source, ok := fields[q.field]
	if !ok {
		return roaring.New(), nil
	}
	return source.Docs([]byte(q.term))
}

// BooleanClause pairs a sub-query with its occurrence.
type BooleanClause struct {
	query Query
	occur Occur
}

// BooleanQuery combines clauses. Must and Filter clauses are intersected,
// MustNot clauses are subtracted, and Should clauses are counted: a
// document qualifies when at least minShouldMatch of them contain it.
// When the query has no Must or Filter clauses, an effective minimum of
// one applies so a pure-Should query never degenerates to match-all.
type BooleanQuery struct {
	clauses        []BooleanClause
	minShouldMatch uint16
}

// NewBooleanQuery creates an empty boolean query with the given
// minimum-should-match threshold.
func NewBooleanQuery(minShouldMatch uint16) *BooleanQuery {
	return &BooleanQuery{minShouldMatch: minShouldMatch}
}

// Term appends a term clause and returns the receiver for chaining.
func (q *BooleanQuery) Term(field, term string, occur Occur) *BooleanQuery {
	return q.push(NewTermQuery(field, term), occur)
}

// Boolean appends a nested boolean clause and returns the receiver.
func (q *BooleanQuery) Boolean(sub *BooleanQuery, occur Occur) *BooleanQuery {
	return q.push(sub, occur)
}

func (q *BooleanQuery) push(sub Query, occur Occur) *BooleanQuery {
	q.clauses = append(q.clauses, BooleanClause{query: sub, occur: occur})
	return q
}

// Execute evaluates every clause and combines the resulting bitmaps.
func (q *BooleanQuery) Execute(fields map[string]FieldSource) (*roaring.Bitmap, error) {
	var musts, shoulds, mustNots []*roaring.Bitmap

	for _, clause := range q.clauses {
		bitmap, err := clause.query.Execute(fields)
		if err != nil {
			return nil, err
		}

		switch clause.occur {
		case Must, Filter:
			musts = append(musts, bitmap)
		case Should:
			shoulds = append(shoulds, bitmap)
		case MustNot:
			mustNots = append(mustNots, bitmap)
		}
	}

	var result *roaring.Bitmap
	if len(musts) > 0 {
		result = musts[0].Clone()
		for _, must := range musts[1:] {
			result.And(must)
		}
	}

	if len(shoulds) > 0 {
		minShouldMatch := q.minShouldMatch
		if result == nil && minShouldMatch == 0 {
			minShouldMatch = 1
		}

		if minShouldMatch > 0 {
			matched := matchingAtLeast(shoulds, minShouldMatch)
			if result == nil {
				result = matched
			} else {
				result.And(matched)
			}
		}
	}

	// Only MustNot clauses, or no clauses at all: there is no universe to
	// subtract from, so the result is empty.
	if result == nil {
		result = roaring.New()
	}

	for _, mustNot := range mustNots {
		result.AndNot(mustNot)
	}

	return result, nil
}

// matchingAtLeast returns the documents contained in at least minCount of
// the given bitmaps.
func matchingAtLeast(bitmaps []*roaring.Bitmap, minCount uint16) *roaring.Bitmap {
	union := roaring.New()
	for _, bitmap := range bitmaps {
		union.Or(bitmap)
	}

	matched := roaring.New()
	iterator := union.Iterator()
	for iterator.HasNext() {
		doc := iterator.Next()

		var count uint16
		for _, bitmap := range bitmaps {
			if bitmap.Contains(doc) {
				count++
				if count >= minCount {
					matched.Add(doc)
					break
				}
			}
		}
	}

	return matched
}
