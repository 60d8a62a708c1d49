// Package document defines the indexable document model: a document is a
// set of fields, and each field holds terms with the positions at which
// they occurred. Terms are already-normalized byte strings; the index
// performs no analysis or tokenization of its own.
package document

import "sort"

// Terms is a map of terms associated to a list of positions. A position is
// the location of the term in the original field content. Positions are
// kept in the order they were appended and are never deduplicated or
// sorted by the engine.
type Terms struct {
	positions map[string][]uint32
}

// NewTerms creates an empty term set.
func NewTerms() *Terms {
	return &Terms{positions: make(map[string][]uint32)}
}

// Term records one occurrence of term at position. It returns the receiver
// so occurrences can be chained:
//
//	doc.Field("title").Term("my", 0).Term("title", 1)
func (t *Terms) Term(term string, position uint32) *Terms {
	t.positions[term] = append(t.positions[term], position)
	return t
}

// Positions returns the recorded positions for term, in append order.
// It returns nil for a term that was never recorded.
func (t *Terms) Positions(term string) []uint32 {
	return t.positions[term]
}

// SortedTerms returns the terms in ascending byte order. This is the
// iteration order the segment writer relies on: the FST builder rejects
// keys that do not arrive strictly increasing.
func (t *Terms) SortedTerms() []string {
	terms := make([]string, 0, len(t.positions))
	for term := range t.positions {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// Len returns the number of distinct terms.
func (t *Terms) Len() int {
	return len(t.positions)
}

// Document represents one indexable document: a set of Terms grouped by
// field name. Field names are unique per document and field order is
// irrelevant; every field has its own independent segment tree on disk.
type Document struct {
	fields map[string]*Terms
}

// New creates an empty document.
func New() *Document {
	return &Document{fields: make(map[string]*Terms)}
}

// Field returns the term set for the named field, creating it on first
// use.
func (d *Document) Field(name string) *Terms {
	terms, ok := d.fields[name]
	if !ok {
		terms = NewTerms()
		d.fields[name] = terms
	}
	return terms
}

// Fields exposes the field map for iteration by the segment builder.
func (d *Document) Fields() map[string]*Terms {
	return d.fields
}
