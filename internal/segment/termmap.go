package segment

import (
	"sort"

	"github.com/RoaringBitmap/roaring"

	"github.com/iamNilotpal/ember/pkg/document"
)

// TermInfos holds, for one term within one field, the local document ids
// containing the term and the positions of the term in each of those
// documents. Position vectors are appended in document-iteration order,
// which is ascending local id, so the n-th vector belongs to the n-th
// document the bitmap yields.
type TermInfos struct {
	DocIDs    *roaring.Bitmap
	Positions [][]uint32
}

// TermMap maps every term of one field to its TermInfos. Go maps are
// unordered, so consumers iterate via sortedTerms to honor the ascending
// byte order the term dictionary requires.
type TermMap map[string]*TermInfos

// sortedTerms returns the map's keys in ascending byte order.
func (tm TermMap) sortedTerms() []string {
	terms := make([]string, 0, len(tm))
	for term := range tm {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// newTermMap transforms a batch of documents into one TermMap per field,
// assigning local document ids [0, N) in input order. Insertion is
// unconditional: a term that appears in several documents records every
// one of them, and a document's positions for a term are captured as a
// single copied vector.
func newTermMap(documents []*document.Document) (uint32, map[string]TermMap) {
	fieldInfos := make(map[string]TermMap)

	var docNum uint32
	for _, doc := range documents {
		for field, terms := range doc.Fields() {
			termMap, ok := fieldInfos[field]
			if !ok {
				termMap = make(TermMap)
				fieldInfos[field] = termMap
			}

			for _, term := range terms.SortedTerms() {
				infos, ok := termMap[term]
				if !ok {
					infos = &TermInfos{DocIDs: roaring.New()}
					termMap[term] = infos
				}

				infos.DocIDs.Add(docNum)

				positions := terms.Positions(term)
				infos.Positions = append(infos.Positions, append([]uint32(nil), positions...))
			}
		}
		docNum++
	}

	return docNum, fieldInfos
}
