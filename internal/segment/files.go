package segment

// The six files that make up one field-segment directory. All multi-byte
// integers in them are little-endian.
//
//	fst  - term dictionary, term bytes -> 0-based term index (raw, memory-mapped)
//	docs - concatenated serialized document-id bitmaps, term-index order (raw)
//	dox  - byte length of each term's bitmap in docs (snappy framed)
//	pox  - starting byte offset into posx for each term (snappy framed)
//	posx - (posi offset, position count) pair per document per term (snappy framed)
//	posi - flat position values (snappy framed)
const (
	fileFST  = "fst"
	fileDocs = "docs"
	fileDox  = "dox"
	filePox  = "pox"
	filePosx = "posx"
	filePosi = "posi"
)

// Record widths inside the position files. A posx record is a pair of
// u32 values; a posi record is a single u32 position.
const (
	posxRecordSize = 8
	posiRecordSize = 4
)
