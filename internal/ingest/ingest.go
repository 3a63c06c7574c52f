package ingest

// Options control how directory arguments are expanded.
type Options struct {
	Recursive  bool // walk sub-directories
	SkipHidden bool // ignore dot-files and dot-directories inside a directory
}

// DirStats summarizes an expansion.
type DirStats struct {
	Inputs    int // arguments given
	Dirs      int // directories expanded
	Scanned   int // directory entries looked at
	Files     int // files returned
	Skipped   int // hidden entries and duplicates
	WalkError int // unreadable entries
}

// PDFStats counts the result of FilterPDFs.
type PDFStats struct {
	Matched  int
	Rejected int
}
