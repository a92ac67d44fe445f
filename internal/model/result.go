package model

// BuildResult is the outcome of building the coverage map of one file.
type BuildResult struct {
	Path       Path
	SchemaURI  string
	Statements int
	Functions  int
	Branches   int
	Err        error
}
