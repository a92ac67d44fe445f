package domain

import "schemacov.dev/pkg/schemacov/internal/engine"

// KeywordClass says which coverage entries a keyword location receives.
type KeywordClass int

const (
	// ClassBranch keywords get a statement and a two-way branch.
	ClassBranch KeywordClass = iota
	// ClassStatement keywords get a statement only.
	ClassStatement
	// ClassIgnored keywords get no entry at all.
	ClassIgnored
)

// SimpleApplicatorQuery reports whether the schema engine treats a keyword as
// a pure pass-through to its sub-schemas.
type SimpleApplicatorQuery interface {
	IsSimpleApplicator(keywordID string) bool
}

var (
	nonStatementKeywords = []string{"comment", "definitions"}
	annotationKeywords   = []string{
		"title", "description", "default", "deprecated",
		"readOnly", "writeOnly", "examples", "if",
	}
)

// Classifier maps keyword identifiers to their KeywordClass.
type Classifier struct {
	classes map[string]KeywordClass
	query   SimpleApplicatorQuery
}

// NewClassifier builds the classification table. When assertFormat is off,
// "format" only annotates and therefore never branches.
func NewClassifier(query SimpleApplicatorQuery, assertFormat bool) *Classifier {
	classes := map[string]KeywordClass{}

	for _, id := range nonStatementKeywords {
		classes[engine.KeywordBase+id] = ClassIgnored
	}

	for _, id := range annotationKeywords {
		classes[engine.KeywordBase+id] = ClassStatement
	}

	if !assertFormat {
		classes[engine.KeywordBase+"format"] = ClassStatement
	}

	return &Classifier{classes: classes, query: query}
}

// Classify returns the class of keywordID. Identifiers outside the table,
// unknown and custom ones included, branch unless the engine reports a simple
// applicator.
func (c *Classifier) Classify(keywordID string) KeywordClass {
	if class, ok := c.classes[keywordID]; ok {
		return class
	}

	if c.query != nil && c.query.IsSimpleApplicator(keywordID) {
		return ClassStatement
	}

	return ClassBranch
}
