package engine

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// KeywordBase prefixes every keyword identifier.
const KeywordBase = "https://json-schema.org/keyword/"

// UnknownKeywordID identifies keywords a dialect does not define.
const UnknownKeywordID = KeywordBase + "unknown"

// Applies describes which parts of a keyword value are sub-schemas.
type Applies int

// Keyword value shapes.
const (
	AppliesNone Applies = iota
	AppliesSchema
	AppliesSchemaArray
	AppliesSchemaMap
	AppliesSchemaOrArray
	AppliesDependencies
)

// Keyword describes a keyword of a dialect.
type Keyword struct {
	Name             string
	ID               string
	Applies          Applies
	SimpleApplicator bool
}

// Dialect is a JSON Schema draft with its keyword vocabulary.
type Dialect struct {
	ID             string
	Name           string
	IDKeyword      string
	BooleanSchemas bool
	RefOverrides   bool

	draft    *jsonschema.Draft
	keywords map[string]Keyword
}

// Keyword returns the keyword called name. Names that the dialect does not
// define map to UnknownKeywordID.
func (d *Dialect) Keyword(name string) Keyword {
	if kw, ok := d.keywords[name]; ok {
		return kw
	}

	return Keyword{Name: name, ID: UnknownKeywordID}
}

// IsDocumentKey reports whether name identifies or anchors a schema rather
// than asserting anything. Such keys do not appear in the graph.
func (d *Dialect) IsDocumentKey(name string) bool {
	if name == d.IDKeyword {
		return true
	}

	_, ok := documentKeys[name]

	return ok
}

var documentKeys = map[string]struct{}{
	"$schema":          {},
	"$id":              {},
	"$anchor":          {},
	"$dynamicAnchor":   {},
	"$recursiveAnchor": {},
	"$vocabulary":      {},
}

type draftSet uint8

const (
	d4 draftSet = 1 << iota
	d6
	d7
	d2019
	d2020

	dAll   = d4 | d6 | d7 | d2019 | d2020
	d6up   = d6 | d7 | d2019 | d2020
	d7up   = d7 | d2019 | d2020
	d2019p = d2019 | d2020
	dPre19 = d4 | d6 | d7
)

type keywordRow struct {
	name    string
	id      string
	applies Applies
	simple  bool
	drafts  draftSet
}

var keywordTable = []keywordRow{
	{"$ref", "ref", AppliesNone, true, d2019p},
	{"$ref", "draft-04/ref", AppliesNone, true, dPre19},
	{"$dynamicRef", "dynamicRef", AppliesNone, true, d2020},
	{"$recursiveRef", "draft-2019-09/recursiveRef", AppliesNone, true, d2019},
	{"$defs", "definitions", AppliesSchemaMap, false, d2019p},
	{"definitions", "definitions", AppliesSchemaMap, false, dAll},
	{"$comment", "comment", AppliesNone, false, d7up},

	{"allOf", "allOf", AppliesSchemaArray, true, dAll},
	{"anyOf", "anyOf", AppliesSchemaArray, false, dAll},
	{"oneOf", "oneOf", AppliesSchemaArray, false, dAll},
	{"not", "not", AppliesSchema, false, dAll},
	{"if", "if", AppliesSchema, false, d7up},
	{"then", "then", AppliesSchema, true, d7up},
	{"else", "else", AppliesSchema, true, d7up},
	{"dependentSchemas", "dependentSchemas", AppliesSchemaMap, true, d2019p},
	{"dependencies", "draft-04/dependencies", AppliesDependencies, false, dPre19},

	{"items", "items", AppliesSchema, true, d2020},
	{"items", "draft-04/items", AppliesSchemaOrArray, true, d4 | d6 | d7 | d2019},
	{"prefixItems", "prefixItems", AppliesSchemaArray, true, d2020},
	{"additionalItems", "draft-04/additionalItems", AppliesSchema, true, d4 | d6 | d7 | d2019},
	{"contains", "contains", AppliesSchema, false, d6up},
	{"unevaluatedItems", "unevaluatedItems", AppliesSchema, true, d2019p},

	{"properties", "properties", AppliesSchemaMap, true, dAll},
	{"patternProperties", "patternProperties", AppliesSchemaMap, true, dAll},
	{"additionalProperties", "additionalProperties", AppliesSchema, true, dAll},
	{"propertyNames", "propertyNames", AppliesSchema, true, d6up},
	{"unevaluatedProperties", "unevaluatedProperties", AppliesSchema, true, d2019p},

	{"type", "type", AppliesNone, false, dAll},
	{"enum", "enum", AppliesNone, false, dAll},
	{"const", "const", AppliesNone, false, d6up},
	{"multipleOf", "multipleOf", AppliesNone, false, dAll},
	{"maximum", "draft-04/maximum", AppliesNone, false, d4},
	{"maximum", "maximum", AppliesNone, false, d6up},
	{"minimum", "draft-04/minimum", AppliesNone, false, d4},
	{"minimum", "minimum", AppliesNone, false, d6up},
	{"exclusiveMaximum", "draft-04/exclusiveMaximum", AppliesNone, false, d4},
	{"exclusiveMaximum", "exclusiveMaximum", AppliesNone, false, d6up},
	{"exclusiveMinimum", "draft-04/exclusiveMinimum", AppliesNone, false, d4},
	{"exclusiveMinimum", "exclusiveMinimum", AppliesNone, false, d6up},
	{"maxLength", "maxLength", AppliesNone, false, dAll},
	{"minLength", "minLength", AppliesNone, false, dAll},
	{"pattern", "pattern", AppliesNone, false, dAll},
	{"maxItems", "maxItems", AppliesNone, false, dAll},
	{"minItems", "minItems", AppliesNone, false, dAll},
	{"uniqueItems", "uniqueItems", AppliesNone, false, dAll},
	{"maxContains", "maxContains", AppliesNone, false, d2019p},
	{"minContains", "minContains", AppliesNone, false, d2019p},
	{"maxProperties", "maxProperties", AppliesNone, false, dAll},
	{"minProperties", "minProperties", AppliesNone, false, dAll},
	{"required", "required", AppliesNone, false, dAll},
	{"dependentRequired", "dependentRequired", AppliesNone, false, d2019p},
	{"format", "format", AppliesNone, false, dAll},
	{"contentEncoding", "contentEncoding", AppliesNone, false, d7up},
	{"contentMediaType", "contentMediaType", AppliesNone, false, d7up},
	{"contentSchema", "contentSchema", AppliesSchema, false, d2019p},

	{"title", "title", AppliesNone, false, dAll},
	{"description", "description", AppliesNone, false, dAll},
	{"default", "default", AppliesNone, false, dAll},
	{"examples", "examples", AppliesNone, false, d6up},
	{"deprecated", "deprecated", AppliesNone, false, d2019p},
	{"readOnly", "readOnly", AppliesNone, false, d7up},
	{"writeOnly", "writeOnly", AppliesNone, false, d7up},
}

func newDialect(id, name, idKeyword string, set draftSet, draft *jsonschema.Draft) *Dialect {
	d := &Dialect{
		ID:             id,
		Name:           name,
		IDKeyword:      idKeyword,
		BooleanSchemas: set != d4,
		RefOverrides:   set&dPre19 != 0,
		draft:          draft,
		keywords:       map[string]Keyword{},
	}

	for _, row := range keywordTable {
		if row.drafts&set == 0 {
			continue
		}

		d.keywords[row.name] = Keyword{
			Name:             row.name,
			ID:               KeywordBase + row.id,
			Applies:          row.applies,
			SimpleApplicator: row.simple,
		}
	}

	return d
}

// Supported dialects.
var (
	Draft04   = newDialect("http://json-schema.org/draft-04/schema", "draft-04", "id", d4, jsonschema.Draft4)
	Draft06   = newDialect("http://json-schema.org/draft-06/schema", "draft-06", "$id", d6, jsonschema.Draft6)
	Draft07   = newDialect("http://json-schema.org/draft-07/schema", "draft-07", "$id", d7, jsonschema.Draft7)
	Draft2019 = newDialect("https://json-schema.org/draft/2019-09/schema", "2019-09", "$id", d2019, jsonschema.Draft2019)
	Draft2020 = newDialect("https://json-schema.org/draft/2020-12/schema", "2020-12", "$id", d2020, jsonschema.Draft2020)
)

var dialects = []*Dialect{Draft04, Draft06, Draft07, Draft2019, Draft2020}

// DialectFor returns the dialect whose metaschema URI is uri. A trailing empty
// fragment is ignored.
func DialectFor(uri string) (*Dialect, bool) {
	uri = strings.TrimSuffix(uri, "#")

	for _, d := range dialects {
		if d.ID == uri {
			return d, true
		}
	}

	return nil, false
}

// DialectByName returns a dialect by its short name, such as "draft-07".
func DialectByName(name string) (*Dialect, bool) {
	for _, d := range dialects {
		if d.Name == name {
			return d, true
		}
	}

	return nil, false
}

var simpleApplicators = func() map[string]struct{} {
	set := map[string]struct{}{}

	for _, row := range keywordTable {
		if row.simple {
			set[KeywordBase+row.id] = struct{}{}
		}
	}

	return set
}()

// IsSimpleApplicator reports whether the keyword only delegates to its
// sub-schemas, so its outcome is already covered by theirs.
func IsSimpleApplicator(keywordID string) bool {
	_, ok := simpleApplicators[keywordID]

	return ok
}
