package filters

// DefaultLimit and MaxLimit bound the number of products a search returns.
const (
	DefaultLimit = 50
	MinLimit     = 1
	MaxLimit     = 100
)

// Request is a validated product search request.
type Request struct {
	Query    string `query:"q"`
	Category string `query:"category"`
	Limit    int    `query:"limit" validate:"min=1,max=100"`
}

// Query is what a repository executes: the filter plus the result bound.
type Query struct {
	Filter Filter
	Limit  int
}

// textFields are the fields a free-text query is matched against.
var textFields = []Field{FieldTitle, FieldDescription, FieldBrand}

// Build turns a search request into a Query. The limit is expected to be
// validated already and is passed through untouched.
func Build(req Request) Query {
	var conds And

	if req.Query != "" {
		anyField := make(Or, 0, len(textFields))
		for _, f := range textFields {
			anyField = append(anyField, TextContains{Field: f, Text: req.Query})
		}
		conds = append(conds, anyField)
	}
	if req.Category != "" {
		conds = append(conds, Equals{Field: FieldCategory, Value: req.Category})
	}

	var f Filter
	switch len(conds) {
	case 0:
		f = MatchAll{}
	case 1:
		f = conds[0]
	default:
		f = conds
	}
	return Query{Filter: f, Limit: req.Limit}
}
