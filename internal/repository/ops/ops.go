package ops

// Comparison operators understood by the document store queries.
const (
	Equal        string = "=="
	NotEqual     string = "!="
	Greater      string = ">"
	GreaterEqual string = ">="
	Less         string = "<"
	LessEqual    string = "<="
)
