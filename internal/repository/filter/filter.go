package filter

// DocumentID addresses the document id instead of a field.
const DocumentID string = "__name__"

type Where struct {
	Path  string
	Op    string
	Value interface{}
}
