package ops

// Query operators understood by every database.Client backend.
const (
	Equal string = "=="
	In    string = "in"
)
