package event

type (
	EventType int

	Event struct {
		Message interface{}
		Err     error
	}

	EventChannel  chan Event
	EventWChannel chan<- Event

	// ScoreChanged tells subscribers that an input of UserID's ranking score moved.
	ScoreChanged struct {
		UserID string
		Type   EventType
	}
)

const (
	VoteChanged EventType = iota
	DealAdded
	CommentAdded
)

func (t EventType) String() string {
	switch t {
	case VoteChanged:
		return "vote_changed"
	case DealAdded:
		return "deal_added"
	case CommentAdded:
		return "comment_added"
	default:
		return "unknown"
	}
}
