package deal

const (
	// collection name
	DealsNode string = "Deals"

	// Fields' name and path
	IdFieldPath         string = "id"
	UserIDFieldPath     string = "userID"
	UpvoteFieldPath     string = "upvote"
	DownvoteFieldPath   string = "downvote"
	CommentIDsFieldPath string = "commentIDs"
	DateTimeFieldPath   string = "dateTime"
)
