package comment

const (
	// collection name
	CommentsNode string = "UserComments"

	// Fields' name and path
	IdFieldPath          string = "id"
	UserIDFieldPath      string = "userID"
	ItemIDFieldPath      string = "itemID"
	CommentTypeFieldPath string = "commentType"
	UpvoteFieldPath      string = "upvote"
	DownvoteFieldPath    string = "downvote"
)
