package vote

const (
	// collection name
	votesNode string = "Votes"

	// Fields' name and path
	VoteIdFieldPath    string = "voteId"
	UserIdFieldPath    string = "userId"
	ItemIdFieldPath    string = "itemId"
	ItemTypeFieldPath  string = "itemType"
	VoteTypeFieldPath  string = "voteType"
	CreatedAtFieldPath string = "createdAt"
	UpdatedAtFieldPath string = "updatedAt"
)
