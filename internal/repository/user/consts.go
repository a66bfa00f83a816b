package user

const (
	// collection name
	UsersNode string = "UserProfile"

	// Fields' name and path
	IdFieldPath            string = "id"
	SavedDealsFieldPath    string = "savedDeals"
	TotalUpvotesFieldPath  string = "totalUpvotes"
	TotalDealsFieldPath    string = "totalDeals"
	TotalCommentsFieldPath string = "totalComments"
	RankingPointsFieldPath string = "rankingPoints"
)
