package model

type UserProfile struct {
	Id             string   `firestore:"id" json:"id"`
	Email          string   `firestore:"email" json:"email"`
	DisplayName    string   `firestore:"displayName" json:"displayName"`
	AvatarURL      string   `firestore:"avatarURL,omitempty" json:"avatarURL,omitempty"`
	Score          int      `firestore:"score" json:"score"`
	SavedDeals     []string `firestore:"savedDeals" json:"savedDeals"`
	TotalUpvotes   int      `firestore:"totalUpvotes" json:"totalUpvotes"`
	TotalDownvotes int      `firestore:"totalDownvotes" json:"totalDownvotes"`
	TotalDeals     int      `firestore:"totalDeals" json:"totalDeals"`
	TotalComments  int      `firestore:"totalComments" json:"totalComments"`
	// RankingPoints is the last persisted score and can lag behind the live one.
	RankingPoints int `firestore:"rankingPoints" json:"rankingPoints"`
}
