package model

import "time"

type ItemKind string

const (
	ItemKindDeal    ItemKind = "deal"
	ItemKindComment ItemKind = "comment"
)

func (k ItemKind) Valid() bool {
	return k == ItemKindDeal || k == ItemKindComment
}

type VoteType string

const (
	Upvote   VoteType = "upvote"
	Downvote VoteType = "downvote"
)

func (t VoteType) Valid() bool {
	return t == Upvote || t == Downvote
}

// Vote is the single ledger fact for one (user, item, kind). VoteId is derived from
// those three values, so a second vote from the same user overwrites the first.
type Vote struct {
	VoteId    string    `firestore:"voteId" json:"voteId"`
	UserId    string    `firestore:"userId" json:"userId"`
	ItemId    string    `firestore:"itemId" json:"itemId"`
	ItemType  ItemKind  `firestore:"itemType" json:"itemType"`
	VoteType  VoteType  `firestore:"voteType" json:"voteType"`
	CreatedAt time.Time `firestore:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt,omitempty" json:"updatedAt"`
}

type VoteCounts struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
}
