package model

import "time"

type Deal struct {
	Id          string   `firestore:"id" json:"id"`
	UserID      string   `firestore:"userID" json:"userID" validate:"required"`
	PhotoURL    string   `firestore:"photoURL" json:"photoURL"`
	ProductText string   `firestore:"productText" json:"productText" validate:"required"`
	PostText    string   `firestore:"postText" json:"postText"`
	Price       float64  `firestore:"price" json:"price" validate:"gte=0"`
	Location    string   `firestore:"location" json:"location"`
	Date        string   `firestore:"date" json:"date"` // recency label, refreshed on read
	CommentIDs  []string `firestore:"commentIDs" json:"commentIDs"`
	Upvote      int      `firestore:"upvote" json:"upvote"`
	Downvote    int      `firestore:"downvote" json:"downvote"`
	LocationId  string   `firestore:"locationId,omitempty" json:"locationId,omitempty"`
	// DateTime is the creation time. Deals written by older clients may lack it.
	DateTime *time.Time `firestore:"dateTime,omitempty" json:"dateTime,omitempty"`
}
