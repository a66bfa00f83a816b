package model

import "time"

type CommentType string

const (
	CommentTypeDeal              CommentType = "deal"
	CommentTypeBarcodeItemReview CommentType = "barcodeItemReview" // deprecated
)

type Comment struct {
	Id          string      `firestore:"id" json:"id"`
	UserID      string      `firestore:"userID" json:"userID" validate:"required"`
	ItemID      string      `firestore:"itemID" json:"itemID" validate:"required"`
	CommentText string      `firestore:"commentText" json:"commentText" validate:"required"`
	CommentType CommentType `firestore:"commentType" json:"commentType"`
	Upvote      int         `firestore:"upvote" json:"upvote"`
	Downvote    int         `firestore:"downvote" json:"downvote"`
	Date        string      `firestore:"date" json:"date"`
	DateTime    *time.Time  `firestore:"dateTime,omitempty" json:"dateTime,omitempty"`
}
