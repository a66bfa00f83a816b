package model

import "time"

// Review is one user's rating of a product identified by its barcode.
type Review struct {
	Id            string     `firestore:"id" json:"id"`
	UserID        string     `firestore:"userID" json:"userID"`
	PhotoURL      string     `firestore:"photoURL" json:"photoURL"`
	ReviewStars   float64    `firestore:"reviewStars" json:"reviewStars"`
	ProductName   string     `firestore:"productName" json:"productName"`
	BarcodeNumber string     `firestore:"barcodeNumber" json:"barcodeNumber"`
	ReviewTitle   string     `firestore:"reviewTitle" json:"reviewTitle"`
	ReviewText    string     `firestore:"reviewText" json:"reviewText"`
	DateTime      *time.Time `firestore:"dateTime,omitempty" json:"dateTime,omitempty"`
	UpdatedAt     time.Time  `firestore:"updatedAt,omitempty" json:"updatedAt"`
}

// ReviewAggregate is derived from the reviews of one product. It only exists while
// the product has at least one review.
type ReviewAggregate struct {
	BarcodeNumber string    `firestore:"barcodeNumber" json:"barcodeNumber"`
	AverageStars  float64   `firestore:"averageStars" json:"averageStars"`
	ProductName   string    `firestore:"productName" json:"productName"`
	ReviewCount   int       `firestore:"reviewCount" json:"reviewCount"`
	UpdatedAt     time.Time `firestore:"updatedAt,omitempty" json:"updatedAt"`
}
