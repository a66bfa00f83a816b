package review

const (
	// collection names
	reviewsNode    string = "BarcodeItemReview"
	aggregatesNode string = "ReviewStars"

	// Fields' name and path
	IdFieldPath            string = "id"
	UserIDFieldPath        string = "userID"
	BarcodeNumberFieldPath string = "barcodeNumber"
	ReviewStarsFieldPath   string = "reviewStars"
	ProductNameFieldPath   string = "productName"
	DateTimeFieldPath      string = "dateTime"
)
