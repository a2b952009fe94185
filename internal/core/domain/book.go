package domain

// Book is a catalogue entry stored in the book database.
type Book struct {
	ID       string  `json:"id"       bson:"_id"`
	Name     string  `json:"name"     bson:"name"`
	Price    float64 `json:"price"    bson:"price"`
	Category string  `json:"category" bson:"category"`
	Author   string  `json:"author"   bson:"author"`
}
