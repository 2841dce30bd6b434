package domain

import "time"

// Post is a titled content record with an optional uploaded image.
// ImageRef is a storage reference (relative path or object key); empty
// means the post has no image.
type Post struct {
	ID        int64
	Title     string
	Body      string
	ImageRef  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
