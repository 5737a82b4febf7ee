package models

import "time"

type DatasetInfo struct {
	Year       string
	Source     string
	ImportedAt time.Time
	Questions  int
	Responses  int
}

type ItemRatingCount struct {
	Item   int
	Rating int
	Count  int
}
