package models

// Course is a subject offering with a unique code and its credit weight (SKS).
type Course struct {
	ID      int64  `db:"id" json:"id"`
	Code    string `db:"code" json:"code"`
	Title   string `db:"title" json:"title"`
	Credits int    `db:"credits" json:"credits"`
}
