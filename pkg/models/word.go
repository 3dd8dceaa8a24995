package models

import "time"

// KeySeparator joins word and category into a progress key
const KeySeparator = "::"

// Word is a vocabulary entry. Word + Category identify it.
type Word struct {
	ID        int64     `json:"id" db:"id"`
	Word      string    `json:"word" db:"word"`
	Category  string    `json:"category" db:"category"`
	Meaning   string    `json:"meaning" db:"meaning"`
	Example   string    `json:"example" db:"example"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Key returns the progress key of the word
func (w Word) Key() string {
	return ProgressKey(w.Word, w.Category)
}

// ProgressKey builds the store key for a (word, category) pair
func ProgressKey(word, category string) string {
	return word + KeySeparator + category
}
