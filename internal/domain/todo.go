package domain

import "time"

// Todo is a single task record. IsCompleted is carried on the wire but no
// operation sets it.
type Todo struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	IsCompleted bool      `gorm:"not null;default:false" json:"isCompleted"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
}

// SeedTitles are the items every fresh store starts with, in id order.
var SeedTitles = []string{
	"Learn Angular",
	"Build TODO app",
	"Deploy to production",
}
