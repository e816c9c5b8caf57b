package publications

import (
	"time"

	"github.com/hrcamilo11/upblioteca-core/internal/users"
)

type Publication struct {
	ID            uint        `gorm:"primaryKey"`
	Name          string      `gorm:"size:200;not null"`
	Slug          string      `gorm:"size:220;unique;not null"`
	Subject       string      `gorm:"size:100;not null"`
	University    string      `gorm:"size:100;not null"`
	AuthorID      uint        `gorm:"index;not null"`
	Author        *users.User `gorm:"foreignKey:AuthorID"`
	FileName      string
	FilePath      string
	FileSize      int64
	Featured      bool  `gorm:"default:false;index"`
	DownloadCount int64 `gorm:"not null;default:0"`
	Ratings       []Rating
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Rating holds one user's score for one publication. The composite key
// keeps the at-most-one-rating-per-user rule in the schema itself.
type Rating struct {
	PublicationID uint `gorm:"primaryKey;autoIncrement:false"`
	UserID        uint `gorm:"primaryKey;autoIncrement:false"`
	Value         int  `gorm:"not null;check:value >= 1 AND value <= 5"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
