package neighborhood

import "time"

type Neighborhood struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:120;not null;uniqueIndex"`
	AreaCode  string    `gorm:"size:20;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Neighborhood) TableName() string {
	return "neighborhoods"
}

// Defaults is the fixed reference list inserted by Seed.
func Defaults() []Neighborhood {
	return []Neighborhood{
		{Name: "City Center", AreaCode: "100"},
		{Name: "Al-Mahatta", AreaCode: "101"},
		{Name: "Al-Qusour", AreaCode: "102"},
		{Name: "Al-Jalaa", AreaCode: "103"},
		{Name: "Al-Sinaa", AreaCode: "104"},
		{Name: "Al-Mashfa", AreaCode: "105"},
	}
}
