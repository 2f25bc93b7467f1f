package model

// swagger:model Chapter
type Chapter struct {
	BaseModel
	Name  string `gorm:"size:255;not null" json:"name"`
	Order int    `gorm:"default:0" json:"order"`
}

func (Chapter) TableName() string {
	return "chapters"
}

// Concept is the smallest gradable knowledge unit of a chapter.
// swagger:model Concept
type Concept struct {
	BaseModel
	ChapterID uint   `gorm:"index;type:bigint unsigned;not null" json:"chapterId"`
	Name      string `gorm:"size:255;not null" json:"name"`
	Order     int    `gorm:"default:0" json:"order"`
}

func (Concept) TableName() string {
	return "concepts"
}
