package model

import "time"

// ResourceType classifies shared materials.
type ResourceType string

const (
	ResourceTemplate    ResourceType = "template"
	ResourceInstruction ResourceType = "instruction"
	ResourceExample     ResourceType = "example"
)

func (t ResourceType) Valid() bool {
	switch t {
	case ResourceTemplate, ResourceInstruction, ResourceExample:
		return true
	}
	return false
}

// Resource is a document shared by a teacher or staff member.
type Resource struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	UploadedBy  uint         `gorm:"not null;index" json:"uploaded_by"`
	Title       string       `gorm:"type:varchar(100)" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	FilePath    string       `gorm:"type:varchar(255)" json:"file_path"`
	Type        ResourceType `gorm:"type:varchar(20);index" json:"type"`
	UploadedAt  time.Time    `gorm:"autoCreateTime" json:"uploaded_at"`

	Uploader *User `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
}
