package model

import "time"

// Group is a cohort of students going through practice together.
type Group struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	Year      int       `gorm:"not null" json:"year"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderType distinguishes generated group documents.
type OrderType string

const (
	OrderTypeContract OrderType = "contract"
	OrderTypeOrder    OrderType = "order"
)

func (t OrderType) Valid() bool {
	return t == OrderTypeContract || t == OrderTypeOrder
}

// OrderOrContract is a generated document attached to a group. FilePath is
// opaque: storing and serving the file is done elsewhere.
type OrderOrContract struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	GroupID     uint      `gorm:"not null;index" json:"group_id"`
	FileType    OrderType `gorm:"type:varchar(20);not null" json:"file_type"`
	FilePath    string    `gorm:"type:varchar(255);not null" json:"file_path"`
	GeneratedAt time.Time `gorm:"autoCreateTime" json:"generated_at"`

	Group Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for OrderOrContract
func (OrderOrContract) TableName() string {
	return "orders_and_contracts"
}
