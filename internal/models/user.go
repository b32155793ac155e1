package models

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Name         string   `gorm:"not null" json:"name"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'general'" json:"role"`

	// Язык гостя (ISO 639-1 в верхнем регистре, напр. "EN", "KO").
	// Определяет направление перевода сообщений чата.
	Language    string `gorm:"type:varchar(10);default:'KO'" json:"language"`
	Nationality string `json:"nationality,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`

	EmailVerified bool   `gorm:"default:false" json:"email_verified"`
	EmailCode     string `gorm:"type:varchar(6)" json:"-"`

	// Relations
	ManagedProperties []Property `gorm:"many2many:property_managers;" json:"-"`
	CheckIns          []CheckIn  `gorm:"foreignKey:UserID" json:"-"`
}
