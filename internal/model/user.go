package model

// swagger:model User
type User struct {
	BaseModel
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:100;unique;not null" json:"email"`
	Password string `gorm:"size:100;not null" json:"-"`
	Avatar   string `gorm:"size:255" json:"avatar"`
}

func (User) TableName() string {
	return "users"
}
