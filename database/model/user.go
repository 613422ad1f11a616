package model

// User is an authenticated panel account. Only the bcrypt hash is stored.
type User struct {
	Id           int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`
}
