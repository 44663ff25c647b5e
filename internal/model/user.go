package model

// User 用户表 — 对应 users
type User struct {
	UserID             string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name               string `gorm:"type:varchar(100);not null"                     json:"name"`
	Document           string `gorm:"type:varchar(20);not null"                      json:"document"`
	Email              string `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash       string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role               string `gorm:"type:varchar(20);not null;default:'instructor'" json:"role"` // instructor | coordinator | admin
	CenterID           string `gorm:"type:uuid;not null"                             json:"center_id"`
	IsActive           bool   `gorm:"not null;default:true"                          json:"is_active"`
	MustChangePassword bool   `gorm:"not null;default:false"                         json:"must_change_password"`
	VersionedModel

	// 关联
	Center *TrainingCenter `gorm:"foreignKey:CenterID;references:CenterID" json:"center,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
