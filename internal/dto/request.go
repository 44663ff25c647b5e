package dto

// ── 培训申请模块 DTO ──

// ScheduleBlockInput 时间块输入
// end_hour 必须大于 start_hour（gtefield 校验）
type ScheduleBlockInput struct {
	DayOfWeek    int    `json:"day_of_week"   binding:"required,min=1,max=7"`
	StartHour    int    `json:"start_hour"    binding:"required,min=6,max=21"`
	EndHour      int    `json:"end_hour"      binding:"required,min=7,max=22,gtfield=StartHour"`
	SpecificDate string `json:"specific_date" binding:"omitempty,datetime=2006-01-02"`
	IsFlexible   bool   `json:"is_flexible"`
	Notes        string `json:"notes"         binding:"omitempty,max=500"`
}

// CreateRequestRequest 创建培训申请请求
// is_draft=true 保存草稿，否则直接提交进入 PENDING
type CreateRequestRequest struct {
	ProgramID           string               `json:"program_id"            binding:"required,uuid"`
	TraineeCount        int                  `json:"trainee_count"         binding:"required,min=1"`
	CourseStartDate     string               `json:"course_start_date"     binding:"omitempty,datetime=2006-01-02"`
	EnrollmentStartDate string               `json:"enrollment_start_date" binding:"omitempty,datetime=2006-01-02"`
	EnrollmentEndDate   string               `json:"enrollment_end_date"   binding:"omitempty,datetime=2006-01-02"`
	IsDraft             bool                 `json:"is_draft"`
	Blocks              []ScheduleBlockInput `json:"blocks"                binding:"omitempty,dive"`
}

// UpdateRequestRequest 更新培训申请请求（仅 DRAFT/PENDING 可改）
type UpdateRequestRequest struct {
	ProgramID           *string `json:"program_id"            binding:"omitempty,uuid"`
	TraineeCount        *int    `json:"trainee_count"         binding:"omitempty,min=1"`
	CourseStartDate     *string `json:"course_start_date"     binding:"omitempty,datetime=2006-01-02"`
	EnrollmentStartDate *string `json:"enrollment_start_date" binding:"omitempty,datetime=2006-01-02"`
	EnrollmentEndDate   *string `json:"enrollment_end_date"   binding:"omitempty,datetime=2006-01-02"`
}

// RequestListRequest 申请列表查询参数
// 与前端调用约定一致：limit + orderBy + order
type RequestListRequest struct {
	Limit   int    `form:"limit"   binding:"omitempty,min=1,max=200"`
	OrderBy string `form:"orderBy" binding:"omitempty,oneof=created_at updated_at submitted_at code status"`
	Order   string `form:"order"   binding:"omitempty,oneof=asc desc"`
	Status  string `form:"status"  binding:"omitempty,oneof=DRAFT PENDING IN_REVIEW APPROVED REJECTED"`
}

// RejectRequestRequest 驳回申请请求
type RejectRequestRequest struct {
	Reason string `json:"reason" binding:"required,min=5,max=500"`
}

// ReplaceScheduleRequest 整体替换时间块请求
type ReplaceScheduleRequest struct {
	Blocks []ScheduleBlockInput `json:"blocks" binding:"required,dive"`
}

// ApplyTemplateRequest 应用命名排期模板请求
type ApplyTemplateRequest struct {
	Template  string `json:"template"   binding:"required"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
}

// AutoScheduleRequest 自动排期请求
// start_date 省略时沿用申请已有的课程开始日期
type AutoScheduleRequest struct {
	StartDate string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
}

// ── 响应 ──

// FeasibilityResponse 排期可行性响应
type FeasibilityResponse struct {
	WeeklyHours       int     `json:"weekly_hours"`
	RemainingHours    int     `json:"remaining_hours"`
	EstimatedWeeks    int     `json:"estimated_weeks"`
	CompletionPercent float64 `json:"completion_percent"`
	EstimatedEndDate  *string `json:"estimated_end_date,omitempty"`
}

// ScheduleBlockResponse 时间块响应
type ScheduleBlockResponse struct {
	ID           string  `json:"id"`
	DayOfWeek    int     `json:"day_of_week"`
	StartHour    int     `json:"start_hour"`
	EndHour      int     `json:"end_hour"`
	SpecificDate *string `json:"specific_date,omitempty"`
	IsFlexible   bool    `json:"is_flexible"`
	Notes        string  `json:"notes,omitempty"`
}

// ProgramBrief 课程简要信息
type ProgramBrief struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	DurationHours int    `json:"duration_hours"`
	MaxCapacity   int    `json:"max_capacity"`
	Modality      string `json:"modality"`
}

// InstructorBrief 讲师简要信息
type InstructorBrief struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RequestResponse 培训申请响应
type RequestResponse struct {
	ID                   string                  `json:"id"`
	Code                 string                  `json:"code"`
	Status               string                  `json:"status"`
	Urgency              string                  `json:"urgency"`
	Instructor           *InstructorBrief        `json:"instructor,omitempty"`
	Program              *ProgramBrief           `json:"program,omitempty"`
	TraineeCount         int                     `json:"trainee_count"`
	ProgramDurationHours int                     `json:"program_duration_hours"`
	SubmittedAt          *string                 `json:"submitted_at,omitempty"`
	CourseStartDate      *string                 `json:"course_start_date,omitempty"`
	CourseEndDate        *string                 `json:"course_end_date,omitempty"`
	EnrollmentStartDate  *string                 `json:"enrollment_start_date,omitempty"`
	EnrollmentEndDate    *string                 `json:"enrollment_end_date,omitempty"`
	RejectReason         string                  `json:"reject_reason,omitempty"`
	Blocks               []ScheduleBlockResponse `json:"blocks,omitempty"`
	Feasibility          *FeasibilityResponse    `json:"feasibility,omitempty"`
	CreatedAt            string                  `json:"created_at"`
	UpdatedAt            string                  `json:"updated_at"`
}

// [自证通过] internal/dto/request.go
