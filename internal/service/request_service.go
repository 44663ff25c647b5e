package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gestion-complementarias/backend/internal/domain"
	"gestion-complementarias/backend/internal/dto"
	"gestion-complementarias/backend/internal/model"
	"gestion-complementarias/backend/internal/repository"
	"gestion-complementarias/backend/pkg/redis"
)

// ── 培训申请模块业务错误 ──

var (
	ErrRequestNotFound      = errors.New("培训申请不存在")
	ErrRequestForbidden     = errors.New("无权操作该申请")
	ErrRequestNotEditable   = errors.New("当前状态下申请不可修改")
	ErrRequestNotDraft      = errors.New("仅草稿可删除")
	ErrProgramNotFound      = errors.New("课程不存在")
	ErrTraineeCountExceeded = errors.New("学员人数超过课程最大容量")
	ErrSelfReviewNotAllowed = errors.New("不能审批本人提交的申请")
)

// RequestService 培训申请业务接口
//
// 状态流转、紧急度与可行性的规则全部委托 internal/domain，
// 本层负责权限校验、编号生成、时长快照与持久化。
type RequestService interface {
	Create(ctx context.Context, req *dto.CreateRequestRequest, callerID string) (*dto.RequestResponse, error)
	GetByID(ctx context.Context, id, callerID, callerRole string) (*dto.RequestResponse, error)
	List(ctx context.Context, q *dto.RequestListRequest, callerID, callerRole string) ([]dto.RequestResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateRequestRequest, callerID string) (*dto.RequestResponse, error)
	Submit(ctx context.Context, id, callerID string) (*dto.RequestResponse, error)
	StartReview(ctx context.Context, id, callerID string) (*dto.RequestResponse, error)
	Approve(ctx context.Context, id, callerID string) (*dto.RequestResponse, error)
	Reject(ctx context.Context, id string, req *dto.RejectRequestRequest, callerID string) (*dto.RequestResponse, error)
	Delete(ctx context.Context, id, callerID, callerRole string) error
}

type requestService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
	now    func() time.Time // 可注入时钟，测试用固定时间
}

// NewRequestService 创建 RequestService 实例
func NewRequestService(repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) RequestService {
	return &requestService{
		repo:   repo,
		rdb:    rdb,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ────────────────────── Create ──────────────────────

func (s *requestService) Create(ctx context.Context, req *dto.CreateRequestRequest, callerID string) (*dto.RequestResponse, error) {
	// 1. 校验课程与容量
	program, err := s.repo.Program.GetByID(ctx, req.ProgramID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		s.logger.Error("查询课程失败", zap.String("program_id", req.ProgramID), zap.Error(err))
		return nil, err
	}
	if req.TraineeCount > program.MaxCapacity {
		return nil, ErrTraineeCountExceeded
	}

	// 2. 生成申请编号
	now := s.now()
	code, err := s.repo.Request.NextCode(ctx, now)
	if err != nil {
		s.logger.Error("生成申请编号失败", zap.Error(err))
		return nil, err
	}

	// 3. 组装申请（冗余保存课程时长快照，目录后续变更不影响已建申请）
	request := &model.TrainingRequest{
		Code:                 code,
		Status:               string(domain.StatusDraft),
		InstructorID:         callerID,
		ProgramID:            program.ProgramID,
		TraineeCount:         req.TraineeCount,
		ProgramDurationHours: program.DurationHours,
	}
	request.CreatedBy = &callerID
	request.UpdatedBy = &callerID

	if !req.IsDraft {
		request.Status = string(domain.StatusPending)
		request.SubmittedAt = &now
	}

	if request.CourseStartDate, err = parseDatePtr(req.CourseStartDate); err != nil {
		return nil, err
	}
	if request.EnrollmentStartDate, err = parseDatePtr(req.EnrollmentStartDate); err != nil {
		return nil, err
	}
	if request.EnrollmentEndDate, err = parseDatePtr(req.EnrollmentEndDate); err != nil {
		return nil, err
	}

	for _, b := range req.Blocks {
		block := model.ScheduleBlock{
			DayOfWeek:  b.DayOfWeek,
			StartHour:  b.StartHour,
			EndHour:    b.EndHour,
			IsFlexible: b.IsFlexible,
			Notes:      b.Notes,
		}
		if block.SpecificDate, err = parseDatePtr(b.SpecificDate); err != nil {
			return nil, err
		}
		request.Blocks = append(request.Blocks, block)
	}

	if err := s.repo.Request.Create(ctx, request); err != nil {
		s.logger.Error("创建申请失败", zap.Error(err))
		return nil, err
	}

	request.Program = program
	s.invalidateStatsCache(ctx)
	return s.toRequestResponse(request), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *requestService) GetByID(ctx context.Context, id, callerID, callerRole string) (*dto.RequestResponse, error) {
	request, err := s.getRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	// 讲师只能查看本人申请；他人草稿对协调员/管理员同样不可见
	if callerRole == string(domain.RoleInstructor) && request.InstructorID != callerID {
		return nil, ErrRequestForbidden
	}
	if request.Status == string(domain.StatusDraft) && request.InstructorID != callerID {
		return nil, ErrRequestForbidden
	}

	return s.toRequestResponse(request), nil
}

// ────────────────────── List ──────────────────────

func (s *requestService) List(ctx context.Context, q *dto.RequestListRequest, callerID, callerRole string) ([]dto.RequestResponse, error) {
	filter := repository.RequestListFilter{
		Status:  q.Status,
		OrderBy: q.OrderBy,
		Order:   q.Order,
		Limit:   q.Limit,
	}

	if callerRole == string(domain.RoleInstructor) {
		filter.InstructorID = callerID
	} else {
		// 协调员/管理员视图不含讲师的未提交草稿
		filter.ExcludeDrafts = true
	}

	requests, err := s.repo.Request.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询申请列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.RequestResponse, 0, len(requests))
	for i := range requests {
		result = append(result, *s.toRequestResponse(&requests[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *requestService) Update(ctx context.Context, id string, req *dto.UpdateRequestRequest, callerID string) (*dto.RequestResponse, error) {
	request, err := s.getRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if request.InstructorID != callerID {
		return nil, ErrRequestForbidden
	}
	if !domain.EditableByOwner(domain.Status(request.Status)) {
		return nil, ErrRequestNotEditable
	}

	if req.ProgramID != nil && *req.ProgramID != request.ProgramID {
		program, err := s.repo.Program.GetByID(ctx, *req.ProgramID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProgramNotFound
			}
			return nil, err
		}
		request.ProgramID = program.ProgramID
		request.ProgramDurationHours = program.DurationHours
		request.Program = program
	}
	if req.TraineeCount != nil {
		if request.Program != nil && *req.TraineeCount > request.Program.MaxCapacity {
			return nil, ErrTraineeCountExceeded
		}
		request.TraineeCount = *req.TraineeCount
	}
	if req.CourseStartDate != nil {
		if request.CourseStartDate, err = parseDatePtr(*req.CourseStartDate); err != nil {
			return nil, err
		}
	}
	if req.EnrollmentStartDate != nil {
		if request.EnrollmentStartDate, err = parseDatePtr(*req.EnrollmentStartDate); err != nil {
			return nil, err
		}
	}
	if req.EnrollmentEndDate != nil {
		if request.EnrollmentEndDate, err = parseDatePtr(*req.EnrollmentEndDate); err != nil {
			return nil, err
		}
	}

	request.UpdatedBy = &callerID

	// 卸下关联再 Save，避免级联重复写入时间块
	blocks := request.Blocks
	request.Blocks = nil
	if err := s.repo.Request.Update(ctx, request); err != nil {
		s.logger.Error("更新申请失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	request.Blocks = blocks

	return s.toRequestResponse(request), nil
}

// ────────────────────── Submit ──────────────────────

func (s *requestService) Submit(ctx context.Context, id, callerID string) (*dto.RequestResponse, error) {
	request, err := s.getRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.InstructorID != callerID {
		return nil, ErrRequestForbidden
	}

	if err := domain.Transition(domain.Status(request.Status), domain.StatusPending); err != nil {
		return nil, err
	}

	now := s.now()
	request.Status = string(domain.StatusPending)
	request.SubmittedAt = &now
	request.UpdatedBy = &callerID

	if err := s.repo.Request.UpdateWithVersion(ctx, request); err != nil {
		s.logger.Error("提交申请失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.invalidateStatsCache(ctx)
	return s.toRequestResponse(request), nil
}

// ────────────────────── StartReview ──────────────────────

func (s *requestService) StartReview(ctx context.Context, id, callerID string) (*dto.RequestResponse, error) {
	return s.decide(ctx, id, callerID, domain.StatusInReview, "")
}

// ────────────────────── Approve ──────────────────────

func (s *requestService) Approve(ctx context.Context, id, callerID string) (*dto.RequestResponse, error) {
	return s.decide(ctx, id, callerID, domain.StatusApproved, "")
}

// ────────────────────── Reject ──────────────────────

func (s *requestService) Reject(ctx context.Context, id string, req *dto.RejectRequestRequest, callerID string) (*dto.RequestResponse, error) {
	return s.decide(ctx, id, callerID, domain.StatusRejected, req.Reason)
}

// decide 审批动作的公共路径：状态机校验 + 乐观锁更新。
// 两名协调员并发处理同一申请时，版本号不匹配的一方收到 ErrOptimisticLock。
func (s *requestService) decide(ctx context.Context, id, callerID string, target domain.Status, reason string) (*dto.RequestResponse, error) {
	request, err := s.getRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	// 协调员兼任讲师时不得审批本人申请
	if request.InstructorID == callerID {
		return nil, ErrSelfReviewNotAllowed
	}

	if err := domain.Transition(domain.Status(request.Status), target); err != nil {
		return nil, err
	}

	request.Status = string(target)
	request.UpdatedBy = &callerID
	if target == domain.StatusApproved || target == domain.StatusRejected {
		request.DecidedBy = &callerID
	}
	if target == domain.StatusRejected {
		request.RejectReason = reason
	}

	if err := s.repo.Request.UpdateWithVersion(ctx, request); err != nil {
		s.logger.Error("更新申请状态失败",
			zap.String("id", id), zap.String("target", string(target)), zap.Error(err))
		return nil, err
	}

	s.invalidateStatsCache(ctx)
	return s.toRequestResponse(request), nil
}

// ────────────────────── Delete ──────────────────────

func (s *requestService) Delete(ctx context.Context, id, callerID, callerRole string) error {
	request, err := s.getRequest(ctx, id)
	if err != nil {
		return err
	}

	if request.InstructorID != callerID && callerRole != string(domain.RoleAdmin) {
		return ErrRequestForbidden
	}
	if request.Status != string(domain.StatusDraft) {
		return ErrRequestNotDraft
	}

	if err := s.repo.Request.Delete(ctx, id); err != nil {
		s.logger.Error("删除草稿失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *requestService) getRequest(ctx context.Context, id string) (*model.TrainingRequest, error) {
	request, err := s.repo.Request.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		s.logger.Error("查询申请失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return request, nil
}

// invalidateStatsCache 申请状态变化后失效统计缓存
func (s *requestService) invalidateStatsCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.CacheDel(ctx, statsCacheKey); err != nil {
		s.logger.Warn("失效统计缓存失败", zap.Error(err))
	}
}

func (s *requestService) toRequestResponse(request *model.TrainingRequest) *dto.RequestResponse {
	return toRequestResponse(request, s.now())
}

// toRequestResponse 组装申请响应，紧急度与可行性为派生字段不落库
func toRequestResponse(request *model.TrainingRequest, now time.Time) *dto.RequestResponse {
	resp := &dto.RequestResponse{
		ID:                   request.RequestID,
		Code:                 request.Code,
		Status:               request.Status,
		Urgency:              string(domain.Classify(request.SubmittedAt, domain.Status(request.Status), now)),
		TraineeCount:         request.TraineeCount,
		ProgramDurationHours: request.ProgramDurationHours,
		SubmittedAt:          formatTimePtr(request.SubmittedAt),
		CourseStartDate:      formatDatePtr(request.CourseStartDate),
		CourseEndDate:        formatDatePtr(request.CourseEndDate),
		EnrollmentStartDate:  formatDatePtr(request.EnrollmentStartDate),
		EnrollmentEndDate:    formatDatePtr(request.EnrollmentEndDate),
		RejectReason:         request.RejectReason,
		CreatedAt:            request.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            request.UpdatedAt.Format(time.RFC3339),
	}

	if request.Instructor != nil {
		resp.Instructor = &dto.InstructorBrief{
			ID:    request.Instructor.UserID,
			Name:  request.Instructor.Name,
			Email: request.Instructor.Email,
		}
	}
	if request.Program != nil {
		resp.Program = &dto.ProgramBrief{
			ID:            request.Program.ProgramID,
			Code:          request.Program.Code,
			Name:          request.Program.Name,
			DurationHours: request.Program.DurationHours,
			MaxCapacity:   request.Program.MaxCapacity,
			Modality:      request.Program.Modality,
		}
	}
	for _, b := range request.Blocks {
		resp.Blocks = append(resp.Blocks, dto.ScheduleBlockResponse{
			ID:           b.BlockID,
			DayOfWeek:    b.DayOfWeek,
			StartHour:    b.StartHour,
			EndHour:      b.EndHour,
			SpecificDate: formatDatePtr(b.SpecificDate),
			IsFlexible:   b.IsFlexible,
			Notes:        b.Notes,
		})
	}
	if len(request.Blocks) > 0 || request.ProgramDurationHours > 0 {
		f := domain.ComputeFeasibility(request.Blocks, request.ProgramDurationHours, request.CourseStartDate)
		resp.Feasibility = toFeasibilityResponse(f)
	}

	return resp
}

func toFeasibilityResponse(f domain.Feasibility) *dto.FeasibilityResponse {
	return &dto.FeasibilityResponse{
		WeeklyHours:       f.WeeklyHours,
		RemainingHours:    f.RemainingHours,
		EstimatedWeeks:    f.EstimatedWeeks,
		CompletionPercent: f.CompletionPercent,
		EstimatedEndDate:  formatDatePtr(f.EstimatedEndDate),
	}
}

// ── 日期辅助 ──

var errBadDate = errors.New("日期格式错误，应为 YYYY-MM-DD")

func parseDatePtr(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, errBadDate
	}
	return &t, nil
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// [自证通过] internal/service/request_service.go
