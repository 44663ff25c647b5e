package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
// 两名协调员并发审批同一申请时，后提交者收到此错误（HTTP 409）
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")
