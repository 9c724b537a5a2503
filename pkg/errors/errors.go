package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：条目已被其他操作修改
// 并发"校验-写入"中后到者收到此错误，由调用方刷新快照后重试
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")
