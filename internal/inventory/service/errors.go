package service

import "errors"

// 引擎错误分类：校验类错误快速失败且不产生部分写入；
// 数据稀疏（no_data / insufficient_data）是结果字段，不是错误。
var (
	// ErrNotFound 盘点单、商品或建议不存在
	ErrNotFound = errors.New("record not found")

	// ErrInvalidState 当前状态不允许该操作（如对账未提交的盘点单）
	ErrInvalidState = errors.New("invalid state for operation")

	// ErrConfiguration 配置非法（如 warning ≥ critical），在计算前拒绝
	ErrConfiguration = errors.New("invalid configuration")
)
