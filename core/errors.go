package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
//   - 快照错误：EMPTY_CORPUS
//   - 引擎错误：NOT_FOUND, COLD_START
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "EMPTY_CORPUS"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "snapshot", "engine"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。支持 errors.As 解包。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound     = "NOT_FOUND"     // 实体不存在且无可用回退
	ErrorCodeEmptyCorpus  = "EMPTY_CORPUS"  // 快照中无评分/无书目，服务降级
	ErrorCodeColdStart    = "COLD_START"    // 实体已知但数据不足，触发回退（非硬错误）
	ErrorCodeNotSupported = "NOT_SUPPORTED" // 操作不支持
	ErrorCodeInvalidInput = "INVALID_INPUT" // 输入无效
)

// 模块名称常量
const (
	ModuleStore    = "store"
	ModuleSnapshot = "snapshot"
	ModuleEngine   = "engine"
	ModuleConfig   = "config"
)

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsEmptyCorpus 检查错误是否为 EMPTY_CORPUS
func IsEmptyCorpus(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeEmptyCorpus
	}
	return false
}

// IsColdStart 检查错误是否为 COLD_START。
// 冷启动不应透传给调用方：引擎捕获后改走回退并打 fallback/partial 标记。
func IsColdStart(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeColdStart
	}
	return false
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotSupported
	}
	return false
}

// ErrStoreNotFound 是 Store 层 key 不存在的哨兵错误。
var ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

// IsStoreNotFound 检查错误是否为 Store 层的 NOT_FOUND。
func IsStoreNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrStoreNotFound) {
		return true
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Module == ModuleStore && domainErr.Code == ErrorCodeNotFound
	}
	return false
}
