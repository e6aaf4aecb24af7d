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
//   - 内容矩阵错误：EMPTY_CATALOG
//   - 相似度/快照错误：NOT_FOUND, STALE_STATE
//   - 画像错误：NO_USER_SIGNAL（可恢复，触发热门兜底）
type DomainError struct {
	Code    string // 错误代码（如 "EMPTY_CATALOG", "STALE_STATE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "feature", "similarity", "recommend"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError（支持 %w 包装链），如果不是则返回 nil
func GetDomainError(err error) *DomainError {
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
	ErrorCodeEmptyCatalog = "EMPTY_CATALOG"  // 过滤后无可用物品，矩阵构建失败
	ErrorCodeNotFound     = "NOT_FOUND"      // 资源不存在
	ErrorCodeNoUserSignal = "NO_USER_SIGNAL" // 用户无有效评分信号
	ErrorCodeStaleState   = "STALE_STATE"    // 快照未构建或已失效
	ErrorCodeInvalidInput = "INVALID_INPUT"  // 输入无效
)

// 模块名称常量
const (
	ModuleFeature    = "feature"    // 特征模块
	ModuleSimilarity = "similarity" // 相似度模块
	ModuleProfile    = "profile"    // 画像模块
	ModuleRecommend  = "recommend"  // 推荐模块
	ModuleStore      = "store"      // 存储模块
)

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsEmptyCatalog 检查错误是否为 EMPTY_CATALOG
func IsEmptyCatalog(err error) bool {
	return hasCode(err, ErrorCodeEmptyCatalog)
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound)
}

// IsNoUserSignal 检查错误是否为 NO_USER_SIGNAL
func IsNoUserSignal(err error) bool {
	return hasCode(err, ErrorCodeNoUserSignal)
}

// IsStaleState 检查错误是否为 STALE_STATE
func IsStaleState(err error) bool {
	return hasCode(err, ErrorCodeStaleState)
}
