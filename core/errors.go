package core

// DomainError 是领域层的统一错误类型。
//
// 错误设计（对应引擎的错误分类）：
//   - NotFound：用户 ID 无法解析 → 透传给调用方，绝不降级成空用户
//   - EmptyInput：空 Timeline / 空人群 → 本地处理，返回零值结果，不是错误
//   - DanglingReference：Timeline 引用的目录物品不存在 → 静默丢弃，
//     丢弃数量通过请求级 label 暴露给调用方，不致命
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "engine"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 服务不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleStore   = "store"   // 存储模块
	ModuleProfile = "profile" // 偏好/画像模块
	ModuleEngine  = "engine"  // 引擎门面
)

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED。
func IsNotSupported(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotSupported
	}
	return false
}
