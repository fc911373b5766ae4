package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 错误在各组件的公共边界被吞掉：记日志后降级为空结果/默认值，
// 引擎上游不需要处理本引擎的异常（见各组件契约）。
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "UNAVAILABLE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "profile", "talent"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
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
	ErrorCodeNotFound           = "NOT_FOUND"           // 资源不存在
	ErrorCodeUnavailable        = "UNAVAILABLE"         // 上游存储不可用
	ErrorCodeInvalidInput       = "INVALID_INPUT"       // 输入无效
	ErrorCodeInsufficientSample = "INSUFFICIENT_SAMPLE" // 样本量不足（区别于错误）
	ErrorCodeInternalError      = "INTERNAL_ERROR"      // 内部计算错误
)

// 模块名称常量
const (
	ModuleStore   = "store"   // 存储模块
	ModuleProfile = "profile" // 画像模块
	ModuleRecall  = "recall"  // 候选召回模块
	ModuleCluster = "cluster" // 听众分群模块
	ModuleAnomaly = "anomaly" // 流完整性模块
	ModuleTalent  = "talent"  // 艺人潜力模块
	ModuleFeature = "feature" // 行为特征模块
)

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnavailable
	}
	return false
}
