package errors

// ========== 错误码常量定义 ==========

// CodeSuccess 成功码
const (
	CodeSuccess = 200
)

// HTTP层错误码 (400-599)
const (
	CodeInvalidParam = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeServerError  = 500
)

// 业务层错误码 (1000+)
// 前端按码区分登录失败的具体原因，HTTP状态仍按鉴权语义返回
const (
	CodeTokenInvalid    = 1001 // 令牌无效或已过期
	CodeAccountDisabled = 1002 // 账号被停用或锁定
	CodeCompanyDisabled = 1003 // 所属公司被停用
)
