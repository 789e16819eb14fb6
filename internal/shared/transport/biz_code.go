package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 响应体 {"code": ...} 里的业务码。0 成功，1~499 调用方错误，>=500 服务端错误。
const (
	OK              = 0
	InvalidParam    = 1
	CityNotFound    = 10
	InvalidQuantity = 11
	InvalidColor    = 12
	InvalidGameID   = 13
	SystemError     = 500
	Unavailable     = 503
	Timeout         = 504
)
