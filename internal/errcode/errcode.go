package errcode

// 错误码约定：
// - 0：无错误
// - 4xxx：业务可恢复/告警类错误（例如限流，稍后重试即可）
// - 5xxx：系统错误（需要中断流程）
const (
	OK               = 0
	RateLimited      = 4029
	SystemError      = 5000
	GenerationFailed = 5001
)
