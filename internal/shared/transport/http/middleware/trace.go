package middleware

import (
	"github.com/gin-gonic/gin"

	"Pandemic/modules/kit/tracex"
)

const TraceHeader = "X-Trace-Id"

// Trace 读取请求头里的 trace id，没有就生成一个，并写回响应头。
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceHeader)
		if traceID == "" || len(traceID) > 64 {
			traceID = tracex.NewTraceID()
		}
		c.Request = c.Request.WithContext(tracex.WithTraceID(c.Request.Context(), traceID))
		c.Header(TraceHeader, traceID)
		c.Next()
	}
}
