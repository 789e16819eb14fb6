package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"Pandemic/internal/shared/transport"
	"Pandemic/modules/kit/logx"
)

// 只需要响应体开头的 {"code":...}，超出部分不缓存。
const maxCapturedBody = 4 << 10

var skipAccessLog = map[string]struct{}{
	"/healthz": {},
}

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) Write(data []byte) (int, error) {
	if room := maxCapturedBody - w.body.Len(); room > 0 {
		_, _ = w.body.Write(data[:min(room, len(data))])
	}
	return w.ResponseWriter.Write(data)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	if room := maxCapturedBody - w.body.Len(); room > 0 {
		_, _ = w.body.WriteString(s[:min(room, len(s))])
	}
	return w.ResponseWriter.WriteString(s)
}

// AccessLog 每个请求一条访问日志：路由、对局 id、业务码、耗时。
// 业务码取响应体里的 code 字段，解析不出来时按 HTTP 状态兜底。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		if _, skip := skipAccessLog[route]; skip {
			c.Next()
			return
		}

		ctx := transport.NewContextWithParent(c.Request.Context(), c.Request.Method+" "+route)
		if id, err := strconv.ParseInt(c.Param("id"), 10, 64); err == nil && strings.HasPrefix(route, "/games/") {
			transport.SetGameID(ctx, id)
		}
		c.Request = c.Request.WithContext(ctx)

		bw := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = bw

		c.Next()

		transport.SetBizCode(ctx, resolveBizCode(bw.body.Bytes(), bw.Status()))
		transport.WriteAccessLog(ctx, log)
	}
}

func resolveBizCode(body []byte, status int) transport.BizCode {
	if code, ok := parseBizCode(body); ok {
		return transport.BizCode(code)
	}
	if status >= http.StatusBadRequest {
		return transport.BizCode(transport.SystemError)
	}
	return transport.BizCode(transport.OK)
}

func parseBizCode(body []byte) (int, bool) {
	if len(body) == 0 {
		return 0, false
	}
	var payload struct {
		Code *int `json:"code"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Code == nil {
		return 0, false
	}
	return *payload.Code, true
}
