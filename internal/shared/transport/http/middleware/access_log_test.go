package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"Pandemic/modules/kit/logx"
)

func newEngine(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	e := gin.New()
	e.Use(Trace(), AccessLog(logx.NewZapLogger(zap.New(core))))
	e.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	e.GET("/games/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": 10, "msg": "city not found"})
	})
	e.GET("/world/cities/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	return e, logs
}

func TestAccessLog_业务码和对局id(t *testing.T) {
	e, logs := newEngine(t)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/games/77", nil))

	entries := logs.FilterMessage("access").All()
	if len(entries) != 1 {
		t.Fatalf("期望 1 条 access 日志, got=%d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["biz_code"] != int64(10) || fields["game_id"] != int64(77) {
		t.Fatalf("期望 biz_code=10 game_id=77, got=%v", fields)
	}
	if fields["action"] != "GET /games/:id" {
		t.Fatalf("期望 action 用路由模板, got=%v", fields["action"])
	}
}

func TestAccessLog_状态码兜底且城市id不当对局id(t *testing.T) {
	e, logs := newEngine(t)
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/world/cities/1", nil))

	entries := logs.FilterMessage("access").All()
	if len(entries) != 1 {
		t.Fatalf("期望 1 条 access 日志, got=%d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["biz_code"] != int64(500) {
		t.Fatalf("期望 4xx 兜底成 500, got=%v", fields["biz_code"])
	}
	if _, ok := fields["game_id"]; ok {
		t.Fatalf("城市接口不应该带 game_id")
	}
}

func TestAccessLog_跳过健康检查(t *testing.T) {
	e, logs := newEngine(t)
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if logs.Len() != 0 {
		t.Fatalf("healthz 不应该写 access 日志, got=%d", logs.Len())
	}
}
