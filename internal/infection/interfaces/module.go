package interfaces

import (
	"github.com/gin-gonic/gin"

	"Pandemic/internal/infection/entity"
	"Pandemic/internal/infection/interfaces/handler/http"
	transporthttp "Pandemic/internal/shared/transport/http"
	"Pandemic/modules/kit/logx"
)

type Module struct {
	httpHandler *http.HttpHandler
}

func New(engine http.Engine, graph *entity.WorldGraph, ids http.IDGenerator, log logx.Logger) *Module {
	return &Module{
		httpHandler: http.NewHttpHandler(engine, graph, ids, log),
	}
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

var _ transporthttp.Registrar = (*Module)(nil)
