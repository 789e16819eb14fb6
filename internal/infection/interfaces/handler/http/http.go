package http

import (
	"context"
	nethttp "net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"Pandemic/internal/infection/entity"
	"Pandemic/internal/infection/interfaces/handler"
	"Pandemic/internal/infection/interfaces/handler/http/dto"
	"Pandemic/internal/shared/actor/messages"
	"Pandemic/internal/shared/transport"
	"Pandemic/modules/kit/logx"
	"Pandemic/modules/kit/tracex"
)

// Engine 是 actor.Runtime 对 HTTP 层暴露的能力。
type Engine interface {
	PlaceInfection(ctx context.Context, req *messages.HGPlaceInfection) (*messages.GHPlaceInfection, error)
	GameState(ctx context.Context, gameID int64) (*messages.GHGameState, error)
}

// IDGenerator 分配新的对局 id（snowflake）。
type IDGenerator interface {
	NextID() int64
}

type HttpHandler struct {
	engine Engine
	graph  *entity.WorldGraph
	ids    IDGenerator
	log    logx.Logger
}

func NewHttpHandler(engine Engine, graph *entity.WorldGraph, ids IDGenerator, log logx.Logger) *HttpHandler {
	if log == nil {
		log = logx.Nop()
	}
	return &HttpHandler{engine: engine, graph: graph, ids: ids, log: log}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	games := group.Group("/games")
	games.POST("", h.CreateGame)
	games.GET("/:id", h.GameState)
	games.POST("/:id/infections", h.PlaceInfection)

	world := group.Group("/world")
	world.GET("/cities/:id", h.City)
}

func (h *HttpHandler) CreateGame(c *gin.Context) {
	ctx := c.Request.Context()

	gameID := h.ids.NextID()
	ctx = tracex.WithGameID(ctx, gameID)
	transport.SetGameID(ctx, gameID)

	// 拉起 GameActor，仓储里没有时得到一局空对局
	if _, err := h.engine.GameState(ctx, gameID); err != nil {
		h.error(ctx, c, "infection.game.create", err)
		return
	}
	h.ok(c, dto.CreateGameResp{GameID: gameID})
}

func (h *HttpHandler) GameState(c *gin.Context) {
	ctx := c.Request.Context()

	gameID, ok := h.gameID(c)
	if !ok {
		return
	}
	ctx = tracex.WithGameID(ctx, gameID)

	state, err := h.engine.GameState(ctx, gameID)
	if err != nil {
		h.error(ctx, c, "infection.game.state", err)
		return
	}
	h.ok(c, state)
}

func (h *HttpHandler) PlaceInfection(c *gin.Context) {
	ctx := c.Request.Context()

	gameID, ok := h.gameID(c)
	if !ok {
		return
	}
	ctx = tracex.WithGameID(ctx, gameID)

	var req dto.PlaceInfectionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}

	res, err := h.engine.PlaceInfection(ctx, &messages.HGPlaceInfection{
		GameBaseMessage: messages.GameBaseMessage{GameId: gameID},
		City:            req.City,
		Color:           req.Color,
		Quantity:        *req.Quantity,
	})
	if err != nil {
		h.error(ctx, c, "infection.place", err)
		return
	}
	h.ok(c, res)
}

func (h *HttpHandler) City(c *gin.Context) {
	city, ok := h.graph.City(entity.CityID(c.Param("id")))
	if !ok {
		h.fail(c, transport.CityNotFound, "城市不存在")
		return
	}
	neighbors := make([]string, 0, len(city.Neighbors))
	for _, n := range city.Neighbors {
		neighbors = append(neighbors, string(n))
	}
	h.ok(c, dto.CityResp{
		ID:        string(city.ID),
		Name:      city.Name,
		Color:     string(city.Color),
		Neighbors: neighbors,
	})
}

func (h *HttpHandler) gameID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.fail(c, transport.InvalidGameID, "非法的对局 id")
		return 0, false
	}
	transport.SetGameID(c.Request.Context(), id)
	return id, true
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, dto.Success(transport.OK, data))
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	c.JSON(nethttp.StatusOK, dto.Error(code, msg))
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, action string, err error) {
	code, msg := handler.HandleError(ctx, h.log, action, err)
	h.fail(c, code, msg)
}
