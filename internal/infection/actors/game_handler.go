package actors

import (
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"Pandemic/internal/infection/app/port"
	"Pandemic/internal/infection/entity"
	"Pandemic/internal/infection/service"
	"Pandemic/internal/shared/actor/messages"
	"Pandemic/modules/kit/errx"
	"Pandemic/modules/kit/logx"
	"Pandemic/modules/kit/tracex"
)

type GameHandler struct{}

var GH = &GameHandler{}

func (h *GameHandler) HandlePlaceInfection(ctx actor.Context, g *GameActor, req *messages.HGPlaceInfection) {
	if req == nil {
		ctx.Respond(fail(errx.ErrReqParamERR.WithData("reason", "nil req")))
		return
	}
	lctx := logContext(req)
	log := g.log.WithContext(lctx)

	cascade, err := g.service.PlaceInfection(g.entity, service.PlaceRequest{
		City:     entity.CityID(req.City),
		Color:    entity.Color(req.Color),
		Quantity: req.Quantity,
	})
	if err != nil {
		if cascade != nil && len(cascade.Placements) > 0 {
			// 连锁中途失败，已写入的部分保留，照常记日志
			h.journal(g, req, cascade, log)
			logx.ReportSysErrorWithLoggerContext(lctx, g.log, logx.NewSysLog("infection.place.partial", err),
				zap.Int("placements", len(cascade.Placements)))
		}
		ctx.Respond(fail(err))
		return
	}

	if cascade.OutbreaksAdded() > 0 {
		log.Info("outbreak cascade",
			zap.String("city", string(cascade.Origin)),
			zap.String("color", string(cascade.Color)),
			zap.Int("quantity", cascade.Quantity),
			zap.Strings("sources", cityStrings(cascade.Sources)),
			zap.Int("outbreaks_nr", g.entity.OutbreaksNr()),
		)
	} else {
		log.Debug("infection placed",
			zap.String("city", string(cascade.Origin)),
			zap.String("color", string(cascade.Color)),
			zap.Int("quantity", cascade.Quantity),
		)
	}
	h.journal(g, req, cascade, log)
	ctx.Respond(ok(toPlaceInfectionView(g.entity, cascade)))
}

func (h *GameHandler) HandleGameState(ctx actor.Context, g *GameActor, req *messages.HGGameState) {
	if req == nil {
		ctx.Respond(fail(errx.ErrReqParamERR.WithData("reason", "nil req")))
		return
	}
	ctx.Respond(ok(toGameStateView(g.entity)))
}

func (h *GameHandler) journal(g *GameActor, req *messages.HGPlaceInfection, cascade *service.Cascade, log logx.Logger) {
	entry := port.JournalEntry{
		At:          time.Now(),
		TraceID:     req.TraceID(),
		GameID:      int64(g.gameID),
		City:        string(cascade.Origin),
		Color:       string(cascade.Color),
		Quantity:    cascade.Quantity,
		Sources:     cityStrings(cascade.Sources),
		OutbreaksNr: g.entity.OutbreaksNr(),
		Placements:  make([]port.JournalPlacement, 0, len(cascade.Placements)),
	}
	for _, p := range cascade.Placements {
		entry.Placements = append(entry.Placements, port.JournalPlacement{
			City:        string(p.City),
			Color:       string(p.Color),
			Requested:   p.Requested,
			BeforeTotal: p.BeforeTotal,
			Stored:      p.Stored,
			Outbreak:    p.Outbreak,
		})
	}
	if err := g.journal.Append(entry); err != nil {
		log.Warn("cascade journal append failed", zap.Error(err))
	}
}

// logContext 只带 trace_id，game_id 已经在 GameActor 的 logger 上。
func logContext(req messages.GameMessage) context.Context {
	ctx := context.Background()
	if traceID := req.TraceID(); traceID != "" {
		ctx = tracex.WithTraceID(ctx, traceID)
	}
	return ctx
}

func toPlaceInfectionView(g *entity.Game, c *service.Cascade) *messages.GHPlaceInfection {
	out := &messages.GHPlaceInfection{
		GameId:         int64(g.ID()),
		City:           string(c.Origin),
		Color:          string(c.Color),
		Quantity:       c.Quantity,
		OutbreaksNr:    g.OutbreaksNr(),
		OutbreaksAdded: c.OutbreaksAdded(),
		Sources:        cityStrings(c.Sources),
		Placements:     make([]messages.PlacementView, 0, len(c.Placements)),
	}
	for _, p := range c.Placements {
		out.Placements = append(out.Placements, messages.PlacementView{
			City:        string(p.City),
			Color:       string(p.Color),
			Requested:   p.Requested,
			BeforeTotal: p.BeforeTotal,
			Stored:      p.Stored,
			Outbreak:    p.Outbreak,
		})
	}
	return out
}

// toGameStateView 只输出数量大于 0 的记录。
func toGameStateView(g *entity.Game) *messages.GHGameState {
	records := g.Ledger().Records()
	out := &messages.GHGameState{
		GameId:      int64(g.ID()),
		OutbreaksNr: g.OutbreaksNr(),
		Infections:  make([]messages.InfectionView, 0, len(records)),
	}
	for _, r := range records {
		if r.Quantity == 0 {
			continue
		}
		out.Infections = append(out.Infections, messages.InfectionView{
			City:     string(r.City),
			Color:    string(r.Color),
			Quantity: r.Quantity,
		})
	}
	return out
}

func cityStrings(ids []entity.CityID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}
