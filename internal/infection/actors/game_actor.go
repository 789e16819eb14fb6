package actors

import (
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"Pandemic/internal/infection/app/port"
	"Pandemic/internal/infection/dc"
	"Pandemic/internal/infection/entity"
	"Pandemic/internal/infection/service"
	"Pandemic/internal/shared/actor/messages"
	"Pandemic/modules/kit/errx"
	"Pandemic/modules/kit/logx"
)

type State int

const (
	None State = iota
	Init
	Online
	Offline
	Stopping
)

// GameActor 独占一局的可变状态，所有 PlaceInfection 在这里串行执行。
type GameActor struct {
	state      State
	gameID     GameID
	dc         *dc.GameDC
	entity     *entity.Game
	service    *service.InfectionService
	journal    port.CascadeJournal
	log        logx.Logger
	dispatcher *Dispatcher
	flushStop  chan struct{}
	loadErr    error
}

type flushTick struct{}

// gameLoadFailed 通知 ManagerActor 摘掉加载失败的子 actor。
type gameLoadFailed struct {
	gameID GameID
	pid    *actor.PID
}

func (flushTick) NotInfluenceReceiveTimeout() {}

func NewGameActor(gameID GameID, deps Deps) *GameActor {
	deps = deps.normalized()
	log := deps.Logger.With(zap.Int64("game_id", int64(gameID)))
	return &GameActor{
		state:      None,
		gameID:     gameID,
		dc:         dc.NewGameDC(deps.Repo, deps.FlushEvery, log),
		service:    deps.Service,
		journal:    deps.Journal,
		log:        log,
		dispatcher: NewDispatcher(),
	}
}

func (g *GameActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		g.state = Init
		g.init(ctx)
		return
	case *actor.Stopping:
		g.stopFlushLoop()
		closeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := g.dc.Close(closeCtx); err != nil {
			g.log.Error("game dc close failed", zap.Error(err))
		}
		g.state = Stopping
		return
	case *actor.Stopped:
		g.stopFlushLoop()
		g.state = Offline
		return
	case *actor.Restarting:
		g.stopFlushLoop()
		g.state = Init
		return
	case flushTick:
		if g.state != Online {
			return
		}
		g.dc.Flush(context.TODO())
		return
	case messages.GameMessage:
		if g.state != Online {
			// 加载失败后只回错误，等 ManagerActor 的 PoisonPill 排在已转发的请求之后停掉自己
			ctx.Respond(fail(errx.ErrUnavailable.WithCause(g.loadErr).WithData("game_id", int64(g.gameID))))
			return
		}
		g.dispatcher.Dispatch(ctx, g, msg)
	default:
		return
	}
}

func (g *GameActor) init(ctx actor.Context) {
	loadCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	e, err := g.dc.Load(loadCtx, g.gameID)
	if err != nil {
		g.loadErr = err
		g.state = Offline
		g.log.Error("game load failed", zap.Error(err))
		if parent := ctx.Parent(); parent != nil {
			ctx.Send(parent, &gameLoadFailed{gameID: g.gameID, pid: ctx.Self()})
		}
		return
	}
	g.state = Online
	g.entity = e
	g.startFlushLoop(ctx)
	g.log.Debug("game online", zap.Int("outbreaks_nr", e.OutbreaksNr()), zap.Int("records", e.Ledger().Len()))
}

func (g *GameActor) GameID() GameID {
	return g.gameID
}

func (g *GameActor) Entity() *entity.Game {
	return g.entity
}

func (g *GameActor) DC() *dc.GameDC {
	return g.dc
}

func (g *GameActor) startFlushLoop(ctx actor.Context) {
	if g.flushStop != nil {
		return
	}
	interval := g.dc.FlushEvery()
	if interval <= 0 {
		return
	}
	g.flushStop = make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	go func(stop <-chan struct{}, every time.Duration) {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				root.Send(self, flushTick{})
			case <-stop:
				return
			}
		}
	}(g.flushStop, interval)
}

func (g *GameActor) stopFlushLoop() {
	if g.flushStop == nil {
		return
	}
	close(g.flushStop)
	g.flushStop = nil
}
