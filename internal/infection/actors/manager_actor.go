package actors

import (
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"Pandemic/internal/infection/app/port"
	"Pandemic/internal/infection/entity"
	"Pandemic/internal/infection/service"
	"Pandemic/internal/shared/actor/messages"
	"Pandemic/modules/kit/logx"
)

type GameID = entity.GameID

// Deps GameActor 共享的依赖，ManagerActor 持有并传给每个子 actor。
type Deps struct {
	Repo       port.GameRepository
	Service    *service.InfectionService
	Journal    port.CascadeJournal
	Logger     logx.Logger
	FlushEvery time.Duration
}

func (d Deps) normalized() Deps {
	if d.Journal == nil {
		d.Journal = port.NopJournal{}
	}
	if d.Logger == nil {
		d.Logger = logx.Nop()
	}
	return d
}

// ManagerActor 按对局 id 懒创建 GameActor 并转发请求。
type ManagerActor struct {
	deps       Deps
	gameActors map[GameID]*actor.PID
}

func NewManagerActor(deps Deps) *ManagerActor {
	return &ManagerActor{
		deps:       deps.normalized(),
		gameActors: make(map[GameID]*actor.PID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Terminated:
		m.forget(msg.Who)
	case *gameLoadFailed:
		// 先摘掉再 Poison：已经转发的请求排在 PoisonPill 前面，都能拿到 Unavailable，
		// 之后的请求会重新拉起一个 GameActor 重试加载
		if m.forget(msg.pid) {
			m.deps.Logger.Warn("game actor dropped after load failure", zap.Int64("game_id", int64(msg.gameID)))
			ctx.Poison(msg.pid)
		}
	case messages.GameMessage:
		gameID, ok := toGameID(msg.GameID())
		if !ok {
			ctx.Respond(fail(entity.ErrInvalidGameID.WithData("game_id", msg.GameID())))
			return
		}
		ctx.Forward(m.getOrSpawn(ctx, gameID))
	}
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, gameID GameID) *actor.PID {
	if pid, ok := m.gameActors[gameID]; ok && pid != nil {
		return pid
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewGameActor(gameID, m.deps)
	})
	pid := ctx.Spawn(props)
	m.gameActors[gameID] = pid
	m.deps.Logger.Debug("game actor spawned", zap.Int64("game_id", int64(gameID)))
	return pid
}

func (m *ManagerActor) forget(who *actor.PID) bool {
	if who == nil {
		return false
	}
	for id, pid := range m.gameActors {
		if pid != nil && pid.Id == who.Id {
			delete(m.gameActors, id)
			return true
		}
	}
	return false
}

func toGameID(raw int64) (GameID, bool) {
	if raw <= 0 {
		return 0, false
	}
	return GameID(raw), true
}
