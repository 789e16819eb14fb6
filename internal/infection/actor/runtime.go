package actor

import (
	"context"
	"errors"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"

	"Pandemic/internal/infection/actors"
	"Pandemic/internal/shared/actor/messages"
	"Pandemic/modules/kit/errx"
	"Pandemic/modules/kit/tracex"
)

const defaultAskTimeout = 3 * time.Second

// Runtime 对外暴露感染引擎的同步调用，内部走 ManagerActor -> GameActor。
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
}

func NewRuntime(deps actors.Deps, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(deps)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
	}
}

// PlaceInfection 同一局的请求按到达顺序串行执行。
func (r *Runtime) PlaceInfection(ctx context.Context, req *messages.HGPlaceInfection) (*messages.GHPlaceInfection, error) {
	if req == nil {
		return nil, errx.ErrReqParamERR.WithData("reason", "nil req")
	}
	if req.TraceId == "" {
		req.TraceId, _ = tracex.TraceIDFrom(ctx)
	}
	body, err := r.request(ctx, req)
	if err != nil {
		return nil, err
	}
	res, ok := body.(*messages.GHPlaceInfection)
	if !ok {
		return nil, errx.ErrInternal.WithData("reason", "unexpected reply body")
	}
	return res, nil
}

func (r *Runtime) GameState(ctx context.Context, gameID int64) (*messages.GHGameState, error) {
	traceID, _ := tracex.TraceIDFrom(ctx)
	body, err := r.request(ctx, &messages.HGGameState{
		GameBaseMessage: messages.GameBaseMessage{GameId: gameID, TraceId: traceID},
	})
	if err != nil {
		return nil, err
	}
	res, ok := body.(*messages.GHGameState)
	if !ok {
		return nil, errx.ErrInternal.WithData("reason", "unexpected reply body")
	}
	return res, nil
}

// Shutdown 停掉 ManagerActor 并等所有 GameActor 落完最后一次快照。
func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		_ = r.root.StopFuture(r.manager).Wait()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

func (r *Runtime) request(ctx context.Context, msg messages.GameMessage) (any, error) {
	if r == nil || r.root == nil || r.manager == nil {
		return nil, errx.ErrUnavailable.WithData("reason", "actor runtime 未初始化")
	}

	future := r.root.RequestFuture(r.manager, msg, r.timeoutFromContext(ctx))
	res, err := future.Result()
	if err != nil {
		if errors.Is(err, protoactor.ErrTimeout) {
			return nil, errx.ErrTimeout.WithCause(err)
		}
		return nil, errx.ErrUnavailable.WithCause(err).WithData("reason", "actor 请求失败")
	}

	reply, ok := res.(*messages.GameReply)
	if !ok || reply == nil {
		return nil, errx.ErrInternal.WithData("reason", "unexpected reply type")
	}
	if reply.Err != nil {
		return nil, reply.Err
	}
	return reply.Body, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}
