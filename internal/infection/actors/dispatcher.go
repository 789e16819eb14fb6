package actors

import (
	"reflect"

	"github.com/asynkron/protoactor-go/actor"

	"Pandemic/internal/shared/actor/messages"
	"Pandemic/modules/kit/errx"
)

type Dispatcher struct {
	handlers map[reflect.Type]Handler
}

type Handler struct {
	fn      reflect.Value
	reqType reflect.Type
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[reflect.Type]Handler),
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, GH.HandlePlaceInfection)
	register(d, GH.HandleGameState)
}

func register[Req messages.GameMessage](
	d *Dispatcher,
	fn func(ctx actor.Context, g *GameActor, req Req),
) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType.Kind() != reflect.Ptr {
		panic("dispatcher req type must be pointer message")
	}

	d.handlers[reqType] = Handler{
		fn:      reflect.ValueOf(fn),
		reqType: reqType,
	}
}

func (d *Dispatcher) Dispatch(ctx actor.Context, g *GameActor, req messages.GameMessage) {
	if req == nil {
		ctx.Respond(fail(errx.ErrReqParamERR.WithData("reason", "nil req")))
		return
	}

	bodyType := reflect.TypeOf(req)
	handler, ok := d.handlers[bodyType]
	if !ok {
		ctx.Respond(fail(errx.ErrReqParamERR.WithData("reason", "no handler for "+bodyType.String())))
		return
	}

	handler.fn.Call([]reflect.Value{
		reflect.ValueOf(ctx),
		reflect.ValueOf(g),
		reflect.ValueOf(req),
	})
}
