package actors

import "Pandemic/internal/shared/actor/messages"

func ok(body any) *messages.GameReply {
	return &messages.GameReply{Body: body}
}

func fail(err error) *messages.GameReply {
	return &messages.GameReply{Err: err}
}
