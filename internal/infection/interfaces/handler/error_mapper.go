package handler

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"Pandemic/internal/infection/entity"
	"Pandemic/internal/shared/transport"
	"Pandemic/modules/kit/errx"
	"Pandemic/modules/kit/logx"
)

func mapBizCodeToClientCode(code errx.Code) int {
	switch code {
	case entity.CodeCityNotFound:
		return transport.CityNotFound
	case entity.CodeInvalidQuantity:
		return transport.InvalidQuantity
	case entity.CodeInvalidColor:
		return transport.InvalidColor
	case entity.CodeInvalidGameID:
		return transport.InvalidGameID
	case errx.CodeReqParamError:
		return transport.InvalidParam
	default:
		return transport.SystemError
	}
}

func mapSysCodeToClientCode(code errx.Code) int {
	switch code {
	case errx.CodeUnavailable:
		return transport.Unavailable
	case errx.CodeTimeout:
		return transport.Timeout
	default:
		return transport.SystemError
	}
}

// HandleError 把错误映射成 (业务码, 给调用方看的文案)，并在这里统一打一次日志。
func HandleError(ctx context.Context, log logx.Logger, action string, err error) (int, string) {
	code := errx.CodeOf(err)
	transport.SetErrorReason(ctx, string(code))

	if errx.IsBiz(err) {
		msg := err.Error()
		var e *errx.Error
		if errors.As(err, &e) {
			msg = e.Msg()
		}
		logx.ReportBizWithLoggerContext(ctx, log, logx.NewBizLog(action, string(code), msg),
			zap.Any("data", dataOf(err)))
		return mapBizCodeToClientCode(code), msg
	}

	logx.ReportSysErrorWithLoggerContext(ctx, log, logx.NewSysLog(action, err))
	return mapSysCodeToClientCode(code), "系统繁忙，请稍后重试"
}

func dataOf(err error) map[string]any {
	var e *errx.Error
	if errors.As(err, &e) {
		return e.Data()
	}
	return nil
}
