package entity

import "Pandemic/modules/kit/errx"

// Code 表示感染域的错误码。
//
// 约定：
// - CityNotFound / InvalidQuantity / InvalidColor 都是调用方的编程错误，属于业务类错误，不捕获栈
// - data 里放 city/color/quantity 方便定位，cause 只用于溯源
type Code = errx.Code

const (
	CodeCityNotFound        Code = "INFECTION_CITY_NOT_FOUND"
	CodeInvalidQuantity     Code = "INFECTION_INVALID_QUANTITY"
	CodeInvalidColor        Code = "INFECTION_INVALID_COLOR"
	CodeCubeCountOutOfRange Code = "INFECTION_CUBE_COUNT_OUT_OF_RANGE"
	CodeInvalidWorldMap     Code = "INFECTION_INVALID_WORLD_MAP"
	CodeInvalidGameID       Code = "INFECTION_INVALID_GAME_ID"
)

type Error = errx.Error

var (
	ErrCityNotFound        = errx.NewBiz(CodeCityNotFound, "城市不存在")
	ErrInvalidQuantity     = errx.NewBiz(CodeInvalidQuantity, "quantity 必须 >= 1")
	ErrInvalidColor        = errx.NewBiz(CodeInvalidColor, "未知的疾病颜色")
	ErrCubeCountOutOfRange = errx.NewBiz(CodeCubeCountOutOfRange, "疾病方块数超出 [0,3]")
	ErrInvalidWorldMap     = errx.NewBiz(CodeInvalidWorldMap, "世界地图配置非法")
	ErrInvalidGameID       = errx.NewBiz(CodeInvalidGameID, "非法的对局 id")
)
