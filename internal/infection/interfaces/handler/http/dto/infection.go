package dto

// PlaceInfectionReq color 为空取城市本色；quantity 必须显式给出。
type PlaceInfectionReq struct {
	City     string `json:"city" binding:"required"`
	Color    string `json:"color"`
	Quantity *int   `json:"quantity" binding:"required"`
}

type CreateGameResp struct {
	GameID int64 `json:"game_id"`
}

type CityResp struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Color     string   `json:"color"`
	Neighbors []string `json:"neighbors"`
}
