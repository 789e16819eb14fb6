package port

import (
	"context"

	"Pandemic/internal/infection/entity"
)

// GameRepository 对局持久化。LoadGame 查不到时返回一局空的新对局。
type GameRepository interface {
	LoadGame(ctx context.Context, id entity.GameID) (*entity.Game, error)
	Snapshot(ctx context.Context, s *entity.GamePersistSnapshot) error
}
