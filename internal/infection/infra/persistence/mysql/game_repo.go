package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Pandemic/internal/infection/entity"
	"Pandemic/internal/infection/infra/persistence/mapper"
	"Pandemic/internal/infection/infra/persistence/model"
	"Pandemic/modules/kit/errx"
	"Pandemic/modules/kit/tracex"
)

const (
	OpLoadGame = "repo.game.LoadGame"
	OpSnapshot = "repo.game.Snapshot"
	OpMigrate  = "repo.game.AutoMigrate"
)

type GameRepo struct {
	db *gorm.DB
}

func NewGameRepo(db *gorm.DB) *GameRepo {
	return &GameRepo{db: db}
}

// AutoMigrate 建 games / infections 两张表。
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Game{}, &model.Infection{}); err != nil {
		return infraErr(OpMigrate, err, nil)
	}
	return nil
}

func (r *GameRepo) WithTx(tx *gorm.DB) *GameRepo {
	return &GameRepo{db: tx}
}

func (r *GameRepo) LoadGame(ctx context.Context, id entity.GameID) (*entity.Game, error) {
	if id <= 0 {
		return nil, entity.ErrInvalidGameID.WithData("game_id", int64(id))
	}
	ctx = tracex.WithGameID(ctx, int64(id))
	var g model.Game
	err := r.db.WithContext(ctx).Where("id = ?", int64(id)).First(&g).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return entity.NewGame(id), nil
	case err != nil:
		return nil, infraErr(OpLoadGame, err, map[string]any{"game_id": int64(id)})
	}

	var rows []model.Infection
	if err := r.db.WithContext(ctx).Where("game_id = ?", int64(id)).Find(&rows).Error; err != nil {
		return nil, infraErr(OpLoadGame, err, map[string]any{"game_id": int64(id)})
	}
	return entity.HydrateGame(id, g.OutbreaksNr, mapper.InfectionModelsToRecords(rows))
}

// Snapshot 在一个事务里 upsert 对局行和脏的感染记录。
func (r *GameRepo) Snapshot(ctx context.Context, s *entity.GamePersistSnapshot) error {
	if s == nil {
		return nil
	}
	ctx = tracex.WithGameID(ctx, int64(s.GameID))
	now := time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := r.WithTx(tx)
		if err := txRepo.saveGame(s, now); err != nil {
			return err
		}
		return txRepo.saveInfections(s, now)
	})
}

func (r *GameRepo) saveGame(s *entity.GamePersistSnapshot, now time.Time) error {
	m := &model.Game{
		ID:          int64(s.GameID),
		OutbreaksNr: s.OutbreaksNr,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"outbreaks_nr", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return infraErr(OpSnapshot, err, map[string]any{"game_id": m.ID})
	}
	return nil
}

func (r *GameRepo) saveInfections(s *entity.GamePersistSnapshot, now time.Time) error {
	rows := mapper.RecordsToInfectionModels(s.GameID, s.ChangedRecords(), now)
	if len(rows) == 0 {
		return nil
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_id"}, {Name: "city_staticid"}, {Name: "color"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).CreateInBatches(rows, 100).Error
	if err != nil {
		return infraErr(OpSnapshot, err, map[string]any{"game_id": int64(s.GameID), "rows": len(rows)})
	}
	return nil
}

func infraErr(op string, err error, data map[string]any) error {
	return errx.ErrUnavailable.WithCause(err).WithData("op", op).WithDataMap(data)
}
