package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"Pandemic/internal/infection/entity"
	"Pandemic/internal/infection/infra/persistence/mapper"
	"Pandemic/internal/infection/infra/persistence/model"
	"Pandemic/modules/kit/errx"
)

const defaultGameCollectionName = "games"

const (
	OpLoadGame = "repo.game.LoadGame"
	OpSnapshot = "repo.game.Snapshot"
)

type GameRepo struct {
	coll *mongo.Collection
}

func NewGameRepo(db *mongo.Database) *GameRepo {
	if db == nil {
		return &GameRepo{}
	}
	return &GameRepo{coll: db.Collection(defaultGameCollectionName)}
}

func (r *GameRepo) LoadGame(ctx context.Context, id entity.GameID) (*entity.Game, error) {
	if id <= 0 {
		return nil, entity.ErrInvalidGameID.WithData("game_id", int64(id))
	}
	if r == nil || r.coll == nil {
		return nil, infraErr(OpLoadGame, errors.New("mongodb game collection is nil"), nil)
	}

	var doc model.GameDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": int64(id)}).Decode(&doc)
	switch {
	case err == nil:
		return mapper.DocToGame(&doc)
	case errors.Is(err, mongo.ErrNoDocuments):
		return entity.NewGame(id), nil
	default:
		return nil, infraErr(OpLoadGame, err, map[string]any{"game_id": int64(id)})
	}
}

// Snapshot 整文档覆盖。同一局只有一个 GameDC 在写，顺序由它保证。
func (r *GameRepo) Snapshot(ctx context.Context, s *entity.GamePersistSnapshot) error {
	if s == nil {
		return nil
	}
	if r == nil || r.coll == nil {
		return infraErr(OpSnapshot, errors.New("mongodb game collection is nil"), nil)
	}

	doc := mapper.SnapshotToDoc(s, time.Now())
	_, err := r.coll.ReplaceOne(
		ctx,
		bson.M{"_id": doc.ID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return infraErr(OpSnapshot, err, map[string]any{"game_id": doc.ID, "version": doc.Version})
	}
	return nil
}

func infraErr(op string, err error, data map[string]any) error {
	return errx.ErrUnavailable.WithCause(err).WithData("op", op).WithDataMap(data)
}
