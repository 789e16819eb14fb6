package mongodb

import (
	"context"
	"errors"
	"testing"

	"Pandemic/internal/infection/entity"
	"Pandemic/modules/kit/errx"
)

func TestGameRepo_未连接时返回基础设施错误(t *testing.T) {
	r := NewGameRepo(nil)
	_, err := r.LoadGame(context.Background(), 1)
	if !errors.Is(err, errx.ErrUnavailable) {
		t.Fatalf("期望 ErrUnavailable, got=%v", err)
	}
	err = r.Snapshot(context.Background(), &entity.GamePersistSnapshot{GameID: 1})
	if !errors.Is(err, errx.ErrUnavailable) {
		t.Fatalf("期望 ErrUnavailable, got=%v", err)
	}
	if err := r.Snapshot(context.Background(), nil); err != nil {
		t.Fatalf("nil 快照应该直接返回, got=%v", err)
	}
}

func TestGameRepo_非法对局id(t *testing.T) {
	r := NewGameRepo(nil)
	if _, err := r.LoadGame(context.Background(), -1); !errors.Is(err, entity.ErrInvalidGameID) {
		t.Fatalf("期望 ErrInvalidGameID, got=%v", err)
	}
}
