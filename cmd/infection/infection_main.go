package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	infectionactor "Pandemic/internal/infection/actor"
	"Pandemic/internal/infection/actors"
	"Pandemic/internal/infection/app/port"
	"Pandemic/internal/infection/infra/journal"
	"Pandemic/internal/infection/infra/persistence/memory"
	infectionmongo "Pandemic/internal/infection/infra/persistence/mongodb"
	infectionmysql "Pandemic/internal/infection/infra/persistence/mysql"
	"Pandemic/internal/infection/interfaces"
	"Pandemic/internal/infection/service"
	shareddb "Pandemic/internal/shared/infrastructure/db"
	sharedmongo "Pandemic/internal/shared/infrastructure/mongo"
	"Pandemic/internal/shared/logs"
	"Pandemic/internal/shared/serverconfig"
	transporthttp "Pandemic/internal/shared/transport/http"
	"Pandemic/internal/shared/utils"
	"Pandemic/modules/kit/logx"
)

func main() {
	serverconfig.Load(func(c serverconfig.Config) {
		logs.SetLevel(c.Log.Level)
		logs.Info("config reloaded", zap.String("log_level", c.Log.Level))
	})
	conf := serverconfig.Current()
	conf.Normalize()
	if err := logs.Init("infection", conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logs.Info("conf", zap.Any("conf", conf))

	baseLogger := logx.NewZapLogger(logs.Logger())

	graph, err := service.LoadWorldGraph(conf.Infection.MapData)
	if err != nil {
		logs.Fatal("load world map failed", zap.Error(err))
	}
	for _, e := range graph.Asymmetric() {
		logs.Warn("asymmetric neighbor", zap.String("from", string(e.From)), zap.String("to", string(e.To)))
	}
	spread, err := service.ParseSpreadPolicy(conf.Infection.SpreadColor)
	if err != nil {
		logs.Fatal("invalid infection.spread_color", zap.Error(err))
	}
	logs.Info("world map loaded",
		zap.String("title", graph.Title()),
		zap.Int("cities", graph.Len()),
		zap.Stringer("spread_color", spread),
	)

	repo, closeRepo, err := openRepository(conf)
	if err != nil {
		logs.Fatal("open repository failed", zap.String("storage", conf.Infection.Storage), zap.Error(err))
	}
	defer closeRepo()

	var cascadeJournal port.CascadeJournal = port.NopJournal{}
	if conf.Infection.JournalDir != "" {
		j := journal.NewZstdJournal(conf.Infection.JournalDir)
		defer func() {
			if err := j.Close(); err != nil {
				logs.Error("close cascade journal failed", zap.Error(err))
			}
		}()
		cascadeJournal = j
	}

	ids, err := utils.NewSnowflake(conf.Infection.NodeID)
	if err != nil {
		logs.Fatal("init snowflake failed", zap.Error(err))
	}

	runtime := infectionactor.NewRuntime(actors.Deps{
		Repo:       repo,
		Service:    service.NewInfectionService(graph, spread),
		Journal:    cascadeJournal,
		Logger:     baseLogger.With(zap.String("module", "infection")),
		FlushEvery: conf.Infection.FlushEvery,
	}, conf.Infection.AskTimeout)

	addr := fmt.Sprintf("%s:%d", conf.HTTPServer.Host, conf.HTTPServer.Port)
	httpServer := transporthttp.NewHttpServer(addr, nil, baseLogger)
	httpServer.Register(interfaces.New(runtime, graph, ids, baseLogger))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logs.Info("infection server listening", zap.String("addr", addr))
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("infection server start failed: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	// 先停 HTTP 再停 actor，保证最后一批快照能落库
	runtime.Shutdown()
	logs.Info("infection server stopped")
}

func openRepository(conf serverconfig.Config) (port.GameRepository, func(), error) {
	switch conf.Infection.Storage {
	case serverconfig.StorageMemory:
		return memory.NewGameRepository(), func() {}, nil
	case serverconfig.StorageMySQL:
		db, err := shareddb.Open(conf.MySQL)
		if err != nil {
			return nil, nil, err
		}
		if conf.MySQL.AutoMigrate {
			if err := infectionmysql.AutoMigrate(db); err != nil {
				return nil, nil, err
			}
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return infectionmysql.NewGameRepo(db), closeFn, nil
	case serverconfig.StorageMongoDB:
		handle, err := sharedmongo.Open(conf.MongoDB, logs.Logger())
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			_ = handle.Close(context.Background())
		}
		return infectionmongo.NewGameRepo(handle.DB), closeFn, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage %q", conf.Infection.Storage)
	}
}
