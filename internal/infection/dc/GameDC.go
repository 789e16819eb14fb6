package dc

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"Pandemic/internal/infection/app/port"
	"Pandemic/internal/infection/entity"
	"Pandemic/modules/kit/logx"
)

const (
	defaultFlushEvery = 3000 * time.Millisecond
	writeTimeout      = 5 * time.Second
	retryBackoff      = 200 * time.Millisecond
)

type GameID = entity.GameID

// GameDC 对局的 write-behind 缓存：actor 协程里做脏检查并同步生成快照，
// 写库协程异步落库，只保留最新版本的快照。
type GameDC struct {
	repo       port.GameRepository
	entity     *entity.Game
	flushEvery time.Duration
	log        logx.Logger

	mu      sync.Mutex
	pending *entity.GamePersistSnapshot
	version uint64
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewGameDC(repo port.GameRepository, flushEvery time.Duration, log logx.Logger) *GameDC {
	if flushEvery <= 0 {
		flushEvery = defaultFlushEvery
	}
	if log == nil {
		log = logx.Nop()
	}
	d := &GameDC{
		repo:       repo,
		flushEvery: flushEvery,
		log:        log,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go d.writerLoop()
	return d
}

func (d *GameDC) Load(ctx context.Context, gameID GameID) (*entity.Game, error) {
	game, err := d.repo.LoadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	d.entity = game
	return game, nil
}

// Flush 是整局粒度的脏检查：账本按脏键增量落库，爆发数整行覆盖。
// 所有修改都必须经过 GameActor，绕过 actor 直接写库会被下一次快照覆盖。
func (d *GameDC) Flush(ctx context.Context) {
	if !d.IsDirty() {
		return
	}
	s, ok := d.buildNextSnapshot()
	if !ok {
		return
	}
	d.enqueueLatest(s)
}

func (d *GameDC) IsDirty() bool {
	if d.entity == nil {
		return false
	}
	return d.entity.Dirty()
}

func (d *GameDC) Entity() *entity.Game {
	return d.entity
}

func (d *GameDC) FlushEvery() time.Duration {
	return d.flushEvery
}

func (d *GameDC) Close(ctx context.Context) error {
	d.Flush(ctx)

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *GameDC) buildNextSnapshot() (*entity.GamePersistSnapshot, bool) {
	if d.entity == nil {
		return nil, false
	}
	d.mu.Lock()
	d.version++
	version := d.version
	d.mu.Unlock()

	s, ok := d.entity.BuildPersistSnapshot(version)
	if !ok {
		return nil, false
	}
	d.entity.ClearDirty()
	return s, true
}

func (d *GameDC) enqueueLatest(s *entity.GamePersistSnapshot) {
	if s == nil {
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.replacePendingLocked(s)
	d.mu.Unlock()

	d.signal()
}

func (d *GameDC) popPending() *entity.GamePersistSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.pending
	d.pending = nil
	return s
}

// requeueOnError 写库失败时放回当前快照。关闭后 stop 分支仍在消费，这里不看 closed。
func (d *GameDC) requeueOnError(s *entity.GamePersistSnapshot) {
	d.mu.Lock()
	d.replacePendingLocked(s)
	d.mu.Unlock()

	d.signal()
}

// replacePendingLocked 新版本覆盖旧版本，但要带上旧版本的脏键。
func (d *GameDC) replacePendingLocked(s *entity.GamePersistSnapshot) {
	switch {
	case d.pending == nil:
		d.pending = s
	case d.pending.Version < s.Version:
		s.MergeChanged(d.pending)
		d.pending = s
	default:
		d.pending.MergeChanged(s)
	}
}

func (d *GameDC) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *GameDC) writerLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			d.consumePending(false)
		case <-d.stop:
			d.consumePending(true)
			return
		}
	}
}

// consumePending 在 stopping 时最多重试 maxStopRetries 次。
func (d *GameDC) consumePending(stopping bool) {
	const maxStopRetries = 10
	failures := 0
	for {
		s := d.popPending()
		if s == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := d.repo.Snapshot(ctx, s)
		cancel()
		if err == nil {
			failures = 0
			continue
		}

		failures++
		d.log.Warn("game snapshot save failed",
			zap.Int64("game_id", int64(s.GameID)),
			zap.Uint64("version", s.Version),
			zap.Int("failures", failures),
			zap.Error(err),
		)
		if stopping && failures >= maxStopRetries {
			d.log.Error("game snapshot dropped on shutdown",
				zap.Int64("game_id", int64(s.GameID)),
				zap.Uint64("version", s.Version),
			)
			return
		}
		d.requeueOnError(s)
		time.Sleep(retryBackoff)
	}
}
