package mongo

import (
	"context"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"Pandemic/internal/shared/serverconfig"
	"Pandemic/modules/kit/errx"
)

const defaultDatabase = "pandemic"

// Handle 持有连接和对局库，Close 断开连接。
type Handle struct {
	Client *mongo.Client
	DB     *mongo.Database
}

func (h *Handle) Close(ctx context.Context) error {
	if h == nil || h.Client == nil {
		return nil
	}
	return h.Client.Disconnect(ctx)
}

func Open(cfg serverconfig.MongoDBConfig, l *zap.Logger) (*Handle, error) {
	if cfg.URI == "" {
		return nil, errx.ErrReqParamERR.WithData("mongodb.uri", "")
	}
	if l == nil {
		l = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), ConnectTimeout(cfg))
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(ConnectTimeout(cfg)).
		SetServerSelectionTimeout(ConnectTimeout(cfg))
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, errx.ErrUnavailable.WithCause(err).WithData("op", "mongo.connect")
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errx.ErrUnavailable.WithCause(err).WithData("op", "mongo.ping")
	}

	name := DatabaseName(cfg)
	l.Info("open mongodb success",
		zap.String("uri", RedactURI(cfg.URI)),
		zap.String("database", name),
	)
	return &Handle{Client: client, DB: client.Database(name)}, nil
}

func ConnectTimeout(cfg serverconfig.MongoDBConfig) time.Duration {
	timeout := time.Duration(cfg.ConnectTimeoutS) * time.Second
	if timeout <= 0 {
		return 3 * time.Second
	}
	return timeout
}

func DatabaseName(cfg serverconfig.MongoDBConfig) string {
	if cfg.Database == "" {
		return defaultDatabase
	}
	return cfg.Database
}

// RedactURI 去掉密码再打日志。
func RedactURI(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
