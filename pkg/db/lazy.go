package db

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/quotelane/quotelane-backend/pkg/config"
	"github.com/quotelane/quotelane-backend/pkg/logger"
)

// LazyClient defers connecting to a datasource until first use. The legacy
// customer directory is reached through one of these: the directory may be
// down when the API boots, and requests that never touch it should not pay
// for the connection.
//
// One caller performs the connect while concurrent callers wait on the
// in-flight attempt; the first completed attempt wins and later calls are a
// fast no-op. A failed attempt leaves the handle uninitialized so the next
// request retries.
type LazyClient struct {
	cfg  config.LegacyDBConfig
	logg *logger.Logger

	mu         sync.Mutex
	ready      *sync.Cond
	conn       *gorm.DB
	connecting bool
}

// NewLazyClient wraps the config without touching the network.
func NewLazyClient(cfg config.LegacyDBConfig, logg *logger.Logger) *LazyClient {
	l := &LazyClient{cfg: cfg, logg: logg}
	l.ready = sync.NewCond(&l.mu)
	return l
}

// DB returns the shared connection, establishing it on first call.
func (l *LazyClient) DB(ctx context.Context) (*gorm.DB, error) {
	l.mu.Lock()
	for {
		if l.conn != nil {
			conn := l.conn
			l.mu.Unlock()
			return conn, nil
		}
		if !l.connecting {
			break
		}
		l.ready.Wait()
	}
	l.connecting = true
	l.mu.Unlock()

	conn, err := l.connect(ctx)

	l.mu.Lock()
	l.connecting = false
	if err == nil && l.conn == nil {
		l.conn = conn
	}
	result := l.conn
	l.ready.Broadcast()
	l.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (l *LazyClient) connect(ctx context.Context) (*gorm.DB, error) {
	if l.cfg.DSN == "" {
		return nil, fmt.Errorf("legacy directory DSN is required")
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  l.cfg.DSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening legacy directory connection: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting legacy sql handle: %w", err)
	}
	if l.cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(l.cfg.MaxOpenConns)
	}

	if l.cfg.ConnTimeout > 0 {
		pingCtx, cancel := context.WithTimeout(ctx, l.cfg.ConnTimeout)
		defer cancel()
		if err := sqlDB.PingContext(pingCtx); err != nil {
			return nil, fmt.Errorf("pinging legacy directory: %w", err)
		}
	}

	if l.logg != nil {
		l.logg.Info(ctx, "legacy customer directory connection established")
	}

	return conn, nil
}

// Close releases the connection if one was ever established.
func (l *LazyClient) Close() error {
	l.mu.Lock()
	conn := l.conn
	l.mu.Unlock()
	if conn == nil {
		return nil
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
