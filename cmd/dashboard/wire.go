package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"github.com/valkey-io/valkey-go"

	slogctx "github.com/veqryn/slog-context"

	"github.com/bloodlink/dashboard/adapters/events"
	"github.com/bloodlink/dashboard/adapters/store"
	"github.com/bloodlink/dashboard/internal/config"
	"github.com/bloodlink/dashboard/ports"
	"github.com/bloodlink/dashboard/service"
)

// runtime holds the wired session component and whatever must be closed on exit
type runtime struct {
	sessions *service.SessionStore
	browser  *service.BrowserBinding

	// subscriber is set for the in-process event driver
	subscriber message.Subscriber

	closers []func() error
}

func (r *runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i]())
	}
	return errors.Join(errs...)
}

// wire builds the session store over the configured persistence and event drivers
func wire(ctx context.Context, cfg *config.Config) (*runtime, error) {
	rt := &runtime{}

	var redisClient *redis.Client
	if cfg.Persistence.RedisURL != "" && (cfg.Persistence.Driver == config.DriverRedis || cfg.Events.Driver == config.EventsRedisStream) {
		opts, err := redis.ParseURL(cfg.Persistence.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis URL: %w", err)
		}
		redisClient = redis.NewClient(opts)
		rt.closers = append(rt.closers, redisClient.Close)
	}

	persistence, err := openStore(cfg, redisClient, rt)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}

	publisher, err := openPublisher(cfg, redisClient, rt)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}

	slogctx.Debug(ctx, "Wired session store", "persistence", cfg.Persistence.Driver, "events", cfg.Events.Driver)

	rt.sessions = service.NewSessionStore(persistence, publisher)
	rt.browser = service.NewBrowserBinding(persistence)
	return rt, nil
}

func openStore(cfg *config.Config, redisClient *redis.Client, rt *runtime) (ports.Store, error) {
	switch cfg.Persistence.Driver {
	case config.DriverMemory:
		return store.NewMemoryStore(), nil
	case config.DriverFile:
		return store.NewFileStore(cfg.Persistence.Path), nil
	case config.DriverRedis:
		return store.NewRedisStore(redisClient, cfg.Persistence.Prefix), nil
	case config.DriverValkey:
		client, err := valkey.NewClient(valkey.ClientOption{
			InitAddress: []string{cfg.Persistence.Valkey.Address},
			Username:    cfg.Persistence.Valkey.Username,
			Password:    cfg.Persistence.Valkey.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("creating valkey client: %w", err)
		}
		s := store.NewValkeyStore(client, cfg.Persistence.Prefix)
		rt.closers = append(rt.closers, func() error {
			s.Close()
			return nil
		})
		return s, nil
	default:
		return nil, fmt.Errorf("%w: unknown persistence driver %q", config.ErrInvalidConfig, cfg.Persistence.Driver)
	}
}

func openPublisher(cfg *config.Config, redisClient *redis.Client, rt *runtime) (ports.EventPublisher, error) {
	logger := watermill.NewSlogLogger(slog.Default())

	switch cfg.Events.Driver {
	case config.EventsNone:
		return ports.NoopPublisher, nil
	case config.EventsGoChannel:
		pubSub := gochannel.NewGoChannel(gochannel.Config{}, logger)
		rt.subscriber = pubSub
		rt.closers = append(rt.closers, pubSub.Close)
		return events.NewWatermillPublisher(pubSub, cfg.Events.Topic), nil
	case config.EventsRedisStream:
		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{
				Client: redisClient,
			},
			logger,
		)
		if err != nil {
			return nil, fmt.Errorf("creating redis stream publisher: %w", err)
		}
		rt.closers = append(rt.closers, publisher.Close)
		return events.NewWatermillPublisher(publisher, cfg.Events.Topic), nil
	default:
		return nil, fmt.Errorf("%w: unknown events driver %q", config.ErrInvalidConfig, cfg.Events.Driver)
	}
}
