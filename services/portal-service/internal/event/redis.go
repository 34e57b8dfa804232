package event

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const payloadField = "event"

// StreamConfig names the Redis stream and consumer group carrying
// notification events. Every replica joins the same group, so each entry
// is delivered to exactly one of them.
type StreamConfig struct {
	Stream string        `env:"NOTIFICATION_STREAM" envDefault:"portal:notifications"`
	Group  string        `env:"NOTIFICATION_GROUP"  envDefault:"portal-notifier"`
	MaxLen int64         `env:"NOTIFICATION_MAXLEN" envDefault:"10000"`
	Block  time.Duration `env:"NOTIFICATION_BLOCK"  envDefault:"5s"`
}

// RedisForwarder is a Handler that appends events to a Redis stream,
// handing delivery to the consumer group read by RedisSubscriber.
type RedisForwarder struct {
	rdb *redis.Client
	cfg StreamConfig
}

func NewRedisForwarder(rdb *redis.Client, cfg StreamConfig) *RedisForwarder {
	return &RedisForwarder{rdb: rdb, cfg: cfg}
}

func (f *RedisForwarder) Handle(ctx context.Context, e Event) error {
	payload, err := Encode(e)
	if err != nil {
		return err
	}

	args := &redis.XAddArgs{
		Stream: f.cfg.Stream,
		Values: map[string]any{payloadField: string(payload)},
	}
	if f.cfg.MaxLen > 0 {
		args.MaxLen = f.cfg.MaxLen
		args.Approx = true
	}

	if err := f.rdb.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("redis.XAdd: %w", err)
	}

	return nil
}

// RedisSubscriber reads the notification stream as one consumer of the
// group and feeds each entry to a Handler. Entries are acknowledged once
// handled, whether or not the handler succeeded.
type RedisSubscriber struct {
	logger   *zerolog.Logger
	rdb      *redis.Client
	cfg      StreamConfig
	consumer string
	handler  Handler
}

func NewRedisSubscriber(logger *zerolog.Logger, rdb *redis.Client, cfg StreamConfig, handler Handler) *RedisSubscriber {
	return &RedisSubscriber{
		logger:   logger,
		rdb:      rdb,
		cfg:      cfg,
		consumer: uuid.NewString(),
		handler:  handler,
	}
}

// EnsureGroup creates the stream and consumer group if they are missing.
// A new group starts from the beginning of the stream, so entries added
// before any subscriber came up are still delivered.
func (s *RedisSubscriber) EnsureGroup(ctx context.Context) error {
	err := s.rdb.XGroupCreateMkStream(ctx, s.cfg.Stream, s.cfg.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("redis.XGroupCreateMkStream: %w", err)
	}
	return nil
}

// Run consumes entries until ctx is cancelled.
func (s *RedisSubscriber) Run(ctx context.Context) error {
	if err := s.EnsureGroup(ctx); err != nil {
		return err
	}

	s.logger.Info().
		Str("stream", s.cfg.Stream).
		Str("group", s.cfg.Group).
		Str("consumer", s.consumer).
		Msg("consuming notification events")

	for ctx.Err() == nil {
		if _, err := s.Consume(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}

			s.logger.Error().Err(err).Msg("failed to read notification events")

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
		}
	}

	return nil
}

// Consume reads one batch of new entries for this consumer, handles and
// acknowledges them, and reports how many were read. It blocks up to
// the configured Block duration when the stream is idle.
func (s *RedisSubscriber) Consume(ctx context.Context) (int, error) {
	streams, err := s.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.cfg.Group,
		Consumer: s.consumer,
		Streams:  []string{s.cfg.Stream, ">"},
		Count:    16,
		Block:    s.cfg.Block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis.XReadGroup: %w", err)
	}

	n := 0
	for _, stream := range streams {
		for _, msg := range stream.Messages {
			n++
			s.handle(ctx, msg)

			if err := s.rdb.XAck(ctx, s.cfg.Stream, s.cfg.Group, msg.ID).Err(); err != nil {
				s.logger.Error().Err(err).Str("id", msg.ID).Msg("failed to ack event")
			}
		}
	}

	return n, nil
}

func (s *RedisSubscriber) handle(ctx context.Context, msg redis.XMessage) {
	raw, _ := msg.Values[payloadField].(string)

	e, err := Decode([]byte(raw))
	if err != nil {
		s.logger.Warn().Err(err).Str("id", msg.ID).Msg("dropping malformed event")
		return
	}

	if err := s.handler.Handle(ctx, e); err != nil {
		s.logger.Error().Err(err).Str("event", string(e.EventType())).Msg("failed to handle event")
	}
}
