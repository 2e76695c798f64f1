package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/linkverify"
	"git.home.luguber.info/inful/docnav/internal/logfields"
)

// Defaults applied to an empty Config.
const (
	DefaultSubject  = "docnav.events"
	DefaultStream   = "DOCNAV"
	DefaultKVBucket = "docnav_builds"
)

// LatestKey holds the most recent BuildEvent in the KV bucket.
const LatestKey = "latest"

// Config selects the NATS server and naming.
type Config struct {
	URL      string
	Subject  string
	Stream   string
	KVBucket string
}

func (c Config) withDefaults() Config {
	if c.Subject == "" {
		c.Subject = DefaultSubject
	}
	if c.Stream == "" {
		c.Stream = DefaultStream
	}
	if c.KVBucket == "" {
		c.KVBucket = DefaultKVBucket
	}
	return c
}

// BuildSubject is the subject for a build event with the given status.
func (c Config) BuildSubject(status string) string {
	return c.withDefaults().Subject + ".build." + strings.ToLower(status)
}

// BrokenLinkSubject is the subject for broken link events.
func (c Config) BrokenLinkSubject() string {
	return c.withDefaults().Subject + ".link.broken"
}

// streamPublisher is the part of jetstream.JetStream used for publishing.
type streamPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// keyValue is the part of jetstream.KeyValue used to record the latest build.
type keyValue interface {
	Put(ctx context.Context, key string, value []byte) (uint64, error)
}

// NATSPublisher publishes events to a JetStream stream and records the
// latest build in a KV bucket.
type NATSPublisher struct {
	cfg  Config
	conn *nats.Conn
	js   streamPublisher
	kv   keyValue
}

// New returns a NoopPublisher when cfg.URL is empty and a connected
// NATSPublisher otherwise.
func New(ctx context.Context, cfg Config) (Publisher, error) {
	if cfg.URL == "" {
		return NoopPublisher{}, nil
	}
	return Connect(ctx, cfg)
}

// Connect dials NATS and ensures the stream and KV bucket exist.
func Connect(ctx context.Context, cfg Config) (*NATSPublisher, error) {
	cfg = cfg.withDefaults()

	conn, err := nats.Connect(cfg.URL, nats.Name("docnav"))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNetwork, "failed to connect to NATS").
			Retryable().
			WithContext("url", cfg.URL).
			Build()
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, errors.WrapError(err, errors.CategoryNetwork, "failed to create JetStream context").Build()
	}

	setupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := js.CreateOrUpdateStream(setupCtx, jetstream.StreamConfig{
		Name:        cfg.Stream,
		Description: "docnav build notifications",
		Subjects:    []string{cfg.Subject + ".>"},
		MaxAge:      7 * 24 * time.Hour,
	}); err != nil {
		conn.Close()
		return nil, errors.WrapError(err, errors.CategoryNetwork, "failed to ensure JetStream stream").
			WithContext("stream", cfg.Stream).
			Build()
	}

	kv, err := js.CreateOrUpdateKeyValue(setupCtx, jetstream.KeyValueConfig{
		Bucket:      cfg.KVBucket,
		Description: "Latest docnav build",
		History:     1,
	})
	if err != nil {
		conn.Close()
		return nil, errors.WrapError(err, errors.CategoryNetwork, "failed to ensure KV bucket").
			WithContext("bucket", cfg.KVBucket).
			Build()
	}

	slog.Info("NATS notifications enabled",
		logfields.URL(cfg.URL),
		slog.String("subject", cfg.Subject),
		slog.String("kv_bucket", cfg.KVBucket))

	return &NATSPublisher{cfg: cfg, conn: conn, js: js, kv: kv}, nil
}

// PublishBuild publishes the event and stores it as the latest build.
func (p *NATSPublisher) PublishBuild(ctx context.Context, event *BuildEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal build event").Build()
	}

	if _, err := p.js.Publish(ctx, p.cfg.BuildSubject(event.Status), data); err != nil {
		return errors.WrapError(err, errors.CategoryNetwork, "failed to publish build event").
			Retryable().
			WithContext("build_id", event.BuildID).
			Build()
	}
	if p.kv != nil {
		if _, err := p.kv.Put(ctx, LatestKey, data); err != nil {
			slog.Warn("Failed to record latest build", logfields.BuildID(event.BuildID), logfields.Error(err))
		}
	}

	slog.Debug("Published build event", logfields.BuildID(event.BuildID), slog.String("status", event.Status))
	return nil
}

// PublishBrokenLinks publishes one message per broken link. It stops at
// the first failure.
func (p *NATSPublisher) PublishBrokenLinks(ctx context.Context, events []linkverify.BrokenLinkEvent) error {
	subject := p.cfg.BrokenLinkSubject()
	for i := range events {
		data, err := json.Marshal(&events[i])
		if err != nil {
			return errors.WrapError(err, errors.CategoryInternal, "failed to marshal broken link event").Build()
		}
		pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		_, err = p.js.Publish(pubCtx, subject, data)
		cancel()
		if err != nil {
			return errors.WrapError(err, errors.CategoryNetwork, "failed to publish broken link event").
				Retryable().
				WithContext("url", events[i].URL).
				Build()
		}
	}
	if len(events) > 0 {
		slog.Debug("Published broken link events", logfields.Count(len(events)))
	}
	return nil
}

// Close drains the NATS connection.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
