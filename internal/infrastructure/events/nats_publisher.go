package events

import (
	"context"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/nats-io/nats.go"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/trace"

	"github.com/Joona374/BracketChallenge2.0/internal/platform/logging"
)

const (
	DefaultSubjectPrefix = "bracketchallenge"
	traceIDHeader        = "Trace-Id"
)

type NATSConfig struct {
	URL           string
	SubjectPrefix string
	ClientName    string
	MaxReconnects int
	ReconnectWait time.Duration
}

func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		SubjectPrefix: DefaultSubjectPrefix,
		ClientName:    "bracket-challenge-api",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

// msgConn is the part of *nats.Conn the publisher needs.
type msgConn interface {
	PublishMsg(msg *nats.Msg) error
	Drain() error
}

// Envelope wraps every published payload.
type Envelope struct {
	Subject     string    `json:"subject"`
	PublishedAt time.Time `json:"publishedAt"`
	Payload     any       `json:"payload"`
}

type NATSPublisher struct {
	conn   msgConn
	prefix string
	logger *logging.Logger
	now    func() time.Time
}

func NewNATSPublisher(cfg NATSConfig, logger *logging.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = logging.Default()
	}
	defaults := DefaultNATSConfig()
	if strings.TrimSpace(cfg.URL) == "" {
		cfg.URL = defaults.URL
	}
	if cfg.ReconnectWait <= 0 {
		cfg.ReconnectWait = defaults.ReconnectWait
	}
	if cfg.ClientName == "" {
		cfg.ClientName = defaults.ClientName
	}

	nc, err := nats.Connect(cfg.URL,
		nats.Name(cfg.ClientName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			logger.Error("nats async error", "error", err)
		}),
	)
	if err != nil {
		return nil, crerr.Wrapf(err, "connect nats url=%s", cfg.URL)
	}

	logger.Info("nats publisher connected", "url", nc.ConnectedUrl(), "subject_prefix", cfg.SubjectPrefix)
	return newPublisher(nc, cfg.SubjectPrefix, logger), nil
}

func newPublisher(conn msgConn, prefix string, logger *logging.Logger) *NATSPublisher {
	if logger == nil {
		logger = logging.Default()
	}
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSPublisher{
		conn:   conn,
		prefix: prefix,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (p *NATSPublisher) Publish(ctx context.Context, subject string, payload any) error {
	subject = strings.Trim(strings.TrimSpace(subject), ".")
	if subject == "" {
		return crerr.New("event subject is required")
	}
	if err := ctx.Err(); err != nil {
		return crerr.Wrap(err, "publish event")
	}

	full := p.subject(subject)
	data, err := sonic.Marshal(Envelope{
		Subject:     subject,
		PublishedAt: p.now(),
		Payload:     payload,
	})
	if err != nil {
		return crerr.Wrapf(err, "marshal event subject=%s", full)
	}

	msg := nats.NewMsg(full)
	msg.Data = data
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		msg.Header.Set(traceIDHeader, sc.TraceID().String())
	}

	if err := p.conn.PublishMsg(msg); err != nil {
		return crerr.Wrapf(err, "publish event subject=%s", full)
	}
	p.logger.DebugContext(ctx, "event published", "subject", full, "bytes", len(data))
	return nil
}

// Close drains pending messages before closing the connection.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	if err := p.conn.Drain(); err != nil {
		return crerr.Wrap(err, "drain nats connection")
	}
	return nil
}

func (p *NATSPublisher) subject(name string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(p.prefix)
	_ = buf.WriteByte('.')
	_, _ = buf.WriteString(name)
	return buf.String()
}
