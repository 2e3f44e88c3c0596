package telemetry

import (
	"context"
	"log"
	"strconv"
	"time"

	"senior-house/internal/observability"
)

const (
	LevelInfo = "info"
	LevelWarn = "warn"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// AuditEmitter records who changed what on the job board.
type AuditEmitter struct {
	publisher   Publisher
	routingKey  string
	service     string
	environment string
	now         func() time.Time
}

type AuditEnvelope struct {
	SchemaVersion int          `json:"schema_version"`
	EventType     string       `json:"event_type"`
	OccurredAt    string       `json:"occurred_at"`
	Service       string       `json:"service"`
	Environment   string       `json:"environment"`
	RequestID     string       `json:"request_id"`
	UserID        *string      `json:"user_id,omitempty"`
	Payload       AuditPayload `json:"payload"`
}

type AuditPayload struct {
	Level  string `json:"level"`
	Action string `json:"action"`
	Target string `json:"target,omitempty"`
	Text   string `json:"text"`
}

// AuditRecord is one audited action. UserID 0 means anonymous.
type AuditRecord struct {
	Level  string
	Action string
	Target string
	Text   string
	UserID int
}

func NewAuditEmitter(publisher Publisher, routingKey, service, environment string) *AuditEmitter {
	return &AuditEmitter{
		publisher:   publisher,
		routingKey:  routingKey,
		service:     service,
		environment: environment,
		now:         time.Now,
	}
}

// Record publishes rec with the request id carried by ctx. Publish failures are logged only.
func (e *AuditEmitter) Record(ctx context.Context, rec AuditRecord) {
	if e == nil || e.publisher == nil {
		return
	}
	if rec.Level == "" {
		rec.Level = LevelInfo
	}

	envelope := e.envelope(observability.RequestIDFromContext(ctx), rec)
	log.Printf("audit: action=%s level=%s request_id=%s user_id=%d target=%s", rec.Action, rec.Level, envelope.RequestID, rec.UserID, rec.Target)

	if err := e.publisher.Publish(ctx, e.routingKey, envelope); err != nil {
		log.Printf("audit publish failed: action=%s err=%v", rec.Action, err)
	}
}

func (e *AuditEmitter) envelope(requestID string, rec AuditRecord) AuditEnvelope {
	var userID *string
	if rec.UserID > 0 {
		id := strconv.Itoa(rec.UserID)
		userID = &id
	}
	return AuditEnvelope{
		SchemaVersion: 1,
		EventType:     "audit_log",
		OccurredAt:    e.now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		RequestID:     requestID,
		UserID:        userID,
		Payload: AuditPayload{
			Level:  rec.Level,
			Action: rec.Action,
			Target: rec.Target,
			Text:   rec.Text,
		},
	}
}
