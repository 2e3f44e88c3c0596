package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"senior-house/internal/models"
	"senior-house/internal/observability"
)

const wsRoutingKey = "ws_events.chat"

func newConnID() string {
	return uuid.NewString()
}

func publishLifecycle(ctx context.Context, info ConnInfo, event, reason string) {
	observability.IncWSEvent(wsKind, event)
	headers := observability.BuildHeaders(info.RequestID, info.TraceID)
	if err := observability.PublishEvent(ctx, wsRoutingKey, info.lifecycleEnvelope(event, reason), headers); err != nil {
		log.Printf("ws: lifecycle publish failed event=%s conn_id=%s err=%v", event, info.ConnID, err)
	}
}

func encode(event string, data any) ([]byte, error) {
	return json.Marshal(models.ServerEvent{Event: event, Data: data})
}
