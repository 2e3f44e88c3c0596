package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"senior-house/internal/mocks"
	"senior-house/internal/observability"
)

func TestPublishEventWithoutPublisher(t *testing.T) {
	observability.SetPublisher(nil)
	assert.NoError(t, observability.PublishEvent(context.Background(), "ws_events.chat", struct{}{}, nil))
}

func TestPublishDomainEventCarriesRequestID(t *testing.T) {
	pub := new(mocks.PublisherMock)
	observability.SetPublisher(pub)
	defer observability.SetPublisher(nil)

	pub.On("PublishJSON", mock.Anything, "domain.application_created",
		mock.MatchedBy(func(env observability.EventEnvelope) bool {
			return env.EventType == "domain" && env.EventName == "application_created"
		}),
		map[string]string{"x-request-id": "req-9"},
	).Return(nil).Once()

	ctx := observability.WithRequestID(context.Background(), "req-9")
	observability.PublishDomainEvent(ctx, "application_created", map[string]int{"job_id": 1})

	pub.AssertExpectations(t)
}

func TestPublishEventReturnsPublisherError(t *testing.T) {
	pub := new(mocks.PublisherMock)
	observability.SetPublisher(pub)
	defer observability.SetPublisher(nil)

	pub.On("PublishJSON", mock.Anything, "ws_events.chat", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	err := observability.PublishEvent(context.Background(), "ws_events.chat", struct{}{}, nil)

	assert.ErrorIs(t, err, assert.AnError)
}

func TestBuildHeaders(t *testing.T) {
	assert.Empty(t, observability.BuildHeaders("", ""))
	assert.Equal(t, map[string]string{"x-request-id": "r", "trace_id": "t"}, observability.BuildHeaders("r", "t"))
}
