package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type ObjectStorageMock struct {
	mock.Mock
}

func (m *ObjectStorageMock) Upload(ctx context.Context, prefix, filename, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, prefix, filename, contentType, body)
	return args.String(0), args.Error(1)
}

func (m *ObjectStorageMock) Delete(ctx context.Context, objectURL string) error {
	args := m.Called(ctx, objectURL)
	return args.Error(0)
}
