package certificates

import (
	"bytes"
	"context"
	"image/color"
	"io"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEmblemSource is a mock implementation of the EmblemSource interface
type MockEmblemSource struct {
	mock.Mock
}

func (m *MockEmblemSource) Load(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockQREncoder is a mock implementation of the QREncoder interface
type MockQREncoder struct {
	mock.Mock
}

func (m *MockQREncoder) Encode(ctx context.Context, certificateNumber string) (*QRImage, error) {
	args := m.Called(ctx, certificateNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*QRImage), args.Error(1)
}

// MockGenerator is a mock implementation of the Generator interface
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateDocument(ctx context.Context, req DocumentRequest) (*GeneratedDocument, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GeneratedDocument), args.Error(1)
}

// MockS3Client is a mock implementation of the storage.S3Client interface
type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) Upload(ctx context.Context, bucket, key, contentType string, body io.Reader) error {
	args := m.Called(ctx, bucket, key, contentType, body)
	return args.Error(0)
}

func (m *MockS3Client) GetPresignedURL(ctx context.Context, bucket, key string, expiration time.Duration) (string, error) {
	args := m.Called(ctx, bucket, key, expiration)
	return args.String(0), args.Error(1)
}

// MockService is a mock implementation of the Service interface
type MockService struct {
	mock.Mock
}

func (m *MockService) GenerateDocument(ctx context.Context, req DocumentRequest) (*IssuedDocument, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*IssuedDocument), args.Error(1)
}

func (m *MockService) GenerateNumber(ctx context.Context, req NumberRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// testEmblem returns a small opaque PNG
func testEmblem(t *testing.T) []byte {
	t.Helper()
	img := imaging.New(64, 64, color.NRGBA{R: 20, G: 90, B: 160, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func boolPtr(v bool) *bool       { return &v }
func stringPtr(v string) *string { return &v }
