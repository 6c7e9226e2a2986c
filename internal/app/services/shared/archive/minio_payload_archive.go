package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"paygate-service/internal/app/contracts"
	"paygate-service/internal/pkg/exceptions"

	"github.com/minio/minio-go/v7"
)

type minioPayloadArchive struct {
	client     *minio.Client
	bucketName string
}

func NewMinioPayloadArchive(client *minio.Client, bucketName string) contracts.PayloadArchive {
	return &minioPayloadArchive{
		client:     client,
		bucketName: bucketName,
	}
}

// Archive stores the raw notification body under a provider/date prefixed
// object name and returns the object name.
func (m *minioPayloadArchive) Archive(ctx context.Context, provider, eventID string, payload []byte, contentType string) (string, error) {
	objectName := fmt.Sprintf("%s/%s/%s", provider, time.Now().UTC().Format("2006-01-02"), eventID)

	_, err := m.client.PutObject(
		ctx,
		m.bucketName,
		objectName,
		bytes.NewReader(payload),
		int64(len(payload)),
		minio.PutObjectOptions{
			ContentType: contentType,
		},
	)
	if err != nil {
		return "", exceptions.ErrMinioCreateObject(err, m.bucketName)
	}

	return objectName, nil
}
