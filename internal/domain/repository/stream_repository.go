package repository

import (
	"context"
)

// StreamRepository - интерфейс для публикации в Redis Streams
type StreamRepository interface {
	// PublishToStream публикует сообщение в стрим
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}
