package metric

import (
	"context"
	"time"
)

func database(reader EmptyReader) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return reader.EmptyRead(ctx)
}
