package artifact

import (
	"context"
	"errors"

	"FinSight/internal/model"
	"FinSight/internal/storage"
)

// LoadProcessed downloads and decodes a ticker's processed artifact.
// A missing blob is not an error: it yields (nil, nil) so downstream
// stages treat it as an expected skip.
func LoadProcessed(ctx context.Context, store storage.ObjectStore, container, ticker string) (*model.ProcessedSeries, error) {
	data, err := store.Download(ctx, container, ProcessedBlobName(ticker))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return DecodeProcessed(ticker, data)
}
