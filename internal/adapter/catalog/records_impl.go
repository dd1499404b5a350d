package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/buger/jsonparser"
	"go.uber.org/zap"

	"github.com/user/dataset-explorer/internal/entity"
	"github.com/user/dataset-explorer/internal/repository"
	"github.com/user/dataset-explorer/pkg/metrics"
	"github.com/user/dataset-explorer/pkg/utils"
)

// rawLogLimit caps how much of a raw response goes into the debug log.
const rawLogLimit = 4096

// RecordsRepoImpl implements repository.RecordsRepository over the catalog records API.
type RecordsRepoImpl struct {
	client  *Client
	apiBase string
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewRecordsRepo creates a records fetcher rooted at apiBase
// (e.g. https://data.ajman.ae/api/explore/v2.1/catalog).
func NewRecordsRepo(client *Client, apiBase string, m *metrics.Metrics, l *zap.Logger) *RecordsRepoImpl {
	return &RecordsRepoImpl{client: client, apiBase: apiBase, metrics: m, logger: l}
}

// FetchRecords requests every record of the dataset. Any failure yields the empty table.
func (r *RecordsRepoImpl) FetchRecords(ctx context.Context, datasetID string) *entity.Table {
	start := time.Now()
	table, err := r.fetch(ctx, datasetID)
	r.metrics.ObserveFetch("records", repository.OutcomeLabel(err), time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, repository.ErrNoResults) {
			r.logger.Info("no records found in the response", zap.String("dataset", datasetID))
		} else {
			r.logger.Warn("records fetch failed", zap.String("dataset", datasetID), zap.Error(err))
		}
		return entity.EmptyTable()
	}

	r.logger.Info("records fetched",
		zap.String("dataset", datasetID),
		zap.Int("rows", table.Rows()),
		zap.Int("columns", len(table.Columns)),
	)
	return table
}

func (r *RecordsRepoImpl) fetch(ctx context.Context, datasetID string) (*entity.Table, error) {
	endpoint, err := r.recordsURL(datasetID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrTransport, err)
	}

	body, err := r.client.Get(ctx, endpoint, "application/json")
	if err != nil {
		return nil, err
	}

	r.logger.Debug("records response",
		zap.String("dataset", datasetID),
		zap.Int("bytes", len(body)),
		zap.ByteString("body", truncate(body, rawLogLimit)),
	)

	return DecodeRecords(body)
}

func (r *RecordsRepoImpl) recordsURL(datasetID string) (string, error) {
	if err := utils.ValidateDatasetID(datasetID); err != nil {
		return "", err
	}
	raw, err := utils.JoinURL(r.apiBase, "datasets", datasetID, "records")
	if err != nil {
		return "", err
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("limit", "-1")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// DecodeRecords reads the `results` list of a records response into a table.
// Key order inside each record is preserved, so columns follow first appearance.
func DecodeRecords(body []byte) (*entity.Table, error) {
	results, dataType, _, err := jsonparser.Get(body, "results")
	if err != nil {
		if errors.Is(err, jsonparser.KeyPathNotFoundError) {
			return nil, repository.ErrNoResults
		}
		return nil, fmt.Errorf("%w: %w", repository.ErrMalformedPayload, err)
	}
	switch dataType {
	case jsonparser.Array:
	case jsonparser.Null:
		return nil, repository.ErrNoResults
	default:
		return nil, fmt.Errorf("%w: results is not a list", repository.ErrMalformedPayload)
	}

	builder := entity.NewTableBuilder()
	rows := 0
	var recordErr error
	_, err = jsonparser.ArrayEach(results, func(value []byte, dt jsonparser.ValueType, _ int, err error) {
		if recordErr != nil {
			return
		}
		if err != nil {
			recordErr = err
			return
		}
		if dt != jsonparser.Object {
			recordErr = fmt.Errorf("record %d is not an object", rows)
			return
		}
		fields, err := decodeRecord(value)
		if err != nil {
			recordErr = fmt.Errorf("record %d: %w", rows, err)
			return
		}
		builder.AddRecord(fields)
		rows++
	})
	if err == nil {
		err = recordErr
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrMalformedPayload, err)
	}
	if rows == 0 {
		return nil, repository.ErrNoResults
	}
	return builder.Build(), nil
}

func decodeRecord(data []byte) ([]entity.Field, error) {
	var fields []entity.Field
	err := jsonparser.ObjectEach(data, func(key, value []byte, dt jsonparser.ValueType, _ int) error {
		name, err := jsonparser.ParseString(key)
		if err != nil {
			return err
		}
		v, err := decodeValue(value, dt)
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		fields = append(fields, entity.Field{Key: name, Value: v})
		return nil
	})
	return fields, err
}

func decodeValue(raw []byte, dt jsonparser.ValueType) (entity.Value, error) {
	switch dt {
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return entity.Value{}, err
		}
		return entity.String(s), nil
	case jsonparser.Number:
		f, err := jsonparser.ParseFloat(raw)
		if err != nil {
			return entity.Value{}, err
		}
		return entity.Number(f), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return entity.Value{}, err
		}
		return entity.Bool(b), nil
	case jsonparser.Null:
		return entity.Null(), nil
	case jsonparser.Object, jsonparser.Array:
		return entity.Nested(string(raw)), nil
	default:
		return entity.Value{}, fmt.Errorf("unknown value type %d", dt)
	}
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
