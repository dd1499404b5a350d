package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/dataset-explorer/internal/entity"
	"github.com/user/dataset-explorer/internal/repository"
	"github.com/user/dataset-explorer/pkg/metrics"
)

func newTestRecordsRepo(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *RecordsRepoImpl {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewRecordsRepo(NewClient(timeout, nil), server.URL+"/api/explore/v2.1/catalog", metrics.NewNop(), zap.NewNop())
}

func TestFetchRecords_RequestsUnboundedResultSet(t *testing.T) {
	var gotPath, gotLimit string
	repo := newTestRecordsRepo(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_count": 1, "results": [{"a": 1}]}`))
	}, time.Second)

	table := repo.FetchRecords(context.Background(), "road-works")

	assert.Equal(t, "/api/explore/v2.1/catalog/datasets/road-works/records", gotPath)
	assert.Equal(t, "-1", gotLimit)
	assert.Equal(t, 1, table.Rows())
}

func TestFetchRecords_NormalizesHeterogeneousRecords(t *testing.T) {
	repo := newTestRecordsRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [
			{"region": "Al Nuaimiya", "population": 1200, "survey_date": "2021-03-01"},
			{"population": 800.5, "active": true, "location": {"lat": 25.4, "lon": 55.5}},
			{"region": "Al \"Rashidiya\"", "survey_date": null}
		]}`))
	}, time.Second)

	table := repo.FetchRecords(context.Background(), "population")
	require.False(t, table.Empty())
	require.Equal(t, 3, table.Rows())

	var names []string
	for _, c := range table.Columns {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"region", "population", "survey_date", "active", "location"}, names)

	region := table.Column("region")
	assert.Equal(t, entity.String("Al Nuaimiya"), region.Values[0])
	assert.True(t, region.Values[1].IsNull())
	assert.Equal(t, `Al "Rashidiya"`, region.Values[2].Str)

	population := table.Column("population")
	assert.Equal(t, entity.Number(1200), population.Values[0])
	assert.Equal(t, entity.Number(800.5), population.Values[1])
	assert.True(t, population.Values[2].IsNull())

	assert.Equal(t, entity.Bool(true), table.Column("active").Values[1])
	assert.Equal(t, entity.KindNested, table.Column("location").Values[1].Kind)
	assert.True(t, table.Column("survey_date").Values[2].IsNull())
}

func TestFetchRecords_DegradesToEmptyTable(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		"not found": func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		},
		"missing results field": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"total_count": 0}`))
		},
		"empty results": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results": []}`))
		},
		"null results": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results": null}`))
		},
		"results not a list": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results": "nope"}`))
		},
		"record not an object": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results": [1, 2]}`))
		},
		"not json": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>maintenance</html>`))
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			repo := newTestRecordsRepo(t, handler, time.Second)
			table := repo.FetchRecords(context.Background(), "anything")
			require.NotNil(t, table)
			assert.True(t, table.Empty())
		})
	}
}

func TestFetchRecords_TimeoutDegradesToEmptyTable(t *testing.T) {
	release := make(chan struct{})
	repo := newTestRecordsRepo(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)
	defer close(release)

	table := repo.FetchRecords(context.Background(), "slow")
	assert.True(t, table.Empty())
}

func TestFetchRecords_UnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	repo := NewRecordsRepo(NewClient(time.Second, nil), base, metrics.NewNop(), zap.NewNop())
	assert.True(t, repo.FetchRecords(context.Background(), "gone").Empty())
}

func TestDecodeRecords_ErrorClasses(t *testing.T) {
	_, err := DecodeRecords([]byte(`{"results": []}`))
	assert.True(t, errors.Is(err, repository.ErrNoResults))
	assert.Equal(t, "empty", repository.OutcomeLabel(err))

	_, err = DecodeRecords([]byte(`{"results": [1]}`))
	assert.True(t, errors.Is(err, repository.ErrMalformedPayload))
	assert.Equal(t, "malformed", repository.OutcomeLabel(err))
}

func TestFetchRecords_RejectsMultiSegmentIdentifiers(t *testing.T) {
	var paths []string
	repo := newTestRecordsRepo(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"results": [{"a": 1}]}`))
	}, time.Second)

	for _, id := range []string{"roads/2023", "../../other"} {
		assert.True(t, repo.FetchRecords(context.Background(), id).Empty(), id)
	}
	assert.Empty(t, paths)
}
