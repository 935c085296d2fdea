package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferc1-etl/internal/etl"
)

func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewServer(":0", etl.NewPipeline(db, etl.DefaultConfig(), nil)), mock
}

func plantColumns() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"plant_id_ferc1", "record_id", "report_year", "plant_name"})
}

func TestHandlePlantsGroupsByPlantID(t *testing.T) {
	s, mock := newTestServer(t)
	mock.ExpectQuery("SELECT plant_id_ferc1").WillReturnRows(plantColumns().
		AddRow(0, "2010_1_0_1", 2010, "riverside").
		AddRow(0, "2011_1_0_1", 2011, "riverside").
		AddRow(1, "2010_2_0_1", 2010, "big sandy"))

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/plants/steam", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Table  string `json:"table"`
		Plants map[string][]struct {
			RecordID string `json:"record_id"`
		} `json:"plants"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "steam", resp.Table)
	assert.Len(t, resp.Plants, 2)
	assert.Len(t, resp.Plants["0"], 2)
}

func TestHandlePlantsDriverError(t *testing.T) {
	s, mock := newTestServer(t)
	// The connection drops mid-iteration: the response must not be a
	// truncated plant list with a success status.
	mock.ExpectQuery("SELECT plant_id_ferc1").WillReturnRows(plantColumns().
		AddRow(0, "2010_1_0_1", 2010, "riverside").
		RowError(0, errors.New("connection reset")))

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/plants/steam", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandlePlantsUnknownTable(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/plants/fusion", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleStatusBeforeAnyRun(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Tables []etl.TableStats `json:"tables"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Tables)
}
