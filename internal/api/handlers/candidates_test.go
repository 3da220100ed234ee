package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/lpr/internal/models"
	"github.com/your-org/lpr/internal/search"
	"github.com/your-org/lpr/pkg/dto"
)

type stubCandidateStore struct {
	candidates []models.PlateCandidate
	err        error
}

func (s *stubCandidateStore) ListCandidates(_ context.Context, limit int) ([]models.PlateCandidate, error) {
	if s.err != nil {
		return nil, s.err
	}
	if limit < len(s.candidates) {
		return s.candidates[:limit], nil
	}
	return s.candidates, nil
}

func (s *stubCandidateStore) GetCandidate(_ context.Context, id uuid.UUID) (*models.PlateCandidate, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.candidates {
		if s.candidates[i].ID == id {
			return &s.candidates[i], nil
		}
	}
	return nil, nil
}

func newCandidateRouter(t *testing.T, store *stubCandidateStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	formatter, err := search.NewFormatter("Asia/Bangkok", true)
	require.NoError(t, err)

	h := NewCandidateHandler(store, nil, formatter)
	r := gin.New()
	r.GET("/v1/candidates", h.List)
	r.GET("/v1/candidates/:id", h.Get)
	return r
}

func TestListCandidatesReturnsRows(t *testing.T) {
	store := &stubCandidateStore{candidates: []models.PlateCandidate{
		{ID: uuid.New(), Plate: "กข1234", Province: "กรุงเทพมหานคร", CreatedAt: time.Now()},
		{ID: uuid.New(), Plate: "1กก9999", Province: "เชียงใหม่", CreatedAt: time.Now()},
	}}
	r := newCandidateRouter(t, store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/candidates", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.CandidateListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Candidates, 2)
	assert.Equal(t, "กข1234", resp.Candidates[0].Plate)
}

func TestListCandidatesStoreFailureDegradesToEmpty(t *testing.T) {
	store := &stubCandidateStore{err: errors.New("connection refused")}
	r := newCandidateRouter(t, store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/candidates", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.CandidateListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Total)
	assert.Empty(t, resp.Candidates)
}

func TestGetCandidateStoreFailureReadsAsMissing(t *testing.T) {
	store := &stubCandidateStore{err: errors.New("connection refused")}
	r := newCandidateRouter(t, store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/candidates/"+uuid.NewString(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
