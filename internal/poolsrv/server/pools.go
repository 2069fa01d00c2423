package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/poolhouse/poolhouse/internal/common/httpx"
	"github.com/poolhouse/poolhouse/internal/poolsrv/claim"
	"github.com/poolhouse/poolhouse/internal/poolsrv/poolmanager"
)

func (s *PoolServer) createPool(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	req := &poolmanager.CreatePoolRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}

	pool, err := s.manager.CreatePool(ctx, req)
	if err != nil {
		return nil, err
	}

	return &httpx.Response{
		StatusCode: http.StatusCreated,
		Location:   "/pools/" + pool.PoolID,
		Response:   pool,
	}, nil
}

func (s *PoolServer) getPool(r *http.Request) (*httpx.Response, error) {
	poolID := chi.URLParam(r, "poolID")
	if poolID == "" {
		return nil, httpx.ErrInvalidPool()
	}

	pool, err := s.manager.GetPool(r.Context(), poolID)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: pool}, nil
}

func (s *PoolServer) getPoolByJoinCode(r *http.Request) (*httpx.Response, error) {
	code := chi.URLParam(r, "joinCode")
	if code == "" {
		return nil, httpx.ErrInvalidRequest("missing join code")
	}

	pool, err := s.manager.GetPoolByJoinCode(r.Context(), code)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: pool}, nil
}

type setPoolStatusReq struct {
	Status string `json:"status"`
}

func (s *PoolServer) setPoolStatus(r *http.Request) (*httpx.Response, error) {
	poolID := chi.URLParam(r, "poolID")
	if poolID == "" {
		return nil, httpx.ErrInvalidPool()
	}

	req := &setPoolStatusReq{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}

	if err := s.manager.SetStatus(r.Context(), poolID, claim.PoolStatus(req.Status)); err != nil {
		return nil, err
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: map[string]string{"status": req.Status}}, nil
}

func (s *PoolServer) listResources(r *http.Request) (*httpx.Response, error) {
	poolID := chi.URLParam(r, "poolID")
	if poolID == "" {
		return nil, httpx.ErrInvalidPool()
	}

	resources, err := s.manager.ListResources(r.Context(), poolID)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: resources}, nil
}

func (s *PoolServer) listMatchups(r *http.Request) (*httpx.Response, error) {
	poolID := chi.URLParam(r, "poolID")
	if poolID == "" {
		return nil, httpx.ErrInvalidPool()
	}

	matchups, err := s.manager.ListMatchups(r.Context(), poolID)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: matchups}, nil
}
