package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/poolhouse/poolhouse/internal/common/httpx"
	"github.com/poolhouse/poolhouse/internal/poolsrv/claim"
	"github.com/poolhouse/poolhouse/internal/poolsrv/claim/claimerror"
)

type claimReq struct {
	ClaimantID  string `json:"claimantId"`
	DisplayName string `json:"displayName"`
}

// claimConflictRsp tells the loser who beat them to the resource.
type claimConflictRsp struct {
	Error          string `json:"error"`
	CurrentOwnerID string `json:"currentOwnerId"`
	CurrentOwner   string `json:"currentOwner"`
}

func (s *PoolServer) claimResource(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	poolID := chi.URLParam(r, "poolID")
	resourceID := chi.URLParam(r, "resourceID")
	if poolID == "" || resourceID == "" {
		return nil, httpx.ErrInvalidResource()
	}

	req := &claimReq{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	by := claim.Claimant{ID: req.ClaimantID, DisplayName: req.DisplayName}

	var res *claim.SingleOwnerResource
	err := s.runner.Run(ctx, "claim", by.ID, func(ctx context.Context) error {
		out, aerr := s.arbiter.Claim(ctx, poolID, resourceID, by)
		if out != nil {
			res = out
		}
		if aerr != nil {
			return aerr
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, claimerror.ErrAlreadyClaimed) && res != nil {
			return &httpx.Response{
				StatusCode: http.StatusConflict,
				Response: claimConflictRsp{
					Error:          err.Error(),
					CurrentOwnerID: res.OwnerID,
					CurrentOwner:   res.OwnerName,
				},
			}, nil
		}
		return nil, err
	}

	return &httpx.Response{StatusCode: http.StatusOK, Response: res}, nil
}

func (s *PoolServer) getResource(r *http.Request) (*httpx.Response, error) {
	poolID := chi.URLParam(r, "poolID")
	resourceID := chi.URLParam(r, "resourceID")
	if poolID == "" || resourceID == "" {
		return nil, httpx.ErrInvalidResource()
	}

	res, err := s.arbiter.GetResource(r.Context(), poolID, resourceID)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: res}, nil
}
