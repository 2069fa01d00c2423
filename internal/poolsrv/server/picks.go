package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/poolhouse/poolhouse/internal/common/apperrors"
	"github.com/poolhouse/poolhouse/internal/common/httpx"
	"github.com/poolhouse/poolhouse/internal/poolsrv/claim"
)

type pickReq struct {
	ClaimantID  string `json:"claimantId"`
	DisplayName string `json:"displayName"`
	Choice      string `json:"choice"`
}

type pickOp func(ctx context.Context, poolID, matchupID string, by claim.Claimant, choice string) (*claim.PickOutcome, apperrors.Error)

func (s *PoolServer) submitPick(r *http.Request) (*httpx.Response, error) {
	return s.handlePick(r, "pick", s.picks.SubmitPick)
}

// confirmPick commits a pick revision the user has explicitly confirmed.
// Cancelling a pending revision needs no endpoint: nothing was written.
func (s *PoolServer) confirmPick(r *http.Request) (*httpx.Response, error) {
	return s.handlePick(r, "pick_confirm", s.picks.ConfirmPick)
}

func (s *PoolServer) handlePick(r *http.Request, label string, op pickOp) (*httpx.Response, error) {
	ctx := r.Context()
	poolID := chi.URLParam(r, "poolID")
	matchupID := chi.URLParam(r, "matchupID")
	if poolID == "" || matchupID == "" {
		return nil, httpx.ErrInvalidResource()
	}

	req := &pickReq{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	by := claim.Claimant{ID: req.ClaimantID, DisplayName: req.DisplayName}

	var outcome *claim.PickOutcome
	err := s.runner.Run(ctx, label, by.ID, func(ctx context.Context) error {
		out, aerr := op(ctx, poolID, matchupID, by, req.Choice)
		if aerr != nil {
			return aerr
		}
		outcome = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	status := http.StatusOK
	if outcome.State == claim.PickPendingRevision {
		// Nothing was written; the client must confirm the overwrite.
		status = http.StatusAccepted
	}
	return &httpx.Response{StatusCode: status, Response: outcome}, nil
}
