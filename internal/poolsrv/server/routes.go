package server

import (
	"net/http"

	"github.com/poolhouse/poolhouse/internal/common/httpx"
)

func (s *PoolServer) routes() []httpx.ResponseHandlerParam {
	return []httpx.ResponseHandlerParam{
		{
			Method:  http.MethodPost,
			Path:    "/pools",
			Handler: s.createPool,
		},
		{
			Method:  http.MethodGet,
			Path:    "/pools/{poolID}",
			Handler: s.getPool,
		},
		{
			Method:  http.MethodGet,
			Path:    "/pools/join/{joinCode}",
			Handler: s.getPoolByJoinCode,
		},
		{
			Method:  http.MethodPost,
			Path:    "/pools/{poolID}/status",
			Handler: s.setPoolStatus,
		},
		{
			Method:  http.MethodGet,
			Path:    "/pools/{poolID}/resources",
			Handler: s.listResources,
		},
		{
			Method:  http.MethodGet,
			Path:    "/pools/{poolID}/resources/{resourceID}",
			Handler: s.getResource,
		},
		{
			Method:  http.MethodPost,
			Path:    "/pools/{poolID}/resources/{resourceID}/claim",
			Handler: s.claimResource,
		},
		{
			Method:  http.MethodGet,
			Path:    "/pools/{poolID}/matchups",
			Handler: s.listMatchups,
		},
		{
			Method:  http.MethodPost,
			Path:    "/pools/{poolID}/matchups/{matchupID}/picks",
			Handler: s.submitPick,
		},
		{
			Method:  http.MethodPost,
			Path:    "/pools/{poolID}/matchups/{matchupID}/picks/confirm",
			Handler: s.confirmPick,
		},
	}
}
