package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/poolhouse/poolhouse/internal/common/apperrors"
	"github.com/poolhouse/poolhouse/internal/common/httpx"
	commonmiddleware "github.com/poolhouse/poolhouse/internal/common/middleware"
	"github.com/poolhouse/poolhouse/internal/poolsrv/claim"
	"github.com/poolhouse/poolhouse/internal/poolsrv/config"
	"github.com/poolhouse/poolhouse/internal/poolsrv/db/models"
	"github.com/poolhouse/poolhouse/internal/poolsrv/poolmanager"
)

// Backend is the full persistence surface the server needs: arbitration
// transactions plus pool management. The PostgreSQL and in-memory stores
// both satisfy it.
type Backend interface {
	claim.Store
	CreatePool(ctx context.Context, pool *models.Pool, resources []claim.SingleOwnerResource, matchups []claim.MultiClaimantResource) apperrors.Error
	GetPool(ctx context.Context, poolID string) (*models.Pool, apperrors.Error)
	GetPoolByJoinCode(ctx context.Context, code string) (*models.Pool, apperrors.Error)
	SetPoolStatus(ctx context.Context, poolID string, status claim.PoolStatus) apperrors.Error
	ListResources(ctx context.Context, poolID string) ([]claim.SingleOwnerResource, apperrors.Error)
	ListMatchups(ctx context.Context, poolID string) ([]claim.MultiClaimantResource, apperrors.Error)
}

type PoolServer struct {
	Router  *chi.Mux
	manager *poolmanager.Manager
	arbiter *claim.Arbiter
	picks   *claim.PickArbiter
	runner  *claim.Runner
}

func CreateNewServer(backend Backend) (*PoolServer, error) {
	cfg := config.Config()

	var sink claim.Sink = claim.NopSink{}
	if cfg.TelemetryEnable {
		sink = claim.LogSink{}
	}

	s := &PoolServer{
		manager: poolmanager.NewManager(backend, cfg.DefaultStrips, cfg.JoinCodeLength),
		arbiter: claim.NewArbiter(backend),
		picks:   claim.NewPickArbiter(backend),
		runner:  claim.NewRunner(cfg.RetryAttempts, cfg.RetryDelay(), sink),
	}
	s.Router = chi.NewRouter()
	return s, nil
}

func (s *PoolServer) MountHandlers() {
	s.Router.Use(commonmiddleware.RequestLogger)
	s.Router.Use(commonmiddleware.PanicHandler)
	if config.Config().HandleCORS {
		s.Router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		}))
	}
	s.Router.Route("/", s.mountPoolHandlers)
}

func (s *PoolServer) mountPoolHandlers(r chi.Router) {
	for _, handler := range s.routes() {
		r.Method(handler.Method, handler.Path, httpx.WrapHttpRsp(handler.Handler))
	}
	r.Get("/version", s.getVersion)
}

type GetVersionRsp struct {
	ServerVersion string `json:"serverVersion"`
	ApiVersion    string `json:"apiVersion"`
}

func (s *PoolServer) getVersion(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Debug().Msg("GetVersion")
	rsp := &GetVersionRsp{
		ServerVersion: "Poolhouse Server: 0.1.0",
		ApiVersion:    "v1",
	}
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, rsp)
}
