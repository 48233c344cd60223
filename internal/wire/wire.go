package wire

import (
	"net/http"

	"transit-hub/internal/adaptor"
	"transit-hub/internal/data/repository"
	"transit-hub/internal/usecase"
	"transit-hub/pkg/middleware"
	"transit-hub/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type App struct {
	Router *chi.Mux
}

// Wiring builds the service graph and the HTTP router. Publisher, cache
// and gateway are the engine's external collaborators; any of them may be
// nil in local or test setups.
func Wiring(repo *repository.Repository, config *utils.Config, publisher usecase.EventPublisher, cache usecase.AvailabilityCache, gateway usecase.PaymentGateway, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, publisher, cache, gateway, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireAuth(r, handler.Auth, config, logger)
	wireBooking(r, handler.Booking, config, logger)
	wireSearch(r, handler.Search)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
