package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avmartell/stockroom-backend/api/controllers"
	"github.com/avmartell/stockroom-backend/api/middleware"
	"github.com/avmartell/stockroom-backend/internal/groups"
	"github.com/avmartell/stockroom-backend/internal/inventory"
	"github.com/avmartell/stockroom-backend/pkg/config"
	"github.com/avmartell/stockroom-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	cachePinger controllers.Pinger,
	itemService inventory.Service,
	groupService groups.Service,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, cachePinger))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/items", func(r chi.Router) {
		r.Get("/", controllers.ItemsList(itemService, logg))
		r.Post("/", controllers.ItemsCreate(itemService, logg))
		r.Get("/categories", controllers.ItemsCategories(itemService, logg))
		r.Get("/suppliers", controllers.ItemsSuppliers(itemService, logg))
		r.Route("/{itemID}", func(r chi.Router) {
			r.Get("/", controllers.ItemsGet(itemService, logg))
			r.Put("/", controllers.ItemsUpdate(itemService, logg))
			r.Delete("/", controllers.ItemsDelete(itemService, logg))
			r.Post("/adjust", controllers.ItemsAdjust(itemService, logg))
		})
	})

	r.Route("/api/v1/groups", func(r chi.Router) {
		r.Get("/", controllers.GroupsList(groupService, logg))
		r.Post("/", controllers.GroupsCreate(groupService, logg))
		r.Route("/{groupID}", func(r chi.Router) {
			r.Get("/", controllers.GroupsGet(groupService, logg))
			r.Patch("/", controllers.GroupsRename(groupService, logg))
			r.Delete("/", controllers.GroupsDelete(groupService, logg))
			r.Post("/items", controllers.GroupsAddItem(groupService, logg))
			r.Route("/items/{itemID}", func(r chi.Router) {
				r.Put("/", controllers.GroupsSetItemQty(groupService, logg))
				r.Delete("/", controllers.GroupsRemoveItem(groupService, logg))
			})
		})
	})

	return r
}
