package handlers

import (
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/camden-git/familyring/realtime"
	"github.com/camden-git/familyring/workspace"
)

// RouterConfig carries what the HTTP API needs.
type RouterConfig struct {
	Workspace      *workspace.Workspace
	Hub            *realtime.Hub // optional
	Gatherer       prometheus.Gatherer
	ExportDir      string
	AllowedOrigins []string
}

// NewRouter builds the API router.
func NewRouter(rc RouterConfig) http.Handler {
	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   rc.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsHandler.Handler)

	personHandler := &PersonHandler{WS: rc.Workspace}
	familyHandler := &FamilyHandler{WS: rc.Workspace}
	transferHandler := &TransferHandler{WS: rc.Workspace, ExportDir: rc.ExportDir}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Route("/people", func(r chi.Router) {
			r.Get("/", personHandler.ListPeople)
			r.Post("/root", personHandler.CreateRoot)
			r.Route("/{code}", func(r chi.Router) {
				r.Get("/", personHandler.GetPerson)
				r.Put("/", personHandler.UpdatePerson)
				r.Delete("/", personHandler.DeletePerson)
				r.Post("/partner", personHandler.CreatePartner)
				r.Post("/children", personHandler.CreateChild)
			})
		})

		r.Get("/stats", familyHandler.Stats)
		r.Get("/tree", familyHandler.Tree)

		r.Route("/history", func(r chi.Router) {
			r.Get("/", familyHandler.History)
			r.Post("/undo", familyHandler.Undo)
			r.Post("/redo", familyHandler.Redo)
		})

		r.Get("/export", transferHandler.Export)
		r.Post("/import", transferHandler.Import)

		if rc.ExportDir != "" {
			exportSubDir := filepath.Base(rc.ExportDir)
			r.Post("/exports", transferHandler.SaveArchive)
			r.Get("/"+exportSubDir+"/*", AssetServer(filepath.Dir(rc.ExportDir), exportSubDir))
			log.Printf("Registered export archive server at /api/%s/*", exportSubDir)
		}
	})

	if rc.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(rc.Gatherer, promhttp.HandlerOpts{}))
	}
	if rc.Hub != nil {
		r.Get("/ws", rc.Hub.ServeWS)
	}

	return r
}
