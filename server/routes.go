package server

import (
	"net/http"
	"os"
	"time"

	"github.com/RemoteState/secondlife-server/handlers"
	"github.com/RemoteState/secondlife-server/media"
	"github.com/RemoteState/secondlife-server/middlewares"
	"github.com/RemoteState/secondlife-server/models"
	"github.com/RemoteState/secondlife-server/utils"
	"github.com/go-chi/chi"
)

const (
	readTimeout  = 15 * time.Second
	writeTimeout = 60 * time.Second
)

var availableRoutes = []string{
	"GET /api/health",
	"GET /api/ready",
	"GET /api/items",
	"GET /api/items/:id",
	"POST /api/items",
	"PATCH /api/items/:id/like",
	"DELETE /api/items/:id",
	"GET /api/filters",
	"GET /api/stats",
}

type Server struct {
	chi.Router
}

// Options tune the router beyond the catalog handlers.
type Options struct {
	AllowedOrigins []string
	// UploadsDir is served under /uploads/ when set
	UploadsDir string
}

func routeNotFound(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusNotFound, models.RouteNotFoundResponse{
		Success:         false,
		Message:         "Route " + r.URL.RequestURI() + " not found",
		AvailableRoutes: availableRoutes,
	})
}

// SetupRoutes provides all the routes that can be used
func SetupRoutes(h *handlers.Handler, opts Options) *Server {
	router := chi.NewRouter()
	router.Use(middlewares.CommonMiddlewares(opts.AllowedOrigins)...)

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/ready", h.Ready)

		r.Route("/items", func(item chi.Router) {
			item.Get("/", h.GetAllItems)
			item.Post("/", h.CreateItem)
			item.Get("/{id}", h.GetItemByID)
			item.Patch("/{id}/like", h.ToggleLike)
			item.Delete("/{id}", h.DeleteItem)
		})

		r.Get("/filters", h.GetFilterOptions)
		r.Get("/stats", h.GetStats)
	})

	if opts.UploadsDir != "" {
		fs := http.StripPrefix(media.LocalPathPrefix, http.FileServer(filesOnly{http.Dir(opts.UploadsDir)}))
		router.Get(media.LocalPathPrefix+"*", fs.ServeHTTP)
	}

	router.NotFound(routeNotFound)
	router.MethodNotAllowed(routeNotFound)

	return &Server{Router: router}
}

// filesOnly hides directories so the uploads folder cannot be listed.
type filesOnly struct {
	http.FileSystem
}

func (fs filesOnly) Open(name string) (http.File, error) {
	file, err := fs.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}

// HTTPServer wraps the router into a server listening on addr.
func (svc *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      svc,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
}
