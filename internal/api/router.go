package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/phrazzld/shelf-api/internal/api/middleware"
	"github.com/phrazzld/shelf-api/internal/api/shared"
	"github.com/phrazzld/shelf-api/internal/authz"
	"github.com/phrazzld/shelf-api/internal/config"
	"github.com/phrazzld/shelf-api/internal/service"
)

// RouterDeps holds everything NewRouter wires into handlers.
type RouterDeps struct {
	Auth        AuthService
	Users       service.UserService
	Books       service.BookService
	Authors     service.AuthorService
	BookAuthors service.BookAuthorService

	// Redis backs the credential endpoint rate limiter; nil disables it.
	Redis     *redis.Client
	RateLimit config.RateLimitConfig

	AllowedOrigins []string
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// NewRouter builds the HTTP handler for the whole API. Every request is
// authenticated first; each route then checks its policy before any body is
// decoded.
func NewRouter(deps RouterDeps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Trace(log))
	r.Use(middleware.CORS(deps.AllowedOrigins))
	r.Use(middleware.NewAuthMiddleware(deps.Auth).Authenticate)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method \""+r.Method+"\" not allowed.")
	})

	authHandler := NewAuthHandler(deps.Auth, log)
	userHandler := NewUserHandler(deps.Users, deps.MaxUploadBytes, log)
	bookHandler := NewBookHandler(deps.Books, log)
	authorHandler := NewAuthorHandler(deps.Authors, log)
	bookAuthorHandler := NewBookAuthorHandler(deps.BookAuthors, log)

	limit := middleware.RateLimit(
		deps.Redis,
		deps.RateLimit.Requests,
		time.Duration(deps.RateLimit.WindowSeconds)*time.Second,
		middleware.KeyByIPAndPath(),
	)
	session := func(action authz.Action) func(http.Handler) http.Handler {
		return middleware.Authorize(authz.SessionPolicy, action)
	}

	r.With(limit, session(authz.Register)).Post("/register", authHandler.Register)
	r.With(limit, session(authz.Login)).Post("/login", authHandler.Login)
	r.With(session(authz.Logout)).Get("/logout", authHandler.Logout)

	r.Route("/users", func(r chi.Router) {
		allow := func(action authz.Action) func(http.Handler) http.Handler {
			return middleware.Authorize(authz.UserPolicy, action)
		}
		r.With(allow(authz.List)).Get("/", userHandler.ListUsers)
		// Create is not declared in UserPolicy, so this route always denies.
		r.With(allow(authz.Create)).Post("/", func(w http.ResponseWriter, r *http.Request) {
			HandleAPIError(w, r, authz.ErrPermissionDenied, "")
		})
		r.With(allow(authz.Retrieve)).Get("/{id}", userHandler.GetUser)
		r.With(allow(authz.PartialUpdate)).Patch("/{id}", userHandler.UpdateUser)
		r.With(allow(authz.Delete)).Delete("/{id}", userHandler.DeactivateUser)
		r.With(allow(authz.PartialUpdate)).Post("/{id}/image", userHandler.UploadImage)
	})

	catalog := func(action authz.Action) func(http.Handler) http.Handler {
		return middleware.Authorize(authz.CatalogPolicy, action)
	}

	r.Route("/books", func(r chi.Router) {
		r.With(catalog(authz.List)).Get("/", bookHandler.ListBooks)
		r.With(catalog(authz.Create)).Post("/", bookHandler.CreateBook)
		r.With(catalog(authz.Retrieve)).Get("/{id}", bookHandler.GetBook)
		r.With(catalog(authz.PartialUpdate)).Patch("/{id}", bookHandler.UpdateBook)
		r.With(catalog(authz.Delete)).Delete("/{id}", bookHandler.DeleteBook)
	})

	r.Route("/authors", func(r chi.Router) {
		r.With(catalog(authz.List)).Get("/", authorHandler.ListAuthors)
		r.With(catalog(authz.Create)).Post("/", authorHandler.CreateAuthor)
		r.With(catalog(authz.Retrieve)).Get("/{id}", authorHandler.GetAuthor)
		r.With(catalog(authz.PartialUpdate)).Patch("/{id}", authorHandler.UpdateAuthor)
		r.With(catalog(authz.Delete)).Delete("/{id}", authorHandler.DeleteAuthor)
	})

	r.Route("/book-authors", func(r chi.Router) {
		r.With(catalog(authz.List)).Get("/", bookAuthorHandler.ListBookAuthors)
		r.With(catalog(authz.Create)).Post("/", bookAuthorHandler.CreateBookAuthor)
		r.With(catalog(authz.Retrieve)).Get("/{id}", bookAuthorHandler.GetBookAuthor)
		r.With(catalog(authz.PartialUpdate)).Patch("/{id}", bookAuthorHandler.UpdateBookAuthor)
		r.With(catalog(authz.Delete)).Delete("/{id}", bookAuthorHandler.DeleteBookAuthor)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
