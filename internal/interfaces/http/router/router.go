// Package router assembles the gin engine of the cart API.
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/storefront/cart/docs"
	"github.com/storefront/cart/internal/domain/identity"
	"github.com/storefront/cart/internal/infrastructure/config"
	"github.com/storefront/cart/internal/infrastructure/logger"
	"github.com/storefront/cart/internal/interfaces/http/middleware"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a RouteRegistrar to be registered by Setup
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes under /api/<version>
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// EngineOption configures optional middleware of NewEngine
type EngineOption func(*engineOptions)

type engineOptions struct {
	profilingLabels bool
}

// WithProfilingLabels labels profile samples with the route being served
func WithProfilingLabels() EngineOption {
	return func(o *engineOptions) {
		o.profilingLabels = true
	}
}

// NewEngine creates a gin engine with the cart API middleware chain:
// recovery, request id, tracing, request logging, CORS and a body limit.
func NewEngine(httpCfg config.HTTPConfig, serviceName string, log *zap.Logger, opts ...EngineOption) (*gin.Engine, error) {
	var options engineOptions
	for _, opt := range opts {
		opt(&options)
	}
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(httpCfg.TrustedProxies); err != nil {
		return nil, err
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = httpCfg.AllowOrigins

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		middleware.Tracing(serviceName),
		middleware.SpanEnricher(),
		logger.GinMiddleware(log),
		middleware.CORS(cors),
	)
	if httpCfg.MaxBodyBytes > 0 {
		engine.Use(middleware.BodyLimit(httpCfg.MaxBodyBytes))
	}
	if options.profilingLabels {
		engine.Use(middleware.ProfilingLabels())
	}
	return engine, nil
}

// RegisterSwagger serves the API documentation under /swagger. Bearer
// credentials are checked with resolver when cfg.RequireAuth is set.
func RegisterSwagger(engine *gin.Engine, cfg config.SwaggerConfig, resolver identity.Resolver) {
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg, middleware.BearerAuth(resolver)),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)
}
