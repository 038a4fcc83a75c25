// Package apistub is the development backend: a gin server implementing
// the storefront REST contract the HTTP gateway consumes. Products come
// from a seeded catalog, logins issue HS256 JWTs, and order routes demand
// a bearer token and belong to its subject. State is an in-memory table
// behind a mutex; restarting the server forgets everything.
package apistub

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SniraJavas/EcommerceWebApp/internal/shop"
)

// Config carries the stub's tunables. The zero value is usable for tests;
// a real deployment should at least set JWTSecret.
type Config struct {
	// JWTSecret signs session tokens.
	JWTSecret string

	// Issuer and Audience are stamped into every token and verified on
	// every guarded request.
	Issuer   string
	Audience string

	// TokenTTL bounds token life. Zero means 30 minutes.
	TokenTTL time.Duration

	// Catalog seeds the product table.
	Catalog []shop.Product

	// Accounts seeds the user table, email to password.
	Accounts map[string]string

	// Logger receives request and lifecycle logs. Nil means slog.Default.
	Logger *slog.Logger
}

// Server is the dev backend.
type Server struct {
	log      *slog.Logger
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration

	mu       sync.Mutex
	products []shop.Product
	accounts map[string]string
	orders   []shop.Order
}

// New builds a server from cfg.
func New(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = "shopfront-dev"
	}
	audience := cfg.Audience
	if audience == "" {
		audience = "shopfront"
	}
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = 30 * time.Minute
	}

	s := &Server{
		log:      log,
		secret:   []byte(cfg.JWTSecret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		products: append([]shop.Product(nil), cfg.Catalog...),
		accounts: make(map[string]string, len(cfg.Accounts)),
	}
	for email, password := range cfg.Accounts {
		s.accounts[email] = password
	}
	return s
}

// Router assembles the gin engine: recovery, metrics, and request logging
// on every route, bearer auth on the order group.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), metricsMiddleware(), requestLogger(s.log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/products", s.listProducts)
	r.GET("/products/:id", s.getProduct)
	r.POST("/login", s.login)
	r.POST("/register", s.register)

	orders := r.Group("/orders", s.requireAuth())
	{
		orders.POST("", s.placeOrder)
		orders.GET("", s.listOrders)
		orders.GET("/:id", s.getOrder)
	}

	return r
}

// newOrderID mints a time-sortable order id so listings read in placement
// order even after a restart loses the table.
func newOrderID() string {
	return "order-" + uuid.Must(uuid.NewV7()).String()
}
