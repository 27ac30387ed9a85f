package devserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/ariefcatur/go-storefront/internal/catalog"
)

// Server is an in-memory stand-in for the real backend: just enough of the
// REST surface for local development and the integration tests. Nothing is
// persisted.
type Server struct {
	mu       sync.Mutex
	products []catalog.Product
	users    map[string]user   // by email
	tokens   map[string]string // token -> email
	orders   []order
	byExtID  map[string]int // external_id -> index into orders
}

func (s *Server) genID() string { return uuid.NewString() }

type user struct {
	Name     string
	Password string
}

type order struct {
	ID    string
	Total float64
}

func New() *Server {
	s := &Server{
		users:   make(map[string]user),
		tokens:  make(map[string]string),
		byExtID: make(map[string]int),
	}
	s.seed()
	return s
}

func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/api/products", s.listProducts)
	r.Get("/api/products/{id}", s.getProduct)
	r.Post("/api/products", s.createProduct)
	r.Delete("/api/products/{id}", s.deleteProduct)
	r.Post("/api/orders", s.createOrder)
	r.Post("/api/auth/login", s.login)
	r.Post("/api/auth/signup", s.signup)
	r.Get("/api/admin/stats", s.stats)
	return r
}

func (s *Server) seed() {
	s.products = []catalog.Product{
		{
			ID: s.genID(), Title: "Galaxy A55", Brand: "Samsung", Price: 399.99,
			Images:   []string{"https://img.example.com/a55-front.jpg", "https://img.example.com/a55-back.jpg"},
			Category: "Mobiles", Description: "6.6\" AMOLED, 128GB",
			Specs:  map[string]string{"RAM": "8GB", "Storage": "128GB"},
			Rating: 4.3,
		},
		{
			ID: s.genID(), Title: "ThinkPad E14", Brand: "Lenovo", Price: 749.00,
			Images:   []string{"https://img.example.com/e14.jpg"},
			Category: "Laptops", Description: "Ryzen 5, 16GB, 512GB SSD",
			Specs:  map[string]string{"CPU": "Ryzen 5 7530U", "RAM": "16GB"},
			Rating: 4.5,
		},
		{
			ID: s.genID(), Title: "Buds FE", Brand: "Samsung", Price: 59.90,
			Images:   []string{"https://img.example.com/budsfe.jpg"},
			Category: "Accessories", Description: "Wireless earbuds with ANC",
		},
		{
			ID: s.genID(), Title: "Denim Jacket", Brand: "Levi's", Price: 89.50,
			Images:   []string{"https://img.example.com/jacket.jpg"},
			Category: "Fashion", Description: "Classic trucker jacket",
		},
	}
	s.users["admin@example.com"] = user{Name: "Admin", Password: "admin123"}
}
