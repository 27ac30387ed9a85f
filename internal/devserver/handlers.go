package devserver

import (
	"encoding/json"
	"math"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-storefront/internal/catalog"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) bearerEmail(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.tokens[parts[1]]
	return email, ok
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	search := strings.ToLower(r.URL.Query().Get("search"))
	category := r.URL.Query().Get("category")

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		if category != "" && p.Category != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Brand), search) {
			continue
		}
		out = append(out, p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.bearerEmail(r); !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		return
	}
	var p catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if p.Title == "" || p.Brand == "" || p.Price < 0 || !catalog.ValidCategory(p.Category) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}
	p.ID = s.genID()

	s.mu.Lock()
	s.products = append(s.products, p)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.bearerEmail(r); !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		return
	}
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
}

type orderItemReq struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type orderReq struct {
	ExternalID    string         `json:"external_id"`
	Items         []orderItemReq `json:"items"`
	Name          string         `json:"name"`
	Address       string         `json:"address"`
	Phone         string         `json:"phone"`
	PaymentMethod string         `json:"payment_method"`
}

type orderResp struct {
	OrderID string  `json:"order_id"`
	Total   float64 `json:"total"`
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var req orderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if len(req.Items) == 0 || req.Name == "" || req.Address == "" || req.Phone == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// idempotency on external_id, same contract as the real backend
	if req.ExternalID != "" {
		if i, ok := s.byExtID[req.ExternalID]; ok {
			writeJSON(w, http.StatusOK, orderResp{OrderID: s.orders[i].ID, Total: s.orders[i].Total})
			return
		}
	}

	// server-side pricing: our catalog price wins over whatever the client sent
	prices := make(map[string]float64, len(s.products))
	for _, p := range s.products {
		prices[p.ID] = p.Price
	}
	total := 0.0
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid quantity"})
			return
		}
		price := it.Price
		if p, ok := prices[it.ProductID]; ok {
			price = p
		}
		total += price * float64(it.Quantity)
	}
	total = math.Round(total*100) / 100

	o := order{ID: s.genID(), Total: total}
	s.orders = append(s.orders, o)
	if req.ExternalID != "" {
		s.byExtID[req.ExternalID] = len(s.orders) - 1
	}
	writeJSON(w, http.StatusCreated, orderResp{OrderID: o.ID, Total: o.Total})
}

type authReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req authReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[req.Email]
	if !ok || u.Password != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "bad credentials"})
		return
	}
	token := s.genID()
	s.tokens[token] = req.Email
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req authReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Email]; exists {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "email already registered"})
		return
	}
	s.users[req.Email] = user{Name: req.Name, Password: req.Password}
	token := s.genID()
	s.tokens[token] = req.Email
	writeJSON(w, http.StatusCreated, map[string]string{"token": token})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.bearerEmail(r); !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]int{
		"users":    len(s.users),
		"orders":   len(s.orders),
		"products": len(s.products),
	})
}
