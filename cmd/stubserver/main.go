// Command stubserver is an in-memory implementation of the tillpoint REST
// backend, meant for local development and manual testing of the terminal.
// It assigns canonical ids, validates minimally and keeps everything in RAM.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/avolkovs/tillpoint/internal/client/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

var signingKey = []byte("tillpoint-dev-only")

type server struct {
	mu sync.Mutex

	products map[string]models.Product
	sales    map[string]models.Sale
	staff    map[string]models.StaffMember

	nextProduct int
	nextSale    int
	nextStaff   int
}

func newServer() *server {
	s := &server{
		products: make(map[string]models.Product),
		sales:    make(map[string]models.Sale),
		staff:    make(map[string]models.StaffMember),
	}
	s.seed()
	return s
}

func (s *server) seed() {
	for _, p := range []models.Product{
		{Name: "Coffee", Category: "drinks", SKU: "CF-01", SellingPrice: decimal.RequireFromString("3.50"), TrackStock: true, Quantity: 40},
		{Name: "Tea", Category: "drinks", SKU: "TE-01", SellingPrice: decimal.RequireFromString("2.10"), TrackStock: true, Quantity: 3},
		{Name: "Deli counter", Category: "food", NeedsCustomPrice: true},
	} {
		s.nextProduct++
		p.ID = "P-" + strconv.Itoa(s.nextProduct)
		p.CreatedAt = time.Now()
		s.products[p.ID] = p
	}
	s.nextStaff++
	s.staff["M-1"] = models.StaffMember{ID: "M-1", Name: "Admin", Role: "manager", Active: true}
}

func main() {
	addr := flag.String("a", ":8080", "listen address")
	flag.Parse()

	s := newServer()

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/auth/login", s.login)
	r.Post("/auth/refresh", s.refresh)

	r.Group(func(r chi.Router) {
		r.Use(requireToken)

		r.Get("/products", s.listProducts)
		r.Post("/products/create", s.createProduct)
		r.Get("/products/{id}", s.getProduct)
		r.Put("/products/{id}", s.updateProduct)
		r.Delete("/products/{id}", s.deleteProduct)

		r.Get("/sales", s.listSales)
		r.Post("/sales/create", s.createSale)
		r.Put("/sales/{id}", s.updateSale)
		r.Delete("/sales/{id}", s.deleteSale)
		r.Get("/sales/summary", s.salesSummary)

		r.Get("/staff", s.listStaff)
		r.Post("/staff/create", s.createStaff)
		r.Put("/staff/{id}", s.updateStaff)
		r.Delete("/staff/{id}", s.deleteStaff)
		r.Patch("/staff/{id}/toggle", s.toggleStaff)

		r.Get("/analytics/complete", s.dashboard)
		r.Get("/analytics/comprehensive", s.dashboard)
		r.Get("/analytics/low-stock", s.lowStock)
	})

	log.Printf("stub backend listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, r))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func issueTokens(w http.ResponseWriter, username string) {
	now := time.Now()
	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"exp": now.Add(15 * time.Minute).Unix(),
	})
	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"typ": "refresh",
		"exp": now.Add(24 * time.Hour).Unix(),
	})

	accessStr, err := access.SignedString(signingKey)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "signing failed")
		return
	}
	refreshStr, err := refresh.SignedString(signingKey)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "signing failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"accessToken":  accessStr,
		"refreshToken": refreshStr,
	})
}

func (s *server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	issueTokens(w, req.Username)
}

func (s *server) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refreshToken is required")
		return
	}
	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(req.RefreshToken, claims, func(*jwt.Token) (any, error) {
		return signingKey, nil
	}); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	sub, _ := claims["sub"].(string)
	issueTokens(w, sub)
}

func requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if _, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
			return signingKey, nil
		}); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) listProducts(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": out})
}

func (s *server) createProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad product payload")
		return
	}
	if strings.TrimSpace(p.Name) == "" {
		writeError(w, http.StatusUnprocessableEntity, "product name is required")
		return
	}

	s.mu.Lock()
	s.nextProduct++
	p.ID = "P-" + strconv.Itoa(s.nextProduct)
	p.IsLocal = false
	p.Synced = false
	p.CreatedAt = time.Now()
	s.products[p.ID] = p
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, p)
}

func (s *server) getProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "no such product")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var p models.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad product payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		writeError(w, http.StatusNotFound, "no such product")
		return
	}
	p.ID = id
	s.products[id] = p
	writeJSON(w, http.StatusOK, p)
}

func (s *server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		writeError(w, http.StatusNotFound, "no such product")
		return
	}
	delete(s.products, id)
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (s *server) listSales(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Sale, 0, len(s.sales))
	for _, sale := range s.sales {
		out = append(out, sale)
	}
	writeJSON(w, http.StatusOK, map[string]any{"sales": out})
}

func (s *server) createSale(w http.ResponseWriter, r *http.Request) {
	var sale models.Sale
	if err := json.NewDecoder(r.Body).Decode(&sale); err != nil {
		writeError(w, http.StatusBadRequest, "bad sale payload")
		return
	}
	if len(sale.Items) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "a sale needs at least one line")
		return
	}

	s.mu.Lock()
	s.nextSale++
	sale.ID = "S-" + strconv.Itoa(s.nextSale)
	sale.IsLocal = false
	sale.Synced = false
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now()
	}
	s.sales[sale.ID] = sale

	// naive stock adjustment
	for _, item := range sale.Items {
		if p, ok := s.products[item.ProductID]; ok && p.TrackStock {
			p.Quantity -= item.Quantity
			s.products[item.ProductID] = p
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, sale)
}

func (s *server) updateSale(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var sale models.Sale
	if err := json.NewDecoder(r.Body).Decode(&sale); err != nil {
		writeError(w, http.StatusBadRequest, "bad sale payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sales[id]; !ok {
		writeError(w, http.StatusNotFound, "no such sale")
		return
	}
	sale.ID = id
	s.sales[id] = sale
	writeJSON(w, http.StatusOK, sale)
}

func (s *server) deleteSale(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sales[id]; !ok {
		writeError(w, http.StatusNotFound, "no such sale")
		return
	}
	delete(s.sales, id)
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// periodStart maps a period name to its cutoff. Unknown periods mean "all".
func periodStart(period string) time.Time {
	now := time.Now()
	switch period {
	case "today":
		return now.Truncate(24 * time.Hour)
	case "7d", "week":
		return now.AddDate(0, 0, -7)
	case "30d", "month":
		return now.AddDate(0, 0, -30)
	default:
		return time.Time{}
	}
}

func (s *server) salesSummary(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	cutoff := periodStart(period)

	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	count := 0
	for _, sale := range s.sales {
		if sale.CreatedAt.Before(cutoff) {
			continue
		}
		total = total.Add(sale.Total)
		count++
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"period":  period,
		"count":   count,
		"total":   total.StringFixed(2),
		"takenAt": time.Now().Format(time.RFC3339),
	})
}

func (s *server) listStaff(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.StaffMember, 0, len(s.staff))
	for _, m := range s.staff {
		out = append(out, m)
	}
	writeJSON(w, http.StatusOK, map[string]any{"staff": out})
}

func (s *server) createStaff(w http.ResponseWriter, r *http.Request) {
	var m models.StaffMember
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, "bad staff payload")
		return
	}
	if strings.TrimSpace(m.Name) == "" {
		writeError(w, http.StatusUnprocessableEntity, "staff name is required")
		return
	}

	s.mu.Lock()
	s.nextStaff++
	m.ID = "M-" + strconv.Itoa(s.nextStaff)
	m.IsLocal = false
	m.Synced = false
	m.CreatedAt = time.Now()
	s.staff[m.ID] = m
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, m)
}

func (s *server) updateStaff(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var m models.StaffMember
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, "bad staff payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.staff[id]; !ok {
		writeError(w, http.StatusNotFound, "no such staff member")
		return
	}
	m.ID = id
	s.staff[id] = m
	writeJSON(w, http.StatusOK, m)
}

func (s *server) deleteStaff(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.staff[id]; !ok {
		writeError(w, http.StatusNotFound, "no such staff member")
		return
	}
	delete(s.staff, id)
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (s *server) toggleStaff(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.staff[id]
	if !ok {
		writeError(w, http.StatusNotFound, "no such staff member")
		return
	}
	m.Active = !m.Active
	s.staff[id] = m
	writeJSON(w, http.StatusOK, m)
}

func (s *server) dashboard(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	cutoff := periodStart(period)

	s.mu.Lock()
	defer s.mu.Unlock()

	revenue := decimal.Zero
	count := 0
	byMethod := make(map[string]int)
	for _, sale := range s.sales {
		if sale.CreatedAt.Before(cutoff) {
			continue
		}
		revenue = revenue.Add(sale.Total)
		count++
		byMethod[sale.PaymentMethod]++
	}

	avg := decimal.Zero
	if count > 0 {
		avg = revenue.DivRound(decimal.NewFromInt(int64(count)), 2)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"period":          period,
		"revenue":         revenue.StringFixed(2),
		"sales":           count,
		"averageSale":     avg.StringFixed(2),
		"byPaymentMethod": byMethod,
		"products":        len(s.products),
	})
}

func (s *server) lowStock(w http.ResponseWriter, r *http.Request) {
	threshold, err := strconv.Atoi(r.URL.Query().Get("threshold"))
	if err != nil {
		threshold = 5
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	low := make([]models.Product, 0)
	for _, p := range s.products {
		if p.TrackStock && p.Quantity <= threshold {
			low = append(low, p)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"threshold": threshold, "items": low})
}
