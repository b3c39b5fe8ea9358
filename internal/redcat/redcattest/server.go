// Package redcattest provides an in-memory Redcat back office for tests.
//
// The server keeps real state: taking items offline creates availability
// rules and taking them online deletes them, so a test can drive a whole
// schedule against it and inspect what is offline afterwards.
package redcattest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"t4auto/internal/domain"
)

const (
	Username = "ops@example.com"
	Password = "secret"

	sessionCookie = "sid"
)

// Server is a fake back office.
type Server struct {
	URL string

	mu       sync.Mutex
	stores   []domain.Store
	items    []domain.Item
	rules    map[int]domain.AvailabilityRule
	nextRule int
	logins   int
	logouts  int
}

// NewServer starts a back office with the given stores and catalog. It is
// closed when the test ends.
func NewServer(t testing.TB, stores []domain.Store, items []domain.Item) *Server {
	t.Helper()

	s := &Server{
		stores:   stores,
		items:    items,
		rules:    make(map[int]domain.AvailabilityRule),
		nextRule: 1,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/login", s.handleLogin)
	mux.HandleFunc("GET /auth/logout", s.handleLogout)
	mux.Handle("GET /api/v1/config/lookup/stores/", s.authed(s.handleStores))
	mux.Handle("GET /api/v1/plus-active/", s.authed(s.handleItems))
	mux.Handle("GET /api/v1/pluavailabilityrules", s.authed(s.handleRules))
	mux.Handle("POST /api/v1/pluavailabilityrules", s.authed(s.handleCreateRules))
	mux.Handle("DELETE /api/v1/pluavailabilityrules", s.authed(s.handleDeleteRules))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	s.URL = srv.URL
	return s
}

// Offline returns the PLU codes currently offline at storeID, sorted.
func (s *Server) Offline(storeID int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var codes []string
	for _, r := range s.rules {
		if r.StoreID.String() == strconv.Itoa(storeID) {
			codes = append(codes, r.PLUCode.String())
		}
	}
	sort.Strings(codes)
	return codes
}

// Logins returns the number of accepted logins.
func (s *Server) Logins() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logins
}

// Logouts returns the number of logout requests.
func (s *Server) Logouts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logouts
}

func (s *Server) authed(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie(sessionCookie); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		h(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if !strings.EqualFold(r.PostForm.Get("username"), Username) || r.PostForm.Get("psw") != Password {
		writeJSON(w, map[string]any{"success": false, "msg": "Invalid username or password"})
		return
	}

	s.mu.Lock()
	s.logins++
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "1", Path: "/"})
	writeJSON(w, map[string]any{"success": true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.logouts++
	s.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleStores(w http.ResponseWriter, r *http.Request) {
	data := make([]any, 0, len(s.stores))
	for _, st := range s.stores {
		data = append(data, map[string]any{"name": st.Name, "value": st.ID})
	}
	writeJSON(w, map[string]any{"success": true, "data": data})
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	keyword := strings.ToLower(r.URL.Query().Get("qv"))

	var matched []domain.Item
	for _, it := range s.items {
		if strings.Contains(strings.ToLower(it.Name), keyword) {
			matched = append(matched, it)
		}
	}
	writePage(w, r.URL.Query(), matched)
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	keyword := strings.ToLower(r.URL.Query().Get("qv"))
	names := make(map[string]string, len(s.items))
	for _, it := range s.items {
		names[it.PLUCode.String()] = strings.ToLower(it.Name)
	}

	s.mu.Lock()
	ids := make([]int, 0, len(s.rules))
	for id := range s.rules {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	var matched []domain.AvailabilityRule
	for _, id := range ids {
		rule := s.rules[id]
		if strings.Contains(names[rule.PLUCode.String()], keyword) {
			matched = append(matched, rule)
		}
	}
	s.mu.Unlock()

	writePage(w, r.URL.Query(), matched)
}

func (s *Server) handleCreateRules(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	storeID := r.PostForm.Get("StoreID")

	s.mu.Lock()
	for _, code := range r.PostForm["PLUCode"] {
		id := s.nextRule
		s.nextRule++
		s.rules[id] = domain.AvailabilityRule{
			ID:      domain.Code(strconv.Itoa(id)),
			PLUCode: domain.Code(code),
			StoreID: domain.Code(storeID),
		}
	}
	s.mu.Unlock()

	writeJSON(w, map[string]any{"success": true})
}

func (s *Server) handleDeleteRules(w http.ResponseWriter, r *http.Request) {
	// ParseForm ignores DELETE bodies.
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	form, _ := url.ParseQuery(string(body))

	s.mu.Lock()
	for _, raw := range form["IDs"] {
		if id, err := strconv.Atoi(raw); err == nil {
			delete(s.rules, id)
		}
	}
	s.mu.Unlock()

	writeJSON(w, map[string]any{"success": true})
}

func writePage[T any](w http.ResponseWriter, q url.Values, all []T) {
	start, _ := strconv.Atoi(q.Get("start"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = len(all)
	}

	page := []T{}
	if start < len(all) {
		page = all[start:min(start+limit, len(all))]
	}
	writeJSON(w, map[string]any{"success": true, "data": page, "total": len(all)})
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
