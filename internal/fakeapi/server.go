// Package fakeapi is an in-memory implementation of the finance API used by
// end-to-end tests and by `fin debug fakeapi` for local experiments.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bnema/fin/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const SessionCookie = "sid"

type user struct {
	id       domain.ID
	name     string
	email    string
	password string
}

type Server struct {
	mu           sync.Mutex
	now          func() time.Time
	nextID       int
	users        map[string]*user
	sessions     map[string]domain.ID
	accounts     map[domain.ID]*ownedAccount
	transactions map[domain.ID]*domain.Transaction
	requestIDs   []string
}

type ownedAccount struct {
	owner domain.ID
	id    domain.ID
	name  string
}

type Option func(*Server)

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func New(opts ...Option) *Server {
	s := &Server{
		now:          time.Now,
		users:        make(map[string]*user),
		sessions:     make(map[string]domain.ID),
		accounts:     make(map[domain.ID]*ownedAccount),
		transactions: make(map[domain.ID]*domain.Transaction),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.recordRequestID)

	r.Route("/user", func(r chi.Router) {
		r.Get("/current", s.handleCurrent)
		r.Post("/login", s.handleLogin)
		r.Post("/register", s.handleRegister)
		r.Post("/logout", s.handleLogout)
	})
	r.Route("/account", func(r chi.Router) {
		r.Use(s.requireUser)
		r.Get("/list", s.handleAccountList)
		r.Get("/get", s.handleAccountGet)
		r.Post("/create", s.handleAccountCreate)
		r.Post("/remove", s.handleAccountRemove)
	})
	r.Route("/transaction", func(r chi.Router) {
		r.Use(s.requireUser)
		r.Get("/list", s.handleTransactionList)
		r.Get("/get", s.handleTransactionGet)
		r.Post("/create", s.handleTransactionCreate)
		r.Post("/remove", s.handleTransactionRemove)
	})
	return r
}

// RequestIDs lists the request ids seen so far, in arrival order.
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

// AddUser registers a user directly, bypassing /user/register.
func (s *Server) AddUser(name, email, password string) domain.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(name, email, password).id
}

func (s *Server) recordRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requestIDs = append(s.requestIDs, middleware.GetReqID(r.Context()))
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.sessionUser(r); !ok {
			respondError(w, http.StatusOK, "Необходима авторизация")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) sessionUser(r *http.Request) (*user, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.sessions[cookie.Value]
	if !ok {
		return nil, false
	}
	for _, u := range s.users {
		if u.id == id {
			return u, true
		}
	}
	return nil, false
}

func (s *Server) nextIDLocked() domain.ID {
	s.nextID++
	return domain.ID(strconv.Itoa(s.nextID))
}

func (s *Server) addUserLocked(name, email, password string) *user {
	u := &user{id: s.nextIDLocked(), name: name, email: email, password: password}
	s.users[strings.ToLower(email)] = u
	return u
}

func (s *Server) startSession(w http.ResponseWriter, u *user) {
	sid := uuid.NewString()
	s.mu.Lock()
	s.sessions[sid] = u.id
	s.mu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: sid, Path: "/", HttpOnly: true})
}

func (s *Server) balanceLocked(accountID domain.ID) domain.Money {
	var cents int64
	for _, tx := range s.transactions {
		if tx.AccountID != accountID {
			continue
		}
		if tx.Kind == domain.TransactionExpense {
			cents -= tx.Amount.Cents
		} else {
			cents += tx.Amount.Cents
		}
	}
	return domain.NewMoney(cents)
}

func (s *Server) accountsLocked(owner domain.ID) []domain.Account {
	accounts := make([]domain.Account, 0)
	for _, a := range s.accounts {
		if a.owner == owner {
			accounts = append(accounts, domain.Account{ID: a.id, Name: a.name, Balance: s.balanceLocked(a.id)})
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return idLess(accounts[i].ID, accounts[j].ID) })
	return accounts
}

func idLess(a, b domain.ID) bool {
	ai, errA := strconv.Atoi(string(a))
	bi, errB := strconv.Atoi(string(b))
	if errA != nil || errB != nil {
		return a < b
	}
	return ai < bi
}

func formValue(r *http.Request, key string) string {
	if r.Method == http.MethodGet {
		return strings.TrimSpace(r.URL.Query().Get(key))
	}
	if r.MultipartForm == nil {
		_ = r.ParseMultipartForm(1 << 20)
	}
	return strings.TrimSpace(r.FormValue(key))
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	User    any    `json:"user,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, envelope{Success: false, Error: msg})
}

func sessionView(u *user) domain.Session {
	return domain.Session{ID: u.id, Name: u.name, Email: u.email}
}
