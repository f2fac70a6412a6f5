package fakeapi

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/bnema/fin/internal/domain"
)

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	u, ok := s.sessionUser(r)
	if !ok {
		respondError(w, http.StatusOK, "Необходима авторизация")
		return
	}
	respondJSON(w, http.StatusOK, envelope{Success: true, User: sessionView(u)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := formValue(r, "email")
	password := formValue(r, "password")

	s.mu.Lock()
	u, ok := s.users[strings.ToLower(email)]
	s.mu.Unlock()
	if !ok || u.password != password {
		respondError(w, http.StatusOK, fmt.Sprintf("Пользователь c email %s и паролем %s не найден", email, password))
		return
	}

	s.startSession(w, u)
	respondJSON(w, http.StatusOK, envelope{Success: true, User: sessionView(u)})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	name := formValue(r, "name")
	email := formValue(r, "email")
	password := formValue(r, "password")
	if name == "" || email == "" || password == "" {
		respondError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	s.mu.Lock()
	if _, exists := s.users[strings.ToLower(email)]; exists {
		s.mu.Unlock()
		respondError(w, http.StatusOK, "E-Mail адрес уже существует")
		return
	}
	u := s.addUserLocked(name, email, password)
	s.mu.Unlock()

	s.startSession(w, u)
	respondJSON(w, http.StatusOK, envelope{Success: true, User: sessionView(u)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		s.mu.Lock()
		delete(s.sessions, cookie.Value)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	respondJSON(w, http.StatusOK, envelope{Success: true})
}

func (s *Server) handleAccountList(w http.ResponseWriter, r *http.Request) {
	u, _ := s.sessionUser(r)
	s.mu.Lock()
	accounts := s.accountsLocked(u.id)
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, envelope{Success: true, Data: accounts})
}

func (s *Server) handleAccountGet(w http.ResponseWriter, r *http.Request) {
	u, _ := s.sessionUser(r)
	id := domain.ID(formValue(r, "id"))

	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := domain.FindAccount(s.accountsLocked(u.id), id)
	if !ok {
		respondError(w, http.StatusOK, "Счёт не найден")
		return
	}
	respondJSON(w, http.StatusOK, envelope{Success: true, Data: account})
}

func (s *Server) handleAccountCreate(w http.ResponseWriter, r *http.Request) {
	u, _ := s.sessionUser(r)
	name := formValue(r, "name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	s.mu.Lock()
	for _, a := range s.accounts {
		if a.owner == u.id && strings.EqualFold(a.name, name) {
			s.mu.Unlock()
			respondError(w, http.StatusOK, "Счёт с таким названием уже существует")
			return
		}
	}
	account := &ownedAccount{owner: u.id, id: s.nextIDLocked(), name: name}
	s.accounts[account.id] = account
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, envelope{Success: true, Data: domain.Account{ID: account.id, Name: account.name}})
}

func (s *Server) handleAccountRemove(w http.ResponseWriter, r *http.Request) {
	u, _ := s.sessionUser(r)
	id := domain.ID(formValue(r, "id"))

	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[id]
	if !ok || account.owner != u.id {
		respondError(w, http.StatusOK, "Счёт не найден")
		return
	}
	delete(s.accounts, id)
	for txID, tx := range s.transactions {
		if tx.AccountID == id {
			delete(s.transactions, txID)
		}
	}
	respondJSON(w, http.StatusOK, envelope{Success: true})
}

func (s *Server) handleTransactionList(w http.ResponseWriter, r *http.Request) {
	u, _ := s.sessionUser(r)
	accountID := domain.ID(formValue(r, "account_id"))

	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok || account.owner != u.id {
		respondJSON(w, http.StatusOK, envelope{Success: true, Data: []domain.Transaction{}})
		return
	}

	items := make([]domain.Transaction, 0)
	for _, tx := range s.transactions {
		if tx.AccountID == accountID {
			items = append(items, *tx)
		}
	}
	sort.Slice(items, func(i, j int) bool { return idLess(items[i].ID, items[j].ID) })
	respondJSON(w, http.StatusOK, envelope{Success: true, Data: items})
}

func (s *Server) handleTransactionGet(w http.ResponseWriter, r *http.Request) {
	u, _ := s.sessionUser(r)
	id := domain.ID(formValue(r, "id"))

	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[id]
	if !ok || s.accounts[tx.AccountID] == nil || s.accounts[tx.AccountID].owner != u.id {
		respondError(w, http.StatusOK, "Транзакция не найдена")
		return
	}
	respondJSON(w, http.StatusOK, envelope{Success: true, Data: *tx})
}

func (s *Server) handleTransactionCreate(w http.ResponseWriter, r *http.Request) {
	u, _ := s.sessionUser(r)
	accountID := domain.ID(formValue(r, "account_id"))
	name := formValue(r, "name")

	kind, err := domain.ParseTransactionKind(formValue(r, "type"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := domain.ParseAmount(formValue(r, "sum"))
	if err != nil || name == "" {
		respondError(w, http.StatusBadRequest, "name and a positive sum are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok || account.owner != u.id {
		respondError(w, http.StatusOK, "Счёт не найден")
		return
	}
	tx := &domain.Transaction{
		ID:        s.nextIDLocked(),
		AccountID: accountID,
		Kind:      kind,
		Name:      name,
		Amount:    amount,
		CreatedAt: domain.Timestamp{Time: s.now().UTC().Truncate(time.Second)},
	}
	s.transactions[tx.ID] = tx
	respondJSON(w, http.StatusOK, envelope{Success: true, Data: *tx})
}

func (s *Server) handleTransactionRemove(w http.ResponseWriter, r *http.Request) {
	u, _ := s.sessionUser(r)
	id := domain.ID(formValue(r, "id"))

	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[id]
	if !ok {
		respondError(w, http.StatusOK, "Транзакция не найдена")
		return
	}
	if account, ok := s.accounts[tx.AccountID]; !ok || account.owner != u.id {
		respondError(w, http.StatusOK, "Транзакция не найдена")
		return
	}
	delete(s.transactions, id)
	respondJSON(w, http.StatusOK, envelope{Success: true})
}
