package fakeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

type ctxKey struct{}

type principal struct {
	account *account
	tokenID string
}

type userBody struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	EmailVerifiedAt *string `json:"email_verified_at"`
	CreatedAt       string  `json:"created_at"`
}

func (a *account) body() userBody {
	return userBody{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// validation collects field errors in the order fields were checked.
type validation struct {
	fields []string
	errs   map[string][]string
}

func (v *validation) add(field, msg string) {
	if v.errs == nil {
		v.errs = make(map[string][]string)
	}
	if _, ok := v.errs[field]; !ok {
		v.fields = append(v.fields, field)
	}
	v.errs[field] = append(v.errs[field], msg)
}

func (v *validation) failed() bool {
	return len(v.errs) > 0
}

// message mirrors the framework's summary: the first error, plus a count
// of the rest.
func (v *validation) message() string {
	first := v.errs[v.fields[0]][0]
	total := 0
	for _, msgs := range v.errs {
		total += len(msgs)
	}
	switch rest := total - 1; rest {
	case 0:
		return first
	case 1:
		return fmt.Sprintf("%s (and 1 more error)", first)
	default:
		return fmt.Sprintf("%s (and %d more errors)", first, rest)
	}
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed JSON body.")
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	var v validation
	if in.Name == "" {
		v.add("name", "The name field is required.")
	}
	switch {
	case in.Email == "":
		v.add("email", "The email field is required.")
	case !validEmail(in.Email):
		v.add("email", "The email field must be a valid email address.")
	}
	if len(in.Password) < minPasswordLen {
		v.add("password", fmt.Sprintf("The password field must be at least %d characters.", minPasswordLen))
	}

	s.mu.Lock()
	if _, taken := s.accounts[in.Email]; taken && in.Email != "" {
		v.add("email", "The email has already been taken.")
	}
	s.mu.Unlock()

	if v.failed() {
		writeValidation(w, v.errs, v.message())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.MinCost)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}

	s.mu.Lock()
	if _, taken := s.accounts[in.Email]; taken {
		s.mu.Unlock()
		v.add("email", "The email has already been taken.")
		writeValidation(w, v.errs, v.message())
		return
	}
	acc := &account{ID: s.nextID, Name: in.Name, Email: in.Email, PasswordHash: hash, CreatedAt: time.Now()}
	s.nextID++
	s.accounts[acc.Email] = acc
	s.mu.Unlock()

	s.writeAuth(w, http.StatusCreated, acc)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed JSON body.")
		return
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	var v validation
	if in.Email == "" {
		v.add("email", "The email field is required.")
	}
	if in.Password == "" {
		v.add("password", "The password field is required.")
	}
	if v.failed() {
		writeValidation(w, v.errs, v.message())
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[in.Email]
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(in.Password)) != nil {
		v.add("email", "These credentials do not match our records.")
		writeValidation(w, v.errs, v.message())
		return
	}

	s.writeAuth(w, http.StatusOK, acc)
}

func (s *Server) writeAuth(w http.ResponseWriter, status int, acc *account) {
	token, _, err := issueToken(acc.ID, s.secret, s.tokenTTL)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Server Error")
		return
	}
	writeJSON(w, status, map[string]any{
		"token": token,
		"user":  acc.body(),
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	p := r.Context().Value(ctxKey{}).(principal)
	writeJSON(w, http.StatusOK, map[string]any{"user": p.account.body()})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	p := r.Context().Value(ctxKey{}).(principal)

	s.mu.Lock()
	s.revoked[p.tokenID] = struct{}{}
	s.mu.Unlock()

	writeMessage(w, http.StatusOK, "Logged out successfully.")
}

// authenticate resolves the bearer token to an account or answers 401.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeMessage(w, http.StatusUnauthorized, "Unauthenticated.")
			return
		}

		c, err := parseToken(raw, s.secret)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Unauthenticated.")
			return
		}

		s.mu.Lock()
		_, revoked := s.revoked[c.ID]
		var acc *account
		for _, a := range s.accounts {
			if a.ID == c.UserID {
				acc = a
				break
			}
		}
		s.mu.Unlock()

		if revoked || acc == nil {
			writeMessage(w, http.StatusUnauthorized, "Unauthenticated.")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, principal{account: acc, tokenID: c.ID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
