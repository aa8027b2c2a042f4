package fakeapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

const (
	// Username and Password are the credentials accepted by default.
	Username = "jane@example.com"
	Password = "correct horse"

	// CookieName is the session cookie set on login.
	CookieName = "auth_session"

	// CompanyID is the company owned by the default user.
	CompanyID int64 = 42
)

// Request is a recorded API call. Login calls are recorded too.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Upload is a recorded vendor invoice upload.
type Upload struct {
	Filename    string
	ContentType string
	Content     []byte
	Type        string
}

type override struct {
	status int
	body   string
}

// Server is a fake Dougs API backed by httptest.
type Server struct {
	// URL is the base URL to configure the client with.
	URL string

	srv      *httptest.Server
	username string
	password string
	ttl      time.Duration
	now      func() time.Time

	mu         sync.Mutex
	logins     int
	tokens     map[string]bool
	failures   []int
	overrides  map[string]override
	requests   []Request
	operations map[int64]map[string]any
	nextID     int64
	uploads    []Upload
}

// Option is a functional option for configuring the Server
type Option func(*Server)

// WithCredentials changes the accepted credentials.
func WithCredentials(username, password string) Option {
	return func(s *Server) {
		s.username = username
		s.password = password
	}
}

// WithSessionTTL sets the lifetime of issued sessions. Default is 1 hour.
func WithSessionTTL(d time.Duration) Option {
	return func(s *Server) {
		s.ttl = d
	}
}

// WithClock sets the time source for cookie expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New starts a server that is closed when the test ends.
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()

	s := &Server{
		username:   Username,
		password:   Password,
		ttl:        time.Hour,
		now:        time.Now,
		tokens:     make(map[string]bool),
		overrides:  make(map[string]override),
		operations: make(map[int64]map[string]any),
		nextID:     1000,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.srv = httptest.NewServer(s.router())
	s.URL = s.srv.URL
	t.Cleanup(s.srv.Close)

	return s
}

// Close shuts the server down early.
func (s *Server) Close() {
	s.srv.Close()
}

// Logins returns the number of successful logins.
func (s *Server) Logins() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logins
}

// Requests returns the recorded requests in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// LastRequest returns the most recent request to path.
func (s *Server) LastRequest(method, path string) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.requests) - 1; i >= 0; i-- {
		if r := s.requests[i]; r.Method == method && r.Path == path {
			return r, true
		}
	}
	return Request{}, false
}

// FailNext makes the next authenticated requests answer with codes, in order.
func (s *Server) FailNext(codes ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, codes...)
}

// Override answers every authenticated request to method and path with a
// fixed status and body.
func (s *Server) Override(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[method+" "+path] = override{status: status, body: body}
}

// ExpireSessions revokes every issued token.
func (s *Server) ExpireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.tokens)
}

// AddOperation stores doc as an operation of companyID and returns its id.
func (s *Server) AddOperation(companyID int64, doc map[string]any) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	stored := make(map[string]any, len(doc)+2)
	for k, v := range doc {
		stored[k] = v
	}
	stored["id"] = s.nextID
	stored["companyId"] = companyID
	s.operations[s.nextID] = stored
	return s.nextID
}

// Operation returns the stored operation document.
func (s *Server) Operation(id int64) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.operations[id]
	return doc, ok
}

// Uploads returns the recorded vendor invoice uploads.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.uploads)
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Post("/auth/api/login", s.login)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate, s.scripted)

		r.Get("/users/me", s.fixture(userFixture))
		r.Route("/companies/{companyID}", func(r chi.Router) {
			r.Get("/cars", s.fixture(carsFixture))
			r.Get("/categories", s.fixture(categoriesFixture))
			r.Get("/partners", s.fixture(partnersFixture))
			r.Post("/vendor-invoices", s.uploadInvoice)

			r.Get("/operations", s.listOperations)
			r.Post("/operations", s.createOperation)
			r.Get("/operations/{operationID}", s.getOperation)
			r.Post("/operations/{operationID}", s.replaceOperation)
			r.Delete("/operations/{operationID}", s.deleteOperation)
		})
	})

	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(CookieName)

		s.mu.Lock()
		ok := err == nil && s.tokens[c.Value]
		s.mu.Unlock()

		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthenticated"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) scripted(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		var status int
		if len(s.failures) > 0 {
			status = s.failures[0]
			s.failures = s.failures[1:]
		}
		o, overridden := s.overrides[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		switch {
		case status != 0:
			writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
		case overridden:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(o.status)
			_, _ = io.WriteString(w, o.body)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}
	if creds.Email != s.username || creds.Password != s.password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
		return
	}

	s.mu.Lock()
	s.logins++
	token := fmt.Sprintf("token-%d", s.logins)
	s.tokens[token] = true
	s.mu.Unlock()

	expires := s.now().Add(s.ttl).UTC().Format(time.RFC1123Z)
	w.Header().Add("Set-Cookie", fmt.Sprintf("%s=%s; Path=/; Expires=%s; HttpOnly; Secure", CookieName, token, expires))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) fixture(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

func (s *Server) listOperations(w http.ResponseWriter, r *http.Request) {
	companyID, ok := idParam(w, r, "companyID")
	if !ok {
		return
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	s.mu.Lock()
	ids := make([]int64, 0, len(s.operations))
	for id, doc := range s.operations {
		if doc["companyId"] == companyID {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	if offset > len(ids) {
		offset = len(ids)
	}
	ids = ids[offset:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}
	docs := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, s.operations[id])
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) createOperation(w http.ResponseWriter, r *http.Request) {
	companyID, ok := idParam(w, r, "companyID")
	if !ok {
		return
	}
	body, ok := decodeObject(w, r)
	if !ok {
		return
	}

	amount, ok := body["amount"].(json.Number)
	if !ok {
		amount = "0"
	}
	date, _ := body["date"].(string)
	if len(date) >= 10 {
		date = date[:10]
	}
	var memo any
	if m, ok := body["memo"].(string); ok {
		memo = m
	}

	id := s.AddOperation(companyID, map[string]any{
		"type":        body["type"],
		"amount":      amount,
		"date":        date,
		"wording":     "Nouvelle opération",
		"name":        "",
		"hasVat":      false,
		"vatRate":     nil,
		"vatAmount":   nil,
		"totalAmount": amount,
		"memo":        memo,
		"validated":   false,
		"breakdowns":  body["breakdowns"],
	})

	doc, _ := s.Operation(id)
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) getOperation(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) replaceOperation(w http.ResponseWriter, r *http.Request) {
	current, ok := s.lookup(w, r)
	if !ok {
		return
	}
	body, ok := decodeObject(w, r)
	if !ok {
		return
	}
	body["id"] = current["id"]
	body["companyId"] = current["companyId"]

	s.mu.Lock()
	s.operations[current["id"].(int64)] = body
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, body)
}

func (s *Server) deleteOperation(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	delete(s.operations, doc["id"].(int64))
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	companyID, ok := idParam(w, r, "companyID")
	if !ok {
		return nil, false
	}
	operationID, ok := idParam(w, r, "operationID")
	if !ok {
		return nil, false
	}

	doc, found := s.Operation(operationID)
	if !found || doc["companyId"] != companyID {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "operation not found"})
		return nil, false
	}
	return doc, true
}

func (s *Server) uploadInvoice(w http.ResponseWriter, r *http.Request) {
	companyID, ok := idParam(w, r, "companyID")
	if !ok {
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "missing file"})
		return
	}
	defer file.Close()
	content, _ := io.ReadAll(file)

	s.mu.Lock()
	s.uploads = append(s.uploads, Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
		Type:        r.URL.Query().Get("type"),
	})
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, uploadResponse(companyID, header.Filename, header.Header.Get("Content-Type")))
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid " + name})
		return 0, false
	}
	return id, true
}

func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil || body == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return nil, false
	}
	return body, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
