package handlers

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"newsdesk/pkg/api"
	"newsdesk/pkg/forms"
	"newsdesk/pkg/listing"
	"newsdesk/pkg/logger"
	"newsdesk/pkg/services"
	"newsdesk/pkg/session"
	"newsdesk/web"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// apiStub is the remote API. Every request is counted under "METHOD /path".
type apiStub struct {
	mu            sync.Mutex
	calls         map[string]int
	queries       map[string]url.Values
	bodies        map[string]string
	profileStatus int

	mux    *http.ServeMux
	server *httptest.Server
}

func newAPIStub(t *testing.T) *apiStub {
	t.Helper()
	s := &apiStub{
		calls:   map[string]int{},
		queries: map[string]url.Values{},
		bodies:  map[string]string{},
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct{ Username string }
		_ = json.NewDecoder(r.Body).Decode(&creds)
		role := "Admin"
		if creds.Username == "reader" {
			role = "User"
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": "tok-" + creds.Username, "role": role})
	})
	s.mux.HandleFunc("GET /auth/profile", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status := s.profileStatus
		s.mu.Unlock()
		if status != 0 {
			writeJSON(w, status, map[string]any{"message": "invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": "u1", "username": "api-user", "role": "Admin"})
	})
	s.mux.HandleFunc("GET /categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data": []map[string]any{
				{"id": "c1", "name": "Technology"},
				{"id": "c2", "name": "Health"},
			},
			"totalData": 2, "currentPage": 1, "totalPages": 1,
		})
	})

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		key := r.Method + " " + r.URL.Path
		s.mu.Lock()
		s.calls[key]++
		s.queries[key] = r.URL.Query()
		s.bodies[key] = string(body)
		s.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(body))
		s.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.server.Close)
	return s
}

func (s *apiStub) count(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key]
}

func (s *apiStub) query(key string) url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries[key]
}

func (s *apiStub) body(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bodies[key]
}

func (s *apiStub) setProfileStatus(status int) {
	s.mu.Lock()
	s.profileStatus = status
	s.mu.Unlock()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func article(id, title, category string) map[string]any {
	return map[string]any{
		"id":       id,
		"title":    title,
		"content":  `{"root":{"type":"root","children":[{"type":"paragraph","children":[{"type":"text","text":"Body of ` + title + `"}]}]}}`,
		"imageUrl": "/uploads/" + id + ".png",
		"category": map[string]any{"id": category, "name": "Technology"},
		"user":     map[string]any{"username": "alice"},
	}
}

type testEnv struct {
	api    *apiStub
	router *gin.Engine

	mu  sync.Mutex
	jar map[string]*http.Cookie
}

type envOption func(*Deps)

func withDemo(t *testing.T) envOption {
	return func(d *Deps) {
		demo, err := services.LoadDemo()
		require.NoError(t, err)
		d.Demo = demo
	}
}

func withDebounce(delay time.Duration) envOption {
	return func(d *Deps) { d.Debouncer = listing.NewDebouncer(delay) }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	stub := newAPIStub(t)

	validator, err := forms.NewValidator()
	require.NoError(t, err)
	tmpl, err := web.Templates()
	require.NoError(t, err)

	deps := Deps{
		Log:        logger.Discard(),
		API:        api.NewClient(stub.server.URL, 5*time.Second),
		Validator:  validator,
		Categories: services.NewCategoryCache(time.Minute),
		Debouncer:  listing.NewDebouncer(time.Millisecond),
		Importer:   services.NewImporter(stub.server.Client(), 5*time.Second),
		Options:    Options{PageSize: 10, ReaderPageSize: 9, UploadMaxBytes: 1 << 20},
	}
	for _, opt := range opts {
		opt(&deps)
	}

	r := gin.New()
	r.Use(session.Middleware(session.Options{
		Name:   "newsdesk_test",
		Secret: []byte("0123456789abcdef0123456789abcdef"),
		MaxAge: 3600,
	})...)
	r.SetHTMLTemplate(tmpl)
	New(deps).Routes(r)

	return &testEnv{api: stub, router: r, jar: map[string]*http.Cookie{}}
}

func (e *testEnv) send(req *http.Request) *httptest.ResponseRecorder {
	e.mu.Lock()
	for _, c := range e.jar {
		req.AddCookie(c)
	}
	e.mu.Unlock()

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	// A response may set the same cookie twice; the browser keeps the last.
	e.mu.Lock()
	for _, c := range w.Result().Cookies() {
		e.jar[c.Name] = c
	}
	e.mu.Unlock()
	return w
}

func (e *testEnv) get(path string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return e.send(req)
}

func (e *testEnv) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.send(req)
}

func (e *testEnv) login(t *testing.T, username string) {
	t.Helper()
	w := e.post("/auth/login", url.Values{"username": {username}, "password": {"secret1"}})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
}

func validArticleForm() url.Values {
	return url.Values{
		"title":        {"Go generics"},
		"categoryId":   {"c1"},
		"content_text": {"Hello readers"},
		"imageUrl":     {"/uploads/cover.png"},
	}
}

func TestGuard(t *testing.T) {
	env := newTestEnv(t)

	t.Run("signed out is sent to login before any fetch", func(t *testing.T) {
		for _, path := range []string{"/adminpage", "/adminpage/article", "/adminpage/category/c1", "/userpage", "/article/a1"} {
			w := env.get(path)
			assert.Equal(t, http.StatusFound, w.Code, path)
			assert.Equal(t, session.LoginPath, w.Header().Get("Location"), path)
		}
		w := env.post("/adminpage/article/a1/delete", url.Values{"confirm": {"yes"}})
		assert.Equal(t, http.StatusFound, w.Code)

		assert.Zero(t, env.api.count("GET /articles"))
		assert.Zero(t, env.api.count("GET /auth/profile"))
		assert.Zero(t, env.api.count("DELETE /articles/a1"))
	})

	t.Run("fetch callers get 401", func(t *testing.T) {
		w := env.get("/adminpage/article/rows?search=go", "X-Requested-With", "fetch")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		env.login(t, "reader")
		w := env.get("/adminpage")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, session.LoginPath, w.Header().Get("Location"))
	})
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.post("/auth/login", url.Values{"username": {"admin"}, "password": {"123"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Password must be at least 6 characters in length")
	assert.Zero(t, env.api.count("POST /auth/login"))

	env.login(t, "admin")
	assert.Equal(t, 1, env.api.count("POST /auth/login"))

	w = env.get("/auth/login")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/adminpage", w.Header().Get("Location"))

	env.api.mux.HandleFunc("GET /articles", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": []any{}, "total": 0, "page": 1, "limit": 5})
	})
	w = env.get("/adminpage")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Login successful")
	assert.Contains(t, w.Body.String(), "api-user")

	w = env.post("/auth/logout", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	w = env.get("/adminpage")
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestArticleListPagination(t *testing.T) {
	env := newTestEnv(t)
	env.api.mux.HandleFunc("GET /articles", func(w http.ResponseWriter, r *http.Request) {
		items := make([]map[string]any, 0, 10)
		for i := 0; i < 10; i++ {
			items = append(items, article("a"+string(rune('0'+i)), "Article "+string(rune('A'+i)), "c1"))
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": items, "total": 25, "page": 2, "limit": 10})
	})
	env.login(t, "admin")

	w := env.get("/adminpage/article?page=2")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Page 2 of 3")
	assert.Contains(t, body, "Article A")
	assert.Contains(t, body, `rel="prev"`)
	assert.Contains(t, body, `rel="next"`)

	q := env.api.query("GET /articles")
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "10", q.Get("limit"))

	t.Run("custom page size is kept in links", func(t *testing.T) {
		w := env.get("/adminpage/article?limit=5")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `href="/adminpage/article?limit=5&amp;page=2"`)
		assert.Contains(t, w.Body.String(), `name="limit" value="5"`)
		assert.Equal(t, "5", env.api.query("GET /articles").Get("limit"))
	})

	t.Run("page size is capped", func(t *testing.T) {
		w := env.get("/adminpage/article?limit=100000000")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "100", env.api.query("GET /articles").Get("limit"))
	})
}

func TestCreateArticle(t *testing.T) {
	env := newTestEnv(t)
	env.api.mux.HandleFunc("POST /articles", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, article("a9", "Go generics", "c1"))
	})
	env.login(t, "admin")

	t.Run("invalid form sends nothing", func(t *testing.T) {
		w := env.post("/adminpage/article/create", url.Values{"title": {"  "}})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Title is a required field")
		assert.Contains(t, body, "Category is a required field")
		assert.Zero(t, env.api.count("POST /articles"))
	})

	t.Run("valid form is created once", func(t *testing.T) {
		w := env.post("/adminpage/article/create", validArticleForm())
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/adminpage/article", w.Header().Get("Location"))
		assert.Equal(t, 1, env.api.count("POST /articles"))

		var sent map[string]string
		require.NoError(t, json.Unmarshal([]byte(env.api.body("POST /articles")), &sent))
		assert.Equal(t, "Go generics", sent["title"])
		assert.Equal(t, "c1", sent["categoryId"])
		assert.Contains(t, sent["content"], "Hello readers")
	})
}

func TestUpdateArticle(t *testing.T) {
	env := newTestEnv(t)
	env.api.mux.HandleFunc("GET /articles/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, article(r.PathValue("id"), "Old title", "c1"))
	})
	env.api.mux.HandleFunc("PUT /articles/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, article(r.PathValue("id"), "Go generics", "c1"))
	})
	env.login(t, "admin")

	w := env.get("/adminpage/article/a1/edit")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Old title"`)

	w = env.post("/adminpage/article/a1/edit", validArticleForm())
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 1, env.api.count("PUT /articles/a1"))
}

func TestDeleteArticleNeedsConfirmation(t *testing.T) {
	env := newTestEnv(t)
	env.api.mux.HandleFunc("DELETE /articles/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	env.login(t, "admin")

	w := env.get("/adminpage/article/a1/delete?title=Old+news")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Old news")
	assert.Zero(t, env.api.count("DELETE /articles/a1"))

	w = env.post("/adminpage/article/a1/delete", url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/adminpage/article/a1/delete", w.Header().Get("Location"))
	assert.Zero(t, env.api.count("DELETE /articles/a1"))

	w = env.post("/adminpage/article/a1/delete", url.Values{"confirm": {"yes"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/adminpage/article", w.Header().Get("Location"))
	assert.Equal(t, 1, env.api.count("DELETE /articles/a1"))
	assert.Zero(t, env.api.count("DELETE /articles/a2"))
}

func TestDeleteCategoryNeedsConfirmation(t *testing.T) {
	env := newTestEnv(t)
	env.api.mux.HandleFunc("DELETE /categories/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	env.login(t, "admin")

	w := env.get("/adminpage/category/c2/delete?name=Health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Health")
	assert.Zero(t, env.api.count("DELETE /categories/c2"))

	w = env.post("/adminpage/category/c2/delete", url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/adminpage/category/c2/delete", w.Header().Get("Location"))
	assert.Zero(t, env.api.count("DELETE /categories/c2"))

	w = env.post("/adminpage/category/c2/delete", url.Values{"confirm": {"yes"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/adminpage/category", w.Header().Get("Location"))
	assert.Equal(t, 1, env.api.count("DELETE /categories/c2"))
	assert.Zero(t, env.api.count("DELETE /categories/c1"))
}

func TestArticleRowsDebounce(t *testing.T) {
	env := newTestEnv(t, withDebounce(150*time.Millisecond))
	env.api.mux.HandleFunc("GET /articles", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data":  []any{article("a1", "Gophers", "c1")},
			"total": 1, "page": 1, "limit": 10,
		})
	})
	env.login(t, "admin")

	terms := []string{"g", "go", "gop"}
	codes := make([]int, len(terms))
	var wg sync.WaitGroup
	for i, term := range terms {
		wg.Add(1)
		go func(i int, term string) {
			defer wg.Done()
			codes[i] = env.get("/adminpage/article/rows?page=3&search="+term, "X-Requested-With", "fetch").Code
		}(i, term)
		time.Sleep(30 * time.Millisecond)
	}
	wg.Wait()

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusOK}, codes)
	assert.Equal(t, 1, env.api.count("GET /articles"))
	q := env.api.query("GET /articles")
	assert.Equal(t, "gop", q.Get("title"))
	assert.Equal(t, "1", q.Get("page"))
}

func TestCategoryEdit(t *testing.T) {
	env := newTestEnv(t)
	env.api.mux.HandleFunc("PUT /categories/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": r.PathValue("id"), "name": "Wellness"})
	})
	env.login(t, "admin")

	w := env.get("/adminpage/category/c2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Health"`)
	assert.Equal(t, 1, env.api.count("GET /categories"))

	w = env.get("/adminpage/category/c2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.api.count("GET /categories"), "second edit is served from the cache")

	w = env.get("/adminpage/category/missing")
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = env.post("/adminpage/category/c2", url.Values{"name": {"Wellness"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 1, env.api.count("PUT /categories/c2"))

	env.get("/adminpage/category/c2")
	assert.Equal(t, 2, env.api.count("GET /categories"), "update drops the cached list")
}

func TestListFallback(t *testing.T) {
	failing := func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "database down"})
	}

	t.Run("demo data", func(t *testing.T) {
		env := newTestEnv(t, withDemo(t))
		env.api.mux.HandleFunc("GET /articles", failing)
		env.login(t, "admin")

		w := env.get("/adminpage/article")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), demoWarning)
		assert.Contains(t, w.Body.String(), "Hydration myths")
	})

	t.Run("error message", func(t *testing.T) {
		env := newTestEnv(t)
		env.api.mux.HandleFunc("GET /articles", failing)
		env.login(t, "admin")

		w := env.get("/adminpage/article")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "database down")
		assert.NotContains(t, w.Body.String(), demoWarning)
	})
}

func TestRejectedToken(t *testing.T) {
	env := newTestEnv(t)
	env.api.mux.HandleFunc("GET /articles", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "jwt expired"})
	})
	env.login(t, "admin")

	w := env.get("/adminpage/article")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, session.LoginPath, w.Header().Get("Location"))

	w = env.get("/auth/login")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Your session has expired")

	t.Run("profile check fails closed", func(t *testing.T) {
		env.login(t, "admin")
		env.api.setProfileStatus(http.StatusUnauthorized)
		before := env.api.count("GET /articles")

		w := env.get("/adminpage/article")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, before, env.api.count("GET /articles"))
	})
}

func TestReaderArticle(t *testing.T) {
	env := newTestEnv(t)
	env.api.mux.HandleFunc("GET /articles/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "gone" {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "not found"})
			return
		}
		writeJSON(w, http.StatusOK, article(r.PathValue("id"), "Main story", "c1"))
	})
	env.api.mux.HandleFunc("GET /articles", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data": []any{
				article("a1", "Main story", "c1"),
				article("a2", "Second story", "c1"),
				article("a3", "Third story", "c1"),
				article("a4", "Fourth story", "c1"),
			},
			"total": 4, "page": 1, "limit": 4,
		})
	})
	env.login(t, "reader")

	w := env.get("/userpage/article/a1")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Body of Main story")
	assert.Contains(t, body, "Second story")
	assert.Contains(t, body, "Fourth story")
	assert.Contains(t, body, `href="/userpage/article/a2"`)
	assert.NotContains(t, body, `href="/userpage/article/a1"`)
	assert.Equal(t, "c1", env.api.query("GET /articles").Get("category"))

	w = env.get("/userpage/article/gone")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func multipartImage(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUpload(t *testing.T) {
	env := newTestEnv(t)
	env.api.mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"imageUrl": "https://cdn.example.com/cover.png"})
	})
	env.login(t, "admin")

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	body, contentType := multipartImage(t, "my cover.png", png)
	req := httptest.NewRequest(http.MethodPost, "/adminpage/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Requested-With", "fetch")
	w := env.send(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"imageUrl":"https://cdn.example.com/cover.png"}`, w.Body.String())
	assert.Equal(t, 1, env.api.count("POST /upload"))

	body, contentType = multipartImage(t, "notes.txt", []byte("just some text"))
	req = httptest.NewRequest(http.MethodPost, "/adminpage/upload", body)
	req.Header.Set("Content-Type", contentType)
	w = env.send(req)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.Equal(t, 1, env.api.count("POST /upload"))

	for name, size := range map[string]int{
		"just over the limit": 1<<20 + 10,
		"far over the limit":  3 << 20,
	} {
		t.Run(name, func(t *testing.T) {
			big := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, size)...)
			body, contentType := multipartImage(t, "huge.png", big)
			req := httptest.NewRequest(http.MethodPost, "/adminpage/upload", body)
			req.Header.Set("Content-Type", contentType)
			w := env.send(req)
			assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())
			assert.JSONEq(t, `{"error":"File is too large"}`, w.Body.String())
			assert.Equal(t, 1, env.api.count("POST /upload"))
		})
	}
}

func TestExportArticle(t *testing.T) {
	env := newTestEnv(t)
	env.api.mux.HandleFunc("GET /articles/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, article(r.PathValue("id"), "Main story", "c1"))
	})
	env.login(t, "admin")

	w := env.get("/adminpage/article/a1/export?format=toml")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "+++\n"))
	assert.Contains(t, w.Body.String(), "Body of Main story")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	w = env.get("/adminpage/article/a1/export?format=docx")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthAndNotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = env.get("/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
