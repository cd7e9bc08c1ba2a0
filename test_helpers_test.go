package chromago

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/blueberrycongee/chromago/pkg/types"
)

// fakeChroma is an in-memory Chroma server double. It implements just enough
// of the v2 REST surface for the client tests and counts every request it
// receives, so tests can assert which operations hit the network.
type fakeChroma struct {
	srv      *httptest.Server
	requests atomic.Int64

	mu          sync.Mutex
	collections map[string]types.CollectionModel // name -> model
	records     map[string][]string              // collection id -> record ids
}

func newFakeChroma(t *testing.T) *fakeChroma {
	t.Helper()
	f := &fakeChroma{
		collections: make(map[string]types.CollectionModel),
		records:     make(map[string][]string),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeChroma) URL() string { return f.srv.URL }

// Requests returns how many requests the server has received.
func (f *fakeChroma) Requests() int64 { return f.requests.Load() }

func (f *fakeChroma) handle(w http.ResponseWriter, r *http.Request) {
	f.requests.Add(1)
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.URL.Path == "/api/v2/heartbeat":
		fmt.Fprintf(w, `{"nanosecond heartbeat": %d}`, time.Now().UnixNano())
	case r.URL.Path == "/api/v2/version":
		fmt.Fprint(w, `"1.3.0"`)
	default:
		f.handleScoped(w, r)
	}
}

func (f *fakeChroma) handleScoped(w http.ResponseWriter, r *http.Request) {
	prefix := "/api/v2/tenants/default_tenant/databases/default_database"
	path, ok := strings.CutPrefix(r.URL.Path, prefix)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown tenant or database")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case path == "/collections" && r.Method == http.MethodPost:
		f.createCollection(w, r)
	case path == "/collections" && r.Method == http.MethodGet:
		f.listCollections(w)
	case strings.HasPrefix(path, "/collections/"):
		f.collectionRequest(w, r, strings.TrimPrefix(path, "/collections/"))
	default:
		writeError(w, http.StatusNotFound, "unknown path "+path)
	}
}

func (f *fakeChroma) createCollection(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name          string         `json:"name"`
		Metadata      types.Metadata `json:"metadata"`
		GetOrCreate   bool           `json:"get_or_create"`
		Configuration map[string]any `json:"configuration"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if body.Name == "" {
		writeError(w, http.StatusBadRequest, "collection name may not be empty")
		return
	}

	if existing, ok := f.collections[body.Name]; ok {
		if body.GetOrCreate {
			json.NewEncoder(w).Encode(existing)
			return
		}
		writeError(w, http.StatusConflict, "collection "+body.Name+" already exists")
		return
	}

	model := types.CollectionModel{
		ID:            uuid.NewString(),
		Name:          body.Name,
		Metadata:      body.Metadata,
		Configuration: body.Configuration,
		Tenant:        "default_tenant",
		Database:      "default_database",
	}
	f.collections[body.Name] = model
	json.NewEncoder(w).Encode(model)
}

func (f *fakeChroma) listCollections(w http.ResponseWriter) {
	models := make([]types.CollectionModel, 0, len(f.collections))
	for _, model := range f.collections {
		models = append(models, model)
	}
	json.NewEncoder(w).Encode(models)
}

func (f *fakeChroma) collectionRequest(w http.ResponseWriter, r *http.Request, rest string) {
	segments := strings.SplitN(rest, "/", 2)

	// Record operations address the collection by id.
	if len(segments) == 2 {
		f.recordRequest(w, r, segments[0], segments[1])
		return
	}

	name := segments[0]
	model, ok := f.collections[name]
	if !ok {
		writeError(w, http.StatusNotFound, "collection "+name+" not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		json.NewEncoder(w).Encode(model)
	case http.MethodDelete:
		delete(f.collections, name)
		delete(f.records, model.ID)
		fmt.Fprint(w, `{}`)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

func (f *fakeChroma) recordRequest(w http.ResponseWriter, r *http.Request, id, op string) {
	found := false
	for _, model := range f.collections {
		if model.ID == id {
			found = true
			break
		}
	}
	if !found {
		writeError(w, http.StatusNotFound, "collection "+id+" not found")
		return
	}

	switch op {
	case "count":
		fmt.Fprintf(w, "%d", len(f.records[id]))
	case "add", "upsert":
		var body struct {
			IDs []string `json:"ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "malformed body")
			return
		}
		f.records[id] = append(f.records[id], body.IDs...)
		fmt.Fprint(w, `{}`)
	case "get":
		json.NewEncoder(w).Encode(types.GetResult{IDs: f.records[id]})
	case "query":
		json.NewEncoder(w).Encode(types.QueryResult{IDs: [][]string{f.records[id]}})
	case "delete":
		f.records[id] = nil
		fmt.Fprint(w, `{}`)
	default:
		writeError(w, http.StatusNotFound, "unknown operation "+op)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// newTestClient returns a client wired to a fake server.
func newTestClient(t *testing.T) (*Client, *fakeChroma) {
	t.Helper()
	fake := newFakeChroma(t)
	client, err := New(WithURL(fake.URL()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client, fake
}
