package index

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type ServerSetup struct {
	Method, Path, Body, Response string
	HTTPStatus                   int
}

type testRequest struct {
	Method string
	Path   string
	Body   string
}

type testServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []testRequest
}

func (ts *testServer) Requests() []testRequest {

	ts.mu.Lock()
	defer ts.mu.Unlock()

	return append([]testRequest(nil), ts.requests...)
}

// buildTestServer returns an Elasticsearch stand-in that answers each request with the first setup
// matching its method and path. An empty setup Body matches any request body.
func buildTestServer(t *testing.T, setups []*ServerSetup) *testServer {

	ts := &testServer{}

	handlerFunc := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		requestBytes, _ := ioutil.ReadAll(r.Body)
		requestBody := string(requestBytes)

		ts.mu.Lock()
		ts.requests = append(ts.requests, testRequest{r.Method, r.URL.EscapedPath(), requestBody})
		ts.mu.Unlock()

		for _, setup := range setups {

			if r.Method != setup.Method || r.URL.EscapedPath() != setup.Path {
				continue
			}

			if setup.Body != "" && setup.Body != requestBody {
				continue
			}

			w.Header().Set("Content-Type", "application/json")

			if setup.HTTPStatus == 0 {
				w.WriteHeader(http.StatusOK)
			} else {
				w.WriteHeader(setup.HTTPStatus)
			}

			_, err := w.Write([]byte(setup.Response))

			if err != nil {
				t.Errorf("Unable to write test server response: %v", err)
			}

			return
		}

		t.Errorf("No requests matched setup. Got method %s, Path %s, body %s", r.Method, r.URL.EscapedPath(), requestBody)
		w.WriteHeader(http.StatusBadRequest)
	})

	ts.Server = httptest.NewServer(handlerFunc)
	return ts
}
