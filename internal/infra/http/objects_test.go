package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ompserver/internal/config"
	"ompserver/internal/domain"
)

func doJSON(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.r.ServeHTTP(w, req)
	return w
}

func storeObject(t *testing.T, srv *Server, body string) domain.Object {
	t.Helper()
	w := doJSON(srv, http.MethodPost, "http://testserver/objects", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("store status = %d body = %s", w.Code, w.Body.String())
	}
	var obj domain.Object
	if err := json.Unmarshal(w.Body.Bytes(), &obj); err != nil {
		t.Fatalf("decode object: %v", err)
	}
	return obj
}

func TestStoreObjectReturnsMetadataWithoutContent(t *testing.T) {
	srv := newTestServer(t, config.Config{})

	w := doJSON(srv, http.MethodPost, "http://testserver/objects", `{"namespace":"ns","key":"k1","content":{"x":1}}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["id"] == "" || out["namespace"] != "ns" || out["key"] != "k1" {
		t.Fatalf("body = %v", out)
	}
	if _, ok := out["content"]; ok {
		t.Fatalf("listing body must omit content: %v", out)
	}
	if _, ok := out["metadata"]; !ok {
		t.Fatalf("metadata must always be present: %v", out)
	}
}

func TestStoreObjectGeneratesKey(t *testing.T) {
	srv := newTestServer(t, config.Config{})
	obj := storeObject(t, srv, `{"namespace":"ns","content":{"x":1}}`)
	if obj.Key == "" {
		t.Fatal("expected a generated key")
	}
}

func TestStoreObjectValidation(t *testing.T) {
	srv := newTestServer(t, config.Config{})

	cases := []struct {
		name string
		body string
	}{
		{"missing namespace", `{"content":{"x":1}}`},
		{"missing content", `{"namespace":"ns"}`},
		{"content not an object", `{"namespace":"ns","content":[1,2]}`},
		{"content null", `{"namespace":"ns","content":null}`},
		{"not json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(srv, http.MethodPost, "http://testserver/objects", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
			}
			if body := decodeErrorBody(t, w); body.Code != "bad_request" {
				t.Fatalf("code = %q", body.Code)
			}
		})
	}
}

func TestGetObjectRoundTrip(t *testing.T) {
	srv := newTestServer(t, config.Config{})
	obj := storeObject(t, srv, `{"namespace":"ns","key":"k1","content":{"x":1},"metadata":{"m":"v"}}`)

	w := doJSON(srv, http.MethodGet, "http://testserver/objects/"+obj.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var got domain.Object
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Content == nil || got.Content["x"] != float64(1) {
		t.Fatalf("content = %v", got.Content)
	}
	if got.Metadata["m"] != "v" {
		t.Fatalf("metadata = %v", got.Metadata)
	}
}

func TestGetObjectNotFound(t *testing.T) {
	srv := newTestServer(t, config.Config{})
	w := doJSON(srv, http.MethodGet, "http://testserver/objects/missing", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeErrorBody(t, w)
	if body.Code != "not_found" || body.Message != "Object not found" {
		t.Fatalf("body = %+v", body)
	}
}

func TestUpdateObjectReplacesContent(t *testing.T) {
	srv := newTestServer(t, config.Config{})
	obj := storeObject(t, srv, `{"namespace":"ns","key":"k1","content":{"x":1}}`)

	w := doJSON(srv, http.MethodPut, "http://testserver/objects/"+obj.ID, `{"content":{"y":2}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var got domain.Object
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := got.Content["x"]; ok {
		t.Fatalf("update must replace content wholesale: %v", got.Content)
	}
	if got.Content["y"] != float64(2) {
		t.Fatalf("content = %v", got.Content)
	}
}

func TestUpdateObjectContentMustBeObject(t *testing.T) {
	srv := newTestServer(t, config.Config{})
	obj := storeObject(t, srv, `{"namespace":"ns","content":{"x":1}}`)

	w := doJSON(srv, http.MethodPut, "http://testserver/objects/"+obj.ID, `{"content":"nope"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeErrorBody(t, w)
	if !strings.Contains(body.Message, "content must be an object") {
		t.Fatalf("message = %q", body.Message)
	}
}

func TestDeleteObject(t *testing.T) {
	srv := newTestServer(t, config.Config{})
	obj := storeObject(t, srv, `{"namespace":"ns","content":{"x":1}}`)

	w := doJSON(srv, http.MethodDelete, "http://testserver/objects/"+obj.ID, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	w = doJSON(srv, http.MethodDelete, "http://testserver/objects/"+obj.ID, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d", w.Code)
	}
}

func TestListAndSearchObjects(t *testing.T) {
	srv := newTestServer(t, config.Config{})
	storeObject(t, srv, `{"namespace":"a","key":"alpha-one","content":{"x":1}}`)
	storeObject(t, srv, `{"namespace":"a","key":"beta-two","content":{"x":2}}`)
	storeObject(t, srv, `{"namespace":"b","key":"alpha-three","content":{"x":3}}`)

	w := doJSON(srv, http.MethodGet, "http://testserver/objects", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var list domain.ObjectList
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Count != 3 {
		t.Fatalf("count = %d", list.Count)
	}
	for _, item := range list.Items {
		if item.Content != nil {
			t.Fatalf("listed item carries content: %+v", item)
		}
	}

	w = doJSON(srv, http.MethodGet, "http://testserver/objects/search?namespace=a&key_contains=alpha", "")
	if w.Code != http.StatusOK {
		t.Fatalf("search status = %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode search: %v", err)
	}
	if list.Count != 1 || list.Items[0].Key != "alpha-one" {
		t.Fatalf("search result = %+v", list)
	}
}

func TestListObjectsPagination(t *testing.T) {
	srv := newTestServer(t, config.Config{})
	storeObject(t, srv, `{"namespace":"ns","key":"k1","content":{"x":1}}`)
	storeObject(t, srv, `{"namespace":"ns","key":"k2","content":{"x":2}}`)
	storeObject(t, srv, `{"namespace":"ns","key":"k3","content":{"x":3}}`)

	w := doJSON(srv, http.MethodGet, "http://testserver/objects?limit=2", "")
	var page domain.ObjectList
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Count != 2 {
		t.Fatalf("first page count = %d", page.Count)
	}

	cursor := page.Items[len(page.Items)-1].ID
	w = doJSON(srv, http.MethodGet, "http://testserver/objects?limit=2&cursor="+cursor, "")
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Count != 1 {
		t.Fatalf("second page count = %d", page.Count)
	}
}
