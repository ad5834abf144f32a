package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPCaller_GetEncodesParamsAsQuery(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c, err := NewHTTPCaller(srv.URL)
	require.NoError(t, err)

	raw, err := c.Call(context.Background(), "avatars", Options{
		Method: http.MethodGet,
		Params: map[string]any{"n": 10, "user": "me"},
	})
	require.NoError(t, err)
	require.Equal(t, "/avatars", gotPath)
	assert.Contains(t, gotQuery, "n=10")
	assert.Contains(t, gotQuery, "user=me")
	assert.JSONEq(t, `{"ok":true}`, string(raw))
}

func TestHTTPCaller_PostSendsJSONBody(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, err := NewHTTPCaller(srv.URL)
	require.NoError(t, err)

	_, err = c.Call(context.Background(), "avatars/avtr_1", Options{
		Method: http.MethodPut,
		Params: map[string]any{"name": "new name"},
	})
	require.NoError(t, err)
	assert.Equal(t, "application/json", gotContentType)
	assert.JSONEq(t, `{"name":"new name"}`, string(gotBody))
}

func TestHTTPCaller_StatusErrorClasses(t *testing.T) {
	tests := []struct {
		code     int
		body     string
		sentinel error
		message  string
	}{
		{404, `{"error":{"message":"gone","status_code":404}}`, ErrNotFound, "gone"},
		{401, `{}`, ErrUnauthorized, ""},
		{403, `{}`, ErrUnauthorized, ""},
		{500, `not even json`, ErrUnavailable, ""},
		{429, `{}`, ErrUnavailable, ""},
	}

	for _, tc := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.code)
			_, _ = w.Write([]byte(tc.body))
		}))

		c, err := NewHTTPCaller(srv.URL)
		require.NoError(t, err)

		_, err = c.Call(context.Background(), "x", Options{})
		require.Error(t, err, "code %d", tc.code)
		assert.ErrorIs(t, err, tc.sentinel, "code %d", tc.code)

		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, tc.code, se.Code)
		assert.Equal(t, tc.message, se.Message)

		srv.Close()
	}
}

func TestHTTPCaller_CredentialsAreOneShot(t *testing.T) {
	var auths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auths = append(auths, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, err := NewHTTPCaller(srv.URL)
	require.NoError(t, err)
	c.SetCredentials("user", "pass")

	_, err = c.Call(context.Background(), "auth/user", Options{})
	require.NoError(t, err)
	_, err = c.Call(context.Background(), "auth/user", Options{})
	require.NoError(t, err)

	require.Len(t, auths, 2)
	assert.NotEmpty(t, auths[0], "first call must carry basic auth")
	assert.Empty(t, auths[1], "credentials must be cleared after one use")
}

func TestHTTPCaller_Put(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		gotBody, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	c, err := NewHTTPCaller("https://unused.example")
	require.NoError(t, err)

	err = c.Put(context.Background(), srv.URL+"/part", "image/png", []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, gotBody)
}

func TestEnvelope_ShapeHelpers(t *testing.T) {
	obj := &Envelope{JSON: json.RawMessage(`  {"id":"x"}`)}
	arr := &Envelope{JSON: json.RawMessage("\n[1,2]")}
	str := &Envelope{JSON: json.RawMessage(`"oops"`)}

	assert.True(t, obj.Object())
	assert.False(t, obj.Array())
	assert.True(t, arr.Array())
	assert.False(t, str.Object())
	assert.False(t, str.Array())
}

func TestEnvelope_Param(t *testing.T) {
	e := &Envelope{Params: map[string]any{"notificationId": "ntf_1", "n": 5}}
	assert.Equal(t, "ntf_1", e.Param("notificationId"))
	assert.Equal(t, "", e.Param("n"))
	assert.Equal(t, "", e.Param("missing"))
	assert.Equal(t, "", (*Envelope)(nil).Param("x"))
}

func TestStatusError_DoesNotMatchUnrelated(t *testing.T) {
	err := &StatusError{Code: 400}
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrUnauthorized))
	assert.False(t, errors.Is(err, ErrUnavailable))
}
