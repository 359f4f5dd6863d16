package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/wakeup-alarm-mgmt/internal/pkg/application/alarms"
	"github.com/diwise/wakeup-alarm-mgmt/internal/pkg/application/countdown"
	"github.com/diwise/wakeup-alarm-mgmt/internal/pkg/infrastructure/router"
	"github.com/diwise/wakeup-alarm-mgmt/internal/pkg/infrastructure/scheduler"
	"github.com/diwise/wakeup-alarm-mgmt/internal/pkg/infrastructure/storage"
	"github.com/diwise/wakeup-alarm-mgmt/internal/pkg/presentation/api"
	"github.com/go-chi/chi/v5"
	"github.com/matryer/is"
)

func TestHealthEndpoint(t *testing.T) {
	r, is := setupTest(t)
	server := httptest.NewServer(r)
	defer server.Close()

	resp, _ := testRequest(is, server, http.MethodGet, "/health", "", nil)

	is.Equal(resp.StatusCode, http.StatusNoContent)
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	r, is := setupTest(t)
	server := httptest.NewServer(r)
	defer server.Close()

	resp, _ := testRequest(is, server, http.MethodGet, "/api/v0/alarms", "", nil)

	is.Equal(resp.StatusCode, http.StatusUnauthorized)
}

func TestCreateAndListTimers(t *testing.T) {
	r, is := setupTest(t)
	server := httptest.NewServer(r)
	defer server.Close()

	resp, _ := testRequest(is, server, http.MethodPost, "/api/v0/timers", "sharedsecret",
		strings.NewReader(`{"title":"Tea","durationSeconds":300}`))
	is.Equal(resp.StatusCode, http.StatusCreated)

	resp, body := testRequest(is, server, http.MethodGet, "/api/v0/timers", "sharedsecret", nil)
	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(strings.Contains(body, `"title":"Tea"`))
}

func setupTest(t *testing.T) (*chi.Mux, *is.I) {
	is := is.New(t)
	ctx := context.Background()

	messenger := &messaging.MsgContextMock{
		PublishOnTopicFunc: func(ctx context.Context, message messaging.TopicMessage) error {
			return nil
		},
		RegisterTopicMessageHandlerFunc: func(routingKey string, handler messaging.TopicMessageHandler) error {
			return nil
		},
	}

	sched := scheduler.New()
	go sched.Run(ctx)

	svc := alarms.New(storage.NewInMemory(), sched, messenger, countdown.New(), &alarms.Config{})

	err := svc.Start(ctx)
	is.NoErr(err)

	err = svc.RegisterTopicMessageHandlers(ctx)
	is.NoErr(err)

	mux, err := api.RegisterHandlers(ctx, router.New("testService"), strings.NewReader(policies), svc)
	is.NoErr(err)

	return mux, is
}

func testRequest(is *is.I, ts *httptest.Server, method, path, token string, body io.Reader) (*http.Response, string) {
	req, _ := http.NewRequest(method, ts.URL+path, body)
	if token != "" {
		req.Header.Add("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	is.NoErr(err)

	respBody, _ := io.ReadAll(resp.Body)
	defer resp.Body.Close()

	return resp, string(respBody)
}

const policies string = `
package wakeup.authz

default allow := false

allow := {"scopes": ["read", "write"]} if {
	input.token == "sharedsecret"
}
`
