package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/droplabz/backend/pkg/testutil"
	"github.com/droplabz/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestHandler() http.Handler {
	s := &srv{ctx: testutil.MockContext()}
	s.loadEndpoint()
	s.loadRepos()
	s.loadDomains()

	return s.loadRouter().Handler(xcontext.Configs(s.ctx).ApiServer)
}

func TestRouter_AdminRoutes(t *testing.T) {
	handler := newTestHandler()

	tests := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodPost, "/verifyEntry", `{"entry_id":"any"}`},
		{http.MethodPost, "/markIneligible", `{"event_id":"any","entry_ids":["any"],"reason":"bot"}`},
		{http.MethodPost, "/setAutoDraw", `{"event_id":"any","enabled":true}`},
		{http.MethodPost, "/drawWinners", `{"event_id":"any"}`},
		{http.MethodPost, "/announceWinners", `{"event_id":"any","channel_id":"1200000000000000000"}`},
		{http.MethodGet, "/getGuildRoles?community_id=any", ""},
		{http.MethodGet, "/getAuditLogs?community_id=any", ""},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRouter_PublicRoutes(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/getEvent?event_id=unknown", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
