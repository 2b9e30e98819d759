package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abdouthematrix/westcairostars/internal/auth"
)

const testBcryptCost = 4

func setupAuthService(t *testing.T) (*auth.Service, *auth.MemoryRepository) {
	t.Helper()
	store := auth.NewMemoryRepository(
		auth.TeamKey{TeamCode: "T1", TeamName: "Pyramids"},
		auth.TeamKey{TeamCode: "ADM", TeamName: "Head Office", IsAdmin: true},
	)
	return auth.NewService(store, testBcryptCost), store
}

func issueKey(t *testing.T, svc *auth.Service, team string) string {
	t.Helper()
	key, err := svc.IssueKey(context.Background(), team)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(key, "wcs_"))
	return key
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func parseErrorResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &env)
	require.NoError(t, err)
	return env
}
