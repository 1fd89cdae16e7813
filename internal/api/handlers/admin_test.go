package handlers_test

import (
	"net/http"
	"testing"

	"github.com/dom/asset-vault-api/internal/domain"
	"github.com/dom/asset-vault-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminHandler_ListUsers(t *testing.T) {
	ts := testutil.NewTestServer(t)

	// testutil.TestConfig puts admin@example.com on the allow-list.
	admin, adminToken := testutil.NewUserBuilder().
		WithName("Admin").
		WithEmail("admin@example.com").
		BuildAndAuthenticate(t, ts)
	regular, regularToken := testutil.NewUserBuilder().
		WithEmail("regular@example.com").
		BuildAndAuthenticate(t, ts)

	t.Run("unauthenticated", func(t *testing.T) {
		resp, err := http.Get(ts.URL("/admin/users"))
		require.NoError(t, err)
		defer resp.Body.Close()
		testutil.AssertUnauthenticated(t, resp)
	})

	t.Run("regular user is forbidden", func(t *testing.T) {
		resp := testutil.DoAuthenticatedRequest(t, http.MethodGet, ts.URL("/admin/users"), nil, regularToken)
		defer resp.Body.Close()
		testutil.AssertMessage(t, resp, http.StatusForbidden, "Forbidden.")
	})

	t.Run("admin sees every account", func(t *testing.T) {
		resp := testutil.DoAuthenticatedRequest(t, http.MethodGet, ts.URL("/admin/users"), nil, adminToken)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var result struct {
			Users []*domain.User `json:"users"`
		}
		testutil.AssertJSONResponse(t, resp, &result)
		require.Len(t, result.Users, 2)

		emails := make([]string, 0, len(result.Users))
		for _, u := range result.Users {
			emails = append(emails, u.Email)
		}
		assert.Contains(t, emails, admin.Email)
		assert.Contains(t, emails, regular.Email)
	})
}
