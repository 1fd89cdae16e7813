package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/dom/asset-vault-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Register(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name           string
		request        map[string]string
		setup          func()
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "successful registration",
			request: map[string]string{
				"name":                  "Ann",
				"email":                 "ann@example.com",
				"password":              "password123",
				"password_confirmation": "password123",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result testutil.AuthResponse
				testutil.AssertJSONResponse(t, resp, &result)
				assert.Equal(t, "Ann", result.User.Name)
				assert.Equal(t, "ann@example.com", result.User.Email)
				assert.NotEmpty(t, result.User.ID)
				assert.NotEmpty(t, result.Token)
			},
		},
		{
			name: "password confirmation mismatch",
			request: map[string]string{
				"name":                  "Ann",
				"email":                 "ann@example.com",
				"password":              "password123",
				"password_confirmation": "password456",
			},
			expectedStatus: http.StatusUnprocessableEntity,
			checkResponse: func(t *testing.T, resp *http.Response) {
				testutil.AssertValidationError(t, resp, "password")
			},
		},
		{
			name: "missing name",
			request: map[string]string{
				"email":                 "noname@example.com",
				"password":              "password123",
				"password_confirmation": "password123",
			},
			expectedStatus: http.StatusUnprocessableEntity,
			checkResponse: func(t *testing.T, resp *http.Response) {
				testutil.AssertValidationError(t, resp, "name")
			},
		},
		{
			name: "invalid email",
			request: map[string]string{
				"name":                  "Ann",
				"email":                 "not-an-email",
				"password":              "password123",
				"password_confirmation": "password123",
			},
			expectedStatus: http.StatusUnprocessableEntity,
			checkResponse: func(t *testing.T, resp *http.Response) {
				testutil.AssertValidationError(t, resp, "email")
			},
		},
		{
			name: "short password",
			request: map[string]string{
				"name":                  "Ann",
				"email":                 "ann@example.com",
				"password":              "2short",
				"password_confirmation": "2short",
			},
			expectedStatus: http.StatusUnprocessableEntity,
			checkResponse: func(t *testing.T, resp *http.Response) {
				testutil.AssertValidationError(t, resp, "password")
			},
		},
		{
			name: "password past the bcrypt byte limit",
			request: map[string]string{
				"name":                  "Ann",
				"email":                 "ann@example.com",
				"password":              strings.Repeat("a", 100),
				"password_confirmation": strings.Repeat("a", 100),
			},
			expectedStatus: http.StatusUnprocessableEntity,
			checkResponse: func(t *testing.T, resp *http.Response) {
				testutil.AssertValidationError(t, resp, "password")
			},
		},
		{
			name: "duplicate email",
			request: map[string]string{
				"name":                  "Second Ann",
				"email":                 "taken@example.com",
				"password":              "password123",
				"password_confirmation": "password123",
			},
			setup: func() {
				testutil.NewUserBuilder().
					WithEmail("taken@example.com").
					Build(t, ts.DB.DB)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			checkResponse: func(t *testing.T, resp *http.Response) {
				testutil.AssertValidationError(t, resp, "email")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.DB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			body, _ := json.Marshal(tt.request)
			resp, err := http.Post(ts.URL("/register"), "application/json", bytes.NewBuffer(body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestAuthHandler_Register_InvalidBody(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Post(ts.URL("/register"), "application/json", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// A storage failure must surface as the generic envelope, never the raw
// error text.
func TestAuthHandler_Register_StorageFailure(t *testing.T) {
	ts := testutil.NewTestServer(t)

	sqlDB, err := ts.DB.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	body, _ := json.Marshal(map[string]string{
		"name":                  "Ann",
		"email":                 "ann@example.com",
		"password":              "password123",
		"password_confirmation": "password123",
	})
	resp, err := http.Post(ts.URL("/register"), "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	testutil.AssertMessage(t, resp, http.StatusInternalServerError, "Server Error")
}

func TestAuthHandler_Login(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, rawPassword := testutil.NewUserBuilder().
		WithEmail("login@example.com").
		WithPassword("correctpassword").
		Build(t, ts.DB.DB)

	tests := []struct {
		name           string
		request        map[string]string
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "successful login",
			request: map[string]string{
				"email":    user.Email,
				"password": rawPassword,
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result testutil.AuthResponse
				testutil.AssertJSONResponse(t, resp, &result)
				assert.Equal(t, user.ID.String(), result.User.ID)
				assert.NotEmpty(t, result.Token)
			},
		},
		{
			name: "wrong password",
			request: map[string]string{
				"email":    user.Email,
				"password": "wrongpassword",
			},
			expectedStatus: http.StatusUnauthorized,
			checkResponse: func(t *testing.T, resp *http.Response) {
				testutil.AssertMessage(t, resp, http.StatusUnauthorized, "The provided credentials are incorrect.")
			},
		},
		{
			name: "unknown email",
			request: map[string]string{
				"email":    "ghost@example.com",
				"password": "correctpassword",
			},
			expectedStatus: http.StatusUnauthorized,
			checkResponse: func(t *testing.T, resp *http.Response) {
				testutil.AssertMessage(t, resp, http.StatusUnauthorized, "The provided credentials are incorrect.")
			},
		},
		{
			name: "missing fields",
			request: map[string]string{
				"email": "",
			},
			expectedStatus: http.StatusUnprocessableEntity,
			checkResponse: func(t *testing.T, resp *http.Response) {
				testutil.AssertValidationError(t, resp, "email")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.request)
			resp, err := http.Post(ts.URL("/login"), "application/json", bytes.NewBuffer(body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

// Both login failure modes must produce byte-identical responses, so the
// endpoint cannot be used to discover which accounts exist.
func TestAuthHandler_Login_UniformFailureBody(t *testing.T) {
	ts := testutil.NewTestServer(t)

	testutil.NewUserBuilder().
		WithEmail("exists@example.com").
		WithPassword("correctpassword").
		Build(t, ts.DB.DB)

	fetch := func(payload map[string]string) (int, string) {
		body, _ := json.Marshal(payload)
		resp, err := http.Post(ts.URL("/login"), "application/json", bytes.NewBuffer(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(raw)
	}

	wrongPassStatus, wrongPassBody := fetch(map[string]string{
		"email": "exists@example.com", "password": "nope12345",
	})
	unknownStatus, unknownBody := fetch(map[string]string{
		"email": "ghost@example.com", "password": "nope12345",
	})

	assert.Equal(t, wrongPassStatus, unknownStatus)
	assert.Equal(t, wrongPassBody, unknownBody)
}

func TestAuthHandler_Me(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().
		WithName("Ann").
		WithEmail("ann@example.com").
		BuildAndAuthenticate(t, ts)

	t.Run("returns the token owner", func(t *testing.T) {
		resp := testutil.DoAuthenticatedRequest(t, http.MethodGet, ts.URL("/user"), nil, token)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var result struct {
			User struct {
				ID    string `json:"id"`
				Name  string `json:"name"`
				Email string `json:"email"`
			} `json:"user"`
		}
		testutil.AssertJSONResponse(t, resp, &result)
		assert.Equal(t, user.ID.String(), result.User.ID)
		assert.Equal(t, "ann@example.com", result.User.Email)
	})

	t.Run("password hash never appears in responses", func(t *testing.T) {
		resp := testutil.DoAuthenticatedRequest(t, http.MethodGet, ts.URL("/user"), nil, token)
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "password")
		assert.NotContains(t, string(raw), "$2a$")
	})

	t.Run("no token", func(t *testing.T) {
		resp, err := http.Get(ts.URL("/user"))
		require.NoError(t, err)
		defer resp.Body.Close()
		testutil.AssertUnauthenticated(t, resp)
	})

	t.Run("garbage token", func(t *testing.T) {
		resp := testutil.DoAuthenticatedRequest(t, http.MethodGet, ts.URL("/user"), nil, "nonsense")
		defer resp.Body.Close()
		testutil.AssertUnauthenticated(t, resp)
	})

	t.Run("malformed authorization header", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.URL("/user"), nil, "")
		req.Header.Set("Authorization", "Token abc123")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		testutil.AssertUnauthenticated(t, resp)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	ts := testutil.NewTestServer(t)

	t.Run("POST revokes the presented token", func(t *testing.T) {
		_, token := testutil.NewUserBuilder().
			WithEmail("post-logout@example.com").
			BuildAndAuthenticate(t, ts)

		resp := testutil.DoAuthenticatedRequest(t, http.MethodPost, ts.URL("/logout"), nil, token)
		defer resp.Body.Close()
		testutil.AssertMessage(t, resp, http.StatusOK, "Logged out.")

		after := testutil.DoAuthenticatedRequest(t, http.MethodGet, ts.URL("/user"), nil, token)
		defer after.Body.Close()
		testutil.AssertUnauthenticated(t, after)
	})

	t.Run("GET works the same", func(t *testing.T) {
		_, token := testutil.NewUserBuilder().
			WithEmail("get-logout@example.com").
			BuildAndAuthenticate(t, ts)

		resp := testutil.DoAuthenticatedRequest(t, http.MethodGet, ts.URL("/logout"), nil, token)
		defer resp.Body.Close()
		testutil.AssertMessage(t, resp, http.StatusOK, "Logged out.")

		after := testutil.DoAuthenticatedRequest(t, http.MethodGet, ts.URL("/user"), nil, token)
		defer after.Body.Close()
		testutil.AssertUnauthenticated(t, after)
	})

	t.Run("second logout with the dead token is rejected", func(t *testing.T) {
		_, token := testutil.NewUserBuilder().
			WithEmail("double-logout@example.com").
			BuildAndAuthenticate(t, ts)

		first := testutil.DoAuthenticatedRequest(t, http.MethodPost, ts.URL("/logout"), nil, token)
		first.Body.Close()

		second := testutil.DoAuthenticatedRequest(t, http.MethodPost, ts.URL("/logout"), nil, token)
		defer second.Body.Close()
		testutil.AssertUnauthenticated(t, second)
	})

	t.Run("other sessions survive a single logout", func(t *testing.T) {
		user, _ := testutil.NewUserBuilder().
			WithEmail("two-devices@example.com").
			Build(t, ts.DB.DB)
		phone := testutil.IssueToken(t, ts.DB.DB, user.ID)
		laptop := testutil.IssueToken(t, ts.DB.DB, user.ID)

		resp := testutil.DoAuthenticatedRequest(t, http.MethodPost, ts.URL("/logout"), nil, phone)
		resp.Body.Close()

		still := testutil.DoAuthenticatedRequest(t, http.MethodGet, ts.URL("/user"), nil, laptop)
		defer still.Body.Close()
		testutil.AssertStatusCode(t, still, http.StatusOK)
	})
}

func TestAuthHandler_LogoutAll(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, _ := testutil.NewUserBuilder().
		WithEmail("everywhere@example.com").
		Build(t, ts.DB.DB)
	phone := testutil.IssueToken(t, ts.DB.DB, user.ID)
	laptop := testutil.IssueToken(t, ts.DB.DB, user.ID)

	resp := testutil.DoAuthenticatedRequest(t, http.MethodPost, ts.URL("/logout-all"), nil, phone)
	defer resp.Body.Close()
	testutil.AssertMessage(t, resp, http.StatusOK, "Logged out from all devices.")

	for _, token := range []string{phone, laptop} {
		after := testutil.DoAuthenticatedRequest(t, http.MethodGet, ts.URL("/user"), nil, token)
		testutil.AssertUnauthenticated(t, after)
		after.Body.Close()
	}
}
