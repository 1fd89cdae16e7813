package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Response types matching backend

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type Asset struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Metadata    json.RawMessage `json:"metadata"`
}

type assetEnvelope struct {
	Asset Asset `json:"asset"`
}

type assetListEnvelope struct {
	Assets []Asset `json:"assets"`
}

// RegisterUser creates a new user account and returns it with a live token.
func (c *APIClient) RegisterUser(name, email, password string) (*User, string, error) {
	body := map[string]string{
		"name":                  name,
		"email":                 email,
		"password":              password,
		"password_confirmation": password,
	}

	resp, err := c.post("/register", body, "")
	if err != nil {
		return nil, "", fmt.Errorf("register request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("register failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, "", fmt.Errorf("failed to decode response: %w", err)
	}

	return &result.User, result.Token, nil
}

// Login authenticates an existing account and returns a fresh token.
func (c *APIClient) Login(email, password string) (*User, string, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	resp, err := c.post("/login", body, "")
	if err != nil {
		return nil, "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("login failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, "", fmt.Errorf("failed to decode response: %w", err)
	}

	return &result.User, result.Token, nil
}

// CreateAsset adds one asset record for the token's owner.
func (c *APIClient) CreateAsset(token, name, description, category string, metadata map[string]any) (*Asset, error) {
	body := map[string]any{
		"name":        name,
		"description": description,
		"category":    category,
	}
	if metadata != nil {
		body["metadata"] = metadata
	}

	resp, err := c.post("/assets", body, token)
	if err != nil {
		return nil, fmt.Errorf("create asset request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("create asset failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result assetEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result.Asset, nil
}

// ListAssets fetches every asset of the token's owner.
func (c *APIClient) ListAssets(token string) ([]Asset, error) {
	resp, err := c.get("/assets", token)
	if err != nil {
		return nil, fmt.Errorf("list assets request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("list assets failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result assetListEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Assets, nil
}

// Me fetches the token owner's profile.
func (c *APIClient) Me(token string) (*User, error) {
	resp, err := c.get("/user", token)
	if err != nil {
		return nil, fmt.Errorf("me request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("me failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result struct {
		User User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result.User, nil
}

// Logout revokes the presented token.
func (c *APIClient) Logout(token string) error {
	resp, err := c.post("/logout", nil, token)
	if err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("logout failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	return nil
}

// HTTP helpers

func (c *APIClient) get(path, token string) (*http.Response, error) {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}

func (c *APIClient) post(path string, body interface{}, token string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest("POST", c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}
