package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"calendar-planner-api/internal/auth"
	"calendar-planner-api/internal/database"
	"calendar-planner-api/internal/models"

	"github.com/stretchr/testify/require"
)

func TestLogin_CreatesUserIfNotExists(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/login", map[string]string{
		"username": "newuser",
		"password": "sha256-from-fe",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	claims, err := auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	require.Equal(t, resp.UserID, claims.UserID)

	var user models.User
	require.NoError(t, database.GetDB().First(&user, "username = ?", "newuser").Error)
	require.NotEqual(t, "sha256-from-fe", user.Password)
}

func TestLogin_ExistingUserChecksPassword(t *testing.T) {
	r, _ := newTestRouter(t)
	creds := map[string]string{"username": "carol", "password": "right"}

	first := doJSON(t, r, http.MethodPost, "/api/login", creds, "")
	require.Equal(t, http.StatusOK, first.Code)
	var firstResp LoginResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &firstResp))

	again := doJSON(t, r, http.MethodPost, "/api/login", creds, "")
	require.Equal(t, http.StatusOK, again.Code)
	var againResp LoginResponse
	require.NoError(t, json.Unmarshal(again.Body.Bytes(), &againResp))
	require.Equal(t, firstResp.UserID, againResp.UserID)

	wrong := doJSON(t, r, http.MethodPost, "/api/login", map[string]string{"username": "carol", "password": "wrong"}, "")
	require.Equal(t, http.StatusUnauthorized, wrong.Code)
}

func TestLogin_MissingFields(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/login", map[string]string{"username": "x"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}
