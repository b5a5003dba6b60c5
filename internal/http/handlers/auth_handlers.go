package handlers

import (
	"net/http"

	"github.com/boutiquehq/boutique-pos/internal/auth"
	"golang.org/x/crypto/bcrypt"
)

// LoginHandler godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body UserLogin true "Email and password"
// @Success 200 {object} TokenPair
// @Failure 401 {string} string "invalid credentials"
// @Router /auth/login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req UserLogin
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	user, err := userRepo.GetByEmail(r.Context(), req.Email)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if !user.Active {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	access, err := auth.GenerateToken(user)
	if err != nil {
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}
	refresh, err := refreshStore.Issue(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, TokenPair{AccessToken: access, RefreshToken: refresh})
}

// RefreshHandler godoc
// @Summary Exchange a refresh token for a new token pair
// @Description Refresh tokens are single use; the old one is consumed
// @Tags auth
// @Accept json
// @Produce json
// @Param token body RefreshRequest true "Refresh token"
// @Success 200 {object} TokenPair
// @Failure 401 {string} string "invalid refresh token"
// @Router /auth/refresh [post]
func RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	userID, err := refreshStore.Redeem(r.Context(), req.RefreshToken)
	if err != nil {
		http.Error(w, "invalid refresh token", http.StatusUnauthorized)
		return
	}

	user, err := userRepo.GetByID(r.Context(), userID)
	if err != nil || !user.Active {
		http.Error(w, "invalid refresh token", http.StatusUnauthorized)
		return
	}

	access, err := auth.GenerateToken(user)
	if err != nil {
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}
	refresh, err := refreshStore.Issue(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, TokenPair{AccessToken: access, RefreshToken: refresh})
}

// LogoutHandler godoc
// @Summary Revoke a refresh token
// @Tags auth
// @Accept json
// @Param token body RefreshRequest true "Refresh token to revoke"
// @Success 204 "Revoked"
// @Router /auth/logout [post]
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if err := refreshStore.Revoke(r.Context(), req.RefreshToken); err != nil {
		http.Error(w, "could not revoke token", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
