package rest

import (
	"net/http"

	"github.com/rpattn/moviesapi/internal/api"
	"github.com/rpattn/moviesapi/internal/auth"
	"github.com/rpattn/moviesapi/internal/validation"
)

type tokenHandler struct {
	tokens TokenManager
}

type tokenResponse struct {
	Token string `json:"token"`
}

// issue godoc
// @Summary      Issue a token
// @Description  Signs a bearer token for the given identity and claims
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      auth.TokenRequest  true  "Token request"
// @Success      200      {object}  tokenResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      429      {object}  api.ErrorResponse
// @Router       /api/token [post]
func (h *tokenHandler) issue(w http.ResponseWriter, r *http.Request) {
	var req auth.TokenRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	token, err := h.tokens.GenerateToken(req)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, tokenResponse{Token: token})
}
