package api

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/eventboardhq/eventboard-backend/internal/config"
)

// createTokenHandler exchanges the shared deployment secret for a short
// lived operator token. Platform adapters call this on boot and refresh
// before expiry.
func (a *Api) createTokenHandler(w http.ResponseWriter, r *http.Request) {
	req := &struct {
		Secret   string `json:"secret"`
		Operator string `json:"operator"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(config.Secret())) != 1 {
		a.unauthorizedResponse(w, r, errors.New("wrong secret"))
		return
	}

	operator := req.Operator
	if operator == "" {
		operator = "operator"
	}

	token, err := a.jwts.CreateToken(operator)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	resp := &struct {
		AccessToken string `json:"access_token"`
	}{AccessToken: token}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}
