// internal/app/features/authapi/register.go
package authapi

import (
	"context"
	"net/http"
	"net/mail"
	"strings"

	userstore "github.com/dalemusser/agorahub/internal/app/store/users"
	"github.com/dalemusser/agorahub/internal/app/system/apperr"
	"github.com/dalemusser/agorahub/internal/app/system/auth"
	"github.com/dalemusser/agorahub/internal/app/system/httpjson"
	"github.com/dalemusser/agorahub/internal/app/system/timeouts"
)

const minPasswordLen = 8

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// HandleRegister creates an account and signs the new user in.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "a valid email address is required"))
		return
	}
	if req.DisplayName == "" {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "display_name is required"))
		return
	}
	if len(req.Password) < minPasswordLen {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "password must be at least 8 characters"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Create(ctx, userstore.CreateInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
	})
	if err != nil {
		if err == userstore.ErrDuplicateEmail {
			httpjson.WriteError(w, h.Log, apperr.New(apperr.Conflict, "an account with this email already exists"))
			return
		}
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not create account", err))
		return
	}

	if err := h.Sessions.SignIn(w, r, auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.DisplayName,
		Email: u.Email,
	}); err != nil {
		httpjson.WriteError(w, h.Log, apperr.Wrap(apperr.Internal, "could not start session", err))
		return
	}

	httpjson.Write(w, http.StatusCreated, u)
}
