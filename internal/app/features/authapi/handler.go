// internal/app/features/authapi/handler.go
package authapi

import (
	userstore "github.com/dalemusser/agorahub/internal/app/store/users"
	"github.com/dalemusser/agorahub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides register, login and logout endpoints.
type Handler struct {
	Users    *userstore.Store
	Sessions *auth.SessionManager
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, sm *auth.SessionManager, log *zap.Logger) *Handler {
	return &Handler{
		Users:    userstore.New(db),
		Sessions: sm,
		Log:      log,
	}
}
