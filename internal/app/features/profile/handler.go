// internal/app/features/profile/handler.go
package profile

import (
	communitystore "github.com/dalemusser/agorahub/internal/app/store/communities"
	membershipstore "github.com/dalemusser/agorahub/internal/app/store/memberships"
	userstore "github.com/dalemusser/agorahub/internal/app/store/users"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the signed-in user's own profile.
type Handler struct {
	Users       *userstore.Store
	Memberships *membershipstore.Store
	Communities *communitystore.Store
	Storage     storage.Store
	// AvatarBaseURL is the public URL prefix for stored avatar objects.
	AvatarBaseURL string
	Log           *zap.Logger
}

func NewHandler(db *mongo.Database, store storage.Store, avatarBaseURL string, log *zap.Logger) *Handler {
	return &Handler{
		Users:         userstore.New(db),
		Memberships:   membershipstore.New(db, log),
		Communities:   communitystore.New(db, log),
		Storage:       store,
		AvatarBaseURL: avatarBaseURL,
		Log:           log,
	}
}
