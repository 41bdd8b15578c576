// internal/app/features/communities/handler.go
package communities

import (
	communitystore "github.com/dalemusser/agorahub/internal/app/store/communities"
	membershipstore "github.com/dalemusser/agorahub/internal/app/store/memberships"
	topicstore "github.com/dalemusser/agorahub/internal/app/store/topics"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides community CRUD and membership endpoints.
type Handler struct {
	Communities *communitystore.Store
	Memberships *membershipstore.Store
	Topics      *topicstore.Store
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, log *zap.Logger) *Handler {
	return &Handler{
		Communities: communitystore.New(db, log),
		Memberships: membershipstore.New(db, log),
		Topics:      topicstore.New(db),
		Log:         log,
	}
}
