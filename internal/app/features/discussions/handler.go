// internal/app/features/discussions/handler.go
package discussions

import (
	communitystore "github.com/dalemusser/agorahub/internal/app/store/communities"
	discussionstore "github.com/dalemusser/agorahub/internal/app/store/discussions"
	membershipstore "github.com/dalemusser/agorahub/internal/app/store/memberships"
	votestore "github.com/dalemusser/agorahub/internal/app/store/votes"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides discussion endpoints, nested under a community slug.
type Handler struct {
	Communities *communitystore.Store
	Discussions *discussionstore.Store
	Memberships *membershipstore.Store
	Votes       *votestore.Store
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, log *zap.Logger) *Handler {
	return &Handler{
		Communities: communitystore.New(db, log),
		Discussions: discussionstore.New(db),
		Memberships: membershipstore.New(db, log),
		Votes:       votestore.NewForDiscussions(db, log),
		Log:         log,
	}
}
