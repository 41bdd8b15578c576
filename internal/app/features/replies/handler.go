// internal/app/features/replies/handler.go
package replies

import (
	discussionstore "github.com/dalemusser/agorahub/internal/app/store/discussions"
	replystore "github.com/dalemusser/agorahub/internal/app/store/replies"
	votestore "github.com/dalemusser/agorahub/internal/app/store/votes"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides reply endpoints. Reply creation and listing address
// the parent discussion by id; votes and deletes address the reply.
type Handler struct {
	Discussions *discussionstore.Store
	Replies     *replystore.Store
	Votes       *votestore.Store
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, log *zap.Logger) *Handler {
	return &Handler{
		Discussions: discussionstore.New(db),
		Replies:     replystore.New(db, log),
		Votes:       votestore.NewForReplies(db, log),
		Log:         log,
	}
}
