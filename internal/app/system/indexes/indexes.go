// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup, before the HTTP handler is built. Each
ensure* function is idempotent (CreateMany with stable names is a no-op
when the index already exists). Errors are aggregated so every problem
is visible and startup can fail fast.

The unique indexes here are the authoritative concurrency protection for
this app: slug pre-checks in the stores are advisory, the indexes decide.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureCommunities(ctx, db); err != nil {
		problems = append(problems, "communities: "+err.Error())
	}
	if err := ensureMemberships(ctx, db); err != nil {
		problems = append(problems, "memberships: "+err.Error())
	}
	if err := ensureDiscussions(ctx, db); err != nil {
		problems = append(problems, "discussions: "+err.Error())
	}
	if err := ensureReplies(ctx, db); err != nil {
		problems = append(problems, "replies: "+err.Error())
	}
	if err := ensureVotes(ctx, db, "discussion_votes"); err != nil {
		problems = append(problems, "discussion_votes: "+err.Error())
	}
	if err := ensureVotes(ctx, db, "reply_votes"); err != nil {
		problems = append(problems, "reply_votes: "+err.Error())
	}
	if err := ensureTopics(ctx, db); err != nil {
		problems = append(problems, "topics: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func create(ctx context.Context, db *mongo.Database, coll string, models []mongo.IndexModel) error {
	_, err := db.Collection(coll).Indexes().CreateMany(ctx, models)
	return err
}

func unique() *options.IndexOptions {
	return options.Index().SetUnique(true)
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "users", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email_ci", Value: 1}},
			Options: unique().SetName("uniq_email_ci"),
		},
		{
			Keys:    bson.D{{Key: "display_name_ci", Value: 1}},
			Options: options.Index().SetName("display_name_ci"),
		},
	})
}

func ensureCommunities(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "communities", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: unique().SetName("uniq_slug"),
		},
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("name_ci"),
		},
		{
			Keys:    bson.D{{Key: "topic_ids", Value: 1}},
			Options: options.Index().SetName("topic_ids"),
		},
	})
}

func ensureMemberships(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "memberships", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "community_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: unique().SetName("uniq_community_user"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("user_status"),
		},
		{
			Keys:    bson.D{{Key: "community_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("community_status"),
		},
	})
}

func ensureDiscussions(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "discussions", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "community_id", Value: 1}, {Key: "slug", Value: 1}},
			Options: unique().SetName("uniq_community_slug"),
		},
		{
			Keys:    bson.D{{Key: "community_id", Value: 1}, {Key: "last_activity_at", Value: -1}},
			Options: options.Index().SetName("community_activity"),
		},
		{
			Keys:    bson.D{{Key: "title_ci", Value: 1}},
			Options: options.Index().SetName("title_ci"),
		},
	})
}

func ensureReplies(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "replies", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "discussion_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("discussion_created"),
		},
		{
			Keys:    bson.D{{Key: "parent_id", Value: 1}},
			Options: options.Index().SetName("parent"),
		},
	})
}

// ensureVotes installs the one-vote-per-(voter,target) constraint. Both
// vote collections share the same shape, so the same indexes apply.
func ensureVotes(ctx context.Context, db *mongo.Database, coll string) error {
	return create(ctx, db, coll, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "voter_id", Value: 1}, {Key: "target_id", Value: 1}},
			Options: unique().SetName("uniq_voter_target"),
		},
		{
			Keys:    bson.D{{Key: "target_id", Value: 1}, {Key: "direction", Value: 1}},
			Options: options.Index().SetName("target_direction"),
		},
	})
}

func ensureTopics(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "topics", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: unique().SetName("uniq_name_ci"),
		},
	})
}
