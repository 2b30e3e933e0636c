// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

The two unique indexes carry invariants the application depends on:
users.email backs the duplicate-registration conflict, and
members (user_id, project_id) guarantees at most one membership per pair.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureProjects(ctx, db); err != nil {
		problems = append(problems, "projects: "+err.Error())
	}
	if err := ensureMembers(ctx, db); err != nil {
		problems = append(problems, "members: "+err.Error())
	}
	if err := ensureTasks(ctx, db); err != nil {
		problems = append(problems, "tasks: "+err.Error())
	}
	if err := ensureTaskUsers(ctx, db); err != nil {
		problems = append(problems, "task_users: "+err.Error())
	}
	if err := ensureOAuthStates(ctx, db); err != nil {
		problems = append(problems, "oauth_states: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	start := time.Now()
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	zap.L().Info("indexes ensured",
		zap.String("collection", coll.Name()),
		zap.Int("count", len(models)),
		zap.String("took", time.Since(start).String()))
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_users_email_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "google_id", Value: 1}},
			Options: options.Index().SetName("idx_users_google_id").SetSparse(true),
		},
	})
}

func ensureProjects(ctx context.Context, db *mongo.Database) error {
	return ensureSet(ctx, db.Collection("projects"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}},
			Options: options.Index().SetName("idx_projects_owner"),
		},
	})
}

func ensureMembers(ctx context.Context, db *mongo.Database) error {
	return ensureSet(ctx, db.Collection("members"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "project_id", Value: 1}},
			Options: options.Index().SetName("idx_members_user_project_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}},
			Options: options.Index().SetName("idx_members_project"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "invitation_status", Value: 1}},
			Options: options.Index().SetName("idx_members_user_status"),
		},
	})
}

func ensureTasks(ctx context.Context, db *mongo.Database) error {
	return ensureSet(ctx, db.Collection("tasks"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_tasks_project_created"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_tasks_status"),
		},
	})
}

func ensureTaskUsers(ctx context.Context, db *mongo.Database) error {
	return ensureSet(ctx, db.Collection("task_users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "task_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_task_users_unique").SetUnique(true),
		},
	})
}

func ensureOAuthStates(ctx context.Context, db *mongo.Database) error {
	return ensureSet(ctx, db.Collection("oauth_states"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "state", Value: 1}},
			Options: options.Index().SetName("idx_oauth_state_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("idx_oauth_ttl").SetExpireAfterSeconds(0),
		},
	})
}
