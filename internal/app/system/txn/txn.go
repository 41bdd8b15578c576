// Package txn wraps multi-document MongoDB transactions with a fallback
// for deployments that do not support them (standalone servers, some
// DocumentDB configurations).
//
// Run executes fn inside a session transaction when the server allows
// it. When the server reports that transactions are unsupported, fn is
// re-run sequentially outside a transaction: the individual writes are
// still per-document atomic, which is the same guarantee the app had
// before transactions were introduced.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn within a transaction on db's client, falling back to a
// plain sequential run when the deployment lacks transaction support.
// fn must use the ctx it is handed for every database call, or the
// writes will escape the session.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	session, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			logFallback(log, err)
			return fn(ctx)
		}
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		logFallback(log, err)
		return fn(ctx)
	}
	return err
}

func logFallback(log *zap.Logger, err error) {
	if log != nil {
		log.Warn("transactions unsupported by deployment, running sequentially", zap.Error(err))
	}
}

// Server codes that mean "this deployment cannot do transactions":
// 20 IllegalOperation variants on standalone, 51 IllegalOperation,
// 263 OperationNotSupportedInTransaction.
var notSupportedCodes = map[int32]bool{20: true, 51: true, 263: true}

// IsNotSupported reports whether err indicates the deployment does not
// support sessions/transactions (as opposed to the transaction failing
// for a reason worth surfacing).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) && notSupportedCodes[ce.Code] {
		return true
	}

	// String matching as a last resort; drivers and proxies vary in how
	// they report this.
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "transaction") &&
		(strings.Contains(s, "replica set") ||
			strings.Contains(s, "session") ||
			strings.Contains(s, "illegal operation")) {
		return true
	}
	if strings.Contains(s, "session") && strings.Contains(s, "not supported") {
		return true
	}
	return false
}
