package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"warungkilat/backend/internal/barcode"
	"warungkilat/backend/internal/cache"
	"warungkilat/backend/internal/domain"
	"warungkilat/backend/internal/store"
)

var (
	// ErrForbidden means the actor lacks the role the operation requires.
	ErrForbidden = errors.New("admin role required")
	// ErrUnauthenticated means no actor is attached to the request context.
	ErrUnauthenticated = errors.New("authenticated user required")
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Service struct {
	repo      store.Repository
	barcodes  barcode.Generator
	reports   cache.ReportCache
	reportTTL time.Duration
}

func New(repo store.Repository, barcodes barcode.Generator, reports cache.ReportCache, reportTTL time.Duration) *Service {
	if barcodes == nil {
		barcodes = barcode.Noop{}
	}
	if reports == nil {
		reports = cache.NoopReportCache{}
	}
	if reportTTL <= 0 {
		reportTTL = 30 * time.Second
	}

	return &Service{
		repo:      repo,
		barcodes:  barcodes,
		reports:   reports,
		reportTTL: reportTTL,
	}
}

func requireAdmin(ctx context.Context) (domain.Actor, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Actor{}, ErrForbidden
	}
	return actor, nil
}

func normalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}
