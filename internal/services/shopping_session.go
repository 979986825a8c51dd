package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	dataagg "github.com/yungbote/pantry-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/pantry-backend/internal/domain/aggregates"
	"github.com/yungbote/pantry-backend/internal/domain/shopping"
	"github.com/yungbote/pantry-backend/internal/events"
	"github.com/yungbote/pantry-backend/internal/observability"
	"github.com/yungbote/pantry-backend/internal/pkg/option"
	"github.com/yungbote/pantry-backend/internal/platform/clock"
	"github.com/yungbote/pantry-backend/internal/platform/ctxutil"
	"github.com/yungbote/pantry-backend/internal/platform/dbctx"
	"github.com/yungbote/pantry-backend/internal/platform/logger"
)

// AbandonReasonTimeout is recorded on sessions closed by the stale sweep.
const AbandonReasonTimeout = "timeout"

type ShoppingSessionService interface {
	StartSession(ctx context.Context, cmd StartSessionCommand) (*shopping.Session, error)
	CheckItem(ctx context.Context, cmd CheckItemCommand) (*shopping.Session, error)
	CompleteSession(ctx context.Context, cmd CompleteSessionCommand) (*shopping.Session, error)
	AbandonSession(ctx context.Context, cmd AbandonSessionCommand) (*shopping.Session, error)

	// GetActiveSession returns nil when the user has no active session.
	GetActiveSession(ctx context.Context, userID uuid.UUID) (*shopping.Session, error)
	GetSession(ctx context.Context, sessionID, userID uuid.UUID) (*shopping.Session, error)
	// AbandonStaleSessions closes active sessions started before now-olderThan
	// and returns how many it closed.
	AbandonStaleSessions(ctx context.Context, olderThan time.Duration, limit int) (int, error)
}

type StartSessionCommand struct {
	UserID     uuid.UUID
	DeviceType *string
	Location   *LocationInput
}

type LocationInput struct {
	Latitude  float64
	Longitude float64
	PlaceName *string
}

type CheckItemCommand struct {
	SessionID    uuid.UUID
	IngredientID uuid.UUID
	UserID       uuid.UUID
}

type CompleteSessionCommand struct {
	SessionID uuid.UUID
	UserID    uuid.UUID
}

type AbandonSessionCommand struct {
	SessionID uuid.UUID
	UserID    uuid.UUID
	Reason    string
}

type ShoppingSessionServiceDeps struct {
	Log        *logger.Logger
	Aggregate  shopping.SessionAggregate
	Sessions   shopping.SessionRepository
	Dispatcher *events.Dispatcher
	Metrics    *observability.Metrics
	Clock      clock.Clock
}

type shoppingSessionService struct {
	log        *logger.Logger
	agg        shopping.SessionAggregate
	sessions   shopping.SessionRepository
	dispatcher *events.Dispatcher
	metrics    *observability.Metrics
	clock      clock.Clock
	tracer     trace.Tracer
}

func NewShoppingSessionService(deps ShoppingSessionServiceDeps) ShoppingSessionService {
	if deps.Clock == nil {
		deps.Clock = clock.System()
	}
	return &shoppingSessionService{
		log:        deps.Log.With("service", "ShoppingSessionService"),
		agg:        deps.Aggregate,
		sessions:   deps.Sessions,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		clock:      deps.Clock,
		tracer:     otel.Tracer("github.com/yungbote/pantry-backend/internal/services"),
	}
}

func (s *shoppingSessionService) StartSession(ctx context.Context, cmd StartSessionCommand) (*shopping.Session, error) {
	ctx, span := s.tracer.Start(ctx, "ShoppingSession.Start", trace.WithAttributes(attribute.String("user_id", cmd.UserID.String())))
	defer span.End()

	opts := shopping.StartOptions{DeviceType: option.FromPtr(cmd.DeviceType)}
	if cmd.Location != nil {
		loc, err := shopping.NewLocation(cmd.Location.Latitude, cmd.Location.Longitude, option.FromPtr(cmd.Location.PlaceName))
		if err != nil {
			return nil, s.fail(span, "StartSession", err)
		}
		opts.Location = option.Some(loc)
	}

	res, err := s.agg.StartSession(ctx, shopping.StartSessionInput{
		UserID:   cmd.UserID,
		Options:  opts,
		Metadata: ctxutil.Metadata(ctx),
	})
	if err != nil {
		return nil, s.fail(span, "StartSession", err)
	}
	return s.finish(ctx, span, res), nil
}

func (s *shoppingSessionService) CheckItem(ctx context.Context, cmd CheckItemCommand) (*shopping.Session, error) {
	ctx, span := s.tracer.Start(ctx, "ShoppingSession.CheckItem", trace.WithAttributes(
		attribute.String("session_id", cmd.SessionID.String()),
		attribute.String("ingredient_id", cmd.IngredientID.String()),
	))
	defer span.End()

	res, err := s.agg.CheckItem(ctx, shopping.CheckItemInput{
		SessionID:    cmd.SessionID,
		IngredientID: cmd.IngredientID,
		UserID:       cmd.UserID,
		Metadata:     ctxutil.Metadata(ctx),
	})
	if err != nil {
		return nil, s.fail(span, "CheckItem", err)
	}
	return s.finish(ctx, span, res), nil
}

func (s *shoppingSessionService) CompleteSession(ctx context.Context, cmd CompleteSessionCommand) (*shopping.Session, error) {
	ctx, span := s.tracer.Start(ctx, "ShoppingSession.Complete", trace.WithAttributes(attribute.String("session_id", cmd.SessionID.String())))
	defer span.End()

	res, err := s.agg.CompleteSession(ctx, shopping.CompleteSessionInput{
		SessionID: cmd.SessionID,
		UserID:    cmd.UserID,
		Metadata:  ctxutil.Metadata(ctx),
	})
	if err != nil {
		return nil, s.fail(span, "CompleteSession", err)
	}
	return s.finish(ctx, span, res), nil
}

func (s *shoppingSessionService) AbandonSession(ctx context.Context, cmd AbandonSessionCommand) (*shopping.Session, error) {
	ctx, span := s.tracer.Start(ctx, "ShoppingSession.Abandon", trace.WithAttributes(attribute.String("session_id", cmd.SessionID.String())))
	defer span.End()

	res, err := s.agg.AbandonSession(ctx, shopping.AbandonSessionInput{
		SessionID: cmd.SessionID,
		UserID:    cmd.UserID,
		Reason:    cmd.Reason,
		Metadata:  ctxutil.Metadata(ctx),
	})
	if err != nil {
		return nil, s.fail(span, "AbandonSession", err)
	}
	return s.finish(ctx, span, res), nil
}

func (s *shoppingSessionService) GetActiveSession(ctx context.Context, userID uuid.UUID) (*shopping.Session, error) {
	const op = "Shopping.Service.GetActiveSession"
	if userID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	sess, err := s.sessions.FindActiveByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	return sess, nil
}

func (s *shoppingSessionService) GetSession(ctx context.Context, sessionID, userID uuid.UUID) (*shopping.Session, error) {
	const op = "Shopping.Service.GetSession"
	if sessionID == uuid.Nil || userID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id or session_id", nil)
	}
	sess, err := s.sessions.FindByID(dbctx.Context{Ctx: ctx}, sessionID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if sess == nil {
		return nil, shopping.SessionNotFoundError(op, sessionID)
	}
	if !sess.OwnedBy(userID) {
		return nil, shopping.ForbiddenError(op)
	}
	return sess, nil
}

func (s *shoppingSessionService) AbandonStaleSessions(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	const op = "Shopping.Service.AbandonStaleSessions"
	ctx, span := s.tracer.Start(ctx, "ShoppingSession.AbandonStale")
	defer span.End()

	if olderThan <= 0 {
		return 0, domainagg.NewError(domainagg.CodeValidation, op, "olderThan must be positive", nil)
	}
	cutoff := s.clock.Now().Add(-olderThan)
	dbc := dbctx.Context{Ctx: ctx}
	ids, err := s.sessions.ListStaleActive(dbc, cutoff, limit)
	if err != nil {
		return 0, s.fail(span, "AbandonStaleSessions", dataagg.MapError(op, err))
	}

	abandoned := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return abandoned, err
		}
		sess, err := s.sessions.FindByID(dbc, id)
		if err != nil {
			s.log.Warn("stale session load failed", "session_id", id.String(), "error", err)
			continue
		}
		if sess == nil || !sess.IsActive() {
			continue
		}
		res, err := s.agg.AbandonSession(ctx, shopping.AbandonSessionInput{
			SessionID: id,
			UserID:    sess.UserID(),
			Reason:    AbandonReasonTimeout,
			Metadata:  ctxutil.Metadata(ctx),
		})
		if err != nil {
			// Finished by its owner between listing and locking.
			if errors.Is(err, shopping.ErrNotActive) || errors.Is(err, shopping.ErrAlreadyCompleted) {
				continue
			}
			s.log.Warn("stale session abandon failed", "session_id", id.String(), "error", err)
			continue
		}
		s.dispatcher.Dispatch(ctx, res.Events)
		abandoned++
	}

	span.SetAttributes(attribute.Int("abandoned", abandoned), attribute.Int("candidates", len(ids)))
	s.metrics.AddSweepAbandoned(abandoned)
	if abandoned > 0 {
		s.log.Info("abandoned stale shopping sessions", "count", abandoned, "cutoff", cutoff)
	}
	return abandoned, nil
}

func (s *shoppingSessionService) finish(ctx context.Context, span trace.Span, res shopping.SessionResult) *shopping.Session {
	sess := res.Session
	span.SetAttributes(
		attribute.String("session_id", sess.ID().String()),
		attribute.String("status", string(sess.Status())),
		attribute.Int("checked_items", sess.CheckedItemCount()),
	)
	s.dispatcher.Dispatch(ctx, res.Events)
	return &sess
}

func (s *shoppingSessionService) fail(span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(domainagg.CodeOf(err)))
	if domainagg.IsCode(err, domainagg.CodeInternal) || domainagg.IsCode(err, domainagg.CodeRetryable) {
		s.log.Error("shopping session operation failed", "op", op, "error", err)
	} else {
		s.log.Debug("shopping session operation rejected", "op", op, "code", string(domainagg.CodeOf(err)), "error", err)
	}
	return err
}
