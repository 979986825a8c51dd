package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	domainagg "github.com/yungbote/pantry-backend/internal/domain/aggregates"
	"github.com/yungbote/pantry-backend/internal/domain/shopping"
	"github.com/yungbote/pantry-backend/internal/platform/clock"
	"github.com/yungbote/pantry-backend/internal/platform/dbctx"
)

type ShoppingSessionAggregateDeps struct {
	Base BaseDeps

	Sessions    shopping.SessionRepository
	Ingredients shopping.IngredientRepository
	Clock       clock.Clock
	// Location is the calendar used to decide "today" for expiry grading.
	Location *time.Location
}

type shoppingSessionAggregate struct {
	deps    ShoppingSessionAggregateDeps
	factory *shopping.Factory
}

func NewShoppingSessionAggregate(deps ShoppingSessionAggregateDeps) shopping.SessionAggregate {
	deps.Base = deps.Base.withDefaults()
	if deps.Clock == nil {
		deps.Clock = clock.System()
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	return &shoppingSessionAggregate{
		deps:    deps,
		factory: shopping.NewFactory(deps.Sessions, deps.Clock),
	}
}

func (a *shoppingSessionAggregate) Contract() domainagg.Contract {
	return shopping.SessionAggregateContract
}

func (a *shoppingSessionAggregate) StartSession(ctx context.Context, in shopping.StartSessionInput) (shopping.SessionResult, error) {
	const op = "Shopping.Session.Start"
	var out shopping.SessionResult
	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if err := a.requireRepos(op, false); err != nil {
		return out, err
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		s, events, err := a.factory.Create(dbc, in.UserID, in.Options, in.Metadata)
		if err != nil {
			return err
		}
		saved, err := a.deps.Sessions.Save(dbc, s)
		if err != nil {
			// The partial unique index caught a concurrent start for the same user.
			if domainagg.IsCode(MapError(op, err), domainagg.CodeConflict) {
				return shopping.AlreadyActiveError(op, err)
			}
			return err
		}
		out = shopping.SessionResult{Session: saved, Events: events}
		return nil
	})
	return out, err
}

func (a *shoppingSessionAggregate) CheckItem(ctx context.Context, in shopping.CheckItemInput) (shopping.SessionResult, error) {
	const op = "Shopping.Session.CheckItem"
	var out shopping.SessionResult
	switch {
	case in.UserID == uuid.Nil:
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	case in.SessionID == uuid.Nil:
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing session_id", nil)
	case in.IngredientID == uuid.Nil:
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing ingredient_id", nil)
	}
	if err := a.requireRepos(op, true); err != nil {
		return out, err
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		s, err := a.lockOwned(dbc, op, in.SessionID, in.UserID)
		if err != nil {
			return err
		}
		if !s.IsActive() {
			return shopping.NotActiveError(op)
		}

		ing, err := a.deps.Ingredients.FindByID(dbc, in.IngredientID)
		if err != nil {
			return err
		}
		if ing == nil {
			return shopping.IngredientNotFoundError(op, in.IngredientID)
		}
		if !ing.OwnedBy(in.UserID) {
			return shopping.ForbiddenError(op)
		}
		if s.HasChecked(ing.ID) {
			return shopping.AlreadyCheckedError(op, ing.ID)
		}

		now := a.deps.Clock.Now()
		next, events, err := s.CheckItem(shopping.SnapshotOf(*ing, now.In(a.deps.Location)), now, in.Metadata)
		if err != nil {
			return err
		}
		return a.commit(dbc, op, next, events, &out)
	})
	return out, err
}

func (a *shoppingSessionAggregate) CompleteSession(ctx context.Context, in shopping.CompleteSessionInput) (shopping.SessionResult, error) {
	const op = "Shopping.Session.Complete"
	var out shopping.SessionResult
	if in.UserID == uuid.Nil || in.SessionID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id or session_id", nil)
	}
	if err := a.requireRepos(op, false); err != nil {
		return out, err
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		s, err := a.lockOwned(dbc, op, in.SessionID, in.UserID)
		if err != nil {
			return err
		}
		next, events, err := s.Complete(a.deps.Clock.Now(), in.Metadata)
		if err != nil {
			return err
		}
		return a.commit(dbc, op, next, events, &out)
	})
	return out, err
}

func (a *shoppingSessionAggregate) AbandonSession(ctx context.Context, in shopping.AbandonSessionInput) (shopping.SessionResult, error) {
	const op = "Shopping.Session.Abandon"
	var out shopping.SessionResult
	if in.UserID == uuid.Nil || in.SessionID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id or session_id", nil)
	}
	if err := a.requireRepos(op, false); err != nil {
		return out, err
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		s, err := a.lockOwned(dbc, op, in.SessionID, in.UserID)
		if err != nil {
			return err
		}
		next, events, err := s.Abandon(in.Reason, a.deps.Clock.Now(), in.Metadata)
		if err != nil {
			return err
		}
		return a.commit(dbc, op, next, events, &out)
	})
	return out, err
}

func (a *shoppingSessionAggregate) lockOwned(dbc dbctx.Context, op string, sessionID, userID uuid.UUID) (shopping.Session, error) {
	s, err := a.deps.Sessions.LockByID(dbc, sessionID)
	if err != nil {
		return shopping.Session{}, err
	}
	if s == nil {
		return shopping.Session{}, shopping.SessionNotFoundError(op, sessionID)
	}
	if !s.OwnedBy(userID) {
		return shopping.Session{}, shopping.ForbiddenError(op)
	}
	return *s, nil
}

func (a *shoppingSessionAggregate) commit(dbc dbctx.Context, op string, next shopping.Session, events []shopping.Event, out *shopping.SessionResult) error {
	updated, ok, err := a.deps.Sessions.Update(dbc, next)
	if err != nil {
		return err
	}
	if !ok {
		return RetryableError("shopping session changed concurrently")
	}
	*out = shopping.SessionResult{Session: updated, Events: events}
	return nil
}

func (a *shoppingSessionAggregate) requireRepos(op string, needIngredients bool) error {
	if a.deps.Sessions == nil || (needIngredients && a.deps.Ingredients == nil) {
		return domainagg.NewError(domainagg.CodeInternal, op, "shopping session aggregate repos not configured", nil)
	}
	return nil
}
