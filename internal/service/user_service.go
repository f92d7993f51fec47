package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

// UserService операции над пользователями и дружбой.
// Дружба симметричная: AddFriend пишет оба ребра, RemoveFriend удаляет оба.
type UserService struct {
	stores   Stores
	validate *validator.Validate
	logger   *slog.Logger
}

func NewUserService(stores Stores, v *validator.Validate, logger *slog.Logger) *UserService {
	return &UserService{stores: stores, validate: v, logger: logger}
}

func (s *UserService) FindAll(ctx context.Context) ([]*domain.User, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "UserService/FindAll")
	defer span.End()

	return s.stores.Users.FindAll(ctx)
}

func (s *UserService) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "UserService/FindByID", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()

	if err := checkID("id", id); err != nil {
		return nil, err
	}
	user, err := s.stores.Users.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.EntityUser, id)
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, req domain.NewUserRequest) (*domain.User, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "UserService/Create")
	defer span.End()

	if err := domain.ValidateStruct(ctx, s.validate, req); err != nil {
		s.logger.WarnContext(ctx, "User creation request is invalid", slog.String("error", err.Error()))
		return nil, err
	}
	user, err := s.stores.Users.Create(ctx, req.ToUser())
	if err != nil {
		return nil, duplicateEmail(err, req.Email)
	}
	s.logger.InfoContext(ctx, "User created", slog.Int64("userID", user.ID), slog.String("login", user.Login))
	return user, nil
}

// Update накладывает патч; пустое имя снова заменяется логином.
func (s *UserService) Update(ctx context.Context, req domain.UpdateUserRequest) (*domain.User, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "UserService/Update", trace.WithAttributes(attribute.Int64("user.id", req.ID)))
	defer span.End()

	if err := domain.ValidateStruct(ctx, s.validate, req); err != nil {
		s.logger.WarnContext(ctx, "User update request is invalid", slog.String("error", err.Error()))
		return nil, err
	}

	var updated *domain.User
	err := s.stores.Tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.stores.Users.FindByID(ctx, req.ID)
		if err != nil {
			return notFound(err, domain.EntityUser, req.ID)
		}
		req.Apply(user)
		updated, err = s.stores.Users.Update(ctx, user)
		if err != nil {
			return duplicateEmail(notFound(err, domain.EntityUser, req.ID), user.Email)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "User updated", slog.Int64("userID", updated.ID))
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "UserService/Delete", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()

	if err := checkID("id", id); err != nil {
		return err
	}
	if err := s.stores.Users.Delete(ctx, id); err != nil {
		return notFound(err, domain.EntityUser, id)
	}
	s.logger.InfoContext(ctx, "User deleted", slog.Int64("userID", id))
	return nil
}

// AddFriend делает пользователей друзьями в обе стороны. Повторный вызов
// ничего не меняет.
func (s *UserService) AddFriend(ctx context.Context, userID, friendID int64) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "UserService/AddFriend")
	defer span.End()

	return s.changeFriendship(ctx, userID, friendID, s.stores.Friendships.Add)
}

// RemoveFriend удаляет дружбу в обе стороны; отсутствие дружбы не ошибка.
func (s *UserService) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "UserService/RemoveFriend")
	defer span.End()

	return s.changeFriendship(ctx, userID, friendID, s.stores.Friendships.Remove)
}

func (s *UserService) changeFriendship(ctx context.Context, userID, friendID int64, change func(context.Context, int64, int64) (bool, error)) error {
	if err := s.checkPair(userID, friendID); err != nil {
		return err
	}
	return s.stores.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.ensureUsers(ctx, userID, friendID); err != nil {
			return err
		}
		if userID == friendID {
			return domain.NewDuplicateError("user %d cannot be their own friend", userID)
		}
		forward, err := change(ctx, userID, friendID)
		if err != nil {
			return fmt.Errorf("failed to change friendship: %w", err)
		}
		backward, err := change(ctx, friendID, userID)
		if err != nil {
			return fmt.Errorf("failed to change friendship: %w", err)
		}
		if !forward && !backward {
			s.logger.DebugContext(ctx, "Friendship already in requested state", slog.Int64("userID", userID), slog.Int64("friendID", friendID))
			return nil
		}
		s.logger.InfoContext(ctx, "Friendship changed", slog.Int64("userID", userID), slog.Int64("friendID", friendID))
		return nil
	})
}

func (s *UserService) FindFriends(ctx context.Context, userID int64) ([]*domain.User, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "UserService/FindFriends", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()

	if err := checkID("id", userID); err != nil {
		return nil, err
	}
	if err := s.ensureUsers(ctx, userID); err != nil {
		return nil, err
	}
	ids, err := s.stores.Friendships.FriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	return s.resolve(ctx, ids)
}

// FindCommonFriends пересечение множеств друзей двух пользователей.
func (s *UserService) FindCommonFriends(ctx context.Context, userID, otherID int64) ([]*domain.User, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "UserService/FindCommonFriends")
	defer span.End()

	if err := s.checkPair(userID, otherID); err != nil {
		return nil, err
	}
	if err := s.ensureUsers(ctx, userID, otherID); err != nil {
		return nil, err
	}
	ids, err := s.stores.Friendships.CommonFriendIDs(ctx, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list common friends: %w", err)
	}
	return s.resolve(ctx, ids)
}

func (s *UserService) checkPair(userID, otherID int64) error {
	if err := checkID("id", userID); err != nil {
		return err
	}
	return checkID("friendId", otherID)
}

func (s *UserService) ensureUsers(ctx context.Context, ids ...int64) error {
	for _, id := range ids {
		if _, err := s.stores.Users.FindByID(ctx, id); err != nil {
			return notFound(err, domain.EntityUser, id)
		}
	}
	return nil
}

// resolve читает без транзакции: пользователь, удаленный между запросами, пропускается.
func (s *UserService) resolve(ctx context.Context, ids []int64) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.stores.Users.FindByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load user %d: %w", id, err)
		}
		users = append(users, user)
	}
	return users, nil
}

func duplicateEmail(err error, email string) error {
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.NewDuplicateError("user with email %s already exists", email)
	}
	return err
}
