package service

import (
	"context"
	stderrors "errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"Buzz_Board/internal/apperr"
	"Buzz_Board/internal/model"
	"Buzz_Board/internal/repository/mysql"
)

const (
	MsgBuzzExists        = "Buzz already exists"
	MsgAlreadySubscribed = "You've already subscribed to this buzz"
	MsgNotSubscribed     = "You've not been subscribed to this buzz, yet."
	MsgBuzzNotFound      = "Buzz not found"

	msgCreateBuzz  = "Could not create buzz"
	msgSubscribe   = "Could not subscribe to buzz at this time. Please try later"
	msgUnsubscribe = "Could not unsubscribe from buzz at this time. Please try later"
)

type BuzzService struct {
	buzzes *mysql.BuzzRepository
	subs   *mysql.SubscriptionRepository
}

func NewBuzzService(db *gorm.DB) *BuzzService {
	return &BuzzService{
		buzzes: &mysql.BuzzRepository{DB: db},
		subs:   &mysql.SubscriptionRepository{DB: db},
	}
}

// Create 预检查只是提前返回，并发下由唯一索引保证名称不重复
func (s *BuzzService) Create(ctx context.Context, userID uint64, name string) (*model.Buzz, error) {
	exists, err := s.buzzes.ExistsByName(ctx, name)
	if err != nil {
		return nil, apperr.Internal(errors.Wrap(err, "check buzz name"), msgCreateBuzz)
	}
	if exists {
		return nil, apperr.Conflict(MsgBuzzExists)
	}

	b := &model.Buzz{Name: name, CreatorID: userID}
	if err = s.buzzes.Create(ctx, b); err != nil {
		if mysql.IsDuplicate(err) {
			return nil, apperr.Conflict(MsgBuzzExists)
		}
		return nil, apperr.Internal(errors.Wrap(err, "create buzz"), msgCreateBuzz)
	}
	return b, nil
}

func (s *BuzzService) Subscribe(ctx context.Context, userID, buzzID uint64) error {
	if _, err := s.buzzes.FindByID(ctx, buzzID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound(MsgBuzzNotFound)
		}
		return apperr.Internal(errors.Wrap(err, "find buzz"), msgSubscribe)
	}

	exists, err := s.subs.Exists(ctx, userID, buzzID)
	if err != nil {
		return apperr.Internal(errors.Wrap(err, "check subscription"), msgSubscribe)
	}
	if exists {
		return apperr.Conflict(MsgAlreadySubscribed)
	}

	if err = s.subs.Subscribe(ctx, userID, buzzID); err != nil {
		if mysql.IsDuplicate(err) {
			return apperr.Conflict(MsgAlreadySubscribed)
		}
		return apperr.Internal(errors.Wrap(err, "subscribe"), msgSubscribe)
	}
	return nil
}

func (s *BuzzService) Unsubscribe(ctx context.Context, userID, buzzID uint64) error {
	removed, err := s.subs.Unsubscribe(ctx, userID, buzzID)
	if err != nil {
		return apperr.Internal(errors.Wrap(err, "unsubscribe"), msgUnsubscribe)
	}
	if !removed {
		return apperr.Conflict(MsgNotSubscribed)
	}
	return nil
}
