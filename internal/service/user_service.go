package service

import (
	"context"
	stderrors "errors"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"Buzz_Board/internal/apperr"
	"Buzz_Board/internal/model"
	"Buzz_Board/internal/pkg"
	"Buzz_Board/internal/repository/mysql"
	"Buzz_Board/internal/repository/redis"
	"Buzz_Board/internal/validate"
)

const (
	MsgUserExists        = "User exists already!"
	MsgInvalidCredential = "invalid username or password"
	MsgInvalidRefresh    = "invalid refresh token"

	msgSignup = "Could not create user"
	msgLogin  = "Could not log in at this time. Please try later"
)

type UserService struct {
	repo     *mysql.UserRepository
	sessions *redis.SessionRepository
	tokens   *pkg.TokenIssuer
	emailSvc *EmailService
	cost     int
}

func NewUserService(db *gorm.DB, sessions *redis.SessionRepository, tokens *pkg.TokenIssuer, emailSvc *EmailService) *UserService {
	return &UserService{
		repo:     &mysql.UserRepository{DB: db},
		sessions: sessions,
		tokens:   tokens,
		emailSvc: emailSvc,
		cost:     bcrypt.DefaultCost,
	}
}

// Signup 邮箱已存在或用户名冲突都视为用户已存在
func (s *UserService) Signup(ctx context.Context, in validate.SignupInput) (*model.User, error) {
	exists, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperr.Internal(errors.Wrap(err, "check email"), msgSignup)
	}
	if exists {
		return nil, apperr.Conflict(MsgUserExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, apperr.Internal(errors.Wrap(err, "hash password"), msgSignup)
	}

	user := &model.User{
		Username: in.Username,
		Password: string(hash),
		Email:    in.Email,
	}
	if err = s.repo.Create(ctx, user); err != nil {
		if mysql.IsDuplicate(err) {
			return nil, apperr.Conflict(MsgUserExists)
		}
		return nil, apperr.Internal(errors.Wrap(err, "create user"), msgSignup)
	}

	s.emailSvc.SendWelcome(user.Email, user.Username)
	return user, nil
}

// Login 签发令牌并把 access token 写入 redis，旧 token 随之失效
func (s *UserService) Login(ctx context.Context, login, password string) (*pkg.Pair, error) {
	user, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthenticated(MsgInvalidCredential)
		}
		return nil, apperr.Internal(errors.Wrap(err, "find user"), msgLogin)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperr.Unauthenticated(MsgInvalidCredential)
	}

	sess := pkg.Session{UserID: user.ID, Email: user.Email, Username: user.Username}
	return s.issue(ctx, &sess)
}

func (s *UserService) Logout(ctx context.Context, userID uint64) error {
	if err := s.sessions.Delete(ctx, userID); err != nil {
		return apperr.Internal(errors.Wrap(err, "delete session"), "Could not log out")
	}
	return nil
}

// Refresh 只接受当前绑定在 redis 中的 refresh token，登出或重新登录后旧 token 失效
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		if stderrors.Is(err, pkg.ErrRefreshExpired) || stderrors.Is(err, pkg.ErrRefreshInvalid) {
			return nil, apperr.Unauthenticated(MsgInvalidRefresh)
		}
		return nil, apperr.Internal(errors.Wrap(err, "parse refresh token"), msgLogin)
	}

	pinned, err := s.sessions.GetRefresh(ctx, claims.UserID)
	if err != nil {
		if stderrors.Is(err, redis.ErrTokenNotFound) {
			return nil, apperr.Unauthenticated(MsgInvalidRefresh)
		}
		return nil, apperr.Internal(errors.Wrap(err, "get refresh token"), msgLogin)
	}
	if pinned != refreshToken {
		return nil, apperr.Unauthenticated(MsgInvalidRefresh)
	}
	return s.issue(ctx, claims.Session())
}

func (s *UserService) issue(ctx context.Context, sess *pkg.Session) (*pkg.Pair, error) {
	pair, err := s.tokens.GeneratePair(sess)
	if err != nil {
		return nil, apperr.Internal(errors.Wrap(err, "generate token"), msgLogin)
	}
	if err = s.sessions.Save(ctx, sess.UserID, pair.AccessToken); err != nil {
		return nil, apperr.Internal(errors.Wrap(err, "save session"), msgLogin)
	}
	if err = s.sessions.SaveRefresh(ctx, sess.UserID, pair.RefreshToken); err != nil {
		return nil, apperr.Internal(errors.Wrap(err, "save refresh token"), msgLogin)
	}
	return pair, nil
}
