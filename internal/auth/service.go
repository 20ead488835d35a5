package auth

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/learning-mentor/internal/config"
	"github.com/iliyamo/learning-mentor/internal/logger"
	"github.com/iliyamo/learning-mentor/internal/model"
	"github.com/iliyamo/learning-mentor/internal/repository"
	"github.com/iliyamo/learning-mentor/internal/utils"
)

var (
	// ErrEmailTaken is returned by SignUp when a row with the email exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrPasswordTooLong is returned when bcrypt cannot hash the password.
	ErrPasswordTooLong = errors.New("password longer than 72 bytes")
)

// MaxBcryptPasswordLen is the longest password bcrypt accepts.
const MaxBcryptPasswordLen = 72

// Service checks and creates credentials against the users table.
type Service struct {
	users  *repository.UserRepo
	log    *logger.Logger
	scheme string
	cost   int

	signUpMu sync.Mutex
}

// NewService hashes new passwords with scheme (config.HashSHA256 or
// config.HashBcrypt). cost is only used for bcrypt.
func NewService(users *repository.UserRepo, log *logger.Logger, scheme string, cost int) *Service {
	if scheme == "" {
		scheme = config.HashSHA256
	}
	return &Service{users: users, log: log, scheme: scheme, cost: cost}
}

// Hash is the unsalted SHA-256 hex digest used for stored passwords.
func (s *Service) Hash(password string) string { return utils.SHA256Hex(password) }

// Authenticate returns the user whose email equals email exactly when
// password matches the stored value. The stored value may be legacy
// plain text, a SHA-256 digest or a bcrypt hash. The returned user has
// no password. Any failure, including a load error, yields false.
func (s *Service) Authenticate(email, password string) (model.User, bool) {
	if email == "" || password == "" {
		return model.User{}, false
	}
	users, err := s.users.LoadUsers()
	if err != nil {
		s.log.Warn("authenticate: users unavailable", "email", email, "error", err)
		return model.User{}, false
	}
	for _, u := range users {
		if u.Email != email {
			continue
		}
		if !s.matches(u.Password, password) {
			return model.User{}, false
		}
		u.Password = ""
		return u, true
	}
	return model.User{}, false
}

// matches compares password with a stored credential. A bcrypt row is
// only ever checked with bcrypt; the hash itself is not a password.
func (s *Service) matches(stored, password string) bool {
	if utils.IsBcrypt(stored) {
		return utils.VerifyPassword(stored, password)
	}
	return stored == password || stored == s.Hash(password)
}

// EmailTaken reports whether a user row with email already exists.
func (s *Service) EmailTaken(email string) (bool, error) {
	_, found, err := s.users.FindByEmail(email)
	return found, err
}

// Register hashes u.Password and appends u to the users table. It does
// not check for an existing email; see EmailTaken.
func (s *Service) Register(u model.User) (bool, error) {
	if s.scheme == config.HashBcrypt {
		h, err := utils.HashPassword(u.Password, s.cost)
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return false, ErrPasswordTooLong
		}
		if err != nil {
			s.log.Error("register: bcrypt failed", "email", u.Email, "error", err)
			return false, err
		}
		u.Password = h
	} else {
		u.Password = s.Hash(u.Password)
	}
	return s.users.SaveUser(u)
}

// SignUp registers u unless its email is already taken. Sign-ups made
// through one Service are serialized, so two concurrent requests for the
// same email cannot both pass the check. Other processes writing the
// same users table are not coordinated with.
func (s *Service) SignUp(u model.User) error {
	if s.scheme == config.HashBcrypt && len(u.Password) > MaxBcryptPasswordLen {
		return ErrPasswordTooLong
	}
	s.signUpMu.Lock()
	defer s.signUpMu.Unlock()

	taken, err := s.EmailTaken(u.Email)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}
	if _, err := s.Register(u); err != nil {
		return err
	}
	return nil
}
