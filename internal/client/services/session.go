package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/study-upc/studyclient/internal/client/models"
	"github.com/study-upc/studyclient/internal/client/mutation"
	"github.com/study-upc/studyclient/internal/client/repositories/metadata"
	"github.com/study-upc/studyclient/internal/dbx"
	"github.com/study-upc/studyclient/internal/logging"
)

var ErrEmptyCredentials = errors.New("username and password are required")

// SessionService handles login state. The access token is kept both in the
// API client and in the local cache so a restarted CLI stays logged in.
type SessionService interface {
	Login(ctx context.Context, username, password string) (models.UserInfo, error)
	// Logout forgets the session locally right away and tells the backend in
	// the background. It never fails.
	Logout(ctx context.Context)
	// Restore loads a saved session. It reports whether one was found.
	Restore(ctx context.Context) (bool, error)
	LoggedIn() bool
	Username() string
	// OnLogout registers state to clear when the session ends.
	OnLogout(r ...Resetter)
}

type sessionService struct {
	api    SessionAPI
	db     *sql.DB
	tasks  *mutation.Tasks
	logger logging.Logger

	mu       sync.Mutex
	username string
	resets   []Resetter
}

func NewSessionService(api SessionAPI, db *sql.DB, tasks *mutation.Tasks, logger logging.Logger) SessionService {
	if logger == nil {
		logger = logging.Nop{}
	}
	if tasks == nil {
		tasks = mutation.NewTasks(logger, 0)
	}
	return &sessionService{api: api, db: db, tasks: tasks, logger: logger}
}

func (s *sessionService) Login(ctx context.Context, username, password string) (models.UserInfo, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.UserInfo{}, ErrEmptyCredentials
	}

	resp, err := s.api.Login(ctx, username, password)
	if err != nil {
		return models.UserInfo{}, fmt.Errorf("login error: %w", err)
	}
	s.api.SetToken(resp.AccessToken)

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, metadata.KeyAccessToken, []byte(resp.AccessToken)); err != nil {
			return err
		}
		return repo.Set(ctx, metadata.KeyUsername, []byte(username))
	})
	if err != nil {
		// the session works for this run even if it could not be cached
		s.logger.Warn(ctx, "failed to save session", "error", err)
	}

	s.mu.Lock()
	s.username = username
	s.mu.Unlock()

	s.logger.Info(ctx, "logged in", "user", username)
	return resp.User, nil
}

func (s *sessionService) Logout(ctx context.Context) {
	token := s.api.Token()
	s.api.SetToken("")

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, metadata.KeyAccessToken); err != nil {
			return err
		}
		return repo.Delete(ctx, metadata.KeyUsername)
	})
	if err != nil {
		s.logger.Warn(ctx, "failed to clear saved session", "error", err)
	}

	s.mu.Lock()
	s.username = ""
	resets := append([]Resetter(nil), s.resets...)
	s.mu.Unlock()

	for _, r := range resets {
		r.Reset()
	}

	if token != "" {
		s.tasks.Go(ctx, "logout", func(ctx context.Context) error {
			return s.api.Logout(ctx, token)
		})
	}
}

func (s *sessionService) Restore(ctx context.Context) (bool, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	token, err := metadata.GetString(ctx, repo, metadata.KeyAccessToken)
	if err != nil {
		return false, err
	}
	if token == "" {
		return false, nil
	}
	username, err := metadata.GetString(ctx, repo, metadata.KeyUsername)
	if err != nil {
		return false, err
	}

	s.api.SetToken(token)
	s.mu.Lock()
	s.username = username
	s.mu.Unlock()
	return true, nil
}

func (s *sessionService) LoggedIn() bool {
	return s.api.Token() != ""
}

func (s *sessionService) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

func (s *sessionService) OnLogout(r ...Resetter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets = append(s.resets, r...)
}
