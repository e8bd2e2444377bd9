package service

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/directed/course-backend/internal/model"
	"github.com/directed/course-backend/internal/repository"
)

// memAccounts is an in-memory AccountRegistry that stores copies, so a test
// only sees what the service explicitly saved.
type memAccounts struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
	saves int
	// afterGet runs after a lookup returns, standing in for a concurrent writer.
	afterGet func()
}

func newMemAccounts(users ...model.User) *memAccounts {
	m := &memAccounts{users: make(map[uuid.UUID]model.User)}
	for _, u := range users {
		m.users[u.ID] = cloneUser(u)
	}
	return m
}

func cloneUser(u model.User) model.User {
	if u.ResetChallenge != nil {
		c := *u.ResetChallenge
		u.ResetChallenge = &c
	}
	return u
}

func (m *memAccounts) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found *model.User
	for _, u := range m.users {
		if u.Email == email {
			c := cloneUser(u)
			found = &c
			break
		}
	}
	m.mu.Unlock()
	if found != nil && m.afterGet != nil {
		m.afterGet()
	}
	m.mu.Lock()
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (m *memAccounts) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := cloneUser(u)
	return &c, nil
}

func (m *memAccounts) Save(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	m.users[u.ID] = cloneUser(*u)
	m.saves++
	return nil
}

func (m *memAccounts) SetChallenge(_ context.Context, id uuid.UUID, c *model.OtpChallenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ResetChallenge = nil
	if c != nil {
		cc := *c
		u.ResetChallenge = &cc
	}
	m.users[id] = u
	m.saves++
	return nil
}

func (m *memAccounts) CompletePasswordReset(_ context.Context, id uuid.UUID, code, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.ResetChallenge == nil || u.ResetChallenge.Code != code {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetChallenge = nil
	m.users[id] = u
	m.saves++
	return nil
}

// setPassword mutates the stored row directly, as another request would.
func (m *memAccounts) setPassword(id uuid.UUID, hash string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[id]
	u.PasswordHash = hash
	m.users[id] = u
}

func (m *memAccounts) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = uuid.New()
	m.users[u.ID] = cloneUser(*u)
	return nil
}

func (m *memAccounts) stored(id uuid.UUID) model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneUser(m.users[id])
}

// plainHasher keeps tests fast; bcrypt is covered in auth_service_test.go.
type plainHasher struct{}

func (plainHasher) HashPassword(p string) (string, error) { return "hashed:" + p, nil }

func (plainHasher) CheckPassword(hash, p string) error {
	if !strings.HasPrefix(hash, "hashed:") || hash[len("hashed:"):] != p {
		return ErrInvalidCredentials
	}
	return nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	codes []string
	err   error
}

func (n *recordingNotifier) SendOTP(_ context.Context, _ string, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.codes = append(n.codes, code)
	return n.err
}

func (n *recordingNotifier) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.codes) == 0 {
		return ""
	}
	return n.codes[len(n.codes)-1]
}

type memQuizzes struct {
	quizzes map[uuid.UUID]*model.Quiz
	created []*model.Quiz
	err     error
}

func (m *memQuizzes) GetByID(_ context.Context, id uuid.UUID) (*model.Quiz, error) {
	if m.err != nil {
		return nil, m.err
	}
	q, ok := m.quizzes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return q, nil
}

func (m *memQuizzes) GetByLesson(_ context.Context, lessonID string) (*model.Quiz, error) {
	for _, q := range m.quizzes {
		if q.LessonID == lessonID {
			return q, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memQuizzes) Create(_ context.Context, q *model.Quiz) error {
	q.ID = uuid.New()
	for i := range q.Questions {
		q.Questions[i].ID = uuid.New()
	}
	if m.quizzes == nil {
		m.quizzes = make(map[uuid.UUID]*model.Quiz)
	}
	m.quizzes[q.ID] = q
	m.created = append(m.created, q)
	return nil
}

type memAttempts struct {
	attempts []model.QuizAttempt
	err      error
}

func (m *memAttempts) Create(_ context.Context, a *model.QuizAttempt) error {
	if m.err != nil {
		return m.err
	}
	a.ID = uuid.New()
	m.attempts = append(m.attempts, *a)
	return nil
}

func (m *memAttempts) ListByQuiz(_ context.Context, quizID uuid.UUID) ([]model.QuizAttempt, error) {
	var out []model.QuizAttempt
	for _, a := range m.attempts {
		if a.QuizID == quizID {
			out = append(out, a)
		}
	}
	return out, nil
}

type recordingEnqueuer struct {
	queued []model.Notification
	err    error
}

func (r *recordingEnqueuer) Enqueue(_ context.Context, n model.Notification) error {
	r.queued = append(r.queued, n)
	return r.err
}
