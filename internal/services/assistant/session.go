package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/medx-platform/medx-api/internal/models"
)

// SessionState — состояние прохождения квиза.
type SessionState int

// Состояния сессии: NotStarted -> Generating -> Ready -> Answering -> Scored.
// Из Scored запрос нового квиза возвращает сессию в Generating
// со сброшенными ответами.
const (
	StateNotStarted SessionState = iota
	StateGenerating
	StateReady
	StateAnswering
	StateScored
)

func (s SessionState) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateGenerating:
		return "generating"
	case StateReady:
		return "ready"
	case StateAnswering:
		return "answering"
	case StateScored:
		return "scored"
	default:
		return "unknown"
	}
}

// Ошибки переходов состояния сессии.
var (
	ErrNoActiveQuiz   = errors.New("no active quiz")
	ErrQuizScored     = errors.New("quiz already scored, selections are frozen")
	ErrUnanswered     = errors.New("not every question has a selected option")
	ErrUnknownOption  = errors.New("selected option is not among question options")
	ErrBadQuestionIdx = errors.New("question index out of range")
)

// Session хранит клиентское состояние прохождения одного квиза.
// Конкурирующие генерации разрешаются по токену поколения: устаревший
// результат, пришедший после запуска новой генерации, отбрасывается.
type Session struct {
	mu         sync.Mutex
	state      SessionState
	generation int
	questions  []models.QuizQuestion
	selections map[int]string
}

// NewSession создает сессию в состоянии NotStarted.
func NewSession() *Session {
	return &Session{
		state:      StateNotStarted,
		selections: map[int]string{},
	}
}

// State возвращает текущее состояние сессии.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Questions возвращает вопросы текущего квиза.
func (s *Session) Questions() []models.QuizQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questions
}

// Begin переводит сессию в Generating, сбрасывает прежние ответы
// и возвращает токен поколения для Deliver.
func (s *Session) Begin() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.state = StateGenerating
	s.questions = nil
	s.selections = map[int]string{}
	return s.generation
}

// Deliver доставляет сгенерированный квиз. Результат устаревшего поколения
// (начата более новая генерация) игнорируется и возвращает false.
func (s *Session) Deliver(generation int, questions []models.QuizQuestion) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation || s.state != StateGenerating {
		return false
	}
	s.questions = questions
	s.state = StateReady
	return true
}

// Fail фиксирует неудачную генерацию и возвращает сессию в NotStarted.
// Устаревший сбой игнорируется.
func (s *Session) Fail(generation int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation || s.state != StateGenerating {
		return false
	}
	s.state = StateNotStarted
	return true
}

// Select выбирает вариант ответа на вопрос. Повторный выбор по тому же
// вопросу перезаписывает предыдущий, пока квиз не оценён.
func (s *Session) Select(questionIdx int, option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateReady, StateAnswering:
	case StateScored:
		return ErrQuizScored
	default:
		return ErrNoActiveQuiz
	}

	if questionIdx < 0 || questionIdx >= len(s.questions) {
		return ErrBadQuestionIdx
	}
	valid := false
	for _, opt := range s.questions[questionIdx].Options {
		if opt == option {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: %q", ErrUnknownOption, option)
	}

	s.selections[questionIdx] = option
	s.state = StateAnswering
	return nil
}

// Score оценивает квиз. Переход в Scored возможен только когда на каждый
// вопрос выбран вариант; результат — число совпадений с правильным ответом.
func (s *Session) Score() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateReady, StateAnswering:
	case StateScored:
		return 0, ErrQuizScored
	default:
		return 0, ErrNoActiveQuiz
	}

	if len(s.selections) != len(s.questions) {
		return 0, ErrUnanswered
	}

	score := 0
	for i, q := range s.questions {
		if s.selections[i] == q.CorrectAnswer {
			score++
		}
	}
	s.state = StateScored
	return score, nil
}
