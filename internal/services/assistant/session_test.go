package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medx-platform/medx-api/internal/models"
	assistant "github.com/medx-platform/medx-api/internal/services/assistant"
)

func sampleQuestions() []models.QuizQuestion {
	return []models.QuizQuestion{
		{Question: "Q1?", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "a"},
		{Question: "Q2?", Options: []string{"e", "f", "g", "h"}, CorrectAnswer: "f"},
	}
}

func TestSession_HappyPath(t *testing.T) {
	s := assistant.NewSession()
	assert.Equal(t, assistant.StateNotStarted, s.State())

	gen := s.Begin()
	assert.Equal(t, assistant.StateGenerating, s.State())

	require.True(t, s.Deliver(gen, sampleQuestions()))
	assert.Equal(t, assistant.StateReady, s.State())

	require.NoError(t, s.Select(0, "a"))
	assert.Equal(t, assistant.StateAnswering, s.State())
	require.NoError(t, s.Select(1, "e"))

	score, err := s.Score()
	require.NoError(t, err)
	assert.Equal(t, 1, score)
	assert.Equal(t, assistant.StateScored, s.State())
}

func TestSession_ReselectOverwrites(t *testing.T) {
	s := assistant.NewSession()
	gen := s.Begin()
	require.True(t, s.Deliver(gen, sampleQuestions()))

	require.NoError(t, s.Select(0, "b"))
	require.NoError(t, s.Select(0, "a"))
	require.NoError(t, s.Select(1, "f"))

	score, err := s.Score()
	require.NoError(t, err)
	assert.Equal(t, 2, score)
}

func TestSession_ScoreRequiresAllAnswered(t *testing.T) {
	s := assistant.NewSession()
	gen := s.Begin()
	require.True(t, s.Deliver(gen, sampleQuestions()))

	require.NoError(t, s.Select(0, "a"))

	_, err := s.Score()
	require.ErrorIs(t, err, assistant.ErrUnanswered)
	assert.Equal(t, assistant.StateAnswering, s.State())
}

func TestSession_ScoredFreezesSelections(t *testing.T) {
	s := assistant.NewSession()
	gen := s.Begin()
	require.True(t, s.Deliver(gen, sampleQuestions()))
	require.NoError(t, s.Select(0, "a"))
	require.NoError(t, s.Select(1, "f"))

	_, err := s.Score()
	require.NoError(t, err)

	err = s.Select(0, "b")
	require.ErrorIs(t, err, assistant.ErrQuizScored)

	_, err = s.Score()
	require.ErrorIs(t, err, assistant.ErrQuizScored)
}

func TestSession_StaleDeliveryDropped(t *testing.T) {
	s := assistant.NewSession()

	stale := s.Begin()
	fresh := s.Begin()

	assert.False(t, s.Deliver(stale, sampleQuestions()))
	assert.Equal(t, assistant.StateGenerating, s.State())

	assert.True(t, s.Deliver(fresh, sampleQuestions()))
	assert.Equal(t, assistant.StateReady, s.State())
}

func TestSession_StaleFailureDropped(t *testing.T) {
	s := assistant.NewSession()

	stale := s.Begin()
	fresh := s.Begin()
	require.True(t, s.Deliver(fresh, sampleQuestions()))

	assert.False(t, s.Fail(stale))
	assert.Equal(t, assistant.StateReady, s.State())
}

func TestSession_FailReturnsToNotStarted(t *testing.T) {
	s := assistant.NewSession()
	gen := s.Begin()

	assert.True(t, s.Fail(gen))
	assert.Equal(t, assistant.StateNotStarted, s.State())

	err := s.Select(0, "a")
	require.ErrorIs(t, err, assistant.ErrNoActiveQuiz)
}

func TestSession_RestartResetsSelections(t *testing.T) {
	s := assistant.NewSession()
	gen := s.Begin()
	require.True(t, s.Deliver(gen, sampleQuestions()))
	require.NoError(t, s.Select(0, "a"))
	require.NoError(t, s.Select(1, "f"))
	_, err := s.Score()
	require.NoError(t, err)

	gen = s.Begin()
	require.True(t, s.Deliver(gen, sampleQuestions()))

	_, err = s.Score()
	require.ErrorIs(t, err, assistant.ErrUnanswered)
}

func TestSession_SelectValidation(t *testing.T) {
	s := assistant.NewSession()
	gen := s.Begin()
	require.True(t, s.Deliver(gen, sampleQuestions()))

	require.ErrorIs(t, s.Select(-1, "a"), assistant.ErrBadQuestionIdx)
	require.ErrorIs(t, s.Select(2, "a"), assistant.ErrBadQuestionIdx)
	require.ErrorIs(t, s.Select(0, "nope"), assistant.ErrUnknownOption)
}
