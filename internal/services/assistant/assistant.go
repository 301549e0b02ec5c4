// Package services содержит шлюз к языковой модели: помощника по платформе
// и генератор квизов по тексту учебного материала.
//
// Ограничение тем помощника задаётся системным промптом из конфигурации —
// это данные, а не логика сервиса. Сырые ошибки коллаборатора наружу
// не пробрасываются: помощник отвечает фиксированной фразой.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/medx-platform/medx-api/internal/config"
	"github.com/medx-platform/medx-api/internal/lib/sl"
	"github.com/medx-platform/medx-api/internal/models"
)

// ErrEmptyInput возвращается, когда текст для генерации квиза пуст.
var ErrEmptyInput = errors.New("source text is empty")

// ErrGeneration возвращается, когда ответ модели не прошёл проверку схемы
// квиза: неверное число вопросов или вариантов, правильный ответ вне
// вариантов. Испорченный квиз наружу не отдаётся.
var ErrGeneration = errors.New("generated quiz failed validation")

// Границы размера квиза и числа вариантов ответа.
const (
	MinQuestions = 5
	MaxQuestions = 10
	OptionsCount = 4
)

// ClarificationMessage — ответ помощника на пустой вопрос. Модель при этом не вызывается.
const ClarificationMessage = "Please type a question so I can help you — for example, ask about premium subscriptions or where to find 100lvl materials."

// FallbackMessage — ответ помощника при сбое коллаборатора.
const FallbackMessage = "Sorry, I'm having trouble answering right now. Please try again in a moment."

// ChatCompleter описывает используемую часть клиента языковой модели.
// *openai.Client реализует этот интерфейс.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// AssistantService реализует обе операции шлюза. Сервис без состояния:
// каждый вызов независим.
type AssistantService struct {
	llm ChatCompleter
	cfg config.LLMClient
	log *slog.Logger
}

// NewAssistantService создает новый экземпляр AssistantService.
func NewAssistantService(llm ChatCompleter, cfg config.LLMClient, log *slog.Logger) *AssistantService {
	return &AssistantService{
		llm: llm,
		cfg: cfg,
		log: log,
	}
}

// NewOpenAIClient создает клиент языковой модели по ключу из конфигурации.
func NewOpenAIClient(cfg config.LLMClient) *openai.Client {
	return openai.NewClient(cfg.APIKey)
}

// AskHelp отвечает на вопрос пользователя о платформе или учёбе.
// Пустой вопрос получает фиксированное уточнение без обращения к модели;
// сбой модели — фиксированное извинение, ошибка наружу не уходит.
func (s *AssistantService) AskHelp(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return ClarificationMessage, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	resp, err := s.llm.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: s.cfg.HelpSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: question,
			},
		},
	})
	if err != nil {
		s.log.Error("help bot completion failed", sl.Err(err))
		return FallbackMessage, nil
	}
	if len(resp.Choices) == 0 {
		s.log.Error("help bot completion returned no choices")
		return FallbackMessage, nil
	}

	return resp.Choices[0].Message.Content, nil
}

type quizPayload struct {
	Quiz []models.QuizQuestion `json:"quiz"`
}

// GenerateQuiz генерирует квиз по тексту материала. Ответ модели
// запрашивается в JSON-режиме и проверяется на соответствие схеме;
// нарушение любой границы приводит к ErrGeneration.
func (s *AssistantService) GenerateQuiz(ctx context.Context, sourceText string) ([]models.QuizQuestion, error) {
	const op = "assistant.GenerateQuiz"

	if strings.TrimSpace(sourceText) == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyInput)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	resp, err := s.llm.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.Model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: s.cfg.QuizSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: sourceText,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s: completion returned no choices: %w", op, ErrGeneration)
	}

	var payload quizPayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		s.log.Error("quiz output is not valid JSON", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, ErrGeneration)
	}

	if err := validateQuiz(payload.Quiz); err != nil {
		s.log.Error("quiz output failed schema validation", sl.Err(err))
		return nil, fmt.Errorf("%s: %v: %w", op, err, ErrGeneration)
	}

	return payload.Quiz, nil
}

func validateQuiz(questions []models.QuizQuestion) error {
	if len(questions) < MinQuestions || len(questions) > MaxQuestions {
		return fmt.Errorf("expected %d-%d questions, got %d", MinQuestions, MaxQuestions, len(questions))
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("question %d is empty", i)
		}
		if len(q.Options) != OptionsCount {
			return fmt.Errorf("question %d has %d options, expected %d", i, len(q.Options), OptionsCount)
		}
		seen := make(map[string]struct{}, OptionsCount)
		correctFound := false
		for _, opt := range q.Options {
			if _, dup := seen[opt]; dup {
				return fmt.Errorf("question %d has duplicate option %q", i, opt)
			}
			seen[opt] = struct{}{}
			if opt == q.CorrectAnswer {
				correctFound = true
			}
		}
		if !correctFound {
			return fmt.Errorf("question %d correct answer is not among options", i)
		}
	}
	return nil
}
