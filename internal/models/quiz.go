package models

// QuizQuestion — один вопрос сгенерированного квиза.
// Инвариант: ровно 4 варианта ответа, CorrectAnswer совпадает с одним из них.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// DummyQuizRequest используется для приёма текста материала из JSON-запроса.
type DummyQuizRequest struct {
	SourceText string `json:"source_text" validate:"required"`
}

// DummyHelpRequest используется для приёма вопроса к помощнику из JSON-запроса.
type DummyHelpRequest struct {
	Question string `json:"question"`
}
