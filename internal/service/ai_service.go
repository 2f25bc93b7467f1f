package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Mahaswami/exam-prep-sub000/internal/config"
	"github.com/Mahaswami/exam-prep-sub000/internal/model"
)

// AIService talks to an OpenAI-compatible chat completions endpoint.
type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []AIChatMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GeneratedQuestion is a new question proposed by the model.
type GeneratedQuestion struct {
	Content     string   `json:"content"`
	Options     []string `json:"options,omitempty"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// Verification is the model's check of a generated question against its source.
type Verification struct {
	Valid bool   `json:"valid"`
	Note  string `json:"note"`
}

const generatorSystemPrompt = "You write exam practice questions. Reply with a single JSON object and nothing else."

func (s *AIService) Chat(ctx context.Context, system, prompt string, temperature float64) (string, error) {
	messages := []AIChatMessage{}
	if system != "" {
		messages = append(messages, AIChatMessage{Role: "system", Content: system})
	}
	messages = append(messages, AIChatMessage{Role: "user", Content: prompt})

	jsonData, err := json.Marshal(ChatCompletionRequest{
		Model:       s.config.Model,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(s.config.BaseURL, "/")+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}
	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("AI returned no choices")
}

// GenerateVariant asks for a new question on the same concept, at the same
// difficulty and of the same type as the source.
func (s *AIService) GenerateVariant(ctx context.Context, source model.Question) (*GeneratedQuestion, error) {
	prompt := fmt.Sprintf(
		"Write one new %s question of %s difficulty that tests the same idea as the question below "+
			"but is not a rewording of it.\n"+
			"Return JSON with keys content, options (array, only for MCQ), answer, explanation.\n\n"+
			"Question: %s\nOptions: %s\nAnswer: %s",
		source.Type, source.Difficulty, truncate(source.Content, 2000), string(source.Options), source.Answer,
	)
	reply, err := s.Chat(ctx, generatorSystemPrompt, prompt, 0.7)
	if err != nil {
		return nil, err
	}

	var g GeneratedQuestion
	if err := decodeJSONReply(reply, &g); err != nil {
		return nil, err
	}
	if strings.TrimSpace(g.Content) == "" || strings.TrimSpace(g.Answer) == "" {
		return nil, fmt.Errorf("generated question is missing content or answer")
	}
	if source.Type == model.QuestionTypeMCQ && len(g.Options) < 2 {
		return nil, fmt.Errorf("generated MCQ has %d options", len(g.Options))
	}
	return &g, nil
}

// Verify asks the model to solve the generated question independently and
// compare with the proposed answer.
func (s *AIService) Verify(ctx context.Context, source model.Question, g *GeneratedQuestion) (*Verification, error) {
	options, _ := json.Marshal(g.Options)
	prompt := fmt.Sprintf(
		"Solve the question below, then decide whether the proposed answer is correct and the question "+
			"is unambiguous and at %s difficulty.\n"+
			"Return JSON with keys valid (boolean) and note (string).\n\n"+
			"Question: %s\nOptions: %s\nProposed answer: %s",
		source.Difficulty, g.Content, string(options), g.Answer,
	)
	reply, err := s.Chat(ctx, generatorSystemPrompt, prompt, 0)
	if err != nil {
		return nil, err
	}

	var v Verification
	if err := decodeJSONReply(reply, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// decodeJSONReply tolerates replies wrapped in a markdown code fence or with
// text around the object.
func decodeJSONReply(reply string, v interface{}) error {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return fmt.Errorf("AI reply contains no JSON object")
	}
	return json.Unmarshal([]byte(reply[start:end+1]), v)
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
