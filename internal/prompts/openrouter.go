// internal/prompts/openrouter.go
package prompts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const model = "deepseek/deepseek-r1:free"

// Canned prompts used when the model returns nothing usable.
var fallbackPrompts = map[string]string{
	"reflective questions about your day":      "What moments from today made you feel most connected to your authentic self?",
	"questions about your emotional well-being": "How have your emotions been guiding your decisions lately, and what might they be trying to tell you?",
	"meaningful self-reflection prompts":        "What parts of yourself are you still learning to accept and appreciate?",
	"gratitude-focused questions":               "What unexpected blessing has appeared in your life recently that you haven't fully acknowledged?",
	"mindfulness and present moment awareness":  "What sensations, sounds, or sights are you aware of right now that you might normally overlook?",
	"personal growth and goals":                 "What small step could you take today that aligns with your deeper values and aspirations?",
}

const defaultFallbackPrompt = "What insights about yourself have you gained today that might help you grow tomorrow?"

// Client proxies prompt generation to OpenRouter.
type Client struct {
	apiKey     string
	url        string
	httpClient *http.Client
}

func NewClient(apiKey, url string) *Client {
	return &Client{
		apiKey: apiKey,
		url:    url,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			Reasoning string `json:"reasoning"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate asks the model for a single reflective question about promptType.
// Reasoning models sometimes return an empty content field; in that case a
// question line is pulled out of the reasoning text, and failing that a
// canned prompt for the type is returned.
func (c *Client) Generate(ctx context.Context, promptType string) (string, error) {
	log.Printf("🤖 [PROMPTS] Generating prompt for type: %s", promptType)

	payload := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{
				Role: "system",
				Content: fmt.Sprintf("You are a helpful assistant that generates thoughtful, meaningful, and heartfelt questions about %s. "+
					"Create a single question that encourages self-reflection and mindfulness without further explanation.", promptType),
			},
			{
				Role:    "user",
				Content: fmt.Sprintf("Generate a heartfelt question about %s that encourages self-reflection.", promptType),
			},
		},
		MaxTokens:   300,
		Temperature: 0.7,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", "https://mycorner.app")
	req.Header.Set("X-Title", "MyCorner App")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request to openrouter failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		log.Printf("❌ [PROMPTS] OpenRouter error: %d, %s", resp.StatusCode, string(respBody))
		return "", fmt.Errorf("openrouter returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode openrouter response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("openrouter returned no choices")
	}

	message := chatResp.Choices[0].Message
	prompt := strings.TrimSpace(message.Content)

	if prompt == "" && message.Reasoning != "" {
		prompt = extractQuestion(message.Reasoning)
		if prompt != "" {
			log.Printf("🤖 [PROMPTS] Extracted question from reasoning: %s", prompt)
		}
	}

	if prompt == "" {
		prompt = fallbackPrompts[promptType]
		if prompt == "" {
			prompt = defaultFallbackPrompt
		}
		log.Printf("🤖 [PROMPTS] Using fallback prompt: %s", prompt)
	}

	return prompt, nil
}

// extractQuestion scans reasoning text for a plausible question line.
func extractQuestion(reasoning string) string {
	for _, line := range strings.Split(reasoning, "\n") {
		line = strings.TrimSpace(line)
		if strings.Contains(line, "?") && len(line) > 10 && len(line) < 200 {
			return line
		}
	}
	return ""
}
