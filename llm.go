package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"
const defaultOpenAIModel = "gpt-4o-mini"
const defaultOpenAIBaseURL = "https://api.openai.com/v1/chat/completions"

// TextCompleter is the "send prompt, get text" contract this core needs
// from a text-generation service.
type TextCompleter interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// LLMClient talks to Anthropic or OpenAI depending on configuration. Every
// call carries an explicit deadline; a timed-out call is retried once.
type LLMClient struct {
	provider     string
	model        string
	anthropicKey string
	openaiKey    string
	maxTokens    int
	timeout      time.Duration
	httpClient   *http.Client
	// openaiBaseURL is replaceable in tests; empty means the real endpoint.
	openaiBaseURL string
}

func NewLLMClient(cfg Config, client *http.Client) *LLMClient {
	if client == nil {
		client = newExternalHTTPClient(cfg.ExternalHTTPTimeoutSeconds)
	}
	timeout := time.Duration(cfg.ExternalHTTPTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultExternalHTTPTimeout
	}
	return &LLMClient{
		provider:     cfg.LLMProvider,
		model:        cfg.LLMModel,
		anthropicKey: cfg.AnthropicAPIKey,
		openaiKey:    cfg.OpenAIAPIKey,
		maxTokens:    cfg.LLMMaxTokens,
		timeout:      timeout,
		httpClient:   client,
	}
}

func (c *LLMClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	text, err := c.completeOnce(ctx, systemPrompt, userPrompt)
	if err != nil && isTimeout(err) {
		log.Printf("llm call timeout provider=%s, retrying once", c.provider)
		text, err = c.completeOnce(ctx, systemPrompt, userPrompt)
	}
	return text, err
}

func (c *LLMClient) completeOnce(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	switch c.provider {
	case "openai":
		model := c.model
		if model == "" {
			model = defaultOpenAIModel
		}
		return c.callOpenAI(callCtx, model, systemPrompt, userPrompt)
	default:
		model := c.model
		if model == "" {
			model = defaultAnthropicModel
		}
		return c.callAnthropic(callCtx, model, systemPrompt, userPrompt)
	}
}

// --- Anthropic ---

func (c *LLMClient) callAnthropic(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	client := anthropic.NewClient(option.WithAPIKey(c.anthropicKey))

	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(c.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		log.Printf("llm anthropic error: %v", err)
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			log.Printf("llm anthropic response model=%s size=%d tokens_in=%d tokens_out=%d",
				model, len(block.Text), message.Usage.InputTokens, message.Usage.OutputTokens)
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in Anthropic response")
}

// --- OpenAI ---

type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *LLMClient) callOpenAI(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	reqBody := openAIRequest{
		Model: model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	baseURL := c.openaiBaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.openaiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("llm openai error: %v", err)
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var openAIResp openAIResponse
	if err := json.Unmarshal(respBody, &openAIResp); err != nil {
		return "", fmt.Errorf("parsing OpenAI response: %w", err)
	}
	if openAIResp.Error != nil {
		log.Printf("llm openai api error: %s", openAIResp.Error.Message)
		return "", fmt.Errorf("OpenAI API error: %s", openAIResp.Error.Message)
	}
	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}

	log.Printf("llm openai response model=%s size=%d", model, len(openAIResp.Choices[0].Message.Content))
	return openAIResp.Choices[0].Message.Content, nil
}

// --- Classification ---

// Classifier runs the two-stage classification protocol: first pin the
// ticket to one category from the assignment-rule catalog, then ask for the
// full structured result with the sub-requirement catalog narrowed to that
// category's rows.
type Classifier struct {
	llm TextCompleter
}

func NewClassifier(llm TextCompleter) *Classifier {
	return &Classifier{llm: llm}
}

func (cl *Classifier) Classify(ctx context.Context, description string, rules []Record) (Classification, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Classification{}, appErr(KindEmptyInput, "descripción vacía")
	}

	categories := distinctSorted(rules, colCategory)
	category, err := cl.pickCategory(ctx, description, categories)
	if err != nil {
		return Classification{}, wrapErr(KindRemoteService, "classifying category", err)
	}

	subRequirements := distinctSorted(filterByCategory(rules, category), colSubRequirement)

	responseText, err := cl.llm.Complete(ctx, classificationSystemPrompt(category, subRequirements), classificationUserPrompt(description))
	if err != nil {
		return Classification{}, wrapErr(KindRemoteService, "classifying ticket", err)
	}

	result := ParseClassification(responseText)
	if result.Partial() {
		log.Printf("llm classification parse failed, returning raw text size=%d", len(result.RawText))
	} else if result.TipoRequerimiento == "" {
		result.TipoRequerimiento = category
	}
	return result, nil
}

func (cl *Classifier) pickCategory(ctx context.Context, description string, categories []string) (string, error) {
	var catalogLines strings.Builder
	for _, c := range categories {
		catalogLines.WriteString("- " + c + "\n")
	}

	systemPrompt := fmt.Sprintf(`Eres un analista de mesa de ayuda.
Elige la categoría que mejor describe el ticket, únicamente de esta lista:
%s
Responde SOLO con el nombre exacto de la categoría, sin explicación y sin comillas.`, catalogLines.String())

	text, err := cl.llm.Complete(ctx, systemPrompt, "Texto del ticket: "+description)
	if err != nil {
		return "", err
	}
	return strings.Trim(strings.TrimSpace(text), `"`), nil
}

func classificationSystemPrompt(category string, subRequirements []string) string {
	var subLines strings.Builder
	for _, s := range subRequirements {
		subLines.WriteString("- " + s + "\n")
	}
	subBlock := subLines.String()
	if subBlock == "" {
		subBlock = "(sin catálogo; elige un sub-requerimiento breve)\n"
	}

	return fmt.Sprintf(`Eres un analista de soporte técnico en una plataforma de cursos y evaluaciones.
La categoría del ticket ya fue determinada: %s

Analiza el texto y responde únicamente en formato JSON (sin markdown) con:
- tipo_requerimiento (la categoría indicada arriba)
- sub_requerimiento (elige de la lista siguiente)
%s- prioridad (Alta, Media, Baja)
- area_asignada (TI, Pedagógico, Plataforma)
- resumen_corto (máx. 20 palabras)`, category, subBlock)
}

func classificationUserPrompt(description string) string {
	return fmt.Sprintf("Texto del ticket: %q", description)
}

// ParseClassification leniently decodes a model response: code fences are
// stripped and a failed JSON decode degrades to a raw-text payload instead
// of an error.
func ParseClassification(responseText string) Classification {
	cleaned := strings.TrimSpace(responseText)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var result Classification
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return Classification{RawText: strings.TrimSpace(responseText)}
	}
	result.RawText = ""
	return result
}

func distinctSorted(rules []Record, field string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rules {
		v := strings.TrimSpace(r[field])
		if v == "" || seen[foldKey(v)] {
			continue
		}
		seen[foldKey(v)] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func filterByCategory(rules []Record, category string) []Record {
	var out []Record
	for _, r := range rules {
		if strings.EqualFold(strings.TrimSpace(r[colCategory]), strings.TrimSpace(category)) {
			out = append(out, r)
		}
	}
	return out
}
