package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/validation"
)

type newsService struct {
	apiURL string
	apiKey string
	model  string
	client *http.Client
	now    func() time.Time
}

func NewNewsService(apiURL, apiKey, model string, timeout time.Duration) NewsService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &newsService{
		apiURL: apiURL,
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Citations []string `json:"citations"`
}

const newsSystemPrompt = `Tu es un assistant qui recense l'actualité de l'écosystème startup et numérique en Côte d'Ivoire et en Afrique de l'Ouest.
Réponds uniquement avec un tableau JSON. Chaque élément a les champs "title", "summary", "source", "url", "category" et "publishedAt" (date ISO 8601).
Les résumés font deux phrases au plus, en français.`

func newsPrompt(q domain.NewsQuery) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Donne les %d actualités les plus récentes", q.Limit)
	if q.Category != "" {
		fmt.Fprintf(&b, " de la catégorie « %s »", q.Category)
	}
	b.WriteString(" sur les startups, l'innovation et le numérique en Côte d'Ivoire")
	if q.Query != "" {
		fmt.Fprintf(&b, ", en lien avec : %s", q.Query)
	}
	b.WriteString(".")
	return b.String()
}

func (s *newsService) Search(ctx context.Context, q domain.NewsQuery) (*domain.NewsResult, error) {
	if s.apiKey == "" || s.apiURL == "" {
		return nil, fmt.Errorf("news api: %w", domain.ErrNotConfigured)
	}
	q.Query = strings.TrimSpace(q.Query)
	q.Category = strings.TrimSpace(q.Category)
	if err := validation.Struct(q, nil); err != nil {
		return nil, err
	}
	if q.Limit == 0 {
		q.Limit = domain.DefaultNewsLimit
	}

	payload, err := json.Marshal(chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: newsSystemPrompt},
			{Role: "user", Content: newsPrompt(q)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	logger.ExternalServiceCall("news-llm", "chat", "model", s.model, "limit", q.Limit)
	resp, err := s.client.Do(req)
	if err != nil {
		logger.ExternalServiceResult("news-llm", "chat", err)
		return nil, fmt.Errorf("news api request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read news api response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("news api error: status %d, body: %s", resp.StatusCode, truncate(string(body), 300))
		logger.ExternalServiceResult("news-llm", "chat", err)
		return nil, err
	}
	logger.ExternalServiceResult("news-llm", "chat", nil)

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return nil, fmt.Errorf("decode news api response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("news api returned no choices")
	}

	items, err := parseNewsItems(chat.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	if len(items) > q.Limit {
		items = items[:q.Limit]
	}
	citations := chat.Citations
	if citations == nil {
		citations = []string{}
	}
	return &domain.NewsResult{News: items, Citations: citations, LastUpdated: s.now().UTC()}, nil
}

// parseNewsItems extracts the JSON array from the model answer, which may be wrapped in
// prose or a code fence.
func parseNewsItems(content string) ([]domain.NewsItem, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end < start {
		return nil, fmt.Errorf("news api answer holds no JSON array")
	}
	var items []domain.NewsItem
	if err := json.Unmarshal([]byte(content[start:end+1]), &items); err != nil {
		return nil, fmt.Errorf("decode news items: %w", err)
	}
	out := items[:0]
	for _, it := range items {
		if strings.TrimSpace(it.Title) == "" {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
