package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Translator - внешний переводчик. Может быть медленным и может падать;
// вызывающая сторона обязана переживать оба случая.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// DeepLClient - клиент DeepL-совместимого REST API (v2 /translate).
type DeepLClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewDeepLClient(endpoint, apiKey string) *DeepLClient {
	return &DeepLClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		// Общий timeout задает Gateway через context; здесь только
		// страховка от зависшего соединения
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type deepLResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

// normalizeASCII готовит текст к отправке: полностью ASCII-строка,
// начинающаяся с буквы, приводится к виду "Первая заглавная, остальные
// строчные" - у API качество перевода выше на нормализованном регистре
func normalizeASCII(text string) string {
	if text == "" {
		return text
	}
	first := text[0]
	isLetter := (first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')
	if !isLetter {
		return text
	}
	for i := 0; i < len(text); i++ {
		if text[i] > 127 {
			return text
		}
	}
	return strings.ToUpper(text[:1]) + strings.ToLower(text[1:])
}

func (c *DeepLClient) Translate(ctx context.Context, text, targetLang string) (string, error) {
	form := url.Values{}
	form.Set("text", normalizeASCII(text))
	form.Set("target_lang", targetLang)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "DeepL-Auth-Key "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("translation api returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed deepLResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Translations) == 0 {
		return "", fmt.Errorf("translation api returned empty result")
	}

	return parsed.Translations[0].Text, nil
}
