// Package lyrics реализует поиск текстов треков через внешний сервис.
//
// Сервис не предоставляет JSON API для самих текстов: найденная страница
// разбирается как HTML. Поиск идет по запросу вида "название исполнители".
package lyrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"remotify/internal/model"
)

// ErrNotFound текст для запроса не найден
var ErrNotFound = errors.New("lyrics: not found")

// Interface определяет поиск текста трека
type Interface interface {
	// Get ищет текст трека по запросу "название исполнители"
	Get(ctx context.Context, query string) (model.Lyric, error)
}

// Client реализует поиск текстов через genius.com
type Client struct {
	http    *retryablehttp.Client
	baseURL string
	logger  *zap.Logger
}

// Убеждаемся, что Client реализует Interface
var _ Interface = (*Client)(nil)

// NewClient создает клиент поиска текстов
func NewClient(baseURL string, logger *zap.Logger) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 2
	httpClient.Logger = nil

	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// searchHit результат поиска страницы с текстом
type searchHit struct {
	Result struct {
		Title string `json:"title"`
		URL   string `json:"url"`

		PrimaryArtist struct {
			Name string `json:"name"`
		} `json:"primary_artist"`
	} `json:"result"`
}

// Get ищет текст трека по запросу
func (c *Client) Get(ctx context.Context, query string) (model.Lyric, error) {
	hit, err := c.search(ctx, query)
	if err != nil {
		return model.Lyric{}, err
	}

	text, err := c.scrapeLyric(ctx, hit.Result.URL)
	if err != nil {
		return model.Lyric{}, err
	}

	c.logger.Debug("Lyric found",
		zap.String("query", query),
		zap.String("title", hit.Result.Title),
		zap.String("url", hit.Result.URL))

	return model.Lyric{
		Title:   hit.Result.Title,
		Artists: hit.Result.PrimaryArtist.Name,
		Text:    text,
	}, nil
}

// search находит страницу с текстом через поисковый API сервиса
func (c *Client) search(ctx context.Context, query string) (searchHit, error) {
	searchURL := c.baseURL + "/api/search?q=" + url.QueryEscape(query)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return searchHit{}, fmt.Errorf("lyrics search: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return searchHit{}, fmt.Errorf("lyrics search: %w", err)
	}
	defer c.closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		return searchHit{}, fmt.Errorf("lyrics search: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Response struct {
			Hits []searchHit `json:"hits"`
		} `json:"response"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return searchHit{}, fmt.Errorf("lyrics search: %w", err)
	}

	if len(payload.Response.Hits) == 0 {
		return searchHit{}, ErrNotFound
	}

	return payload.Response.Hits[0], nil
}

// scrapeLyric извлекает текст из HTML-страницы
func (c *Client) scrapeLyric(ctx context.Context, pageURL string) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("lyrics page: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("lyrics page: %w", err)
	}
	defer c.closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lyrics page: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("lyrics page: %w", err)
	}

	var sb strings.Builder
	doc.Find("div[data-lyrics-container='true']").Each(func(_ int, s *goquery.Selection) {
		// <br> превращаются в переводы строк до извлечения текста
		s.Find("br").Each(func(_ int, br *goquery.Selection) {
			br.ReplaceWithHtml("\n")
		})
		sb.WriteString(s.Text())
		sb.WriteString("\n")
	})

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrNotFound
	}

	return text, nil
}

func (c *Client) closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		c.logger.Warn("Failed to close response body", zap.Error(err))
	}
}
