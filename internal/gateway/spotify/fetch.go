package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/zmb3/spotify/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// fetcher выполняет сырые аутентифицированные запросы к Web API:
// переходы по ссылкам продолжения пагинации и эндпоинты, не покрытые
// типизированным клиентом. Запросы проходят через клиентский
// rate limiter и HTTP-клиент с повторами.
type fetcher struct {
	http    *retryablehttp.Client
	api     *spotify.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

func newFetcher(api *spotify.Client, rps float64, timeout time.Duration, logger *zap.Logger) *fetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.Logger = nil
	client.HTTPClient.Timeout = timeout

	return &fetcher{
		http:    client,
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  logger,
	}
}

// GetJSON выполняет аутентифицированный GET и декодирует JSON-ответ в dst
func (f *fetcher) GetJSON(ctx context.Context, url string, dst any) error {
	body, err := f.do(ctx, http.MethodGet, url)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return classify("fetch "+url, err)
	}
	return nil
}

// Do выполняет аутентифицированный запрос без тела и без разбора ответа.
// Используется для PUT/DELETE эндпоинтов библиотеки.
func (f *fetcher) Do(ctx context.Context, method, url string) error {
	body, err := f.do(ctx, method, url)
	if err != nil {
		return err
	}
	return body.Close()
}

// GetBytes скачивает содержимое по URL без авторизации (CDN обложек)
func (f *fetcher) GetBytes(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, classify("fetch "+url, err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, classify("fetch "+url, err)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, classify("fetch "+url, err)
	}
	defer f.closeBody(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, &RemoteError{
			Kind: kindFromStatus(resp.StatusCode),
			Op:   "fetch " + url,
			Err:  fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	return io.ReadAll(resp.Body)
}

func (f *fetcher) do(ctx context.Context, method, url string) (io.ReadCloser, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, classify(method+" "+url, err)
	}

	token, err := f.api.Token()
	if err != nil {
		return nil, &RemoteError{Kind: KindUnauthorized, Op: method + " " + url, Err: err}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, classify(method+" "+url, err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, classify(method+" "+url, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		f.closeBody(resp.Body)
		return nil, &RemoteError{
			Kind: kindFromStatus(resp.StatusCode),
			Op:   method + " " + url,
			Err:  fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	return resp.Body, nil
}

func (f *fetcher) closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		f.logger.Warn("Failed to close response body", zap.Error(err))
	}
}
