// Package paging реализует обход постраничных ответов Spotify Web API.
//
// Две схемы пагинации: offset-страницы со ссылкой next (большинство
// эндпоинтов) и cursor-страницы (история прослушиваний, подписки на
// исполнителей). Обход не ограничен числом страниц: завершение зависит
// от отсутствия next в ответе сервиса. Порядок элементов сохраняется.
package paging

import "context"

// Fetcher выполняет аутентифицированный GET по ссылке продолжения
// и декодирует JSON-ответ в dst.
type Fetcher interface {
	GetJSON(ctx context.Context, url string, dst any) error
}

// Page отражает форму offset-страницы Web API
type Page[T any] struct {
	Items []T    `json:"items"`
	Next  string `json:"next"`
}

// CursorPage отражает форму cursor-страницы Web API
type CursorPage[T any] struct {
	Items   []T    `json:"items"`
	Next    string `json:"next"`
	Cursors struct {
		After string `json:"after"`
	} `json:"cursors"`
}

// Items собирает элементы всех offset-страниц начиная с первой.
// Каждая следующая страница запрашивается по ссылке next.
func Items[T any](ctx context.Context, f Fetcher, first Page[T]) ([]T, error) {
	items := first.Items
	next := first.Next

	for next != "" {
		var page Page[T]
		if err := f.GetJSON(ctx, next, &page); err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
		next = page.Next
	}

	return items, nil
}

// CursorItems собирает элементы всех cursor-страниц начиная с первой.
// fetch запрашивает следующую страницу по ссылке next: форма обертки
// ответа у cursor-эндпоинтов различается, поэтому декодирование
// остается за вызывающей стороной.
func CursorItems[T any](
	ctx context.Context,
	first CursorPage[T],
	fetch func(ctx context.Context, url string) (CursorPage[T], error),
) ([]T, error) {
	items := first.Items
	next := first.Next

	for next != "" {
		page, err := fetch(ctx, next)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
		next = page.Next
	}

	return items, nil
}
