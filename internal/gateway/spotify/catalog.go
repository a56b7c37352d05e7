package spotify

import (
	"context"
	"sync"

	"github.com/zmb3/spotify/v2"
	"go.uber.org/zap"

	"remotify/internal/model"
	"remotify/internal/paging"
)

const (
	pageLimit = 50

	recentlyPlayedURL = "https://api.spotify.com/v1/me/player/recently-played?limit=50"
	categoriesURL     = "https://api.spotify.com/v1/browse/categories?limit=50"
	categoryURL       = "https://api.spotify.com/v1/browse/categories/"

	// Страна для топ-треков исполнителя определяется токеном пользователя
	marketFromToken = "from_token"
)

// BrowseCategories возвращает первую страницу браузинг-категорий
func (c *Client) BrowseCategories(ctx context.Context) ([]model.Category, error) {
	var resp struct {
		Categories paging.Page[struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}] `json:"categories"`
	}

	if err := c.fetch.GetJSON(ctx, categoriesURL, &resp); err != nil {
		return nil, err
	}

	categories := make([]model.Category, 0, len(resp.Categories.Items))
	for _, item := range resp.Categories.Items {
		categories = append(categories, model.CategoryFrom(item.ID, item.Name))
	}
	return categories, nil
}

// CategoryPlaylists возвращает первую страницу плейлистов категории
func (c *Client) CategoryPlaylists(ctx context.Context, categoryID string) ([]model.Playlist, error) {
	var resp struct {
		Playlists paging.Page[spotify.SimplePlaylist] `json:"playlists"`
	}

	if err := c.fetch.GetJSON(ctx, categoryURL+categoryID+"/playlists?limit=50", &resp); err != nil {
		return nil, err
	}

	playlists := make([]model.Playlist, 0, len(resp.Playlists.Items))
	for _, p := range resp.Playlists.Items {
		playlists = append(playlists, model.PlaylistFromSimple(p))
	}
	return playlists, nil
}

// UserPlaylists возвращает все плейлисты текущего пользователя
func (c *Client) UserPlaylists(ctx context.Context) ([]model.Playlist, error) {
	first, err := c.api.CurrentUsersPlaylists(ctx, spotify.Limit(pageLimit))
	if err != nil {
		return nil, classify("user playlists", err)
	}

	items, err := paging.Items(ctx, c.fetch, paging.Page[spotify.SimplePlaylist]{
		Items: first.Playlists,
		Next:  first.Next,
	})
	if err != nil {
		return nil, err
	}

	playlists := make([]model.Playlist, 0, len(items))
	for _, p := range items {
		playlists = append(playlists, model.PlaylistFromSimple(p))
	}
	return playlists, nil
}

// FollowedArtists возвращает всех исполнителей, на которых подписан пользователь.
// Эндпоинт использует cursor-пагинацию с оберткой artists вокруг страницы.
func (c *Client) FollowedArtists(ctx context.Context) ([]model.Artist, error) {
	first, err := c.api.CurrentUsersFollowedArtists(ctx, spotify.Limit(pageLimit))
	if err != nil {
		return nil, classify("followed artists", err)
	}

	items, err := paging.CursorItems(ctx,
		paging.CursorPage[spotify.FullArtist]{Items: first.Artists, Next: first.Next},
		func(ctx context.Context, url string) (paging.CursorPage[spotify.FullArtist], error) {
			var resp struct {
				Artists paging.CursorPage[spotify.FullArtist] `json:"artists"`
			}
			if err := c.fetch.GetJSON(ctx, url, &resp); err != nil {
				return paging.CursorPage[spotify.FullArtist]{}, err
			}
			return resp.Artists, nil
		},
	)
	if err != nil {
		return nil, err
	}

	artists := make([]model.Artist, 0, len(items))
	for _, a := range items {
		artists = append(artists, model.ArtistFromFull(a))
	}
	return artists, nil
}

// SavedAlbums возвращает все сохраненные альбомы пользователя
func (c *Client) SavedAlbums(ctx context.Context) ([]model.Album, error) {
	first, err := c.api.CurrentUsersAlbums(ctx, spotify.Limit(pageLimit))
	if err != nil {
		return nil, classify("saved albums", err)
	}

	items, err := paging.Items(ctx, c.fetch, paging.Page[spotify.SavedAlbum]{
		Items: first.Albums,
		Next:  first.Next,
	})
	if err != nil {
		return nil, err
	}

	albums := make([]model.Album, 0, len(items))
	for _, a := range items {
		if album, ok := model.AlbumFromSimple(a.SimpleAlbum); ok {
			albums = append(albums, album)
		}
	}
	return albums, nil
}

// SavedTracks возвращает все сохраненные треки пользователя
func (c *Client) SavedTracks(ctx context.Context) ([]model.Track, error) {
	first, err := c.api.CurrentUsersTracks(ctx, spotify.Limit(pageLimit))
	if err != nil {
		return nil, classify("saved tracks", err)
	}

	items, err := paging.Items(ctx, c.fetch, paging.Page[spotify.SavedTrack]{
		Items: first.Tracks,
		Next:  first.Next,
	})
	if err != nil {
		return nil, err
	}

	tracks := make([]model.Track, 0, len(items))
	for _, t := range items {
		if track, ok := model.TrackFromFull(t.FullTrack); ok {
			tracks = append(tracks, track)
		}
	}
	return tracks, nil
}

// TopTracks возвращает топ-треки пользователя
func (c *Client) TopTracks(ctx context.Context) ([]model.Track, error) {
	first, err := c.api.CurrentUsersTopTracks(ctx, spotify.Limit(pageLimit))
	if err != nil {
		return nil, classify("top tracks", err)
	}

	items, err := paging.Items(ctx, c.fetch, paging.Page[spotify.FullTrack]{
		Items: first.Tracks,
		Next:  first.Next,
	})
	if err != nil {
		return nil, err
	}

	tracks := make([]model.Track, 0, len(items))
	for _, t := range items {
		if track, ok := model.TrackFromFull(t); ok {
			tracks = append(tracks, track)
		}
	}
	return tracks, nil
}

// RecentlyPlayedTracks возвращает недавно прослушанные треки без повторов.
// История возвращает один трек многократно, поэтому список
// дедуплицируется по названию.
func (c *Client) RecentlyPlayedTracks(ctx context.Context) ([]model.Track, error) {
	type playHistory struct {
		Track spotify.FullTrack `json:"track"`
	}

	fetchPage := func(ctx context.Context, url string) (paging.CursorPage[playHistory], error) {
		var page paging.CursorPage[playHistory]
		if err := c.fetch.GetJSON(ctx, url, &page); err != nil {
			return paging.CursorPage[playHistory]{}, err
		}
		return page, nil
	}

	first, err := fetchPage(ctx, recentlyPlayedURL)
	if err != nil {
		return nil, err
	}

	items, err := paging.CursorItems(ctx, first, fetchPage)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(items))
	tracks := make([]model.Track, 0, len(items))
	for _, h := range items {
		if _, ok := seen[h.Track.Name]; ok {
			continue
		}
		if track, ok := model.TrackFromFull(h.Track); ok {
			seen[h.Track.Name] = struct{}{}
			tracks = append(tracks, track)
		}
	}
	return tracks, nil
}

// PlaylistContext возвращает контекст плейлиста с полным списком треков
func (c *Client) PlaylistContext(ctx context.Context, playlistID string) (model.Context, error) {
	c.logger.Info("Fetching playlist context", zap.String("playlist_id", playlistID))

	playlist, err := c.api.GetPlaylist(ctx, spotify.ID(playlistID))
	if err != nil {
		return nil, classify("playlist context", err)
	}

	items, err := paging.Items(ctx, c.fetch, paging.Page[spotify.PlaylistTrack]{
		Items: playlist.Tracks.Tracks,
		Next:  playlist.Tracks.Next,
	})
	if err != nil {
		return nil, err
	}

	tracks := make([]model.Track, 0, len(items))
	for _, item := range items {
		if track, ok := model.TrackFromFull(item.Track); ok {
			tracks = append(tracks, track)
		}
	}

	return &model.PlaylistContext{
		Playlist: model.PlaylistFromFull(playlist),
		Tracks:   tracks,
	}, nil
}

// AlbumContext возвращает контекст альбома с полным списком треков.
// Упрощенные треки альбома не содержат сам альбом, поэтому он
// заполняется вручную.
func (c *Client) AlbumContext(ctx context.Context, albumID string) (model.Context, error) {
	c.logger.Info("Fetching album context", zap.String("album_id", albumID))

	full, err := c.api.GetAlbum(ctx, spotify.ID(albumID))
	if err != nil {
		return nil, classify("album context", err)
	}

	album, ok := model.AlbumFromSimple(full.SimpleAlbum)
	if !ok {
		return nil, contractViolation("album context", "album without id or release date")
	}

	items, err := paging.Items(ctx, c.fetch, paging.Page[spotify.SimpleTrack]{
		Items: full.Tracks.Tracks,
		Next:  full.Tracks.Next,
	})
	if err != nil {
		return nil, err
	}

	tracks := make([]model.Track, 0, len(items))
	for _, t := range items {
		if track, ok := model.TrackFromSimple(t); ok {
			trackAlbum := album
			track.Album = &trackAlbum
			tracks = append(tracks, track)
		}
	}

	return &model.AlbumContext{Album: album, Tracks: tracks}, nil
}

// ArtistContext возвращает контекст исполнителя: топ-треки, похожих
// исполнителей и очищенную дискографию.
func (c *Client) ArtistContext(ctx context.Context, artistID string) (model.Context, error) {
	c.logger.Info("Fetching artist context", zap.String("artist_id", artistID))

	id := spotify.ID(artistID)

	full, err := c.api.GetArtist(ctx, id)
	if err != nil {
		return nil, classify("artist context", err)
	}

	topTracks, err := c.api.GetArtistsTopTracks(ctx, id, marketFromToken)
	if err != nil {
		return nil, classify("artist top tracks", err)
	}

	related, err := c.api.GetRelatedArtists(ctx, id)
	if err != nil {
		return nil, classify("related artists", err)
	}

	albums, err := c.artistAlbums(ctx, id)
	if err != nil {
		return nil, err
	}

	tracks := make([]model.Track, 0, len(topTracks))
	for _, t := range topTracks {
		if track, ok := model.TrackFromFull(t); ok {
			tracks = append(tracks, track)
		}
	}

	relatedArtists := make([]model.Artist, 0, len(related))
	for _, a := range related {
		relatedArtists = append(relatedArtists, model.ArtistFromFull(a))
	}

	return &model.ArtistContext{
		Artist:         model.ArtistFromFull(*full),
		TopTracks:      tracks,
		RelatedArtists: relatedArtists,
		Albums:         albums,
	}, nil
}

// artistAlbums собирает синглы и альбомы исполнителя и очищает дискографию
func (c *Client) artistAlbums(ctx context.Context, id spotify.ID) ([]model.Album, error) {
	var combined []spotify.SimpleAlbum

	for _, albumType := range []spotify.AlbumType{spotify.AlbumTypeAlbum, spotify.AlbumTypeSingle} {
		first, err := c.api.GetArtistAlbums(ctx, id, []spotify.AlbumType{albumType}, spotify.Limit(pageLimit))
		if err != nil {
			return nil, classify("artist albums", err)
		}

		items, err := paging.Items(ctx, c.fetch, paging.Page[spotify.SimpleAlbum]{
			Items: first.Albums,
			Next:  first.Next,
		})
		if err != nil {
			return nil, err
		}

		combined = append(combined, items...)
	}

	albums := make([]model.Album, 0, len(combined))
	for _, a := range combined {
		if album, ok := model.AlbumFromSimple(a); ok {
			albums = append(albums, album)
		}
	}

	return model.CleanupArtistAlbums(albums), nil
}

// Search выполняет поиск по четырем категориям параллельно.
// Результат не той категории означает нарушение контракта API
// и проваливает весь запрос.
func (c *Client) Search(ctx context.Context, query string) (model.SearchResults, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		results  model.SearchResults
		firstErr error
	)

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	wg.Add(4)

	go func() {
		defer wg.Done()
		res, err := c.api.Search(ctx, query, spotify.SearchTypeTrack)
		if err != nil {
			fail(classify("search tracks", err))
			return
		}
		if res.Tracks == nil {
			fail(contractViolation("search tracks", "expected a track search result"))
			return
		}
		tracks := make([]model.Track, 0, len(res.Tracks.Tracks))
		for _, t := range res.Tracks.Tracks {
			if track, ok := model.TrackFromFull(t); ok {
				tracks = append(tracks, track)
			}
		}
		mu.Lock()
		results.Tracks = tracks
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		res, err := c.api.Search(ctx, query, spotify.SearchTypeArtist)
		if err != nil {
			fail(classify("search artists", err))
			return
		}
		if res.Artists == nil {
			fail(contractViolation("search artists", "expected an artist search result"))
			return
		}
		artists := make([]model.Artist, 0, len(res.Artists.Artists))
		for _, a := range res.Artists.Artists {
			artists = append(artists, model.ArtistFromFull(a))
		}
		mu.Lock()
		results.Artists = artists
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		res, err := c.api.Search(ctx, query, spotify.SearchTypeAlbum)
		if err != nil {
			fail(classify("search albums", err))
			return
		}
		if res.Albums == nil {
			fail(contractViolation("search albums", "expected an album search result"))
			return
		}
		albums := make([]model.Album, 0, len(res.Albums.Albums))
		for _, a := range res.Albums.Albums {
			if album, ok := model.AlbumFromSimple(a); ok {
				albums = append(albums, album)
			}
		}
		mu.Lock()
		results.Albums = albums
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		res, err := c.api.Search(ctx, query, spotify.SearchTypePlaylist)
		if err != nil {
			fail(classify("search playlists", err))
			return
		}
		if res.Playlists == nil {
			fail(contractViolation("search playlists", "expected a playlist search result"))
			return
		}
		playlists := make([]model.Playlist, 0, len(res.Playlists.Playlists))
		for _, p := range res.Playlists.Playlists {
			playlists = append(playlists, model.PlaylistFromSimple(p))
		}
		mu.Lock()
		results.Playlists = playlists
		mu.Unlock()
	}()

	wg.Wait()

	if firstErr != nil {
		return model.SearchResults{}, firstErr
	}
	return results, nil
}

// Recommendations возвращает рекомендованные треки по сиду.
// Для трекового сида сам трек добавляется в начало списка; альбом
// у него сбрасывается для единообразия с остальными треками.
func (c *Client) Recommendations(ctx context.Context, seed model.SeedItem) ([]model.Track, error) {
	var seeds spotify.Seeds

	switch seed.Kind {
	case model.SeedArtist:
		seeds.Artists = []spotify.ID{spotify.ID(seed.Artist.ID)}
	case model.SeedTrack:
		seeds.Tracks = []spotify.ID{spotify.ID(seed.Track.ID)}
		for _, a := range seed.Track.Artists {
			seeds.Artists = append(seeds.Artists, spotify.ID(a.ID))
		}
	}

	rec, err := c.api.GetRecommendations(ctx, seeds, nil, spotify.Limit(pageLimit))
	if err != nil {
		return nil, classify("recommendations", err)
	}

	tracks := make([]model.Track, 0, len(rec.Tracks)+1)

	if seed.Kind == model.SeedTrack {
		seedTrack := *seed.Track
		seedTrack.Album = nil
		tracks = append(tracks, seedTrack)
	}

	for _, t := range rec.Tracks {
		if track, ok := model.TrackFromSimple(t); ok {
			tracks = append(tracks, track)
		}
	}

	return tracks, nil
}
