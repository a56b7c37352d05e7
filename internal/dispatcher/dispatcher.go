package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"remotify/internal/config"
	"remotify/internal/gateway/lyrics"
	spotifygw "remotify/internal/gateway/spotify"
	"remotify/internal/model"
	"remotify/internal/state"
	"remotify/internal/worker"
)

// ErrNoActivePlayback нет активного воспроизведения для player-действия
var ErrNoActivePlayback = errors.New("no active playback found")

// Interface определяет обработку запросов фронтенда
type Interface interface {
	// Handle обрабатывает один запрос до завершения
	Handle(ctx context.Context, req Request) error
}

// Dispatcher обрабатывает запросы фронтенда последовательно внутри
// одного вызова Handle; параллельность обеспечивает вызывающая сторона.
type Dispatcher struct {
	api    spotifygw.Interface
	lyrics lyrics.Interface
	pool   worker.PoolInterface
	state  *state.State
	cfg    *config.Config
	logger *zap.Logger
}

// Убеждаемся, что Dispatcher реализует Interface
var _ Interface = (*Dispatcher)(nil)

// New создает диспетчер запросов
func New(api spotifygw.Interface, lyricsClient lyrics.Interface, pool worker.PoolInterface, st *state.State, cfg *config.Config, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		api:    api,
		lyrics: lyricsClient,
		pool:   pool,
		state:  st,
		cfg:    cfg,
		logger: logger,
	}
}

// Handle обрабатывает запрос фронтенда: каждый запрос получает
// собственный идентификатор, исход и длительность логируются.
func (d *Dispatcher) Handle(ctx context.Context, req Request) error {
	requestID := uuid.NewString()
	log := d.logger.With(
		zap.String("request", req.Kind()),
		zap.String("request_id", requestID))

	startTime := time.Now()

	if err := d.dispatch(ctx, log, requestID, req); err != nil {
		log.Error("Request failed",
			zap.Duration("duration", time.Since(startTime)),
			zap.Error(err))
		return err
	}

	log.Info("Request handled", zap.Duration("duration", time.Since(startTime)))
	return nil
}

// dispatch разводит запрос по обработчикам
func (d *Dispatcher) dispatch(ctx context.Context, log *zap.Logger, requestID string, req Request) error {
	switch r := req.(type) {
	case ConnectDevice:
		return d.handleConnectDevice(ctx, log, requestID, r.DeviceID)
	case Player:
		if err := d.handlePlayerAction(ctx, log, r.Action); err != nil {
			return err
		}
		// Сервис применяет player-действия с задержкой, поэтому снимок
		// обновляется фоновыми раундами, а не одним запросом сразу.
		d.schedulePlaybackRefresh(log, requestID)
		return nil
	case GetCurrentPlayback:
		if err := d.refreshPlayback(ctx); err != nil {
			return err
		}
		return d.refreshCoverImage(ctx)
	case GetDevices:
		return d.handleGetDevices(ctx)
	case GetCurrentUser:
		return d.handleGetCurrentUser(ctx)
	case GetBrowseCategories:
		return d.handleGetBrowseCategories(ctx)
	case GetCategoryPlaylists:
		return d.handleGetCategoryPlaylists(ctx, r.Category)
	case GetLyric:
		return d.handleGetLyric(ctx, log, r.Track, r.Artists)
	case GetUserPlaylists:
		return d.handleGetUserPlaylists(ctx)
	case GetUserFollowedArtists:
		return d.handleGetUserFollowedArtists(ctx)
	case GetUserSavedAlbums:
		return d.handleGetUserSavedAlbums(ctx)
	case GetUserSavedTracks:
		return d.handleGetUserSavedTracks(ctx)
	case GetUserTopTracks:
		return d.handleGetUserTopTracks(ctx, log)
	case GetUserRecentlyPlayed:
		return d.handleGetUserRecentlyPlayed(ctx, log)
	case GetContext:
		return d.handleGetContext(ctx, log, r.ID)
	case Search:
		return d.handleSearch(ctx, log, r.Query)
	case GetRecommendations:
		return d.handleGetRecommendations(ctx, log, r.Seed)
	case AddTrackToQueue:
		return d.api.AddTrackToQueue(ctx, r.TrackID)
	case AddTrackToPlaylist:
		return d.handleAddTrackToPlaylist(ctx, log, r.PlaylistID, r.TrackID)
	case DeleteTrackFromPlaylist:
		return d.handleDeleteTrackFromPlaylist(ctx, log, r.PlaylistID, r.TrackID)
	case AddToLibrary:
		return d.handleAddToLibrary(ctx, log, r.Item)
	case DeleteFromLibrary:
		return d.handleDeleteFromLibrary(ctx, log, r.ItemID)
	default:
		return fmt.Errorf("unknown request kind %q", req.Kind())
	}
}

// handleGetDevices обновляет список устройств в состоянии
func (d *Dispatcher) handleGetDevices(ctx context.Context) error {
	devices, err := d.api.Devices(ctx)
	if err != nil {
		return err
	}

	d.state.Player.SetDevices(devices)
	return nil
}

// handleGetCurrentUser загружает текущего пользователя в состояние
func (d *Dispatcher) handleGetCurrentUser(ctx context.Context) error {
	user, err := d.api.CurrentUser(ctx)
	if err != nil {
		return err
	}

	d.state.Data.Update(func(data *state.AppData) {
		data.UserData.User = &user
	})
	return nil
}

// handleGetBrowseCategories загружает браузинг-категории в состояние
func (d *Dispatcher) handleGetBrowseCategories(ctx context.Context) error {
	categories, err := d.api.BrowseCategories(ctx)
	if err != nil {
		return err
	}

	d.state.Data.Update(func(data *state.AppData) {
		data.Browse.Categories = categories
	})
	return nil
}

// handleGetCategoryPlaylists загружает плейлисты категории в состояние
func (d *Dispatcher) handleGetCategoryPlaylists(ctx context.Context, category model.Category) error {
	playlists, err := d.api.CategoryPlaylists(ctx, category.ID)
	if err != nil {
		return err
	}

	d.state.Data.Update(func(data *state.AppData) {
		data.Browse.CategoryPlaylists[category.ID] = playlists
	})
	return nil
}

// handleGetLyric ищет текст трека, результат попадает в кэш текстов
func (d *Dispatcher) handleGetLyric(ctx context.Context, log *zap.Logger, track, artists string) error {
	fingerprint := model.LyricFingerprint(track, artists)
	if d.cachedLyric(fingerprint) {
		log.Debug("Lyric cache hit", zap.String("fingerprint", fingerprint))
		return nil
	}

	lyric, err := d.lyrics.Get(ctx, track+" "+artists)
	if err != nil {
		return err
	}

	d.state.Data.Update(func(data *state.AppData) {
		data.Caches.Lyrics.Put(fingerprint, lyric)
	})
	return nil
}

func (d *Dispatcher) cachedLyric(fingerprint string) bool {
	var cached bool
	d.state.Data.Read(func(data *state.AppData) {
		cached = data.Caches.Lyrics.Contains(fingerprint)
	})
	return cached
}

// handleGetUserPlaylists загружает плейлисты пользователя в состояние
func (d *Dispatcher) handleGetUserPlaylists(ctx context.Context) error {
	playlists, err := d.api.UserPlaylists(ctx)
	if err != nil {
		return err
	}

	d.state.Data.Update(func(data *state.AppData) {
		data.UserData.Playlists = playlists
	})
	return nil
}

// handleGetUserFollowedArtists загружает подписки на исполнителей
func (d *Dispatcher) handleGetUserFollowedArtists(ctx context.Context) error {
	artists, err := d.api.FollowedArtists(ctx)
	if err != nil {
		return err
	}

	d.state.Data.Update(func(data *state.AppData) {
		data.UserData.FollowedArtists = artists
	})
	return nil
}

// handleGetUserSavedAlbums загружает сохраненные альбомы
func (d *Dispatcher) handleGetUserSavedAlbums(ctx context.Context) error {
	albums, err := d.api.SavedAlbums(ctx)
	if err != nil {
		return err
	}

	d.state.Data.Update(func(data *state.AppData) {
		data.UserData.SavedAlbums = albums
	})
	return nil
}

// handleGetUserSavedTracks загружает сохраненные треки
func (d *Dispatcher) handleGetUserSavedTracks(ctx context.Context) error {
	tracks, err := d.api.SavedTracks(ctx)
	if err != nil {
		return err
	}

	d.state.Data.Update(func(data *state.AppData) {
		data.UserData.SavedTracks = tracks
	})
	return nil
}

// handleGetUserTopTracks загружает топ-треки, результат попадает в кэш треков
func (d *Dispatcher) handleGetUserTopTracks(ctx context.Context, log *zap.Logger) error {
	if d.cachedTracks(model.TopTracksFingerprint) {
		log.Debug("Tracks cache hit", zap.String("fingerprint", model.TopTracksFingerprint))
		return nil
	}

	tracks, err := d.api.TopTracks(ctx)
	if err != nil {
		return err
	}

	d.state.Data.Update(func(data *state.AppData) {
		data.Caches.Tracks.Put(model.TopTracksFingerprint, tracks)
	})
	return nil
}

// handleGetUserRecentlyPlayed загружает недавно прослушанные треки в кэш треков
func (d *Dispatcher) handleGetUserRecentlyPlayed(ctx context.Context, log *zap.Logger) error {
	if d.cachedTracks(model.RecentlyPlayedFingerprint) {
		log.Debug("Tracks cache hit", zap.String("fingerprint", model.RecentlyPlayedFingerprint))
		return nil
	}

	tracks, err := d.api.RecentlyPlayedTracks(ctx)
	if err != nil {
		return err
	}

	d.state.Data.Update(func(data *state.AppData) {
		data.Caches.Tracks.Put(model.RecentlyPlayedFingerprint, tracks)
	})
	return nil
}

func (d *Dispatcher) cachedTracks(fingerprint string) bool {
	var cached bool
	d.state.Data.Read(func(data *state.AppData) {
		cached = data.Caches.Tracks.Contains(fingerprint)
	})
	return cached
}

// handleGetContext загружает контекст воспроизведения в кэш контекстов
func (d *Dispatcher) handleGetContext(ctx context.Context, log *zap.Logger, id model.ContextID) error {
	uri := id.URI()

	var cached bool
	d.state.Data.Read(func(data *state.AppData) {
		cached = data.Caches.Context.Contains(uri)
	})
	if cached {
		log.Debug("Context cache hit", zap.String("uri", uri))
		return nil
	}

	var (
		playContext model.Context
		err         error
	)
	switch id.Kind {
	case model.ContextPlaylist:
		playContext, err = d.api.PlaylistContext(ctx, id.ID)
	case model.ContextAlbum:
		playContext, err = d.api.AlbumContext(ctx, id.ID)
	case model.ContextArtist:
		playContext, err = d.api.ArtistContext(ctx, id.ID)
	default:
		return fmt.Errorf("unknown context kind %q", id.Kind)
	}
	if err != nil {
		return err
	}

	d.state.Data.Update(func(data *state.AppData) {
		data.Caches.Context.Put(uri, playContext)
	})
	return nil
}

// handleSearch выполняет поиск, результат попадает в кэш поиска
func (d *Dispatcher) handleSearch(ctx context.Context, log *zap.Logger, query string) error {
	fingerprint := model.SearchFingerprint(query)

	var cached bool
	d.state.Data.Read(func(data *state.AppData) {
		cached = data.Caches.Search.Contains(fingerprint)
	})
	if cached {
		log.Debug("Search cache hit", zap.String("fingerprint", fingerprint))
		return nil
	}

	results, err := d.api.Search(ctx, query)
	if err != nil {
		return err
	}

	d.state.Data.Update(func(data *state.AppData) {
		data.Caches.Search.Put(fingerprint, results)
	})
	return nil
}

// handleGetRecommendations загружает рекомендации по сиду в кэш треков
func (d *Dispatcher) handleGetRecommendations(ctx context.Context, log *zap.Logger, seed model.SeedItem) error {
	fingerprint := model.RecommendationsFingerprint(seed)
	if d.cachedTracks(fingerprint) {
		log.Debug("Tracks cache hit", zap.String("fingerprint", fingerprint))
		return nil
	}

	tracks, err := d.api.Recommendations(ctx, seed)
	if err != nil {
		return err
	}

	d.state.Data.Update(func(data *state.AppData) {
		data.Caches.Tracks.Put(fingerprint, tracks)
	})
	return nil
}
