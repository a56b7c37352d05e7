// Package state содержит разделяемое состояние приложения.
//
// Состояние разбито на два независимо блокируемых региона: player
// (снимок воспроизведения и устройства) и data (данные пользователя,
// кэши, браузинг). Опрос воспроизведения никогда не блокирует работу
// с кэшами и библиотекой. Блокировка записи не удерживается на время
// сетевых вызовов.
package state

import (
	"image"
	"sync"
	"time"

	"remotify/internal/cache"
	"remotify/internal/model"
)

// State представляет разделяемое состояние приложения.
// Создается один раз при старте процесса и передается по ссылке
// во все обработчики; глобального синглтона нет.
type State struct {
	Player PlayerRegion
	Data   DataRegion
}

// New создает состояние с кэшами заданной емкости
func New(cacheCapacity int) *State {
	s := &State{}
	s.Data.data.Caches = newCaches(cacheCapacity)
	s.Data.data.Browse.CategoryPlaylists = make(map[string][]model.Playlist)
	return s
}

// PlayerRegion хранит снимок воспроизведения и список устройств.
// Снимок заменяется целиком и всегда отражает последний успешный
// запрос текущего воспроизведения.
type PlayerRegion struct {
	mu        sync.RWMutex
	playback  *model.Playback
	devices   []model.Device
	updatedAt time.Time
}

// SetPlayback заменяет снимок воспроизведения целиком
func (r *PlayerRegion) SetPlayback(p *model.Playback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.playback = p
	r.updatedAt = time.Now()
}

// Playback возвращает текущий снимок воспроизведения (может быть nil)
func (r *PlayerRegion) Playback() *model.Playback {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.playback
}

// Simplified возвращает упрощенный снимок для адресации player-действий
func (r *PlayerRegion) Simplified() (model.SimplifiedPlayback, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.playback == nil {
		return model.SimplifiedPlayback{}, false
	}
	return r.playback.Simplified(), true
}

// CoverURL возвращает URL обложки текущего трека
func (r *PlayerRegion) CoverURL() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.playback == nil {
		return ""
	}
	return r.playback.CoverURL()
}

// SetDevices заменяет список устройств
func (r *PlayerRegion) SetDevices(devices []model.Device) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices = devices
}

// Devices возвращает список устройств
func (r *PlayerRegion) Devices() []model.Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.devices
}

// UpdatedAt возвращает время последнего обновления снимка
func (r *PlayerRegion) UpdatedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.updatedAt
}

// DataRegion хранит данные пользователя, кэши и браузинг под общей блокировкой
type DataRegion struct {
	mu   sync.RWMutex
	data AppData
}

// Read выполняет fn под блокировкой чтения.
// fn не должна выполнять сетевых вызовов.
func (r *DataRegion) Read(fn func(*AppData)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn(&r.data)
}

// Update выполняет fn под блокировкой записи.
// fn не должна выполнять сетевых вызовов.
func (r *DataRegion) Update(fn func(*AppData)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&r.data)
}

// AppData содержит данные пользователя, кэши и браузинг
type AppData struct {
	UserData UserData
	Caches   Caches
	Browse   BrowseData
}

// UserData содержит библиотеку текущего пользователя
type UserData struct {
	User            *model.User
	Playlists       []model.Playlist
	FollowedArtists []model.Artist
	SavedAlbums     []model.Album
	SavedTracks     []model.Track
}

// Caches содержит ограниченные LRU-кэши ответов по категориям
type Caches struct {
	Context *cache.LRU[model.Context]
	Search  *cache.LRU[model.SearchResults]
	Tracks  *cache.LRU[[]model.Track]
	Lyrics  *cache.LRU[model.Lyric]
	Images  *cache.LRU[image.Image]
}

func newCaches(capacity int) Caches {
	return Caches{
		Context: cache.New[model.Context](capacity),
		Search:  cache.New[model.SearchResults](capacity),
		Tracks:  cache.New[[]model.Track](capacity),
		Lyrics:  cache.New[model.Lyric](capacity),
		Images:  cache.New[image.Image](capacity),
	}
}

// BrowseData содержит категории браузинга и плейлисты по категориям
type BrowseData struct {
	Categories        []model.Category
	CategoryPlaylists map[string][]model.Playlist
}

// TracksByID возвращает список треков по идентификатору страницы.
// Сохраненные треки хранятся в UserData, остальные списки в кэше треков.
func (d *AppData) TracksByID(id string) ([]model.Track, bool) {
	if id == model.LikedTracksID {
		return d.UserData.SavedTracks, true
	}
	return d.Caches.Tracks.Peek(id)
}

// ModifiablePlaylists возвращает плейлисты, которые пользователь
// предположительно может изменять: собственные и коллаборативные.
func (u *UserData) ModifiablePlaylists() []model.Playlist {
	if u.User == nil {
		return nil
	}

	var out []model.Playlist
	for _, p := range u.Playlists {
		if p.OwnerID == u.User.ID || p.Collaborative {
			out = append(out, p)
		}
	}
	return out
}
