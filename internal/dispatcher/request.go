// Package dispatcher принимает запросы фронтенда и сводит их к вызовам
// удаленного API и мутациям разделяемого состояния.
package dispatcher

import "remotify/internal/model"

// Request представляет запрос фронтенда. Закрытый набор вариантов:
// снаружи пакета новые варианты добавить нельзя. Запрос неизменяем
// и обрабатывается диспетчером ровно один раз.
type Request interface {
	// Kind возвращает имя запроса для логов
	Kind() string

	isRequest()
}

// ConnectDevice подключает устройство воспроизведения.
// Пустой DeviceID означает поиск доступного устройства.
type ConnectDevice struct {
	DeviceID string
}

// GetBrowseCategories загружает браузинг-категории
type GetBrowseCategories struct{}

// GetCategoryPlaylists загружает плейлисты категории
type GetCategoryPlaylists struct {
	Category model.Category
}

// GetLyric ищет текст трека
type GetLyric struct {
	Track   string
	Artists string
}

// GetCurrentUser загружает текущего пользователя
type GetCurrentUser struct{}

// Player выполняет действие над воспроизведением
type Player struct {
	Action PlayerAction
}

// GetCurrentPlayback обновляет снимок текущего воспроизведения
type GetCurrentPlayback struct{}

// GetDevices загружает список устройств
type GetDevices struct{}

// GetUserPlaylists загружает плейлисты пользователя
type GetUserPlaylists struct{}

// GetUserFollowedArtists загружает подписки на исполнителей
type GetUserFollowedArtists struct{}

// GetUserSavedAlbums загружает сохраненные альбомы
type GetUserSavedAlbums struct{}

// GetUserTopTracks загружает топ-треки пользователя
type GetUserTopTracks struct{}

// GetUserSavedTracks загружает сохраненные треки
type GetUserSavedTracks struct{}

// GetUserRecentlyPlayed загружает недавно прослушанные треки
type GetUserRecentlyPlayed struct{}

// GetContext загружает контекст плейлиста, альбома или исполнителя
type GetContext struct {
	ID model.ContextID
}

// Search ищет треки, исполнителей, альбомы и плейлисты
type Search struct {
	Query string
}

// GetRecommendations загружает рекомендации по сиду
type GetRecommendations struct {
	Seed model.SeedItem
}

// AddTrackToQueue добавляет трек в очередь воспроизведения
type AddTrackToQueue struct {
	TrackID string
}

// AddTrackToPlaylist добавляет трек в плейлист
type AddTrackToPlaylist struct {
	PlaylistID string
	TrackID    string
}

// DeleteTrackFromPlaylist удаляет трек из плейлиста
type DeleteTrackFromPlaylist struct {
	PlaylistID string
	TrackID    string
}

// AddToLibrary добавляет сущность в библиотеку пользователя
type AddToLibrary struct {
	Item Item
}

// DeleteFromLibrary удаляет сущность из библиотеки пользователя
type DeleteFromLibrary struct {
	ItemID ItemID
}

func (ConnectDevice) Kind() string           { return "connect-device" }
func (GetBrowseCategories) Kind() string     { return "get-browse-categories" }
func (GetCategoryPlaylists) Kind() string    { return "get-category-playlists" }
func (GetLyric) Kind() string                { return "get-lyric" }
func (GetCurrentUser) Kind() string          { return "get-current-user" }
func (Player) Kind() string                  { return "player" }
func (GetCurrentPlayback) Kind() string      { return "get-current-playback" }
func (GetDevices) Kind() string              { return "get-devices" }
func (GetUserPlaylists) Kind() string        { return "get-user-playlists" }
func (GetUserFollowedArtists) Kind() string  { return "get-user-followed-artists" }
func (GetUserSavedAlbums) Kind() string      { return "get-user-saved-albums" }
func (GetUserTopTracks) Kind() string        { return "get-user-top-tracks" }
func (GetUserSavedTracks) Kind() string      { return "get-user-saved-tracks" }
func (GetUserRecentlyPlayed) Kind() string   { return "get-user-recently-played" }
func (GetContext) Kind() string              { return "get-context" }
func (Search) Kind() string                  { return "search" }
func (GetRecommendations) Kind() string      { return "get-recommendations" }
func (AddTrackToQueue) Kind() string         { return "add-track-to-queue" }
func (AddTrackToPlaylist) Kind() string      { return "add-track-to-playlist" }
func (DeleteTrackFromPlaylist) Kind() string { return "delete-track-from-playlist" }
func (AddToLibrary) Kind() string            { return "add-to-library" }
func (DeleteFromLibrary) Kind() string       { return "delete-from-library" }

func (ConnectDevice) isRequest()           {}
func (GetBrowseCategories) isRequest()     {}
func (GetCategoryPlaylists) isRequest()    {}
func (GetLyric) isRequest()                {}
func (GetCurrentUser) isRequest()          {}
func (Player) isRequest()                  {}
func (GetCurrentPlayback) isRequest()      {}
func (GetDevices) isRequest()              {}
func (GetUserPlaylists) isRequest()        {}
func (GetUserFollowedArtists) isRequest()  {}
func (GetUserSavedAlbums) isRequest()      {}
func (GetUserTopTracks) isRequest()        {}
func (GetUserSavedTracks) isRequest()      {}
func (GetUserRecentlyPlayed) isRequest()   {}
func (GetContext) isRequest()              {}
func (Search) isRequest()                  {}
func (GetRecommendations) isRequest()      {}
func (AddTrackToQueue) isRequest()         {}
func (AddTrackToPlaylist) isRequest()      {}
func (DeleteTrackFromPlaylist) isRequest() {}
func (AddToLibrary) isRequest()            {}
func (DeleteFromLibrary) isRequest()       {}

// PlayerAction представляет действие над воспроизведением. Закрытый набор.
type PlayerAction interface {
	// ActionName возвращает имя действия для логов
	ActionName() string

	isPlayerAction()
}

// NextTrack переключает на следующий трек
type NextTrack struct{}

// PreviousTrack переключает на предыдущий трек
type PreviousTrack struct{}

// ResumePause переключает паузу и воспроизведение
type ResumePause struct{}

// SeekTrack перематывает текущий трек
type SeekTrack struct {
	PositionMs int
}

// CycleRepeat переключает режим повтора по циклу Off -> Track -> Context -> Off
type CycleRepeat struct{}

// ToggleShuffle переключает режим перемешивания
type ToggleShuffle struct{}

// SetVolume устанавливает громкость
type SetVolume struct {
	Percent int
}

// StartPlayback запускает новое воспроизведение
type StartPlayback struct {
	Target model.PlaybackTarget
}

// TransferPlayback переносит воспроизведение на другое устройство.
// Единственное действие, доступное без активного воспроизведения.
type TransferPlayback struct {
	DeviceID  string
	ForcePlay bool
}

func (NextTrack) ActionName() string        { return "next-track" }
func (PreviousTrack) ActionName() string    { return "previous-track" }
func (ResumePause) ActionName() string      { return "resume-pause" }
func (SeekTrack) ActionName() string        { return "seek-track" }
func (CycleRepeat) ActionName() string      { return "cycle-repeat" }
func (ToggleShuffle) ActionName() string    { return "toggle-shuffle" }
func (SetVolume) ActionName() string        { return "set-volume" }
func (StartPlayback) ActionName() string    { return "start-playback" }
func (TransferPlayback) ActionName() string { return "transfer-playback" }

func (NextTrack) isPlayerAction()        {}
func (PreviousTrack) isPlayerAction()    {}
func (ResumePause) isPlayerAction()      {}
func (SeekTrack) isPlayerAction()        {}
func (CycleRepeat) isPlayerAction()      {}
func (ToggleShuffle) isPlayerAction()    {}
func (SetVolume) isPlayerAction()        {}
func (StartPlayback) isPlayerAction()    {}
func (TransferPlayback) isPlayerAction() {}

// ItemKind определяет вид сущности библиотеки
type ItemKind int

const (
	ItemTrack ItemKind = iota
	ItemAlbum
	ItemArtist
	ItemPlaylist
)

// String возвращает строковое представление вида сущности
func (k ItemKind) String() string {
	switch k {
	case ItemTrack:
		return "track"
	case ItemAlbum:
		return "album"
	case ItemArtist:
		return "artist"
	case ItemPlaylist:
		return "playlist"
	default:
		return "unknown"
	}
}

// Item представляет сущность, добавляемую в библиотеку.
// Заполняется ровно одно поле, соответствующее Kind.
type Item struct {
	Kind     ItemKind
	Track    *model.Track
	Album    *model.Album
	Artist   *model.Artist
	Playlist *model.Playlist
}

// ItemID идентифицирует сущность, удаляемую из библиотеки
type ItemID struct {
	Kind ItemKind
	ID   string
}
