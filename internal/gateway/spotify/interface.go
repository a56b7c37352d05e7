package spotify

import (
	"context"

	"remotify/internal/model"
)

// Interface определяет типизированный фасад над Spotify Web API.
// Каждая операция возвращает доменное значение или типизированный отказ.
type Interface interface {
	// CurrentUser возвращает текущего пользователя
	CurrentUser(ctx context.Context) (model.User, error)

	// Devices возвращает доступные устройства воспроизведения
	Devices(ctx context.Context) ([]model.Device, error)

	// CurrentPlayback возвращает снимок текущего воспроизведения (nil если его нет)
	CurrentPlayback(ctx context.Context) (*model.Playback, error)

	// FindAvailableDevice ищет доступное устройство, приоритет у defaultName.
	// Возвращает пустую строку если устройств нет.
	FindAvailableDevice(ctx context.Context, defaultName string) (string, error)

	// Player-действия; пустой deviceID означает активное устройство
	TransferPlayback(ctx context.Context, deviceID string, forcePlay bool) error
	NextTrack(ctx context.Context, deviceID string) error
	PreviousTrack(ctx context.Context, deviceID string) error
	ResumePlayback(ctx context.Context, deviceID string) error
	PausePlayback(ctx context.Context, deviceID string) error
	SeekTrack(ctx context.Context, positionMs int, deviceID string) error
	SetRepeat(ctx context.Context, state model.RepeatState, deviceID string) error
	SetShuffle(ctx context.Context, shuffle bool, deviceID string) error
	SetVolume(ctx context.Context, percent int, deviceID string) error
	StartPlayback(ctx context.Context, target model.PlaybackTarget, deviceID string) error
	AddTrackToQueue(ctx context.Context, trackID string) error

	// Браузинг
	BrowseCategories(ctx context.Context) ([]model.Category, error)
	CategoryPlaylists(ctx context.Context, categoryID string) ([]model.Playlist, error)

	// Библиотека пользователя
	UserPlaylists(ctx context.Context) ([]model.Playlist, error)
	FollowedArtists(ctx context.Context) ([]model.Artist, error)
	SavedAlbums(ctx context.Context) ([]model.Album, error)
	SavedTracks(ctx context.Context) ([]model.Track, error)
	TopTracks(ctx context.Context) ([]model.Track, error)
	RecentlyPlayedTracks(ctx context.Context) ([]model.Track, error)

	// Контексты воспроизведения
	PlaylistContext(ctx context.Context, playlistID string) (model.Context, error)
	AlbumContext(ctx context.Context, albumID string) (model.Context, error)
	ArtistContext(ctx context.Context, artistID string) (model.Context, error)

	// Поиск и рекомендации
	Search(ctx context.Context, query string) (model.SearchResults, error)
	Recommendations(ctx context.Context, seed model.SeedItem) ([]model.Track, error)

	// Мутации плейлистов
	AddTrackToPlaylist(ctx context.Context, playlistID, trackID string) error
	RemoveAllPlaylistOccurrences(ctx context.Context, playlistID, trackID string) error

	// Проверки наличия и мутации библиотеки
	SavedTracksContains(ctx context.Context, trackID string) (bool, error)
	AddSavedTrack(ctx context.Context, trackID string) error
	RemoveSavedTrack(ctx context.Context, trackID string) error
	SavedAlbumsContains(ctx context.Context, albumID string) (bool, error)
	AddSavedAlbum(ctx context.Context, albumID string) error
	RemoveSavedAlbum(ctx context.Context, albumID string) error
	FollowsArtist(ctx context.Context, artistID string) (bool, error)
	FollowArtist(ctx context.Context, artistID string) error
	UnfollowArtist(ctx context.Context, artistID string) error
	FollowsPlaylist(ctx context.Context, playlistID, userID string) (bool, error)
	FollowPlaylist(ctx context.Context, playlistID string) error
	UnfollowPlaylist(ctx context.Context, playlistID string) error

	// FetchImage скачивает обложку по URL
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// SessionDevice предоставляет устройство встроенной стриминговой сессии.
// Сессия устанавливается вне этого пакета; фасад лишь добавляет ее
// устройство в кандидаты при поиске доступного устройства.
type SessionDevice interface {
	// DeviceID возвращает идентификатор устройства сессии
	DeviceID() string

	// DeviceName возвращает имя устройства сессии
	DeviceName() string
}
