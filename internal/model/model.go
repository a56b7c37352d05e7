// Package model содержит внутренние сущности приложения и преобразования
// из типов Spotify Web API.
package model

// Artist представляет исполнителя
type Artist struct {
	ID   string
	Name string
}

// Album представляет альбом или сингл
type Album struct {
	ID          string
	Name        string
	ReleaseDate string
	Artists     []Artist
	ImageURL    string
}

// Track представляет трек
type Track struct {
	ID         string
	Name       string
	Artists    []Artist
	Album      *Album
	DurationMs int
}

// Playlist представляет плейлист
type Playlist struct {
	ID            string
	Name          string
	OwnerID       string
	OwnerName     string
	Collaborative bool
}

// Category представляет браузинг-категорию Spotify
type Category struct {
	ID   string
	Name string
}

// Device представляет устройство воспроизведения
type Device struct {
	ID            string
	Name          string
	Active        bool
	VolumePercent int
}

// User представляет текущего пользователя
type User struct {
	ID          string
	DisplayName string
}

// SearchResults содержит результаты поиска по четырем категориям
type SearchResults struct {
	Tracks    []Track
	Artists   []Artist
	Albums    []Album
	Playlists []Playlist
}

// Lyric содержит найденный текст трека
type Lyric struct {
	Title   string
	Artists string
	Text    string
}

// URI возвращает Spotify URI исполнителя
func (a Artist) URI() string { return "spotify:artist:" + a.ID }

// URI возвращает Spotify URI альбома
func (a Album) URI() string { return "spotify:album:" + a.ID }

// URI возвращает Spotify URI трека
func (t Track) URI() string { return "spotify:track:" + t.ID }

// URI возвращает Spotify URI плейлиста
func (p Playlist) URI() string { return "spotify:playlist:" + p.ID }
