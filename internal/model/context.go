package model

// ContextKind определяет вид контекста воспроизведения
type ContextKind int

const (
	ContextPlaylist ContextKind = iota
	ContextAlbum
	ContextArtist
)

// String возвращает строковое представление вида контекста
func (k ContextKind) String() string {
	switch k {
	case ContextPlaylist:
		return "playlist"
	case ContextAlbum:
		return "album"
	case ContextArtist:
		return "artist"
	default:
		return "unknown"
	}
}

// ContextID идентифицирует контекст: плейлист, альбом или исполнителя
type ContextID struct {
	Kind ContextKind
	ID   string
}

// URI возвращает Spotify URI контекста, он же отпечаток для кэша контекстов
func (c ContextID) URI() string {
	return "spotify:" + c.Kind.String() + ":" + c.ID
}

// Context объединяет метаданные и список треков контекста.
// Закрытое объединение: ровно один из вариантов реализует интерфейс.
type Context interface {
	ContextURI() string
	isContext()
}

// PlaylistContext содержит плейлист и его полный список треков
type PlaylistContext struct {
	Playlist Playlist
	Tracks   []Track
}

// AlbumContext содержит альбом и его полный список треков
type AlbumContext struct {
	Album  Album
	Tracks []Track
}

// ArtistContext содержит исполнителя, его топ-треки, похожих исполнителей и альбомы
type ArtistContext struct {
	Artist         Artist
	TopTracks      []Track
	RelatedArtists []Artist
	Albums         []Album
}

func (c *PlaylistContext) ContextURI() string { return c.Playlist.URI() }
func (c *AlbumContext) ContextURI() string    { return c.Album.URI() }
func (c *ArtistContext) ContextURI() string   { return c.Artist.URI() }

func (c *PlaylistContext) isContext() {}
func (c *AlbumContext) isContext()    {}
func (c *ArtistContext) isContext()   {}
