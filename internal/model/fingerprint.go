package model

import (
	"strings"

	"golang.org/x/text/cases"
)

// Отпечатки идентифицируют логический запрос и служат ключами кэшей.
const (
	// TopTracksFingerprint ключ списка топ-треков пользователя в кэше треков
	TopTracksFingerprint = "top-tracks"
	// RecentlyPlayedFingerprint ключ недавно прослушанных треков в кэше треков
	RecentlyPlayedFingerprint = "recently-played-tracks"
	// LikedTracksID псевдо-идентификатор сохраненных треков, хранящихся в UserData
	LikedTracksID = "liked-tracks"
)

var fold = cases.Fold()

// SearchFingerprint нормализует поисковый запрос в ключ кэша результатов поиска.
// Case folding объединяет записи, различающиеся только регистром.
func SearchFingerprint(query string) string {
	return fold.String(strings.TrimSpace(query))
}

// LyricFingerprint строит ключ кэша текстов из названия трека и исполнителей
func LyricFingerprint(track, artists string) string {
	return fold.String(strings.TrimSpace(track + " " + artists))
}

// RecommendationsFingerprint строит ключ кэша треков для рекомендаций по сиду
func RecommendationsFingerprint(seed SeedItem) string {
	return "recommendations::" + seed.URI()
}

// SeedKind определяет вид сида рекомендаций
type SeedKind int

const (
	SeedArtist SeedKind = iota
	SeedTrack
)

// SeedItem представляет сид для запроса рекомендаций
type SeedItem struct {
	Kind   SeedKind
	Artist *Artist
	Track  *Track
}

// URI возвращает URI сущности сида
func (s SeedItem) URI() string {
	switch s.Kind {
	case SeedArtist:
		return s.Artist.URI()
	default:
		return s.Track.URI()
	}
}
