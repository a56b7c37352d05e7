package model

import (
	"github.com/zmb3/spotify/v2"
)

// Преобразования типов zmb3/spotify в внутренние сущности.
// Локальные треки и альбомы без идентификатора отбрасываются.

// ArtistFromSimple преобразует spotify.SimpleArtist
func ArtistFromSimple(a spotify.SimpleArtist) Artist {
	return Artist{ID: string(a.ID), Name: a.Name}
}

// ArtistFromFull преобразует spotify.FullArtist
func ArtistFromFull(a spotify.FullArtist) Artist {
	return ArtistFromSimple(a.SimpleArtist)
}

// ArtistsFromSimple преобразует список spotify.SimpleArtist
func ArtistsFromSimple(artists []spotify.SimpleArtist) []Artist {
	out := make([]Artist, 0, len(artists))
	for _, a := range artists {
		out = append(out, ArtistFromSimple(a))
	}
	return out
}

// AlbumFromSimple преобразует spotify.SimpleAlbum.
// Возвращает false для альбомов без идентификатора или даты релиза.
func AlbumFromSimple(a spotify.SimpleAlbum) (Album, bool) {
	if a.ID == "" || a.ReleaseDate == "" {
		return Album{}, false
	}

	return Album{
		ID:          string(a.ID),
		Name:        a.Name,
		ReleaseDate: a.ReleaseDate,
		Artists:     ArtistsFromSimple(a.Artists),
		ImageURL:    imageURL(a.Images),
	}, true
}

// TrackFromFull преобразует spotify.FullTrack.
// Возвращает false для локальных треков без идентификатора.
func TrackFromFull(t spotify.FullTrack) (Track, bool) {
	if t.ID == "" {
		return Track{}, false
	}

	track := Track{
		ID:         string(t.ID),
		Name:       t.Name,
		Artists:    ArtistsFromSimple(t.Artists),
		DurationMs: int(t.Duration),
	}

	if album, ok := AlbumFromSimple(t.Album); ok {
		track.Album = &album
	}

	return track, true
}

// TrackFromSimple преобразует spotify.SimpleTrack.
// Упрощенный трек не содержит альбома: его при необходимости
// заполняет вызывающая сторона.
func TrackFromSimple(t spotify.SimpleTrack) (Track, bool) {
	if t.ID == "" {
		return Track{}, false
	}

	return Track{
		ID:         string(t.ID),
		Name:       t.Name,
		Artists:    ArtistsFromSimple(t.Artists),
		DurationMs: int(t.Duration),
	}, true
}

// PlaylistFromSimple преобразует spotify.SimplePlaylist
func PlaylistFromSimple(p spotify.SimplePlaylist) Playlist {
	return Playlist{
		ID:            string(p.ID),
		Name:          p.Name,
		OwnerID:       p.Owner.ID,
		OwnerName:     p.Owner.DisplayName,
		Collaborative: p.Collaborative,
	}
}

// PlaylistFromFull преобразует spotify.FullPlaylist
func PlaylistFromFull(p *spotify.FullPlaylist) Playlist {
	return PlaylistFromSimple(p.SimplePlaylist)
}

// DeviceFrom преобразует spotify.PlayerDevice
func DeviceFrom(d spotify.PlayerDevice) Device {
	return Device{
		ID:            string(d.ID),
		Name:          d.Name,
		Active:        d.Active,
		VolumePercent: int(d.Volume),
	}
}

// UserFrom преобразует spotify.PrivateUser
func UserFrom(u *spotify.PrivateUser) User {
	return User{ID: u.ID, DisplayName: u.DisplayName}
}

// CategoryFrom строит категорию браузинга
func CategoryFrom(id, name string) Category {
	return Category{ID: id, Name: name}
}

// PlaybackFromState преобразует spotify.PlayerState в снимок воспроизведения.
// Возвращает nil при отсутствии активного воспроизведения.
func PlaybackFromState(ps *spotify.PlayerState) *Playback {
	if ps == nil || ps.Device.ID == "" {
		return nil
	}

	playback := &Playback{
		DeviceID:      string(ps.Device.ID),
		DeviceName:    ps.Device.Name,
		IsPlaying:     ps.Playing,
		ShuffleState:  ps.ShuffleState,
		RepeatState:   RepeatState(ps.RepeatState),
		ProgressMs:    int(ps.Progress),
		VolumePercent: int(ps.Device.Volume),
	}

	if ps.Item != nil {
		if track, ok := TrackFromFull(*ps.Item); ok {
			playback.Track = &track
		}
	}

	return playback
}

// imageURL выбирает URL первой (самой крупной) обложки
func imageURL(images []spotify.Image) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}
