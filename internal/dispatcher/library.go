package dispatcher

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"remotify/internal/model"
	"remotify/internal/state"
)

// handleAddTrackToPlaylist добавляет трек в плейлист без дублей:
// прежние вхождения снимаются перед добавлением. Закэшированный
// контекст плейлиста после мутации недостоверен и вытесняется.
func (d *Dispatcher) handleAddTrackToPlaylist(ctx context.Context, log *zap.Logger, playlistID, trackID string) error {
	if err := d.api.RemoveAllPlaylistOccurrences(ctx, playlistID, trackID); err != nil {
		return err
	}

	if err := d.api.AddTrackToPlaylist(ctx, playlistID, trackID); err != nil {
		return err
	}

	uri := model.ContextID{Kind: model.ContextPlaylist, ID: playlistID}.URI()
	d.state.Data.Update(func(data *state.AppData) {
		data.Caches.Context.Delete(uri)
	})

	log.Debug("Track added to playlist",
		zap.String("playlist_id", playlistID),
		zap.String("track_id", trackID))
	return nil
}

// handleDeleteTrackFromPlaylist удаляет все вхождения трека из плейлиста.
// Результат удаления однозначен, поэтому закэшированный контекст не
// вытесняется, а правится на месте.
func (d *Dispatcher) handleDeleteTrackFromPlaylist(ctx context.Context, log *zap.Logger, playlistID, trackID string) error {
	if err := d.api.RemoveAllPlaylistOccurrences(ctx, playlistID, trackID); err != nil {
		return err
	}

	uri := model.ContextID{Kind: model.ContextPlaylist, ID: playlistID}.URI()
	d.state.Data.Update(func(data *state.AppData) {
		cached, ok := data.Caches.Context.Peek(uri)
		if !ok {
			return
		}

		playlist, ok := cached.(*model.PlaylistContext)
		if !ok {
			return
		}
		playlist.Tracks = withoutTrack(playlist.Tracks, trackID)
	})

	log.Debug("Track removed from playlist",
		zap.String("playlist_id", playlistID),
		zap.String("track_id", trackID))
	return nil
}

// handleAddToLibrary добавляет сущность в библиотеку пользователя.
// Сначала проверяется наличие: повторное добавление не делает сетевой
// мутации. Локальное состояние меняется только после успеха удаленной.
func (d *Dispatcher) handleAddToLibrary(ctx context.Context, log *zap.Logger, item Item) error {
	switch item.Kind {
	case ItemTrack:
		return d.addSavedTrack(ctx, log, item.Track)
	case ItemAlbum:
		return d.addSavedAlbum(ctx, log, item.Album)
	case ItemArtist:
		return d.followArtist(ctx, log, item.Artist)
	case ItemPlaylist:
		return d.followPlaylist(ctx, log, item.Playlist)
	default:
		return fmt.Errorf("unknown library item kind %q", item.Kind)
	}
}

func (d *Dispatcher) addSavedTrack(ctx context.Context, log *zap.Logger, track *model.Track) error {
	contains, err := d.api.SavedTracksContains(ctx, track.ID)
	if err != nil {
		return err
	}
	if contains {
		log.Debug("Track already saved", zap.String("track_id", track.ID))
		return nil
	}

	if err := d.api.AddSavedTrack(ctx, track.ID); err != nil {
		return err
	}

	d.state.Data.Update(func(data *state.AppData) {
		data.UserData.SavedTracks = append([]model.Track{*track}, data.UserData.SavedTracks...)
	})
	return nil
}

func (d *Dispatcher) addSavedAlbum(ctx context.Context, log *zap.Logger, album *model.Album) error {
	contains, err := d.api.SavedAlbumsContains(ctx, album.ID)
	if err != nil {
		return err
	}
	if contains {
		log.Debug("Album already saved", zap.String("album_id", album.ID))
		return nil
	}

	if err := d.api.AddSavedAlbum(ctx, album.ID); err != nil {
		return err
	}

	d.state.Data.Update(func(data *state.AppData) {
		data.UserData.SavedAlbums = append([]model.Album{*album}, data.UserData.SavedAlbums...)
	})
	return nil
}

func (d *Dispatcher) followArtist(ctx context.Context, log *zap.Logger, artist *model.Artist) error {
	follows, err := d.api.FollowsArtist(ctx, artist.ID)
	if err != nil {
		return err
	}
	if follows {
		log.Debug("Artist already followed", zap.String("artist_id", artist.ID))
		return nil
	}

	if err := d.api.FollowArtist(ctx, artist.ID); err != nil {
		return err
	}

	d.state.Data.Update(func(data *state.AppData) {
		data.UserData.FollowedArtists = append([]model.Artist{*artist}, data.UserData.FollowedArtists...)
	})
	return nil
}

func (d *Dispatcher) followPlaylist(ctx context.Context, log *zap.Logger, playlist *model.Playlist) error {
	var userID string
	d.state.Data.Read(func(data *state.AppData) {
		if data.UserData.User != nil {
			userID = data.UserData.User.ID
		}
	})

	// Проверка подписки требует идентификатор пользователя
	if userID == "" {
		log.Debug("Current user is unknown, skipping playlist follow",
			zap.String("playlist_id", playlist.ID))
		return nil
	}

	follows, err := d.api.FollowsPlaylist(ctx, playlist.ID, userID)
	if err != nil {
		return err
	}
	if follows {
		log.Debug("Playlist already followed", zap.String("playlist_id", playlist.ID))
		return nil
	}

	if err := d.api.FollowPlaylist(ctx, playlist.ID); err != nil {
		return err
	}

	d.state.Data.Update(func(data *state.AppData) {
		data.UserData.Playlists = append([]model.Playlist{*playlist}, data.UserData.Playlists...)
	})
	return nil
}

// handleDeleteFromLibrary удаляет сущность из библиотеки пользователя.
// Локальный список правится после подтверждения удаленной мутации:
// состояние никогда не опережает сервис.
func (d *Dispatcher) handleDeleteFromLibrary(ctx context.Context, log *zap.Logger, id ItemID) error {
	switch id.Kind {
	case ItemTrack:
		if err := d.api.RemoveSavedTrack(ctx, id.ID); err != nil {
			return err
		}
		d.state.Data.Update(func(data *state.AppData) {
			data.UserData.SavedTracks = withoutTrack(data.UserData.SavedTracks, id.ID)
		})
	case ItemAlbum:
		if err := d.api.RemoveSavedAlbum(ctx, id.ID); err != nil {
			return err
		}
		d.state.Data.Update(func(data *state.AppData) {
			kept := data.UserData.SavedAlbums[:0]
			for _, a := range data.UserData.SavedAlbums {
				if a.ID != id.ID {
					kept = append(kept, a)
				}
			}
			data.UserData.SavedAlbums = kept
		})
	case ItemArtist:
		if err := d.api.UnfollowArtist(ctx, id.ID); err != nil {
			return err
		}
		d.state.Data.Update(func(data *state.AppData) {
			kept := data.UserData.FollowedArtists[:0]
			for _, a := range data.UserData.FollowedArtists {
				if a.ID != id.ID {
					kept = append(kept, a)
				}
			}
			data.UserData.FollowedArtists = kept
		})
	case ItemPlaylist:
		if err := d.api.UnfollowPlaylist(ctx, id.ID); err != nil {
			return err
		}
		d.state.Data.Update(func(data *state.AppData) {
			kept := data.UserData.Playlists[:0]
			for _, p := range data.UserData.Playlists {
				if p.ID != id.ID {
					kept = append(kept, p)
				}
			}
			data.UserData.Playlists = kept
		})
	default:
		return fmt.Errorf("unknown library item kind %q", id.Kind)
	}

	log.Debug("Library item removed",
		zap.String("item_kind", id.Kind.String()),
		zap.String("item_id", id.ID))
	return nil
}

// withoutTrack возвращает список без всех вхождений трека
func withoutTrack(tracks []model.Track, trackID string) []model.Track {
	kept := tracks[:0]
	for _, t := range tracks {
		if t.ID != trackID {
			kept = append(kept, t)
		}
	}
	return kept
}
