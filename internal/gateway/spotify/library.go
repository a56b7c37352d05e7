package spotify

import (
	"context"

	"github.com/zmb3/spotify/v2"
)

const (
	savedAlbumsURL       = "https://api.spotify.com/v1/me/albums"
	playlistFollowersURL = "https://api.spotify.com/v1/playlists/"
)

// AddTrackToPlaylist добавляет трек в плейлист
func (c *Client) AddTrackToPlaylist(ctx context.Context, playlistID, trackID string) error {
	_, err := c.api.AddTracksToPlaylist(ctx, spotify.ID(playlistID), spotify.ID(trackID))
	return classify("add playlist track", err)
}

// RemoveAllPlaylistOccurrences удаляет все вхождения трека из плейлиста
func (c *Client) RemoveAllPlaylistOccurrences(ctx context.Context, playlistID, trackID string) error {
	_, err := c.api.RemoveTracksFromPlaylist(ctx, spotify.ID(playlistID), spotify.ID(trackID))
	return classify("remove playlist track", err)
}

// SavedTracksContains проверяет, сохранен ли трек в библиотеке
func (c *Client) SavedTracksContains(ctx context.Context, trackID string) (bool, error) {
	contains, err := c.api.UserHasTracks(ctx, spotify.ID(trackID))
	if err != nil {
		return false, classify("saved tracks contains", err)
	}
	if len(contains) == 0 {
		return false, contractViolation("saved tracks contains", "empty contains response")
	}
	return contains[0], nil
}

// AddSavedTrack сохраняет трек в библиотеку
func (c *Client) AddSavedTrack(ctx context.Context, trackID string) error {
	return classify("add saved track", c.api.AddTracksToLibrary(ctx, spotify.ID(trackID)))
}

// RemoveSavedTrack удаляет трек из библиотеки
func (c *Client) RemoveSavedTrack(ctx context.Context, trackID string) error {
	return classify("remove saved track", c.api.RemoveTracksFromLibrary(ctx, spotify.ID(trackID)))
}

// SavedAlbumsContains проверяет, сохранен ли альбом в библиотеке.
// Эндпоинт альбомов не покрыт типизированным клиентом, используется
// сырой вызов.
func (c *Client) SavedAlbumsContains(ctx context.Context, albumID string) (bool, error) {
	var contains []bool
	if err := c.fetch.GetJSON(ctx, savedAlbumsURL+"/contains?ids="+albumID, &contains); err != nil {
		return false, err
	}
	if len(contains) == 0 {
		return false, contractViolation("saved albums contains", "empty contains response")
	}
	return contains[0], nil
}

// AddSavedAlbum сохраняет альбом в библиотеку
func (c *Client) AddSavedAlbum(ctx context.Context, albumID string) error {
	return c.fetch.Do(ctx, "PUT", savedAlbumsURL+"?ids="+albumID)
}

// RemoveSavedAlbum удаляет альбом из библиотеки
func (c *Client) RemoveSavedAlbum(ctx context.Context, albumID string) error {
	return c.fetch.Do(ctx, "DELETE", savedAlbumsURL+"?ids="+albumID)
}

// FollowsArtist проверяет подписку на исполнителя
func (c *Client) FollowsArtist(ctx context.Context, artistID string) (bool, error) {
	follows, err := c.api.CurrentUserFollows(ctx, "artist", spotify.ID(artistID))
	if err != nil {
		return false, classify("follows artist", err)
	}
	if len(follows) == 0 {
		return false, contractViolation("follows artist", "empty follows response")
	}
	return follows[0], nil
}

// FollowArtist подписывается на исполнителя
func (c *Client) FollowArtist(ctx context.Context, artistID string) error {
	return classify("follow artist", c.api.FollowArtist(ctx, spotify.ID(artistID)))
}

// UnfollowArtist отписывается от исполнителя
func (c *Client) UnfollowArtist(ctx context.Context, artistID string) error {
	return classify("unfollow artist", c.api.UnfollowArtist(ctx, spotify.ID(artistID)))
}

// FollowsPlaylist проверяет подписку пользователя на плейлист
func (c *Client) FollowsPlaylist(ctx context.Context, playlistID, userID string) (bool, error) {
	var follows []bool
	url := playlistFollowersURL + playlistID + "/followers/contains?ids=" + userID
	if err := c.fetch.GetJSON(ctx, url, &follows); err != nil {
		return false, err
	}
	if len(follows) == 0 {
		return false, contractViolation("follows playlist", "empty follows response")
	}
	return follows[0], nil
}

// FollowPlaylist подписывается на плейлист
func (c *Client) FollowPlaylist(ctx context.Context, playlistID string) error {
	return classify("follow playlist", c.api.FollowPlaylist(ctx, spotify.ID(playlistID), false))
}

// UnfollowPlaylist отписывается от плейлиста
func (c *Client) UnfollowPlaylist(ctx context.Context, playlistID string) error {
	return classify("unfollow playlist", c.api.UnfollowPlaylist(ctx, spotify.ID(playlistID)))
}
