package dispatcher

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"remotify/internal/config"
	"remotify/internal/model"
	"remotify/internal/state"
	"remotify/internal/worker"
)

// fakeAPI записывает вызовы фасада и отдает подготовленные ответы
type fakeAPI struct {
	calls []string

	playback        *model.Playback
	devices         []model.Device
	foundDevice     string
	findDeviceErr   error
	transferErr     error
	user            model.User
	searchResults   model.SearchResults
	tracks          []model.Track
	contains        bool
	follows         bool
	playlistContext model.Context
}

func (f *fakeAPI) record(name string) {
	f.calls = append(f.calls, name)
}

func (f *fakeAPI) count(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) CurrentUser(context.Context) (model.User, error) {
	f.record("current-user")
	return f.user, nil
}

func (f *fakeAPI) Devices(context.Context) ([]model.Device, error) {
	f.record("devices")
	return f.devices, nil
}

func (f *fakeAPI) CurrentPlayback(context.Context) (*model.Playback, error) {
	f.record("current-playback")
	return f.playback, nil
}

func (f *fakeAPI) FindAvailableDevice(context.Context, string) (string, error) {
	f.record("find-available-device")
	return f.foundDevice, f.findDeviceErr
}

func (f *fakeAPI) TransferPlayback(context.Context, string, bool) error {
	f.record("transfer-playback")
	return f.transferErr
}

func (f *fakeAPI) NextTrack(context.Context, string) error {
	f.record("next-track")
	return nil
}

func (f *fakeAPI) PreviousTrack(context.Context, string) error {
	f.record("previous-track")
	return nil
}

func (f *fakeAPI) ResumePlayback(context.Context, string) error {
	f.record("resume-playback")
	return nil
}

func (f *fakeAPI) PausePlayback(context.Context, string) error {
	f.record("pause-playback")
	return nil
}

func (f *fakeAPI) SeekTrack(context.Context, int, string) error {
	f.record("seek-track")
	return nil
}

func (f *fakeAPI) SetRepeat(_ context.Context, s model.RepeatState, _ string) error {
	f.record("set-repeat:" + string(s))
	return nil
}

func (f *fakeAPI) SetShuffle(_ context.Context, shuffle bool, _ string) error {
	if shuffle {
		f.record("set-shuffle:on")
	} else {
		f.record("set-shuffle:off")
	}
	return nil
}

func (f *fakeAPI) SetVolume(context.Context, int, string) error {
	f.record("set-volume")
	return nil
}

func (f *fakeAPI) StartPlayback(context.Context, model.PlaybackTarget, string) error {
	f.record("start-playback")
	return nil
}

func (f *fakeAPI) AddTrackToQueue(context.Context, string) error {
	f.record("queue-track")
	return nil
}

func (f *fakeAPI) BrowseCategories(context.Context) ([]model.Category, error) {
	f.record("browse-categories")
	return nil, nil
}

func (f *fakeAPI) CategoryPlaylists(context.Context, string) ([]model.Playlist, error) {
	f.record("category-playlists")
	return nil, nil
}

func (f *fakeAPI) UserPlaylists(context.Context) ([]model.Playlist, error) {
	f.record("user-playlists")
	return nil, nil
}

func (f *fakeAPI) FollowedArtists(context.Context) ([]model.Artist, error) {
	f.record("followed-artists")
	return nil, nil
}

func (f *fakeAPI) SavedAlbums(context.Context) ([]model.Album, error) {
	f.record("saved-albums")
	return nil, nil
}

func (f *fakeAPI) SavedTracks(context.Context) ([]model.Track, error) {
	f.record("saved-tracks")
	return f.tracks, nil
}

func (f *fakeAPI) TopTracks(context.Context) ([]model.Track, error) {
	f.record("top-tracks")
	return f.tracks, nil
}

func (f *fakeAPI) RecentlyPlayedTracks(context.Context) ([]model.Track, error) {
	f.record("recently-played")
	return f.tracks, nil
}

func (f *fakeAPI) PlaylistContext(context.Context, string) (model.Context, error) {
	f.record("playlist-context")
	return f.playlistContext, nil
}

func (f *fakeAPI) AlbumContext(context.Context, string) (model.Context, error) {
	f.record("album-context")
	return &model.AlbumContext{}, nil
}

func (f *fakeAPI) ArtistContext(context.Context, string) (model.Context, error) {
	f.record("artist-context")
	return &model.ArtistContext{}, nil
}

func (f *fakeAPI) Search(context.Context, string) (model.SearchResults, error) {
	f.record("search")
	return f.searchResults, nil
}

func (f *fakeAPI) Recommendations(context.Context, model.SeedItem) ([]model.Track, error) {
	f.record("recommendations")
	return f.tracks, nil
}

func (f *fakeAPI) AddTrackToPlaylist(context.Context, string, string) error {
	f.record("add-playlist-track")
	return nil
}

func (f *fakeAPI) RemoveAllPlaylistOccurrences(context.Context, string, string) error {
	f.record("remove-playlist-track")
	return nil
}

func (f *fakeAPI) SavedTracksContains(context.Context, string) (bool, error) {
	f.record("saved-tracks-contains")
	return f.contains, nil
}

func (f *fakeAPI) AddSavedTrack(context.Context, string) error {
	f.record("add-saved-track")
	return nil
}

func (f *fakeAPI) RemoveSavedTrack(context.Context, string) error {
	f.record("remove-saved-track")
	return nil
}

func (f *fakeAPI) SavedAlbumsContains(context.Context, string) (bool, error) {
	f.record("saved-albums-contains")
	return f.contains, nil
}

func (f *fakeAPI) AddSavedAlbum(context.Context, string) error {
	f.record("add-saved-album")
	return nil
}

func (f *fakeAPI) RemoveSavedAlbum(context.Context, string) error {
	f.record("remove-saved-album")
	return nil
}

func (f *fakeAPI) FollowsArtist(context.Context, string) (bool, error) {
	f.record("follows-artist")
	return f.follows, nil
}

func (f *fakeAPI) FollowArtist(context.Context, string) error {
	f.record("follow-artist")
	return nil
}

func (f *fakeAPI) UnfollowArtist(context.Context, string) error {
	f.record("unfollow-artist")
	return nil
}

func (f *fakeAPI) FollowsPlaylist(context.Context, string, string) (bool, error) {
	f.record("follows-playlist")
	return f.follows, nil
}

func (f *fakeAPI) FollowPlaylist(context.Context, string) error {
	f.record("follow-playlist")
	return nil
}

func (f *fakeAPI) UnfollowPlaylist(context.Context, string) error {
	f.record("unfollow-playlist")
	return nil
}

func (f *fakeAPI) FetchImage(context.Context, string) ([]byte, error) {
	f.record("fetch-image")
	return nil, errors.New("no image")
}

// fakeLyrics отдает подготовленный текст
type fakeLyrics struct {
	calls int
	lyric model.Lyric
	err   error
}

func (f *fakeLyrics) Get(context.Context, string) (model.Lyric, error) {
	f.calls++
	return f.lyric, f.err
}

// fakePool собирает задачи без выполнения
type fakePool struct {
	jobs []worker.Job
}

func (p *fakePool) Start()               {}
func (p *fakePool) Stop()                {}
func (p *fakePool) ProcessedJobs() int64 { return 0 }
func (p *fakePool) FailedJobs() int64    { return 0 }

func (p *fakePool) Submit(j worker.Job) error {
	p.jobs = append(p.jobs, j)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultDevice:      "living-room",
		CacheCapacity:      8,
		ConnectMaxAttempts: 3,
		ConnectDelay:       0,
		RefreshRounds:      1,
		RefreshDelay:       0,
		CoverArtSize:       64,
	}
}

func newTestDispatcher() (*Dispatcher, *fakeAPI, *fakeLyrics, *fakePool, *state.State) {
	api := &fakeAPI{}
	lyr := &fakeLyrics{}
	pool := &fakePool{}
	st := state.New(8)
	d := New(api, lyr, pool, st, testConfig(), zap.NewNop())
	return d, api, lyr, pool, st
}

func TestPlayerActionRequiresActivePlayback(t *testing.T) {
	d, api, _, _, _ := newTestDispatcher()

	err := d.Handle(context.Background(), Player{Action: NextTrack{}})
	if !errors.Is(err, ErrNoActivePlayback) {
		t.Fatalf("Expected ErrNoActivePlayback, got %v", err)
	}
	if len(api.calls) != 0 {
		t.Errorf("Expected no remote calls, got %v", api.calls)
	}
}

func TestTransferPlaybackAllowedWithoutPlayback(t *testing.T) {
	d, api, _, pool, _ := newTestDispatcher()

	err := d.Handle(context.Background(), Player{Action: TransferPlayback{DeviceID: "d2"}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if api.count("transfer-playback") != 1 {
		t.Errorf("Expected exactly one transfer call, got %v", api.calls)
	}
	if len(pool.jobs) != 1 {
		t.Errorf("Expected a scheduled playback refresh, got %d jobs", len(pool.jobs))
	}
}

func TestResumePauseTogglesOnSnapshot(t *testing.T) {
	d, api, _, _, st := newTestDispatcher()

	st.Player.SetPlayback(&model.Playback{DeviceID: "d1", IsPlaying: true})
	if err := d.Handle(context.Background(), Player{Action: ResumePause{}}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if api.count("pause-playback") != 1 {
		t.Errorf("Expected a pause call while playing, got %v", api.calls)
	}

	st.Player.SetPlayback(&model.Playback{DeviceID: "d1", IsPlaying: false})
	if err := d.Handle(context.Background(), Player{Action: ResumePause{}}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if api.count("resume-playback") != 1 {
		t.Errorf("Expected a resume call while paused, got %v", api.calls)
	}
}

func TestCycleRepeatAdvancesState(t *testing.T) {
	d, api, _, _, st := newTestDispatcher()

	st.Player.SetPlayback(&model.Playback{DeviceID: "d1", RepeatState: model.RepeatTrack})
	if err := d.Handle(context.Background(), Player{Action: CycleRepeat{}}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if api.count("set-repeat:context") != 1 {
		t.Errorf("Expected repeat to advance track -> context, got %v", api.calls)
	}
}

func TestStartPlaybackReappliesShuffle(t *testing.T) {
	d, api, _, _, st := newTestDispatcher()

	st.Player.SetPlayback(&model.Playback{DeviceID: "d1", ShuffleState: true})
	err := d.Handle(context.Background(), Player{Action: StartPlayback{
		Target: model.PlaybackTarget{TrackIDs: []string{"t1"}},
	}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if api.count("start-playback") != 1 {
		t.Errorf("Expected one start call, got %v", api.calls)
	}
	if api.count("set-shuffle:on") != 1 {
		t.Errorf("Expected shuffle to be reapplied, got %v", api.calls)
	}
}

func TestConnectDeviceFindsAvailableDevice(t *testing.T) {
	d, api, _, pool, _ := newTestDispatcher()
	api.foundDevice = "d1"

	if err := d.Handle(context.Background(), ConnectDevice{}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if api.count("find-available-device") != 1 {
		t.Errorf("Expected a single device lookup, got %v", api.calls)
	}
	if api.count("transfer-playback") != 1 {
		t.Errorf("Expected a single transfer, got %v", api.calls)
	}
	if len(pool.jobs) != 1 {
		t.Errorf("Expected a scheduled playback refresh, got %d jobs", len(pool.jobs))
	}
}

func TestConnectDeviceGivesUpWithoutError(t *testing.T) {
	d, api, _, pool, _ := newTestDispatcher()
	api.findDeviceErr = errors.New("unavailable")

	// Исчерпание попыток не считается ошибкой запроса
	if err := d.Handle(context.Background(), ConnectDevice{}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := api.count("find-available-device"); got != 3 {
		t.Errorf("Expected 3 lookup attempts, got %d", got)
	}
	if len(pool.jobs) != 0 {
		t.Errorf("Expected no scheduled refresh, got %d jobs", len(pool.jobs))
	}
}

func TestSearchCachesResults(t *testing.T) {
	d, api, _, _, st := newTestDispatcher()

	if err := d.Handle(context.Background(), Search{Query: "Daft Punk"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if api.count("search") != 1 {
		t.Errorf("Expected one search call, got %v", api.calls)
	}

	var cached bool
	st.Data.Read(func(data *state.AppData) {
		cached = data.Caches.Search.Contains(model.SearchFingerprint("Daft Punk"))
	})
	if !cached {
		t.Error("Expected search results to be cached")
	}

	// Повторный запрос, отличающийся регистром, не ходит в сеть
	if err := d.Handle(context.Background(), Search{Query: "daft punk"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if api.count("search") != 1 {
		t.Errorf("Expected cache hit without a second search call, got %v", api.calls)
	}
}

func TestGetLyricCachesResult(t *testing.T) {
	d, api, lyr, _, _ := newTestDispatcher()
	lyr.lyric = model.Lyric{Title: "Song", Text: "la la"}

	req := GetLyric{Track: "Song", Artists: "Band"}
	if err := d.Handle(context.Background(), req); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := d.Handle(context.Background(), req); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if lyr.calls != 1 {
		t.Errorf("Expected one lyrics fetch, got %d", lyr.calls)
	}
	if len(api.calls) != 0 {
		t.Errorf("Expected no API calls for lyrics, got %v", api.calls)
	}
}

func TestGetContextCachesByURI(t *testing.T) {
	d, api, _, _, _ := newTestDispatcher()
	api.playlistContext = &model.PlaylistContext{Playlist: model.Playlist{ID: "p1"}}

	id := model.ContextID{Kind: model.ContextPlaylist, ID: "p1"}
	if err := d.Handle(context.Background(), GetContext{ID: id}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := d.Handle(context.Background(), GetContext{ID: id}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if api.count("playlist-context") != 1 {
		t.Errorf("Expected one context fetch, got %v", api.calls)
	}
}

func TestAddTrackToPlaylistEvictsCachedContext(t *testing.T) {
	d, api, _, _, st := newTestDispatcher()

	uri := model.ContextID{Kind: model.ContextPlaylist, ID: "p1"}.URI()
	st.Data.Update(func(data *state.AppData) {
		data.Caches.Context.Put(uri, &model.PlaylistContext{
			Playlist: model.Playlist{ID: "p1"},
			Tracks:   []model.Track{{ID: "t1"}},
		})
	})

	if err := d.Handle(context.Background(), AddTrackToPlaylist{PlaylistID: "p1", TrackID: "t2"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if api.count("remove-playlist-track") != 1 || api.count("add-playlist-track") != 1 {
		t.Errorf("Expected remove then add, got %v", api.calls)
	}

	st.Data.Read(func(data *state.AppData) {
		if data.Caches.Context.Contains(uri) {
			t.Error("Expected cached playlist context to be evicted")
		}
	})
}

func TestDeleteTrackFromPlaylistPatchesCachedContext(t *testing.T) {
	d, api, _, _, st := newTestDispatcher()

	uri := model.ContextID{Kind: model.ContextPlaylist, ID: "p1"}.URI()
	st.Data.Update(func(data *state.AppData) {
		data.Caches.Context.Put(uri, &model.PlaylistContext{
			Playlist: model.Playlist{ID: "p1"},
			Tracks:   []model.Track{{ID: "t1"}, {ID: "t2"}, {ID: "t1"}},
		})
	})

	if err := d.Handle(context.Background(), DeleteTrackFromPlaylist{PlaylistID: "p1", TrackID: "t1"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if api.count("remove-playlist-track") != 1 {
		t.Errorf("Expected one remove call, got %v", api.calls)
	}

	st.Data.Read(func(data *state.AppData) {
		cached, ok := data.Caches.Context.Peek(uri)
		if !ok {
			t.Fatal("Expected cached playlist context to survive")
		}
		playlist := cached.(*model.PlaylistContext)
		if len(playlist.Tracks) != 1 || playlist.Tracks[0].ID != "t2" {
			t.Errorf("Expected all occurrences removed from cached tracks, got %+v", playlist.Tracks)
		}
	})
}

func TestAddToLibrarySkipsWhenAlreadySaved(t *testing.T) {
	d, api, _, _, st := newTestDispatcher()
	api.contains = true

	track := &model.Track{ID: "t1", Name: "Song"}
	if err := d.Handle(context.Background(), AddToLibrary{Item: Item{Kind: ItemTrack, Track: track}}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if api.count("saved-tracks-contains") != 1 {
		t.Errorf("Expected a contains check, got %v", api.calls)
	}
	if api.count("add-saved-track") != 0 {
		t.Errorf("Expected no add call for an already saved track, got %v", api.calls)
	}

	st.Data.Read(func(data *state.AppData) {
		if len(data.UserData.SavedTracks) != 0 {
			t.Errorf("Expected local state untouched, got %+v", data.UserData.SavedTracks)
		}
	})
}

func TestAddToLibraryInsertsAtFront(t *testing.T) {
	d, api, _, _, st := newTestDispatcher()

	st.Data.Update(func(data *state.AppData) {
		data.UserData.SavedTracks = []model.Track{{ID: "old"}}
	})

	track := &model.Track{ID: "t1", Name: "Song"}
	if err := d.Handle(context.Background(), AddToLibrary{Item: Item{Kind: ItemTrack, Track: track}}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if api.count("add-saved-track") != 1 {
		t.Errorf("Expected one add call, got %v", api.calls)
	}

	st.Data.Read(func(data *state.AppData) {
		tracks := data.UserData.SavedTracks
		if len(tracks) != 2 || tracks[0].ID != "t1" || tracks[1].ID != "old" {
			t.Errorf("Expected new track at the front, got %+v", tracks)
		}
	})
}

func TestFollowPlaylistRequiresKnownUser(t *testing.T) {
	d, api, _, _, _ := newTestDispatcher()

	playlist := &model.Playlist{ID: "p1"}
	if err := d.Handle(context.Background(), AddToLibrary{Item: Item{Kind: ItemPlaylist, Playlist: playlist}}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(api.calls) != 0 {
		t.Errorf("Expected no remote calls without a known user, got %v", api.calls)
	}
}

func TestDeleteFromLibraryFiltersLocalState(t *testing.T) {
	d, api, _, _, st := newTestDispatcher()

	st.Data.Update(func(data *state.AppData) {
		data.UserData.FollowedArtists = []model.Artist{{ID: "a1"}, {ID: "a2"}}
	})

	if err := d.Handle(context.Background(), DeleteFromLibrary{ItemID: ItemID{Kind: ItemArtist, ID: "a1"}}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if api.count("unfollow-artist") != 1 {
		t.Errorf("Expected one unfollow call, got %v", api.calls)
	}

	st.Data.Read(func(data *state.AppData) {
		artists := data.UserData.FollowedArtists
		if len(artists) != 1 || artists[0].ID != "a2" {
			t.Errorf("Expected a1 filtered out, got %+v", artists)
		}
	})
}

func TestGetUserTopTracksCachedOnce(t *testing.T) {
	d, api, _, _, _ := newTestDispatcher()
	api.tracks = []model.Track{{ID: "t1"}}

	if err := d.Handle(context.Background(), GetUserTopTracks{}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := d.Handle(context.Background(), GetUserTopTracks{}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if api.count("top-tracks") != 1 {
		t.Errorf("Expected one top tracks fetch, got %v", api.calls)
	}
}

func TestGetCurrentPlaybackUpdatesSnapshot(t *testing.T) {
	d, api, _, _, st := newTestDispatcher()
	api.playback = &model.Playback{DeviceID: "d1", IsPlaying: true}

	if err := d.Handle(context.Background(), GetCurrentPlayback{}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	simplified, ok := st.Player.Simplified()
	if !ok || simplified.DeviceID != "d1" {
		t.Errorf("Expected snapshot to be updated, got %+v, %v", simplified, ok)
	}
}
