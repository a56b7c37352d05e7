package model

// RepeatState представляет режим повтора воспроизведения
type RepeatState string

const (
	RepeatOff     RepeatState = "off"
	RepeatTrack   RepeatState = "track"
	RepeatContext RepeatState = "context"
)

// Next возвращает следующий режим повтора в цикле Off -> Track -> Context -> Off
func (s RepeatState) Next() RepeatState {
	switch s {
	case RepeatOff:
		return RepeatTrack
	case RepeatTrack:
		return RepeatContext
	default:
		return RepeatOff
	}
}

// Playback представляет снимок текущего воспроизведения
type Playback struct {
	DeviceID      string
	DeviceName    string
	IsPlaying     bool
	ShuffleState  bool
	RepeatState   RepeatState
	ProgressMs    int
	VolumePercent int
	Track         *Track
}

// SimplifiedPlayback содержит минимум, необходимый для адресации player-действий
type SimplifiedPlayback struct {
	DeviceID     string
	IsPlaying    bool
	ShuffleState bool
	RepeatState  RepeatState
}

// Simplified возвращает упрощенный снимок воспроизведения
func (p *Playback) Simplified() SimplifiedPlayback {
	return SimplifiedPlayback{
		DeviceID:     p.DeviceID,
		IsPlaying:    p.IsPlaying,
		ShuffleState: p.ShuffleState,
		RepeatState:  p.RepeatState,
	}
}

// CoverURL возвращает URL обложки альбома текущего трека
func (p *Playback) CoverURL() string {
	if p.Track == nil || p.Track.Album == nil {
		return ""
	}
	return p.Track.Album.ImageURL
}

// PlaybackTarget описывает запуск нового воспроизведения:
// либо контекст с опциональным смещением, либо явный список треков
type PlaybackTarget struct {
	Context  *ContextID
	TrackIDs []string
	Offset   *int
}
