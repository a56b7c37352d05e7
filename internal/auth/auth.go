// Package auth отвечает за авторизацию в Spotify Web API.
//
// Поддерживаются два пути: refresh-токен из конфигурации (основной для
// повторных запусков) и интерактивный OAuth-флоу с локальным callback
// сервером при первом запуске.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"remotify/internal/config"
)

// scopes покрывают все операции приложения: чтение и управление
// воспроизведением, библиотеку, плейлисты и подписки
var scopes = []string{
	spotifyauth.ScopeUserReadPlaybackState,
	spotifyauth.ScopeUserModifyPlaybackState,
	spotifyauth.ScopeUserReadCurrentlyPlaying,
	spotifyauth.ScopeUserReadRecentlyPlayed,
	spotifyauth.ScopeUserTopRead,
	spotifyauth.ScopeUserLibraryRead,
	spotifyauth.ScopeUserLibraryModify,
	spotifyauth.ScopePlaylistReadPrivate,
	spotifyauth.ScopePlaylistReadCollaborative,
	spotifyauth.ScopePlaylistModifyPublic,
	spotifyauth.ScopePlaylistModifyPrivate,
	spotifyauth.ScopeUserFollowRead,
	spotifyauth.ScopeUserFollowModify,
	spotifyauth.ScopeStreaming,
}

// NewClient создает авторизованный клиент Spotify Web API
func NewClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*spotify.Client, error) {
	authenticator := spotifyauth.New(
		spotifyauth.WithClientID(cfg.SpotifyClientID),
		spotifyauth.WithClientSecret(cfg.SpotifyClientSecret),
		spotifyauth.WithRedirectURL(cfg.SpotifyRedirectURI),
		spotifyauth.WithScopes(scopes...))

	token, err := obtainToken(ctx, authenticator, cfg, logger)
	if err != nil {
		return nil, err
	}

	return spotify.New(authenticator.Client(ctx, token), spotify.WithRetry(true)), nil
}

// obtainToken получает токен: по refresh-токену без участия
// пользователя либо через интерактивный OAuth-флоу
func obtainToken(ctx context.Context, authenticator *spotifyauth.Authenticator, cfg *config.Config, logger *zap.Logger) (*oauth2.Token, error) {
	if cfg.SpotifyRefreshToken != "" {
		logger.Debug("Using refresh token from configuration")

		// Просроченный Expiry заставляет oauth2 обменять refresh-токен
		// на свежий access-токен при первом же запросе
		return &oauth2.Token{
			RefreshToken: cfg.SpotifyRefreshToken,
			Expiry:       time.Now().Add(-time.Hour),
		}, nil
	}

	return interactiveLogin(ctx, authenticator, cfg.SpotifyRedirectURI, logger)
}

// interactiveLogin проводит OAuth-флоу с локальным callback сервером.
// Случайный state-нонс защищает callback от подмены.
func interactiveLogin(ctx context.Context, authenticator *spotifyauth.Authenticator, redirectURI string, logger *zap.Logger) (*oauth2.Token, error) {
	redirect, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("parse redirect URI: %w", err)
	}

	stateNonce := uuid.NewString()
	tokenCh := make(chan *oauth2.Token, 1)
	errCh := make(chan error, 1)

	// Отправки неблокирующие: callback может прийти повторно, а сервер
	// может отказать параллельно с ним — важен только первый исход
	deliverErr := func(err error) {
		select {
		case errCh <- err:
		default:
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc(redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		token, err := authenticator.Token(r.Context(), stateNonce, r)
		if err != nil {
			http.Error(w, "Login failed", http.StatusForbidden)
			deliverErr(fmt.Errorf("exchange authorization code: %w", err))
			return
		}

		fmt.Fprintln(w, "Login completed, you can close this window.")
		select {
		case tokenCh <- token:
		default:
		}
	})

	server := &http.Server{Addr: redirect.Host, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			deliverErr(fmt.Errorf("callback server: %w", err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to shut down callback server", zap.Error(err))
		}
	}()

	authURL := authenticator.AuthURL(stateNonce)
	logger.Info("Waiting for login, open the URL in a browser", zap.String("url", authURL))
	fmt.Println("Open the following URL in a browser to log in:")
	fmt.Println(authURL)

	select {
	case token := <-tokenCh:
		logger.Info("Login completed")
		return token, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
