package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mauriceverhoeven/zoneos/internal/api"
	"github.com/mauriceverhoeven/zoneos/internal/apperrors"
	"github.com/mauriceverhoeven/zoneos/internal/sonos"
)

type playFavoriteRequest struct {
	Speaker  *string `json:"speaker"`
	Favorite *string `json:"favorite"`
}

type playFavoriteIndexRequest struct {
	Index *int `json:"index"`
}

type controlRequest struct {
	Speaker *string `json:"speaker"`
	Action  *string `json:"action"`
}

type playURIRequest struct {
	Speaker *string `json:"speaker"`
	URI     *string `json:"uri"`
}

type volumeRequest struct {
	Speaker *string `json:"speaker"`
	Volume  *int    `json:"volume"`
}

type groupRequest struct {
	Speakers *[]string `json:"speakers"`
}

// RegisterRoutes wires the /api surface to the controller. Every route
// answers 503 until discovery has populated the registry.
func RegisterRoutes(router chi.Router, ctrl *Controller) {
	router.Route("/api", func(r chi.Router) {
		r.Use(requireReady(ctrl))

		r.Method(http.MethodGet, "/speakers", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
			return api.WriteJSON(w, http.StatusOK, map[string]any{
				"speakers": ctrl.ListSpeakers(),
			})
		}))

		r.Method(http.MethodGet, "/speaker/volume/{name}", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
			name := chi.URLParam(r, "name")
			volume, err := ctrl.GetVolume(r.Context(), name)
			if err != nil {
				return err
			}
			return api.WriteJSON(w, http.StatusOK, map[string]any{
				"speaker": name,
				"volume":  volume,
			})
		}))

		r.Method(http.MethodPost, "/volume", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
			var req volumeRequest
			if err := decodeJSON(r, &req); err != nil {
				return err
			}
			if req.Speaker == nil || req.Volume == nil {
				return apperrors.NewValidationError("Missing 'speaker' or 'volume' field")
			}
			if err := ctrl.SetVolume(r.Context(), *req.Speaker, *req.Volume); err != nil {
				return err
			}
			return api.WriteOK(w, fmt.Sprintf("Set volume to %d on %s", *req.Volume, *req.Speaker))
		}))

		r.Method(http.MethodPost, "/control", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
			var req controlRequest
			if err := decodeJSON(r, &req); err != nil {
				return err
			}
			if req.Speaker == nil || req.Action == nil {
				return apperrors.NewValidationError("Missing 'speaker' or 'action' field")
			}
			if err := ctrl.Control(r.Context(), *req.Speaker, *req.Action); err != nil {
				return err
			}
			return api.WriteOK(w, fmt.Sprintf("Executed %s on %s", *req.Action, *req.Speaker))
		}))

		r.Method(http.MethodPost, "/play-uri", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
			var req playURIRequest
			if err := decodeJSON(r, &req); err != nil {
				return err
			}
			if req.Speaker == nil || req.URI == nil {
				return apperrors.NewValidationError("Missing 'speaker' or 'uri' field")
			}
			if err := ctrl.PlayURI(r.Context(), *req.Speaker, *req.URI); err != nil {
				return err
			}
			return api.WriteOK(w, "Playing URI on "+*req.Speaker)
		}))

		r.Method(http.MethodPost, "/play-favorite", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
			var req playFavoriteRequest
			if err := decodeJSON(r, &req); err != nil {
				return err
			}
			if req.Speaker == nil || req.Favorite == nil {
				return apperrors.NewValidationError("Missing 'speaker' or 'favorite' field")
			}
			if err := ctrl.PlayFavorite(r.Context(), *req.Speaker, *req.Favorite); err != nil {
				return err
			}
			return api.WriteOK(w, fmt.Sprintf("Playing %s on %s", *req.Favorite, *req.Speaker))
		}))

		r.Method(http.MethodPost, "/play-favorite-index", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
			var req playFavoriteIndexRequest
			if err := decodeJSON(r, &req); err != nil {
				return err
			}
			if req.Index == nil {
				return apperrors.NewValidationError("Missing 'index' field")
			}
			if *req.Index < 1 {
				return apperrors.NewValidationError("Index must be a positive integer")
			}
			if err := ctrl.PlayFavoriteIndex(r.Context(), *req.Index); err != nil {
				return err
			}
			return api.WriteOK(w, fmt.Sprintf("Playing favorite #%d on group", *req.Index))
		}))

		r.Method(http.MethodPost, "/play-next-favorite", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
			index, err := ctrl.PlayNextFavorite(r.Context())
			if err != nil {
				return err
			}
			return api.WriteOK(w, fmt.Sprintf("Playing favorite #%d on group", index))
		}))

		r.Method(http.MethodGet, "/favorites", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
			favorites := ctrl.ListFavorites()
			if favorites == nil {
				favorites = []sonos.Favorite{}
			}
			return api.WriteJSON(w, http.StatusOK, map[string]any{
				"favorites": favorites,
			})
		}))

		r.Method(http.MethodPost, "/favorites/refresh", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
			count, err := ctrl.RefreshFavorites(r.Context())
			if err != nil {
				return err
			}
			return api.WriteOK(w, fmt.Sprintf("Refreshed %d favorites", count))
		}))

		r.Method(http.MethodPost, "/group", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
			var req groupRequest
			if err := decodeJSON(r, &req); err != nil {
				return err
			}
			if req.Speakers == nil {
				return apperrors.NewValidationError("Missing 'speakers' field")
			}
			if len(*req.Speakers) == 0 {
				return apperrors.NewValidationError("'speakers' must be a non-empty list")
			}
			if err := ctrl.SetGroup(r.Context(), *req.Speakers); err != nil {
				return err
			}
			return api.WriteOK(w, fmt.Sprintf("Group created with %d speakers", len(*req.Speakers)))
		}))

		r.Method(http.MethodGet, "/group-status", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
			status, err := ctrl.GroupStatus(r.Context())
			if err != nil {
				return err
			}
			if status.Members == nil {
				status.Members = []string{}
			}
			return api.WriteJSON(w, http.StatusOK, status)
		}))

		r.Method(http.MethodGet, "/now-playing", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
			track, err := ctrl.NowPlaying(r.Context())
			if err != nil {
				return err
			}
			return api.WriteJSON(w, http.StatusOK, track)
		}))
	})
}

func requireReady(ctrl *Controller) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ctrl.Ready() {
				api.WriteError(w, r, apperrors.NewNotInitialized())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func decodeJSON(r *http.Request, target any) error {
	if r.Body == nil {
		return apperrors.NewValidationError("Missing request body")
	}
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return apperrors.NewValidationError("Invalid JSON body")
	}
	return nil
}
