package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/lox/sushiforbots/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves a minimal version of the admin routes.
type fakeAPI struct {
	wrapped     bool
	created     []map[string]int
	games       []protocol.GameInfo
	tournaments []map[string]any
}

func (f *fakeAPI) router() http.Handler {
	r := chi.NewRouter()
	r.Route("/api/games", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			if f.wrapped {
				writeJSON(w, http.StatusOK, map[string]any{"games": f.games})
				return
			}
			writeJSON(w, http.StatusOK, f.games)
		})
		r.Post("/", f.create("game_"))
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			for _, g := range f.games {
				if g.ID == id {
					writeJSON(w, http.StatusOK, g)
					return
				}
			}
			http.Error(w, "game not found", http.StatusNotFound)
		})
	})
	r.Route("/api/tournaments", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"tournaments": f.tournaments})
		})
		r.Post("/", f.create("tourney_"))
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"id": chi.URLParam(r, "id"), "status": "running"})
		})
	})
	return r
}

func (f *fakeAPI) create(prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			http.Error(w, "bad content type", http.StatusUnsupportedMediaType)
			return
		}
		var body map[string]int
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if body["max_players"] < 2 {
			http.Error(w, "max_players must be at least 2", http.StatusUnprocessableEntity)
			return
		}
		f.created = append(f.created, body)
		writeJSON(w, http.StatusCreated, map[string]any{"id": prefix + "1"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api.router())
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", WithHTTPClient(srv.Client()))
}

func TestListGames(t *testing.T) {
	games := []protocol.GameInfo{
		{ID: "g1", PlayerCount: 1, MaxPlayers: 4, Status: "waiting"},
		{ID: "g2", PlayerCount: 2, MaxPlayers: 2, Status: "playing"},
	}

	for _, wrapped := range []bool{false, true} {
		name := "bare array"
		if wrapped {
			name = "wrapped object"
		}
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, &fakeAPI{wrapped: wrapped, games: games})
			got, err := client.ListGames(context.Background())
			require.NoError(t, err)
			assert.Equal(t, games, got)
		})
	}
}

func TestCreateGame(t *testing.T) {
	api := &fakeAPI{}
	client := newTestClient(t, api)

	out, err := client.CreateGame(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "game_1", out["id"])
	assert.Equal(t, []map[string]int{{"max_players": 4}}, api.created)
}

func TestCreateTournament(t *testing.T) {
	api := &fakeAPI{}
	client := newTestClient(t, api)

	out, err := client.CreateTournament(context.Background(), 8, 4)
	require.NoError(t, err)
	assert.Equal(t, "tourney_1", out["id"])
	assert.Equal(t, []map[string]int{{"max_players": 8, "match_size": 4}}, api.created)
}

func TestListTournamentsDefaultsMatchSize(t *testing.T) {
	api := &fakeAPI{tournaments: []map[string]any{
		{"id": "t1", "player_count": 3, "max_players": 8, "status": "waiting"},
		{"id": "t2", "player_count": 8, "max_players": 8, "match_size": 4, "status": "running"},
	}}
	client := newTestClient(t, api)

	got, err := client.ListTournaments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []TournamentInfo{
		{ID: "t1", PlayerCount: 3, MaxPlayers: 8, MatchSize: 2, Status: "waiting"},
		{ID: "t2", PlayerCount: 8, MaxPlayers: 8, MatchSize: 4, Status: "running"},
	}, got)
}

func TestGetGameAndTournament(t *testing.T) {
	api := &fakeAPI{games: []protocol.GameInfo{{ID: "g1", MaxPlayers: 4, Status: "waiting"}}}
	client := newTestClient(t, api)
	ctx := context.Background()

	game, err := client.GetGame(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "waiting", game["status"])

	tournament, err := client.GetTournament(ctx, "t9")
	require.NoError(t, err)
	assert.Equal(t, "t9", tournament["id"])
}

func TestHTTPErrors(t *testing.T) {
	client := newTestClient(t, &fakeAPI{})
	ctx := context.Background()

	_, err := client.GetGame(ctx, "missing")
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr), "got %v", err)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Contains(t, httpErr.Error(), "game not found")

	_, err = client.CreateGame(ctx, 1)
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Status)
}
