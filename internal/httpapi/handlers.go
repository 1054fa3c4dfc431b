package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/DoyleJ11/clan-vaults-backend/internal/feed"
	"github.com/DoyleJ11/clan-vaults-backend/internal/hub"
	"github.com/DoyleJ11/clan-vaults-backend/internal/mockapi"
	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
	"github.com/DoyleJ11/clan-vaults-backend/internal/seed"
	"github.com/DoyleJ11/clan-vaults-backend/internal/store"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respond writes the envelope with a status matching its failure class. A
// Go error means the call was cancelled before it answered.
func respond[T any](w http.ResponseWriter, log *zap.Logger, res mockapi.Response[T], err error) {
	if err != nil {
		log.Info("request abandoned", zap.Error(err))
		http.Error(w, "request cancelled", http.StatusServiceUnavailable)
		return
	}
	status := http.StatusOK
	switch {
	case res.Success:
	case errors.Is(res.Err, mockapi.ErrNotFound):
		status = http.StatusNotFound
	default:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, res)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, mockapi.Response[any]{Success: false, Message: msg, Timestamp: time.Now().UnixMilli()})
}

// decodeBody reads an optional JSON body; an empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func Healthz(src feed.Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := struct {
			Status        string `json:"status"`
			FeedConnected bool   `json:"feedConnected"`
		}{Status: "ok"}
		if src != nil {
			body.FeedConnected = src.IsConnected()
		}
		writeJSON(w, http.StatusOK, body)
	}
}

func CreateSession(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := h.Create()
		if s == nil {
			http.Error(w, "failed to create session", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusCreated, struct {
			Session string `json:"session"`
		}{Session: s.ID()})
	}
}

func ListSessions(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids := h.List()
		slices.Sort(ids)
		writeJSON(w, http.StatusOK, struct {
			Sessions []string `json:"sessions"`
		}{Sessions: ids})
	}
}

// GetSession reports a live session's version, client count and state.
func GetSession(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := h.Get(chi.URLParam(r, "id"))
		if s == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		v, err := s.State(r.Context())
		if err != nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Session    string      `json:"session"`
			Version    int         `json:"version"`
			NumClients int         `json:"numClients"`
			State      store.State `json:"state"`
		}{Session: s.ID(), Version: v.Version, NumClients: v.NumClients, State: v.State})
	}
}

type handlers struct {
	api *mockapi.API
	log *zap.Logger
}

// Clans

// listClans serves every clan, narrowed by the optional query filters.
func (h *handlers) listClans(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var momentum model.Momentum
	if v := q.Get("momentum"); v != "" {
		m, err := model.ParseMomentum(v)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		momentum = m
	}
	lo, errLo := floatParam(q.Get("min"), 0)
	hi, errHi := floatParam(q.Get("max"), 0)
	featured, errF := intParam(q.Get("featured"), 0)
	if err := errors.Join(errLo, errHi, errF); err != nil {
		badRequest(w, err.Error())
		return
	}

	res, err := h.api.GetClans(r.Context())
	if err == nil && res.Success {
		clans := res.Data
		if momentum != "" {
			clans = seed.ByMomentum(clans, momentum)
		}
		if c := q.Get("category"); c != "" {
			clans = seed.ByCategory(clans, c)
		}
		if q.Has("min") || q.Has("max") {
			if !q.Has("max") {
				hi = math.Inf(1)
			}
			clans = seed.ByPriceRange(clans, lo, hi)
		}
		if term := q.Get("q"); term != "" {
			clans = seed.Search(clans, term)
		}
		if q.Get("new") == "1" {
			clans = seed.NewClans(clans, time.Now())
		}
		if q.Get("trending") == "1" {
			clans = seed.Trending(clans)
		}
		if featured > 0 {
			clans = seed.Featured(clans, featured)
		}
		res.Data = clans
	}
	respond(w, h.log, res, err)
}

func (h *handlers) getClan(w http.ResponseWriter, r *http.Request) {
	res, err := h.api.GetClan(r.Context(), chi.URLParam(r, "id"))
	respond(w, h.log, res, err)
}

func (h *handlers) joinClan(w http.ResponseWriter, r *http.Request) {
	res, err := h.api.JoinClan(r.Context(), chi.URLParam(r, "id"))
	respond(w, h.log, res, err)
}

func (h *handlers) clanNFTs(w http.ResponseWriter, r *http.Request) {
	res, err := h.api.GetClanNFTs(r.Context(), chi.URLParam(r, "id"))
	respond(w, h.log, res, err)
}

func (h *handlers) mint(w http.ResponseWriter, r *http.Request) {
	body := struct {
		Quantity int `json:"quantity"`
	}{Quantity: 1}
	if err := decodeBody(r, &body); err != nil {
		badRequest(w, "bad json")
		return
	}
	res, err := h.api.MintNFT(r.Context(), chi.URLParam(r, "id"), body.Quantity)
	respond(w, h.log, res, err)
}

func (h *handlers) clanActivity(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	res, err := h.api.GetClanActivity(r.Context(), chi.URLParam(r, "id"), page, limit)
	respond(w, h.log, res, err)
}

func (h *handlers) leaderboard(w http.ResponseWriter, r *http.Request) {
	res, err := h.api.GetLeaderboard(r.Context())
	respond(w, h.log, res, err)
}

// User

func (h *handlers) getUser(w http.ResponseWriter, r *http.Request) {
	res, err := h.api.GetProfile(r.Context())
	respond(w, h.log, res, err)
}

func (h *handlers) updateUser(w http.ResponseWriter, r *http.Request) {
	var patch model.UserPatch
	if err := decodeBody(r, &patch); err != nil {
		badRequest(w, "bad json")
		return
	}
	res, err := h.api.UpdateProfile(r.Context(), patch)
	respond(w, h.log, res, err)
}

func (h *handlers) connectWallet(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
	}
	if err := decodeBody(r, &body); err != nil {
		badRequest(w, "bad json")
		return
	}
	res, err := h.api.ConnectWallet(r.Context(), body.Username)
	respond(w, h.log, res, err)
}

// NFTs

func (h *handlers) userNFTs(w http.ResponseWriter, r *http.Request) {
	res, err := h.api.GetUserNFTs(r.Context())
	respond(w, h.log, res, err)
}

func (h *handlers) stake(w http.ResponseWriter, r *http.Request) {
	res, err := h.api.StakeNFT(r.Context(), chi.URLParam(r, "id"))
	respond(w, h.log, res, err)
}

func (h *handlers) unstake(w http.ResponseWriter, r *http.Request) {
	res, err := h.api.UnstakeNFT(r.Context(), chi.URLParam(r, "id"))
	respond(w, h.log, res, err)
}

func (h *handlers) globalActivity(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	res, err := h.api.GetGlobalActivity(r.Context(), page, limit)
	respond(w, h.log, res, err)
}

// Arena

func (h *handlers) arenaStats(w http.ResponseWriter, r *http.Request) {
	res, err := h.api.GetArenaStats(r.Context())
	respond(w, h.log, res, err)
}

func (h *handlers) battles(w http.ResponseWriter, r *http.Request) {
	week, err := intParam(r.URL.Query().Get("week"), 0)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	res, err := h.api.GetBattles(r.Context(), week)
	respond(w, h.log, res, err)
}

func (h *handlers) treasures(w http.ResponseWriter, r *http.Request) {
	res, err := h.api.GetTreasures(r.Context())
	respond(w, h.log, res, err)
}

func (h *handlers) claimTreasure(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(chi.URLParam(r, "id"), 0)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	res, err := h.api.ClaimTreasure(r.Context(), id)
	respond(w, h.log, res, err)
}

func (h *handlers) listings(w http.ResponseWriter, r *http.Request) {
	res, err := h.api.GetListings(r.Context(), chi.URLParam(r, "id"))
	respond(w, h.log, res, err)
}

func (h *handlers) placeBid(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount float64 `json:"amount"`
	}
	if err := decodeBody(r, &body); err != nil {
		badRequest(w, "bad json")
		return
	}
	res, err := h.api.PlaceBid(r.Context(), chi.URLParam(r, "id"), body.Amount)
	respond(w, h.log, res, err)
}

func (h *handlers) upgrade(w http.ResponseWriter, r *http.Request) {
	res, err := h.api.UpgradeNFT(r.Context(), chi.URLParam(r, "id"))
	respond(w, h.log, res, err)
}

func (h *handlers) starterCard(w http.ResponseWriter, r *http.Request) {
	res, err := h.api.BuyStarterCard(r.Context())
	respond(w, h.log, res, err)
}

// Admin

type adminBody struct {
	ClanID   string `json:"clanId"`
	Quantity int    `json:"quantity"`
	Momentum string `json:"momentum"`
}

func (h *handlers) readAdminBody(w http.ResponseWriter, r *http.Request) (adminBody, bool) {
	var body adminBody
	if err := decodeBody(r, &body); err != nil {
		badRequest(w, "bad json")
		return body, false
	}
	if body.ClanID == "" {
		badRequest(w, "clanId is required")
		return body, false
	}
	return body, true
}

func (h *handlers) adminMint(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readAdminBody(w, r)
	if !ok {
		return
	}
	res, err := h.api.TriggerMockMint(r.Context(), body.ClanID, body.Quantity)
	respond(w, h.log, res, err)
}

func (h *handlers) adminTrade(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readAdminBody(w, r)
	if !ok {
		return
	}
	res, err := h.api.TriggerMockTrade(r.Context(), body.ClanID)
	respond(w, h.log, res, err)
}

func (h *handlers) adminMomentum(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readAdminBody(w, r)
	if !ok {
		return
	}
	res, err := h.api.SetClanMomentum(r.Context(), body.ClanID, body.Momentum)
	respond(w, h.log, res, err)
}

// Query params

func pageParams(r *http.Request) (page, limit int) {
	q := r.URL.Query()
	// Malformed values fall back to the pagination defaults.
	page, _ = strconv.Atoi(q.Get("page"))
	limit, _ = strconv.Atoi(q.Get("limit"))
	return page, limit
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, errors.New("expected an integer, got " + strconv.Quote(v))
	}
	return n, nil
}

func floatParam(v string, def float64) (float64, error) {
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, errors.New("expected a number, got " + strconv.Quote(v))
	}
	return f, nil
}
