package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/DoyleJ11/clan-vaults-backend/internal/feed"
	"github.com/DoyleJ11/clan-vaults-backend/internal/hooks"
	"github.com/DoyleJ11/clan-vaults-backend/internal/hub"
	"github.com/DoyleJ11/clan-vaults-backend/internal/mockapi"
	"github.com/DoyleJ11/clan-vaults-backend/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Deps struct {
	Hub     *hub.Hub
	API     *mockapi.API
	Clients *hooks.Registry
	Feed    feed.Source
	Log     *zap.Logger

	CORSOrigins []string
}

func SetupRoutes(d Deps) http.Handler {
	log := d.Log.With(zap.String("component", "http"))
	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(requestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Public routes
	r.Get("/healthz", Healthz(d.Feed))
	r.Post("/sessions", CreateSession(d.Hub))
	r.Get("/sessions", ListSessions(d.Hub))
	r.Get("/sessions/{id}", GetSession(d.Hub))
	r.Get("/ws", ws.Handler(ws.Deps{Hub: d.Hub, Clients: d.Clients, Feed: d.Feed, Log: d.Log, OriginPatterns: originPatterns(origins)}))

	h := &handlers{api: d.API, log: log}
	r.Route("/api", func(r chi.Router) {
		// Mock latency tops out around a second.
		r.Use(middleware.Timeout(30 * time.Second))

		r.Route("/clans", func(r chi.Router) {
			r.Get("/", h.listClans)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getClan)
				r.Post("/join", h.joinClan)
				r.Get("/nfts", h.clanNFTs)
				r.Post("/mint", h.mint)
				r.Get("/activity", h.clanActivity)
				r.Get("/listings", h.listings)
			})
		})
		r.Get("/leaderboard", h.leaderboard)

		r.Get("/user", h.getUser)
		r.Patch("/user", h.updateUser)
		r.Post("/user/wallet", h.connectWallet)
		r.Post("/user/starter-card", h.starterCard)

		r.Get("/nfts", h.userNFTs)
		r.Post("/nfts/{id}/stake", h.stake)
		r.Post("/nfts/{id}/unstake", h.unstake)
		r.Post("/nfts/{id}/upgrade", h.upgrade)

		r.Get("/activity", h.globalActivity)

		r.Get("/arena", h.arenaStats)
		r.Get("/battles", h.battles)
		r.Get("/treasures", h.treasures)
		r.Post("/treasures/{id}/claim", h.claimTreasure)
		r.Post("/listings/{id}/bid", h.placeBid)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/mint", h.adminMint)
			r.Post("/trade", h.adminTrade)
			r.Post("/momentum", h.adminMomentum)
		})
	})
	return r
}

// originPatterns turns CORS origins into websocket host patterns.
func originPatterns(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if host, ok := strings.CutPrefix(o, "https://"); ok {
			o = host
		} else if host, ok := strings.CutPrefix(o, "http://"); ok {
			o = host
		}
		out = append(out, o)
	}
	return out
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
