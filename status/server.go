// Package status serves a read-only HTTP view of a running engine.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/robmorgan/scorefollow/engine"
	"github.com/robmorgan/scorefollow/logger"
	"github.com/robmorgan/scorefollow/palette"
	"github.com/robmorgan/scorefollow/rhythm"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Source is the engine state exposed by the API. *engine.Engine satisfies it.
type Source interface {
	Stats() engine.Stats
	Snapshot() rhythm.Snapshot
	ActiveHrefs() []string
}

// Status is the body of GET /status.
type Status struct {
	ID              string  `json:"id"`
	State           string  `json:"state"`
	Bar             int     `json:"bar"`
	Marker          string  `json:"marker"`
	VisualTime      float64 `json:"visualTime"`
	BarPhase        float64 `json:"barPhase"`
	DistanceFromBar float64 `json:"distanceFromBar"`
	TotalNotes      int     `json:"totalNotes"`
	ActiveNotes     int     `json:"activeNotes"`
	RemainingNotes  int     `json:"remainingNotes"`
	Bars            int     `json:"bars"`
	UnresolvedHrefs int     `json:"unresolvedHrefs"`
	Seeking         bool    `json:"seeking"`
	SnapPending     bool    `json:"snapPending"`
}

// Color is one row of GET /colors.
type Color struct {
	Channel int    `json:"channel"`
	Slot    int    `json:"slot"`
	Class   string `json:"class"`
	Hex     string `json:"hex"`
}

type server struct {
	log     *logrus.Entry
	source  Source
	palette palette.Palette
}

// NewHandler returns the API router wrapped in a permissive CORS handler, so that a score viewer
// served from another origin can poll it.
func NewHandler(src Source, p palette.Palette) http.Handler {
	s := &server{
		log:     logger.GetProjectLogger().WithField("api", "status"),
		source:  src,
		palette: p,
	}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	router.HandleFunc("/colors", s.handleColors).Methods(http.MethodGet)
	router.HandleFunc("/colors/{channel:[0-9]+}", s.handleColor).Methods(http.MethodGet)
	router.HandleFunc("/active", s.handleActive).Methods(http.MethodGet)

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}).Handler(router)
}

// Serve runs the API on addr until ctx is done.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}

	errs := make(chan error, 1)
	go func() { errs <- srv.ListenAndServe() }()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.source.Stats()
	snap := s.source.Snapshot()

	s.write(w, Status{
		ID:              stats.ID,
		State:           stats.State.String(),
		Bar:             stats.CurrentBar,
		Marker:          snap.Marker(),
		VisualTime:      snap.VisualTime,
		BarPhase:        snap.BarPhase,
		DistanceFromBar: snap.DistanceFromBar(),
		TotalNotes:      stats.TotalNotes,
		ActiveNotes:     stats.ActiveNotes,
		RemainingNotes:  stats.RemainingNotes,
		Bars:            stats.Bars,
		UnresolvedHrefs: stats.UnresolvedHrefs,
		Seeking:         stats.Seeking,
		SnapPending:     stats.SnapPending,
	})
}

func (s *server) handleColors(w http.ResponseWriter, r *http.Request) {
	colors := s.source.Stats().Colors
	channels := maps.Keys(colors)
	slices.Sort(channels)

	out := make([]Color, 0, len(channels))
	for _, ch := range channels {
		slot := colors[ch]
		out = append(out, Color{Channel: ch, Slot: slot, Class: palette.Class(slot), Hex: s.palette.Hex(slot)})
	}
	s.write(w, out)
}

func (s *server) handleColor(w http.ResponseWriter, r *http.Request) {
	channel, err := strconv.Atoi(mux.Vars(r)["channel"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	slot, ok := s.source.Stats().Colors.Lookup(channel)
	if !ok {
		http.Error(w, "unknown channel", http.StatusNotFound)
		return
	}
	s.write(w, Color{Channel: channel, Slot: slot, Class: palette.Class(slot), Hex: s.palette.Hex(slot)})
}

func (s *server) handleActive(w http.ResponseWriter, r *http.Request) {
	active := s.source.ActiveHrefs()
	if active == nil {
		active = []string{}
	}
	s.write(w, active)
}

func (s *server) write(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.WithError(err).Warn("Could not write response")
	}
}
