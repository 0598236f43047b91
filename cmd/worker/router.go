package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/postflow/modules/posting"
	"github.com/dmitrymomot/postflow/pkg/httpserver"
	"github.com/dmitrymomot/postflow/pkg/logger"
	"github.com/dmitrymomot/postflow/pkg/queue"
	"github.com/dmitrymomot/postflow/pkg/timing"
)

// opsDeps carries everything the ops router serves from. In degraded mode
// (no database) only log and ready are set and the router exposes just the
// health endpoints.
type opsDeps struct {
	log       *slog.Logger
	ready     func(context.Context) error
	worker    *queue.Worker
	registry  *queue.Registry
	recorder  *timing.Recorder
	scheduler *posting.Scheduler
}

func newRouter(ctx context.Context, deps *opsDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", httpserver.HealthCheckHandler(ctx, deps.log))
	r.Get("/readyz", httpserver.HealthCheckHandler(ctx, deps.log, deps.ready))

	if deps.worker == nil {
		return r
	}

	r.Route("/queues/{queue}", func(r chi.Router) {
		r.Get("/stats", deps.queueStats)
		r.Post("/pause", deps.pauseQueue)
		r.Post("/resume", deps.resumeQueue)
	})
	r.Post("/posts", deps.schedulePost)
	r.Post("/engagement", deps.recordEngagement)

	return r
}

type queueStatsResponse struct {
	Queue       string  `json:"queue"`
	Paused      bool    `json:"paused"`
	Pending     int64   `json:"pending"`
	Window      string  `json:"window"`
	FailureRate float64 `json:"failure_rate"`
	TotalJobs   int64   `json:"total_jobs"`
	FailedJobs  int64   `json:"failed_jobs"`
}

func (d *opsDeps) queueStats(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "queue")
	if !d.registry.Registered(name) {
		writeError(w, http.StatusNotFound, "unknown queue")
		return
	}

	window := time.Hour
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid window")
			return
		}
		window = parsed
	}

	ctx := r.Context()
	pending, err := d.worker.PendingCount(ctx, name)
	if err != nil {
		d.log.ErrorContext(ctx, "pending count failed", logger.Queue(name), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "stats unavailable")
		return
	}
	report, err := d.worker.FailureRate(ctx, name, window)
	if err != nil {
		d.log.ErrorContext(ctx, "failure rate failed", logger.Queue(name), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "stats unavailable")
		return
	}

	writeJSON(w, http.StatusOK, queueStatsResponse{
		Queue:       name,
		Paused:      d.registry.Paused(name),
		Pending:     pending,
		Window:      window.String(),
		FailureRate: report.FailureRate,
		TotalJobs:   report.TotalJobs,
		FailedJobs:  report.FailedJobs,
	})
}

func (d *opsDeps) pauseQueue(w http.ResponseWriter, r *http.Request) {
	d.setQueuePaused(w, r, true)
}

func (d *opsDeps) resumeQueue(w http.ResponseWriter, r *http.Request) {
	d.setQueuePaused(w, r, false)
}

func (d *opsDeps) setQueuePaused(w http.ResponseWriter, r *http.Request, paused bool) {
	name := chi.URLParam(r, "queue")

	var err error
	if paused {
		err = d.registry.Pause(name)
	} else {
		err = d.registry.Resume(name)
	}
	if err != nil {
		if errors.Is(err, queue.ErrQueueNotRegistered) {
			writeError(w, http.StatusNotFound, "unknown queue")
			return
		}
		d.log.ErrorContext(r.Context(), "queue pause state change failed", logger.Queue(name), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "pause state change failed")
		return
	}

	d.log.InfoContext(r.Context(), "queue pause state changed",
		logger.Queue(name), slog.Bool("paused", paused))
	writeJSON(w, http.StatusOK, map[string]any{"queue": name, "paused": paused})
}

type schedulePostRequest struct {
	OwnerID   uuid.UUID  `json:"owner_id"`
	Subreddit string     `json:"subreddit"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	MediaKey  string     `json:"media_key,omitempty"`
	Timezone  string     `json:"timezone,omitempty"`
	Day       string     `json:"day_preference,omitempty"`
	SendAt    *time.Time `json:"send_at,omitempty"`
}

func (d *opsDeps) schedulePost(w http.ResponseWriter, r *http.Request) {
	var req schedulePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	scheduled, err := d.scheduler.Schedule(r.Context(), posting.Draft{
		OwnerID:   req.OwnerID,
		Subreddit: req.Subreddit,
		Title:     req.Title,
		Body:      req.Body,
		MediaKey:  req.MediaKey,
		Timezone:  req.Timezone,
		Day:       timing.DayPreference(req.Day),
		SendAt:    req.SendAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, posting.ErrDraftInvalid),
			errors.Is(err, timing.ErrInvalidTimezone),
			errors.Is(err, timing.ErrInvalidDayPreference):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			d.log.ErrorContext(r.Context(), "schedule post failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "schedule failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"post_id": scheduled.PostID,
		"job_id":  scheduled.JobID,
		"send_at": scheduled.SendAt,
	})
}

type engagementRequest struct {
	Destination string    `json:"destination"`
	Reactions   int       `json:"reactions"`
	Comments    int       `json:"comments"`
	PostedAt    time.Time `json:"posted_at"`
	Timezone    string    `json:"timezone,omitempty"`
}

func (d *opsDeps) recordEngagement(w http.ResponseWriter, r *http.Request) {
	var req engagementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Destination == "" || req.PostedAt.IsZero() {
		writeError(w, http.StatusBadRequest, "destination and posted_at are required")
		return
	}

	d.recorder.Record(r.Context(), req.Destination, timing.Engagement{
		Reactions: req.Reactions,
		Comments:  req.Comments,
		PostedAt:  req.PostedAt,
		Timezone:  req.Timezone,
	})
	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
