package price

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"PriceStore/pkg/kit"
)

const (
	maxBodyBytes = 1 << 20
	readyTimeout = 1 * time.Second
)

type Server struct {
	Store Store
	Log   *zap.Logger

	// WriteLimiter throttles POST/PATCH/DELETE per client IP. Nil disables it.
	WriteLimiter *kit.IPRateLimiter
}

type priceReq struct {
	Price *uint64 `json:"price"`
}

var (
	errMissingPrice = errors.New("price is required")
	errTrailingData = errors.New("extra data after json object")
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	writes := r.With(s.limitWrites)

	r.Get("/price", s.list)
	writes.Post("/price", s.create)

	r.Get("/price/{id}", s.get)
	writes.Patch("/price/{id}", s.update)
	writes.Delete("/price/{id}", s.delete)

	return r
}

func (s *Server) limitWrites(next http.Handler) http.Handler {
	if s.WriteLimiter == nil {
		return next
	}
	return s.WriteLimiter.Middleware(next)
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		if s.Log != nil {
			s.Log.Warn("readyz failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	value, err := decodePrice(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	id, err := s.Store.Create(r.Context(), value)
	if err != nil {
		s.serverError(w, r, "create price failed", err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, id.String())
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	values, err := s.Store.List(r.Context())
	if err != nil {
		s.serverError(w, r, "list prices failed", err)
		return
	}
	if values == nil {
		values = []uint64{}
	}
	kit.WriteJSON(w, http.StatusOK, values)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	value, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.storeError(w, r, "get price failed", id, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, value)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	value, err := decodePrice(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	if err := s.Store.Update(r.Context(), id, value); err != nil {
		s.storeError(w, r, "update price failed", id, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.Store.Delete(r.Context(), id); err != nil {
		s.storeError(w, r, "delete price failed", id, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// pathID answers a malformed id exactly like an unknown one.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")

	id, err := uuid.Parse(raw)
	if err != nil {
		if s.Log != nil {
			s.Log.Debug("malformed price id", zap.String("id", raw), zap.Error(err))
		}
		w.WriteHeader(http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, msg string, id uuid.UUID, err error) {
	if errors.Is(err, ErrNotFound) {
		if s.Log != nil {
			s.Log.Debug("price not found", zap.Stringer("id", id))
		}
		w.WriteHeader(http.StatusNotFound)
		return
	}
	s.serverError(w, r, msg, err, zap.Stringer("id", id))
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, msg string, err error, fields ...zap.Field) {
	if s.Log != nil {
		s.Log.Error(msg, append(fields, zap.Error(err))...)
	}
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}

func decodePrice(w http.ResponseWriter, r *http.Request) (uint64, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req priceReq
	if err := dec.Decode(&req); err != nil {
		return 0, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return 0, errTrailingData
	}
	if req.Price == nil {
		return 0, errMissingPrice
	}

	return *req.Price, nil
}
