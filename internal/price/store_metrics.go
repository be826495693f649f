package price

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelOp     = "op"
	labelResult = "result"

	resultOK       = "ok"
	resultNotFound = "not_found"
	resultError    = "error"
)

// InstrumentedStore counts every store call by operation and outcome and
// exposes the number of live entries as a gauge.
type InstrumentedStore struct {
	next Store
	ops  *prometheus.CounterVec
}

func NewInstrumentedStore(next Store, reg prometheus.Registerer) *InstrumentedStore {
	s := &InstrumentedStore{
		next: next,
		ops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "price_store_operations_total",
				Help: "Price store operations by outcome",
			},
			[]string{labelOp, labelResult},
		),
	}

	entries := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "price_store_entries",
			Help: "Live entries in the price store",
		},
		func() float64 { return float64(next.Len(context.Background())) },
	)

	reg.MustRegister(s.ops, entries)
	return s
}

func (s *InstrumentedStore) observe(op string, err error) {
	result := resultOK
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		result = resultNotFound
	default:
		result = resultError
	}
	s.ops.WithLabelValues(op, result).Inc()
}

func (s *InstrumentedStore) Create(ctx context.Context, value uint64) (uuid.UUID, error) {
	id, err := s.next.Create(ctx, value)
	s.observe("create", err)
	return id, err
}

func (s *InstrumentedStore) List(ctx context.Context) ([]uint64, error) {
	out, err := s.next.List(ctx)
	s.observe("list", err)
	return out, err
}

func (s *InstrumentedStore) Get(ctx context.Context, id uuid.UUID) (uint64, error) {
	v, err := s.next.Get(ctx, id)
	s.observe("get", err)
	return v, err
}

func (s *InstrumentedStore) Update(ctx context.Context, id uuid.UUID, value uint64) error {
	err := s.next.Update(ctx, id, value)
	s.observe("update", err)
	return err
}

func (s *InstrumentedStore) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.next.Delete(ctx, id)
	s.observe("delete", err)
	return err
}

func (s *InstrumentedStore) Len(ctx context.Context) int { return s.next.Len(ctx) }

func (s *InstrumentedStore) Ping(ctx context.Context) error { return s.next.Ping(ctx) }
