// Package memory implements the report read contract over in-process slices.
// It backs service tests and local runs without a database.
package memory

import (
	"context"
	"sync"

	"warehub/internal/domain/catalog"
	"warehub/internal/domain/ledger"
	"warehub/internal/domain/lots"
	"warehub/internal/domain/reports"
)

var _ reports.Repository = (*Source)(nil)

// Source holds a snapshot of source records.
type Source struct {
	mutex sync.RWMutex

	inbound  []ledger.LineItem
	outbound []ledger.LineItem
	products []catalog.Product
	units    []catalog.Unit
	rates    []catalog.ConversionRate
	lots     []lots.Lot

	// failures makes a fetch leg fail, keyed by reports.Source* name.
	failures map[string]error
}

// NewSource creates an empty Source.
func NewSource() *Source {
	return &Source{failures: make(map[string]error)}
}

// AddLineItems appends order lines to a leg.
func (s *Source) AddLineItems(leg ledger.Leg, items ...ledger.LineItem) *Source {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if leg == ledger.LegOutbound {
		s.outbound = append(s.outbound, items...)
	} else {
		s.inbound = append(s.inbound, items...)
	}
	return s
}

// AddProducts appends products.
func (s *Source) AddProducts(products ...catalog.Product) *Source {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.products = append(s.products, products...)
	return s
}

// AddUnits appends units.
func (s *Source) AddUnits(units ...catalog.Unit) *Source {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.units = append(s.units, units...)
	return s
}

// AddRates appends conversion rates.
func (s *Source) AddRates(rates ...catalog.ConversionRate) *Source {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.rates = append(s.rates, rates...)
	return s
}

// AddLots appends lots with their items and tags.
func (s *Source) AddLots(l ...lots.Lot) *Source {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.lots = append(s.lots, l...)
	return s
}

// FailOn makes every read of source return err. A nil err clears it.
func (s *Source) FailOn(source string, err error) *Source {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err == nil {
		delete(s.failures, source)
	} else {
		s.failures[source] = err
	}
	return s
}

func (s *Source) failure(ctx context.Context, source string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.failures[source]
}

// ListLineItems implements reports.Repository.
func (s *Source) ListLineItems(ctx context.Context, leg ledger.Leg, filter reports.LineFilter) ([]ledger.LineItem, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	all, source := s.inbound, reports.SourceInbound
	if leg == ledger.LegOutbound {
		all, source = s.outbound, reports.SourceOutbound
	}
	if err := s.failure(ctx, source); err != nil {
		return nil, err
	}

	out := make([]ledger.LineItem, 0, len(all))
	for _, item := range all {
		if filter.SystemCode != "" && item.SystemCode != filter.SystemCode {
			continue
		}
		if filter.Warehouse != "" && item.Warehouse != filter.Warehouse {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if !filter.Until.IsZero() && !item.CreatedAt.Before(filter.Until) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// ListProducts implements reports.Repository.
func (s *Source) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if err := s.failure(ctx, reports.SourceProducts); err != nil {
		return nil, err
	}
	return append([]catalog.Product(nil), s.products...), nil
}

// ListUnits implements reports.Repository.
func (s *Source) ListUnits(ctx context.Context) ([]catalog.Unit, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if err := s.failure(ctx, reports.SourceUnits); err != nil {
		return nil, err
	}
	return append([]catalog.Unit(nil), s.units...), nil
}

// ListConversionRates implements reports.Repository.
func (s *Source) ListConversionRates(ctx context.Context) ([]catalog.ConversionRate, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if err := s.failure(ctx, reports.SourceRates); err != nil {
		return nil, err
	}
	return append([]catalog.ConversionRate(nil), s.rates...), nil
}

// ListLots implements reports.Repository.
func (s *Source) ListLots(ctx context.Context, filter reports.LotFilter) ([]lots.Lot, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if err := s.failure(ctx, reports.SourceLots); err != nil {
		return nil, err
	}

	out := make([]lots.Lot, 0, len(s.lots))
	for _, l := range s.lots {
		if filter.SystemCode != "" && l.SystemCode != filter.SystemCode {
			continue
		}
		if filter.Warehouse != "" && l.Warehouse != filter.Warehouse {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}
