package app

import (
	"context"
	"errors"
	"fmt"

	"countrycard/internal/card"
	"countrycard/internal/country"
	"countrycard/internal/recent"

	"go.uber.org/zap"
)

const (
	MsgEmptyQuery = "Please enter a country name"
	MsgNotFound   = "Country not found. Please check the spelling and try again."
)

// ErrNoSuchRecent is returned by LookupRecent for an index outside the list.
var ErrNoSuchRecent = errors.New("no such recent search")

type Service struct {
	Fetcher country.Fetcher
	Recent  *recent.Store
	Logger  *zap.Logger
}

func NewService(fetcher country.Fetcher, store *recent.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{Fetcher: fetcher, Recent: store, Logger: logger}
}

type LookupResult struct {
	Record country.Record
	Card   country.Projection
	Recent recent.List
	// StorageWarning is set when the search could not be persisted. The
	// lookup itself succeeded.
	StorageWarning error
}

// Lookup fetches query, formats the first match and records its canonical
// name in the recent searches. Errors are ErrEmptyQuery, ErrNotFound,
// *NetworkError or *FormatError from the country package; storage problems
// only set StorageWarning.
func (s *Service) Lookup(ctx context.Context, query string) (*LookupResult, error) {
	q, err := country.CleanQuery(query)
	if err != nil {
		return nil, err
	}

	raws, err := s.Fetcher.FetchCountryByName(ctx, q)
	if err != nil {
		s.Logger.Debug("country lookup failed", zap.String("query", q), zap.Error(err))
		return nil, err
	}
	if len(raws) == 0 {
		return nil, country.ErrNotFound
	}

	rec, err := country.Parse(raws[0])
	if err != nil {
		s.Logger.Warn("api returned a malformed record", zap.String("query", q), zap.Error(err))
		return nil, err
	}
	proj, err := country.Format(rec)
	if err != nil {
		return nil, err
	}

	list, warn := s.Recent.RecordSearch(ctx, rec.CommonName)

	s.Logger.Info("country found",
		zap.String("query", q),
		zap.String("country", rec.CommonName),
		zap.Int("matches", len(raws)))

	return &LookupResult{
		Record:         rec,
		Card:           proj,
		Recent:         list,
		StorageWarning: warn,
	}, nil
}

// LookupRecent searches again for the n-th (1-based) recent entry.
func (s *Service) LookupRecent(ctx context.Context, n int) (*LookupResult, error) {
	name, ok := s.Recent.At(ctx, n-1)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchRecent, n)
	}
	return s.Lookup(ctx, name)
}

// ExportCard writes the card of res to a .docx file at path.
func (s *Service) ExportCard(path string, res *LookupResult) error {
	if err := card.WriteDocx(path, res.Card); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	s.Logger.Info("card exported", zap.String("country", res.Card.CommonName), zap.String("path", path))
	return nil
}

// UserMessage maps a lookup error to the single message shown to the user.
// Not found, network and malformed-record failures share one message.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, country.ErrEmptyQuery):
		return MsgEmptyQuery
	case errors.Is(err, ErrNoSuchRecent):
		return "No recent search with that number."
	}
	return MsgNotFound
}
