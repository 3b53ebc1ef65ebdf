package clients

import (
	"context"

	"github.com/dokon-erp/dokon/internal/shared"
)

// History returns a client's merged debt and payment statement, newest first.
func (s *Service) History(ctx context.Context, clientID int64, month *shared.MonthRange) (History, error) {
	client, err := s.repo.Get(ctx, clientID)
	if err != nil {
		return History{}, err
	}
	totals, err := s.repo.Totals(ctx, &clientID, month)
	if err != nil {
		return History{}, err
	}
	entries, err := s.repo.History(ctx, clientID, month)
	if err != nil {
		return History{}, err
	}
	if entries == nil {
		entries = []HistoryEntry{}
	}
	return History{
		Client:     ClientRef{ID: client.ID, Name: client.Name},
		Statistics: totals,
		History:    entries,
		Month:      month.Key(),
	}, nil
}

// MonthlyStats sums every client's debts and payments for the month.
func (s *Service) MonthlyStats(ctx context.Context, month *shared.MonthRange) (MonthlyStats, error) {
	totals, err := s.repo.Totals(ctx, nil, month)
	if err != nil {
		return MonthlyStats{}, err
	}
	return MonthlyStats{Totals: totals, Month: month.Key()}, nil
}
