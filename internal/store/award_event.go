package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// AppendAward journals an award with the next sequence number.
func (s *Store) AppendAward(ctx context.Context, data AwardEventData) error {
	seqNum, err := s.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	ts := data.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query, args := entsql.Dialect(s.dialect).
		Insert(awardTable).
		Columns("id", "sequence", "kind", "unit_id", "card_id", "amount", "created_at").
		Values(data.ID, seqNum, data.Kind, data.UnitID, data.CardID, data.Amount, ts.UnixMilli()).
		Query()

	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save award event: %w", err)
	}
	return nil
}

// QueryAwards returns journaled awards newest first, filtered by opts.
func (s *Store) QueryAwards(ctx context.Context, opts QueryOpts) ([]AwardEventRecord, error) {
	b := entsql.Dialect(s.dialect)
	sel := b.Select("id", "sequence", "kind", "unit_id", "card_id", "amount", "created_at").
		From(b.Table(awardTable)).
		OrderBy(entsql.Desc("sequence"))

	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	if opts.After > 0 {
		sel = sel.Where(entsql.GT("sequence", opts.After))
	}
	if !opts.From.IsZero() {
		sel = sel.Where(entsql.GTE("created_at", opts.From.UnixMilli()))
	}

	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := s.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query award events: %w", err)
	}
	defer rows.Close()

	var records []AwardEventRecord
	for rows.Next() {
		var (
			r       AwardEventRecord
			created int64
		)
		if err := rows.Scan(&r.ID, &r.Sequence, &r.Kind, &r.UnitID, &r.CardID, &r.Amount, &created); err != nil {
			return nil, fmt.Errorf("scan award event: %w", err)
		}
		r.Timestamp = time.UnixMilli(created)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query award events: %w", err)
	}
	return records, nil
}

// AwardTotals sums journaled awards per kind and overall.
func (s *Store) AwardTotals(ctx context.Context) (map[string]int, int, error) {
	b := entsql.Dialect(s.dialect)
	query, args := b.Select("kind", entsql.As(entsql.Sum("amount"), "total")).
		From(b.Table(awardTable)).
		GroupBy("kind").
		Query()

	rows := &entsql.Rows{}
	if err := s.drv.Query(ctx, query, args, rows); err != nil {
		return nil, 0, fmt.Errorf("query award totals: %w", err)
	}
	defer rows.Close()

	byKind := make(map[string]int)
	total := 0
	for rows.Next() {
		var (
			kind string
			sum  int64
		)
		if err := rows.Scan(&kind, &sum); err != nil {
			return nil, 0, fmt.Errorf("scan award totals: %w", err)
		}
		byKind[kind] = int(sum)
		total += int(sum)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("query award totals: %w", err)
	}
	return byKind, total, nil
}

// ClearAwards deletes every journaled award.
func (s *Store) ClearAwards(ctx context.Context) error {
	query, args := entsql.Dialect(s.dialect).Delete(awardTable).Query()
	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("clear award events: %w", err)
	}
	return nil
}
