package store

import "context"

// DeleteRunsOlderThan hard-deletes every run created more than
// olderThanDays ago, along with its chunks and analysis result via the
// schema's ON DELETE CASCADE foreign keys, and returns the number of
// runs removed (pkg/cleanup's retention sweep).
func (s *Store) DeleteRunsOlderThan(ctx context.Context, olderThanDays int) (int, error) {
	const q = `DELETE FROM runs WHERE created_at < now() - make_interval(days => $1)`
	tag, err := s.pool.Exec(ctx, q, olderThanDays)
	if err != nil {
		return 0, wrap("delete old runs", err)
	}
	return int(tag.RowsAffected()), nil
}
