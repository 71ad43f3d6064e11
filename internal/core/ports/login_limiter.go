package ports

import "context"

// LoginLimiter throttles repeated failed logins per email. Allow reports
// whether another attempt may proceed; RecordFailure counts a failed attempt
// within the current window; Reset clears the counter after a successful
// login.
type LoginLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
