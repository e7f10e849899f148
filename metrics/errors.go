package metrics

import (
	"errors"
	"fmt"
)

// ErrBucketMismatch is returned when two snapshots for the same event carry a
// different number of buckets. It means call sites disagree on the bucket
// configuration of the event, so the merged data would be meaningless.
var ErrBucketMismatch = errors.New("bucket configuration mismatch")

// ConfigurationError reports an invalid EventBuilder configuration.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("event configuration error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("event configuration error: %s", e.Message)
}
