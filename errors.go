package offcache

import (
	"fmt"
)

// InstallError reports an aborted install. Seed and Status/Err identify the
// resource that failed; CleanupErr is set when tearing down the partially
// seeded generation failed too, meaning the store still holds an incomplete
// generation under this version name.
type InstallError struct {
	Version    string
	Seed       string
	Status     int // non-zero when the seed fetch returned a non-200
	Err        error
	CleanupErr error
}

func (e *InstallError) Error() string {
	var msg string
	switch {
	case e.Seed != "" && e.Status != 0:
		msg = fmt.Sprintf("install %q aborted: seed %q: unexpected status %d", e.Version, e.Seed, e.Status)
	case e.Seed != "":
		msg = fmt.Sprintf("install %q aborted: seed %q: %v", e.Version, e.Seed, e.Err)
	case e.Err != nil:
		msg = fmt.Sprintf("install %q failed: %v", e.Version, e.Err)
	default:
		msg = fmt.Sprintf("install %q: unknown error", e.Version)
	}
	if e.CleanupErr != nil {
		msg += fmt.Sprintf("; cleanup failed: %v", e.CleanupErr)
	}
	return msg
}

func (e *InstallError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.CleanupErr != nil {
		errs = append(errs, e.CleanupErr)
	}
	return errs
}
