// Package linkcheck verifies booking deep links. Structural checks are
// pure; the optional HTTP probe is best-effort and never blocks a
// search beyond its own timeout.
package linkcheck

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// StructurallyValid reports whether the URL parses and uses a scheme a
// browser can book through.
func StructurallyValid(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// Validator re-verifies booking links, optionally probing them over
// HTTP. With probing disabled it is a pure structural check.
type Validator struct {
	client *http.Client
	probe  bool
}

func NewValidator(timeout time.Duration, probe bool) *Validator {
	return &Validator{
		client: &http.Client{Timeout: timeout},
		probe:  probe,
	}
}

func (v *Validator) Validate(ctx context.Context, raw string) bool {
	if !StructurallyValid(raw) {
		return false
	}
	if !v.probe {
		return true
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, raw, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", "faresearch-link-validator/1.0")

	resp, err := v.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 400 {
		return true
	}

	// Some booking sites reject HEAD; retry with GET before giving up.
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return false
	}
	resp, err = v.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 400
}
