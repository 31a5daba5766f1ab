package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Seed list of well-known disposable providers. Known-incomplete; a
// remote list can be layered on top via LoadRemote.
var seedDisposableDomains = []string{
	"10minutemail.com",
	"guerrillamail.com",
	"mailinator.com",
	"tempmail.org",
	"throwaway.email",
	"temp-mail.org",
	"getairmail.com",
	"yopmail.com",
	"maildrop.cc",
	"tempail.com",
	"dispostable.com",
	"trashmail.com",
}

// DisposableSet answers disposable-domain membership queries. The set
// starts from the seed list and can be extended from a remote JSON list.
type DisposableSet struct {
	mu      sync.RWMutex
	domains map[string]struct{}
	url     string
	client  *http.Client
}

func NewDisposableSet(url string) *DisposableSet {
	domains := make(map[string]struct{}, len(seedDisposableDomains))
	for _, d := range seedDisposableDomains {
		domains[d] = struct{}{}
	}
	return &DisposableSet{
		domains: domains,
		url:     url,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Contains reports whether the lower-cased domain is in the set.
func (s *DisposableSet) Contains(domain string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.domains[strings.ToLower(domain)]
	return ok
}

// IsDisposable extracts the domain after the first "@" and checks
// membership. Addresses without a domain part are never disposable.
func (s *DisposableSet) IsDisposable(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) < 2 || parts[1] == "" {
		return false
	}
	return s.Contains(parts[1])
}

func (s *DisposableSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.domains)
}

// LoadRemote fetches the configured URL (a JSON array of domains) and
// merges it into the set. The seed entries are never removed, and a
// failed fetch leaves the current set untouched.
func (s *DisposableSet) LoadRemote(ctx context.Context) error {
	if s.url == "" {
		return fmt.Errorf("no disposable list URL configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("disposable list fetch returned status %d", resp.StatusCode)
	}

	var fetched []string
	if err := json.NewDecoder(resp.Body).Decode(&fetched); err != nil {
		return fmt.Errorf("decoding disposable list: %w", err)
	}

	domains := make(map[string]struct{}, len(fetched)+len(seedDisposableDomains))
	for _, d := range seedDisposableDomains {
		domains[d] = struct{}{}
	}
	for _, d := range fetched {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			domains[d] = struct{}{}
		}
	}

	s.mu.Lock()
	s.domains = domains
	s.mu.Unlock()
	return nil
}

// Refresh re-fetches the remote list on the given interval until the
// context is cancelled.
func (s *DisposableSet) Refresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.LoadRemote(ctx); err != nil {
				LogError("disposable_refresh", err, map[string]interface{}{
					"url": s.url,
				})
			}
		}
	}
}
