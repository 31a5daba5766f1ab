package utils

import (
	"context"
	"log"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/badoux/checkmail"

	"mailscore/models"
)

// Domains of major providers that earn the trusted-domain score bonus.
var trustedDomains = []string{
	"gmail.com", "yahoo.com", "outlook.com", "hotmail.com", "icloud.com",
}

// MXLookupFunc resolves the MX records for a domain. Swappable so tests
// can run without DNS.
type MXLookupFunc func(ctx context.Context, domain string) ([]*net.MX, error)

// Verifier runs the validation pipeline: syntax, then MX and disposable
// checks in parallel, then reputation scoring.
type Verifier struct {
	Disposable *DisposableSet
	Logger     *log.Logger
	LookupMX   MXLookupFunc
	MXTimeout  time.Duration

	// Domain to MX cache, successes only
	mxCache struct {
		sync.RWMutex
		m map[string][]*net.MX
	}
}

func NewVerifier(disposable *DisposableSet, logger *log.Logger, mxTimeout time.Duration) *Verifier {
	var resolver net.Resolver
	v := &Verifier{
		Disposable: disposable,
		Logger:     logger,
		LookupMX:   resolver.LookupMX,
		MXTimeout:  mxTimeout,
	}
	v.mxCache.m = make(map[string][]*net.MX)
	return v
}

// ValidateSyntax reports whether the address conforms to standard email
// grammar, including a domain with at least one dot. Never panics.
func ValidateSyntax(email string) bool {
	if email == "" {
		return false
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return false
	}
	parts := strings.Split(email, "@")
	if len(parts) < 2 || !strings.Contains(parts[1], ".") {
		return false
	}
	return true
}

// ExtractDomain returns the part after the first "@", or "" when absent.
func ExtractDomain(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// CalculateReputation combines the check results into a score in
// [0.0, 1.0]. Pure function of its inputs.
func CalculateReputation(email string, hasMX, isDisposable bool) float64 {
	score := 0.5 // base score

	domain := strings.ToLower(ExtractDomain(email))

	for _, trusted := range trustedDomains {
		if domain == trusted {
			score += 0.3
			break
		}
	}

	if hasMX {
		score += 0.2
	}

	if !isDisposable {
		score += 0.2
	}

	// Reasonable domain length
	if domain != "" && len(domain) > 3 && len(domain) < 50 {
		score += 0.1
	}

	if score > 1.0 {
		return 1.0
	}
	if score < 0.0 {
		return 0.0
	}
	return score
}

// HasMXRecords reports whether the domain resolves to at least one mail
// exchanger. Every resolver failure collapses to false.
func (v *Verifier) HasMXRecords(ctx context.Context, domain string) bool {
	domain = strings.ToLower(domain)

	v.mxCache.RLock()
	if records, ok := v.mxCache.m[domain]; ok {
		v.mxCache.RUnlock()
		return len(records) > 0
	}
	v.mxCache.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, v.MXTimeout)
	defer cancel()

	records, err := v.LookupMX(ctx, domain)
	if err != nil {
		v.Logger.Printf("MX lookup failed for %s: %v", domain, err)
		return false
	}
	if len(records) == 0 {
		return false
	}

	v.mxCache.Lock()
	v.mxCache.m[domain] = records
	v.mxCache.Unlock()
	return true
}

// Verify runs the full pipeline for one address and shapes the verdict.
func (v *Verifier) Verify(ctx context.Context, email string) *models.Verdict {
	if !ValidateSyntax(email) {
		return &models.Verdict{
			Valid:      false,
			Reason:     models.ReasonInvalidSyntax,
			Confidence: 0.0,
			Checks: models.Checks{
				Syntax:     false,
				Reputation: 0.0,
			},
		}
	}

	domain := ExtractDomain(email)

	// MX lookup and disposable check are independent; run both and join.
	var (
		hasMX        bool
		isDisposable bool
		wg           sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		hasMX = v.HasMXRecords(ctx, domain)
	}()
	go func() {
		defer wg.Done()
		isDisposable = v.Disposable.IsDisposable(email)
	}()
	wg.Wait()

	reputation := CalculateReputation(email, hasMX, isDisposable)
	valid := hasMX && !isDisposable && reputation > 0.6

	// Reason precedence is fixed and evaluated independently of valid.
	var reason string
	switch {
	case !hasMX:
		reason = models.ReasonNoMX
	case isDisposable:
		reason = models.ReasonDisposable
	case reputation <= 0.6:
		reason = models.ReasonLowReputation
	default:
		reason = models.ReasonValid
	}

	return &models.Verdict{
		Valid:      valid,
		Reason:     reason,
		Confidence: reputation,
		Checks: models.Checks{
			Syntax:     true,
			MX:         &hasMX,
			Disposable: &isDisposable,
			Reputation: reputation,
		},
	}
}
