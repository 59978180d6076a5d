package fbevents

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-settingsgen/pkg/model"
)

// CacheLifetime names how long fetched events stay cached.
type CacheLifetime string

const (
	CacheNever   CacheLifetime = "never"
	CacheSave    CacheLifetime = "save"
	CacheNow     CacheLifetime = "now"
	CacheHourly  CacheLifetime = "hourly"
	CacheDaily   CacheLifetime = "daily"
	CacheWeekly  CacheLifetime = "weekly"
	CacheMonthly CacheLifetime = "monthly"
)

// CacheLifetimes lists every lifetime in presentation order.
func CacheLifetimes() []CacheLifetime {
	return []CacheLifetime{CacheNever, CacheSave, CacheNow, CacheHourly, CacheDaily, CacheWeekly, CacheMonthly}
}

// CacheLifetimeNames lists lifetimes as select choices.
func CacheLifetimeNames() []string {
	lifetimes := CacheLifetimes()
	out := make([]string, len(lifetimes))
	for i, lifetime := range lifetimes {
		out[i] = string(lifetime)
	}
	return out
}

// Duration returns the cache lifetime as a duration. never, save and now are
// expiry policies rather than durations and report ok=false: never keeps the
// cache forever, save expires it whenever the settings are saved, now
// disables caching.
func (c CacheLifetime) Duration() (time.Duration, bool) {
	switch c {
	case CacheHourly:
		return time.Hour, true
	case CacheDaily:
		return 24 * time.Hour, true
	case CacheWeekly:
		return 7 * 24 * time.Hour, true
	case CacheMonthly:
		return 30 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

var (
	// ErrIncomplete is returned by Decode when required settings are missing.
	ErrIncomplete = errors.New("fbevents: settings incomplete")
	// ErrOutOfRange is returned by Decode for a limit outside MinLimit..MaxLimit.
	ErrOutOfRange = errors.New("fbevents: value out of range")
)

// Settings is the typed view the events client consumes.
type Settings struct {
	ClientID     string
	ClientSecret string
	PageName     string
	PageID       string
	AccessToken  string
	CacheExpire  CacheLifetime
	Limit        int
	DateSince    time.Time
	DateUntil    time.Time
	SortReverse  bool
}

// Page returns the identifier used to query the page: its name if set,
// otherwise its numeric ID.
func (s Settings) Page() string {
	if name := strings.TrimSpace(s.PageName); name != "" {
		return name
	}
	return strings.TrimSpace(s.PageID)
}

// Decode converts resolved descriptors into Settings. Fields absent from the
// descriptors (older schema versions) keep their current-schema defaults.
// Type mismatches are reported as errors here because the client cannot use
// a malformed value; missing required values wrap ErrIncomplete. All problems
// are joined into the returned error, and the best-effort Settings is still
// returned.
func Decode(descriptors model.Descriptors) (Settings, error) {
	values := Defaults()
	for name, value := range descriptors.Values() {
		values[name] = value
	}

	var errs []error
	for _, adv := range descriptors.Advisories() {
		switch adv.Kind {
		case model.AdvisoryMissingRequired:
			errs = append(errs, fmt.Errorf("%w: %s", ErrIncomplete, adv.Field))
		case model.AdvisoryTypeMismatch:
			errs = append(errs, fmt.Errorf("fbevents: %s", adv.String()))
		}
	}

	out := Settings{
		ClientID:     stringValue(values[FieldClientID]),
		ClientSecret: stringValue(values[FieldClientSecret]),
		PageName:     stringValue(values[FieldPageName]),
		PageID:       stringValue(values[FieldPageID]),
		AccessToken:  stringValue(values[FieldAccessToken]),
		CacheExpire:  CacheLifetime(stringValue(values[FieldCacheExpire])),
		Limit:        DefaultLimit,
	}
	if out.CacheExpire == "" {
		out.CacheExpire = CacheDaily
	}
	if limit, ok := model.AsInt64(values[FieldLimit]); ok {
		if limit < MinLimit || limit > MaxLimit {
			errs = append(errs, fmt.Errorf("%w: %s %d is not within %d..%d", ErrOutOfRange, FieldLimit, limit, MinLimit, MaxLimit))
		} else {
			out.Limit = int(limit)
		}
	}
	if b, ok := values[FieldSortReverse].(bool); ok {
		out.SortReverse = b
	}

	var err error
	if out.DateSince, err = dateValue(values[FieldDateSince]); err != nil {
		errs = append(errs, fmt.Errorf("fbevents: %s: %w", FieldDateSince, err))
	}
	if out.DateUntil, err = dateValue(values[FieldDateUntil]); err != nil {
		errs = append(errs, fmt.Errorf("fbevents: %s: %w", FieldDateUntil, err))
	}
	if dateRangeReversed(out.DateSince, out.DateUntil) {
		errs = append(errs, fmt.Errorf("fbevents: %s is before %s", FieldDateUntil, FieldDateSince))
	}

	return out, errors.Join(errs...)
}

// CheckRecord reports the cross-field problems of resolved values that
// per-field schema checks cannot see: dateUntil before dateSince. The result
// is keyed by field name and is nil when the record is consistent. Dates
// that do not parse are left to the per-field checks.
func CheckRecord(values model.Record) map[string][]string {
	since, err := dateValue(values[FieldDateSince])
	if err != nil {
		return nil
	}
	until, err := dateValue(values[FieldDateUntil])
	if err != nil {
		return nil
	}
	if dateRangeReversed(since, until) {
		return map[string][]string{
			FieldDateUntil: {"must not be before " + FieldDateSince},
		}
	}
	return nil
}

func dateRangeReversed(since, until time.Time) bool {
	return !since.IsZero() && !until.IsZero() && until.Before(since)
}

func stringValue(value any) string {
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func dateValue(value any) (time.Time, error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return time.Time{}, nil
		}
		return time.Parse(model.DateLayout, strings.TrimSpace(v))
	default:
		return time.Time{}, fmt.Errorf("unsupported date value %T", value)
	}
}
