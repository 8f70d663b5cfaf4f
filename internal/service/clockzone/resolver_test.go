package clockzone

import (
	"errors"
	"testing"
	"time"

	"github.com/chivanit/medremind/internal/domain"
)

func TestNewResolver_UnknownDefaultZone(t *testing.T) {
	_, err := NewResolver("Asia/Nowhere")
	if !errors.Is(err, domain.ErrUnknownTimezone) {
		t.Errorf("NewResolver() error = %v, want ErrUnknownTimezone", err)
	}
}

func TestResolver_Resolve(t *testing.T) {
	resolver, err := NewResolver("Asia/Bangkok")
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	tests := []struct {
		name       string
		at         time.Time
		zone       string
		wantDate   time.Time
		wantMinute int
		wantZone   string
	}{
		{
			name:       "empty zone falls back to default",
			at:         time.Date(2026, 3, 14, 0, 5, 0, 0, time.UTC),
			zone:       "",
			wantDate:   time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
			wantMinute: 7*60 + 5,
			wantZone:   "Asia/Bangkok",
		},
		{
			name:       "explicit zone overrides default",
			at:         time.Date(2026, 3, 14, 0, 5, 0, 0, time.UTC),
			zone:       "Asia/Tokyo",
			wantDate:   time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
			wantMinute: 9*60 + 5,
			wantZone:   "Asia/Tokyo",
		},
		{
			name:       "local date rolls over ahead of UTC",
			at:         time.Date(2026, 3, 14, 22, 30, 0, 0, time.UTC),
			zone:       "Asia/Bangkok",
			wantDate:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			wantMinute: 5*60 + 30,
			wantZone:   "Asia/Bangkok",
		},
		{
			name:       "local date lags behind UTC",
			at:         time.Date(2026, 3, 14, 2, 0, 0, 0, time.UTC),
			zone:       "America/New_York",
			wantDate:   time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
			wantMinute: 21 * 60,
			wantZone:   "America/New_York",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.Resolve(tt.at, tt.zone)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if !got.Date.Equal(tt.wantDate) {
				t.Errorf("Resolve() Date = %v, want %v", got.Date, tt.wantDate)
			}
			if got.MinuteOfDay != tt.wantMinute {
				t.Errorf("Resolve() MinuteOfDay = %d, want %d", got.MinuteOfDay, tt.wantMinute)
			}
			if got.Zone != tt.wantZone {
				t.Errorf("Resolve() Zone = %q, want %q", got.Zone, tt.wantZone)
			}
		})
	}
}

func TestResolver_Resolve_UnknownZoneFailsClosed(t *testing.T) {
	resolver, err := NewResolver("UTC")
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	_, err = resolver.Resolve(time.Now(), "Mars/Olympus")
	if !errors.Is(err, domain.ErrUnknownTimezone) {
		t.Errorf("Resolve() error = %v, want ErrUnknownTimezone", err)
	}
}

func TestResolver_Resolve_DSTSpringForward(t *testing.T) {
	resolver, err := NewResolver("UTC")
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	// 2026-03-08 07:30 UTC is 03:30 EDT, after the spring-forward jump.
	got, err := resolver.Resolve(time.Date(2026, 3, 8, 7, 30, 0, 0, time.UTC), "America/New_York")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.MinuteOfDay != 3*60+30 {
		t.Errorf("Resolve() MinuteOfDay = %d, want %d", got.MinuteOfDay, 3*60+30)
	}
}
