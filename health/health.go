// Package health reports whether a tool gate can serve turns: the catalog
// still offers tools, every classifier category has tools behind it, and
// the settings store answers.
//
//	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
//	defer cancel()
//
//	status := health.Combine(
//		health.CatalogCheck(cat),
//		health.RulesCheck(rules, cat),
//		health.StoreCheck(ctx, store),
//	)
//	if status.IsUnhealthy() {
//		log.Printf("tool gate unhealthy: %s %+v", status.Message, status.Details)
//	}
//
// Combine follows this priority: unhealthy when any check is unhealthy,
// degraded when any check is degraded, healthy otherwise.
package health

import (
	"context"
	"fmt"
	"time"

	"github.com/zero-day-ai/toolgate/catalog"
	"github.com/zero-day-ai/toolgate/selector"
	"github.com/zero-day-ai/toolgate/settings"
)

// Health status constants represent the operational state of a component.
const (
	// StatusHealthy indicates the component is fully operational.
	StatusHealthy = "healthy"

	// StatusDegraded indicates the component is operational but experiencing issues.
	StatusDegraded = "degraded"

	// StatusUnhealthy indicates the component is not operational.
	StatusUnhealthy = "unhealthy"
)

// DefaultStoreTimeout bounds StoreCheck when ctx has no deadline.
const DefaultStoreTimeout = 5 * time.Second

// Status represents the health state of a component.
type Status struct {
	// Status is the current health state (healthy, degraded, or unhealthy).
	Status string `json:"status"`

	// Message provides a human-readable description of the health status.
	Message string `json:"message,omitempty"`

	// Details contains additional diagnostic information.
	Details map[string]any `json:"details,omitempty"`
}

// IsHealthy returns true if the status is StatusHealthy.
func (s Status) IsHealthy() bool {
	return s.Status == StatusHealthy
}

// IsDegraded returns true if the status is StatusDegraded.
func (s Status) IsDegraded() bool {
	return s.Status == StatusDegraded
}

// IsUnhealthy returns true if the status is StatusUnhealthy.
func (s Status) IsUnhealthy() bool {
	return s.Status == StatusUnhealthy
}

// Healthy creates a healthy status.
func Healthy(message string) Status {
	return Status{Status: StatusHealthy, Message: message}
}

// Degraded creates a degraded status with optional details.
func Degraded(message string, details map[string]any) Status {
	return Status{Status: StatusDegraded, Message: message, Details: details}
}

// Unhealthy creates an unhealthy status with optional details.
func Unhealthy(message string, details map[string]any) Status {
	return Status{Status: StatusUnhealthy, Message: message, Details: details}
}

// CatalogCheck is unhealthy when the catalog offers no enabled tool and
// degraded when some tools are disabled.
func CatalogCheck(cat *catalog.Catalog) Status {
	if cat == nil {
		return Unhealthy("catalog is not configured", nil)
	}

	total := cat.Len()
	enabled := len(cat.Pool())
	details := map[string]any{
		"total":   total,
		"enabled": enabled,
	}

	switch {
	case enabled == 0:
		return Unhealthy("catalog has no enabled tools", details)
	case enabled < total:
		return Degraded(fmt.Sprintf("%d of %d tools disabled", total-enabled, total), details)
	default:
		return Healthy(fmt.Sprintf("all %d tools enabled", total))
	}
}

// RulesCheck is degraded when an enabled classifier rule selects a category
// with no enabled tool, and unhealthy when that applies to every fallback
// category, since unmatched queries would then get no tools.
func RulesCheck(rules []selector.Rule, cat *catalog.Catalog) Status {
	if cat == nil {
		return Unhealthy("catalog is not configured", nil)
	}

	served := make(map[catalog.Category]bool)
	for _, d := range cat.Pool() {
		served[d.Category] = true
	}

	var empty []string
	fallbacks, servedFallbacks := 0, 0
	for _, r := range rules {
		if !r.Enabled {
			continue
		}
		if r.Fallback {
			fallbacks++
			if served[r.Category] {
				servedFallbacks++
			}
		}
		if !served[r.Category] {
			empty = append(empty, string(r.Category))
		}
	}

	if fallbacks > 0 && servedFallbacks == 0 {
		return Unhealthy("no fallback category has enabled tools", map[string]any{
			"empty_categories": empty,
		})
	}
	if len(empty) > 0 {
		return Degraded(fmt.Sprintf("%d categories without enabled tools", len(empty)), map[string]any{
			"empty_categories": empty,
		})
	}
	return Healthy("every category has enabled tools")
}

// StoreCheck loads the flags from store. A nil store is healthy: the gate
// then runs without external settings.
func StoreCheck(ctx context.Context, store settings.Store) Status {
	if store == nil {
		return Healthy("no settings store configured")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultStoreTimeout)
		defer cancel()
	}

	start := time.Now()
	flags, err := store.Load(ctx)
	latency := time.Since(start)

	if err != nil && flags == nil {
		return Unhealthy("settings store unreachable", map[string]any{
			"error": err.Error(),
		})
	}
	if err != nil {
		return Degraded("settings store holds malformed flags", map[string]any{
			"error": err.Error(),
			"flags": len(flags),
		})
	}
	return Status{
		Status:  StatusHealthy,
		Message: fmt.Sprintf("settings store answered in %s", latency.Round(time.Millisecond)),
		Details: map[string]any{"flags": len(flags)},
	}
}

// Combine aggregates multiple health checks into a single status.
func Combine(checks ...Status) Status {
	if len(checks) == 0 {
		return Healthy("no checks provided")
	}

	var unhealthyChecks []string
	var degradedChecks []string
	var healthyCount int

	for _, check := range checks {
		msg := check.Message
		if msg == "" {
			msg = "unnamed check"
		}
		switch check.Status {
		case StatusUnhealthy:
			unhealthyChecks = append(unhealthyChecks, msg)
		case StatusDegraded:
			degradedChecks = append(degradedChecks, msg)
		case StatusHealthy:
			healthyCount++
		}
	}

	if len(unhealthyChecks) > 0 {
		return Unhealthy(
			fmt.Sprintf("%d check(s) failed", len(unhealthyChecks)),
			map[string]any{
				"total":         len(checks),
				"unhealthy":     len(unhealthyChecks),
				"degraded":      len(degradedChecks),
				"healthy":       healthyCount,
				"failed_checks": unhealthyChecks,
			},
		)
	}

	if len(degradedChecks) > 0 {
		return Degraded(
			fmt.Sprintf("%d check(s) degraded", len(degradedChecks)),
			map[string]any{
				"total":           len(checks),
				"degraded":        len(degradedChecks),
				"healthy":         healthyCount,
				"degraded_checks": degradedChecks,
			},
		)
	}

	return Healthy(fmt.Sprintf("all %d check(s) passed", len(checks)))
}
