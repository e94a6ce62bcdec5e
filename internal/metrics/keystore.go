package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// KeystoreStates lists the values reported by the keystore state gauge.
var KeystoreStates = []string{"unconfigured", "locked", "unlocked"}

// StateObserver returns the current keystore state, one of KeystoreStates.
type StateObserver func(ctx context.Context) (string, error)

// RegisterKeystoreStateGauge registers an observable gauge that reports 1 for the current
// keystore state and 0 for the others on every collection.
// Observation errors skip the collection.
func RegisterKeystoreStateGauge(meterProvider metric.MeterProvider, namespace string, observe StateObserver) error {
	meter := meterProvider.Meter(namespace)

	_, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_keystore_state", namespace),
		metric.WithDescription("Current keystore state (1 for the active state)"),
		metric.WithInt64Callback(func(ctx context.Context, o metric.Int64Observer) error {
			current, err := observe(ctx)
			if err != nil {
				return nil
			}
			for _, state := range KeystoreStates {
				var value int64
				if state == current {
					value = 1
				}
				o.Observe(value, metric.WithAttributes(attribute.String("state", state)))
			}
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create keystore state gauge: %w", err)
	}
	return nil
}
