package model

import "fmt"

// Minimum billed consumption per grid connection type, kWh/month.
const (
	MinConnectionSinglePhase = 30
	MinConnectionTwoPhase    = 50
	MinConnectionThreePhase  = 100
)

// MinConnectionOptions lists the accepted minimum-connection values.
var MinConnectionOptions = []float64{MinConnectionSinglePhase, MinConnectionTwoPhase, MinConnectionThreePhase}

// ValidateMinConnection rejects values that are not a standard connection type.
func ValidateMinConnection(kwh float64) error {
	for _, v := range MinConnectionOptions {
		if kwh == v {
			return nil
		}
	}
	return fmt.Errorf("minimum connection must be one of %v kWh, got %v", MinConnectionOptions, kwh)
}
