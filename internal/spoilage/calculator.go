// Package spoilage derives the risk tier and remaining safe storage window for
// a harvested lot from crop metadata and days since harvest.
package spoilage

import (
	"fmt"

	"mandimitra/internal/crops"
	"mandimitra/internal/facility"
)

// Risk is the spoilage risk tier for a lot at evaluation time.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// Assessment is the calculator output. MaxSafeStorageDays is relative to the
// storage type the engine intends to match (cold shelf life when a cold
// facility will be considered), while the risk tier is always derived from the
// conservative open-storage baseline.
type Assessment struct {
	Risk               Risk   `json:"risk"`
	MaxSafeStorageDays int    `json:"max_safe_storage_days"`
	Reasoning          string `json:"reasoning"`
	FallbackProfile    bool   `json:"fallback_profile,omitempty"`
}

// Tier promotion thresholds, expressed as fraction of open shelf life left.
const (
	lowFloor         = 0.5
	mediumFloor      = 0.2
	sensitivityFloor = 0.6
)

// Assess computes the assessment for a crop stored daysSinceHarvest days ago.
// storageType selects which shelf life bounds the safe window. fallback marks
// that meta came from the default profile for an unknown crop.
func Assess(meta crops.Metadata, daysSinceHarvest int, storageType facility.Type, fallback bool) Assessment {
	if daysSinceHarvest < 0 {
		daysSinceHarvest = 0
	}
	openLife := meta.OpenShelfLifeDays
	if openLife <= 0 {
		openLife = 1
	}

	remainingOpen := openLife - daysSinceHarvest
	if remainingOpen < 0 {
		remainingOpen = 0
	}
	fraction := float64(remainingOpen) / float64(openLife)

	risk := RiskHigh
	switch {
	case fraction >= lowFloor:
		risk = RiskLow
	case fraction >= mediumFloor:
		risk = RiskMedium
	}
	// High-sensitivity crops degrade faster than shelf life alone suggests;
	// promote one tier once less than 60% of open life remains.
	if meta.Sensitivity == crops.SensitivityHigh && fraction < sensitivityFloor {
		risk = promote(risk)
	}

	shelfRef := openLife
	if storageType == facility.TypeCold || storageType == facility.TypeControlledAtmosphere {
		if meta.ColdShelfLifeDays > 0 {
			shelfRef = meta.ColdShelfLifeDays
		}
	}
	maxSafe := shelfRef - daysSinceHarvest
	if maxSafe < 0 {
		maxSafe = 0
	}

	reason := fmt.Sprintf("%s has %d days of storage life left before high spoilage risk", meta.Name, maxSafe)
	if fallback {
		reason += " (unknown crop, conservative default profile applied)"
	}
	return Assessment{
		Risk:               risk,
		MaxSafeStorageDays: maxSafe,
		Reasoning:          reason,
		FallbackProfile:    fallback,
	}
}

func promote(r Risk) Risk {
	switch r {
	case RiskLow:
		return RiskMedium
	case RiskMedium:
		return RiskHigh
	default:
		return RiskHigh
	}
}
