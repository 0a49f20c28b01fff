package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// FaultPolicy decides what happens to the rest of an action list after an
// action reports a fault.
type FaultPolicy string

const (
	// FaultContinue reports the fault and runs the next action.
	FaultContinue FaultPolicy = "continue"
	// FaultHalt reports the fault, drops the rest of the list and leaves the
	// step current so the user can try again.
	FaultHalt FaultPolicy = "halt"
)

// ParseFaultPolicy validates a policy name.
func ParseFaultPolicy(s string) (FaultPolicy, error) {
	switch FaultPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", FaultContinue:
		return FaultContinue, nil
	case FaultHalt:
		return FaultHalt, nil
	default:
		return "", fmt.Errorf("invalid fault policy %q (expected continue or halt)", s)
	}
}

// Settings holds runtime tunables that are not part of the setup document.
type Settings struct {
	SettleDelay   time.Duration // Pause before each action of a list; zero disables it
	DeleteRetries int           // Retries after a failed delete, on top of the first attempt
	RetryDelay    time.Duration // Pause between delete attempts
	FaultPolicy   FaultPolicy
}

// LoadSettings reads settings from environment variables. Unset or invalid
// values fall back to the defaults.
//
// Environment Variables:
//   - MODSETUP_SETTLE_DELAY (default: 1s, 0 disables the pause)
//   - MODSETUP_DELETE_RETRIES (default: 10)
//   - MODSETUP_RETRY_DELAY (default: 1s)
//   - MODSETUP_FAULT_POLICY (default: continue)
func LoadSettings() Settings {
	policy, err := ParseFaultPolicy(os.Getenv("MODSETUP_FAULT_POLICY"))
	if err != nil {
		policy = FaultContinue
	}

	return Settings{
		SettleDelay:   parseDuration("MODSETUP_SETTLE_DELAY", time.Second),
		DeleteRetries: parseInt("MODSETUP_DELETE_RETRIES", 10),
		RetryDelay:    parseDuration("MODSETUP_RETRY_DELAY", time.Second),
		FaultPolicy:   policy,
	}
}

func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}

func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}
	return i
}
