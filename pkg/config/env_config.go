// pkg/config/env_config.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/opd-ai/go-spacebarge/pkg/cruise"
	"github.com/opd-ai/go-spacebarge/pkg/validation"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SPACEBARGE_"

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

// ApplyEnvironmentOverrides applies SPACEBARGE_* environment variables on
// top of config and validates the result
func ApplyEnvironmentOverrides(config *GameConfig) error {
	config.WorldSize = getEnvAsFloatOrDefault(EnvPrefix+"WORLD_SIZE", config.WorldSize)

	config.Simulation.TickRate = getEnvAsIntOrDefault(EnvPrefix+"TICK_RATE", config.Simulation.TickRate)
	config.Simulation.MaxDeltaTime = getEnvAsFloatOrDefault(EnvPrefix+"MAX_DELTA_TIME", config.Simulation.MaxDeltaTime)
	config.Simulation.RespawnDelay = getEnvAsFloatOrDefault(EnvPrefix+"RESPAWN_DELAY", config.Simulation.RespawnDelay)
	config.Simulation.CollisionDamage = getEnvAsFloatOrDefault(EnvPrefix+"COLLISION_DAMAGE", config.Simulation.CollisionDamage)

	config.Flier.MaxVelocity = getEnvAsFloatOrDefault(EnvPrefix+"FLIER_MAX_VELOCITY", config.Flier.MaxVelocity)
	config.Flier.Health = getEnvAsFloatOrDefault(EnvPrefix+"FLIER_HEALTH", config.Flier.Health)

	config.Cruise.RaysCount = getEnvAsIntOrDefault(EnvPrefix+"CRUISE_RAYS_COUNT", config.Cruise.RaysCount)
	config.Cruise.SpreadAngle = getEnvAsFloatOrDefault(EnvPrefix+"CRUISE_SPREAD_ANGLE", config.Cruise.SpreadAngle)
	config.Cruise.CastDistance = getEnvAsFloatOrDefault(EnvPrefix+"CRUISE_CAST_DISTANCE", config.Cruise.CastDistance)
	config.Cruise.CheckInterval = getEnvAsFloatOrDefault(EnvPrefix+"CRUISE_CHECK_INTERVAL", config.Cruise.CheckInterval)

	config.Fuel.Capacity = getEnvAsFloatOrDefault(EnvPrefix+"FUEL_CAPACITY", config.Fuel.Capacity)
	config.Fuel.DrainRate = getEnvAsFloatOrDefault(EnvPrefix+"FUEL_DRAIN_RATE", config.Fuel.DrainRate)

	config.Reward.DestroyAmount = getEnvAsIntOrDefault(EnvPrefix+"REWARD_AMOUNT", config.Reward.DestroyAmount)
	config.Player.StartingCanisters = getEnvAsIntOrDefault(EnvPrefix+"STARTING_CANISTERS", config.Player.StartingCanisters)
	config.Player.Immortal = getEnvAsBoolOrDefault(EnvPrefix+"PLAYER_IMMORTAL", config.Player.Immortal)

	return config.Validate()
}

// Validate checks that the configuration describes a playable level
func (c *GameConfig) Validate() error {
	if c.WorldSize < 100 || c.WorldSize > 100000 {
		return &ValidationError{Field: "WorldSize", Message: "must be between 100 and 100000"}
	}

	if c.Simulation.TickRate < 1 || c.Simulation.TickRate > 240 {
		return &ValidationError{Field: "Simulation.TickRate", Message: "must be between 1 and 240"}
	}
	if c.Simulation.MaxDeltaTime <= 0 {
		return &ValidationError{Field: "Simulation.MaxDeltaTime", Message: "must be positive"}
	}
	if c.Simulation.RespawnDelay < 0 {
		return &ValidationError{Field: "Simulation.RespawnDelay", Message: "must not be negative"}
	}
	if c.Simulation.CollisionDamage < 0 {
		return &ValidationError{Field: "Simulation.CollisionDamage", Message: "must not be negative"}
	}

	if err := c.validateFlier(); err != nil {
		return err
	}

	if c.Cruise.RaysCount < cruise.MinRaysCount || c.Cruise.RaysCount > cruise.MaxRaysCount {
		return &ValidationError{
			Field:   "Cruise.RaysCount",
			Message: fmt.Sprintf("must be between %d and %d", cruise.MinRaysCount, cruise.MaxRaysCount),
		}
	}
	if err := c.Cruise.Validate(); err != nil {
		return &ValidationError{Field: "Cruise", Message: err.Error()}
	}

	if c.Fuel.Capacity <= 0 {
		return &ValidationError{Field: "Fuel.Capacity", Message: "must be positive"}
	}
	if c.Fuel.DrainRate < 0 {
		return &ValidationError{Field: "Fuel.DrainRate", Message: "must not be negative"}
	}
	if c.Reward.DestroyAmount < 0 {
		return &ValidationError{Field: "Reward.DestroyAmount", Message: "must not be negative"}
	}
	if c.Player.StartingCanisters < 0 {
		return &ValidationError{Field: "Player.StartingCanisters", Message: "must not be negative"}
	}

	for i, o := range c.Obstacles {
		if o.Radius <= 0 {
			return &ValidationError{Field: fmt.Sprintf("Obstacles[%d].Radius", i), Message: "must be positive"}
		}
	}
	for i, e := range c.Enemies {
		if _, err := validation.ValidateName(e.Name); err != nil {
			return &ValidationError{Field: fmt.Sprintf("Enemies[%d].Name", i), Message: err.Error()}
		}
		if len(e.Patrol) == 0 {
			return &ValidationError{Field: fmt.Sprintf("Enemies[%d].Patrol", i), Message: "needs at least one point"}
		}
	}

	return nil
}

func (c *GameConfig) validateFlier() error {
	f := c.Flier
	positive := []struct {
		field string
		value float64
	}{
		{"Flier.Health", f.Health},
		{"Flier.MaxVelocity", f.MaxVelocity},
		{"Flier.MaxAngularVelocity", f.MaxAngularVelocity},
		{"Flier.Mass", f.Mass},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return &ValidationError{Field: p.field, Message: "must be positive"}
		}
	}
	if f.ForwardThrust < 0 || f.ManeuverThrust < 0 || f.RotationTorque < 0 {
		return &ValidationError{Field: "Flier", Message: "thrust and torque must not be negative"}
	}
	if f.VelocityDamping < 0 || f.VelocityDamping > 1 {
		return &ValidationError{Field: "Flier.VelocityDamping", Message: "must be between 0 and 1"}
	}
	return nil
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns environment variable as int or default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnvOrDefault(key, "")); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsFloatOrDefault returns environment variable as float64 or default
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnvOrDefault(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBoolOrDefault returns environment variable as bool or default
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnvOrDefault(key, "")); err == nil {
		return value
	}
	return defaultValue
}
