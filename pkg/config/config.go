// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/opd-ai/go-spacebarge/pkg/cruise"
	"github.com/opd-ai/go-spacebarge/pkg/flier"
	"github.com/opd-ai/go-spacebarge/pkg/physics"
)

// GameConfig contains configuration for a barge level
type GameConfig struct {
	WorldSize   float64          `json:"worldSize" yaml:"worldSize"`
	Flier       FlierConfig      `json:"flier" yaml:"flier"`
	Cruise      cruise.Settings  `json:"cruise" yaml:"cruise"`
	Fuel        FuelConfig       `json:"fuel" yaml:"fuel"`
	Reward      RewardConfig     `json:"reward" yaml:"reward"`
	Player      PlayerConfig     `json:"player" yaml:"player"`
	Simulation  SimulationConfig `json:"simulation" yaml:"simulation"`
	Obstacles   []ObstacleConfig `json:"obstacles" yaml:"obstacles"`
	Enemies     []EnemyConfig    `json:"enemies" yaml:"enemies"`
	PlayerSpawn SpawnConfig      `json:"playerSpawn" yaml:"playerSpawn"`
}

// FlierConfig contains the baseline stats shared by every flier
type FlierConfig struct {
	Health             float64 `json:"health" yaml:"health"`
	MaxVelocity        float64 `json:"maxVelocity" yaml:"maxVelocity"`
	MaxAngularVelocity float64 `json:"maxAngularVelocity" yaml:"maxAngularVelocity"`
	ForwardThrust      float64 `json:"forwardThrust" yaml:"forwardThrust"`
	ManeuverThrust     float64 `json:"maneuverThrust" yaml:"maneuverThrust"`
	RotationTorque     float64 `json:"rotationTorque" yaml:"rotationTorque"`
	VelocityDamping    float64 `json:"velocityDamping" yaml:"velocityDamping"`
	Mass               float64 `json:"mass" yaml:"mass"`
}

// FuelConfig contains the player's fuel tank tuning
type FuelConfig struct {
	Capacity  float64 `json:"capacity" yaml:"capacity"`
	DrainRate float64 `json:"drainRate" yaml:"drainRate"`
}

// RewardConfig contains score rewards
type RewardConfig struct {
	DestroyAmount int `json:"destroyAmount" yaml:"destroyAmount"`
}

// PlayerConfig contains the player's starting reserve
type PlayerConfig struct {
	StartingCanisters int  `json:"startingCanisters" yaml:"startingCanisters"`
	Immortal          bool `json:"immortal" yaml:"immortal"`
}

// SimulationConfig contains tick settings
type SimulationConfig struct {
	TickRate        int     `json:"tickRate" yaml:"tickRate"`
	MaxDeltaTime    float64 `json:"maxDeltaTime" yaml:"maxDeltaTime"`
	RespawnDelay    float64 `json:"respawnDelay" yaml:"respawnDelay"`
	CollisionDamage float64 `json:"collisionDamage" yaml:"collisionDamage"` // per second inside an obstacle
}

// Point is a world position
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Vector converts the point to a physics vector.
func (p Point) Vector() physics.Vector3 {
	return physics.Vector3{X: p.X, Y: p.Y, Z: p.Z}
}

// ObstacleConfig contains one spherical obstacle
type ObstacleConfig struct {
	Position Point   `json:"position" yaml:"position"`
	Radius   float64 `json:"radius" yaml:"radius"`
	Layer    uint32  `json:"layer" yaml:"layer"`
}

// SpawnConfig is where and facing which way a flier starts
type SpawnConfig struct {
	Position Point   `json:"position" yaml:"position"`
	Yaw      float64 `json:"yaw" yaml:"yaw"`
}

// EnemyConfig contains one autopiloted enemy and the points it patrols
type EnemyConfig struct {
	Name   string      `json:"name" yaml:"name"`
	Spawn  SpawnConfig `json:"spawn" yaml:"spawn"`
	Patrol []Point     `json:"patrol" yaml:"patrol"`
}

// LoadConfig loads a configuration from a JSON or YAML file. Fields missing
// from the file keep their default values; obstacle and enemy lists are
// taken from the file only.
func LoadConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	config.Obstacles = nil
	config.Enemies = nil

	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves a configuration to a file, as YAML when the extension
// says so and JSON otherwise
func SaveConfig(config *GameConfig, path string) error {
	if config == nil {
		return errors.New("config is nil")
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(config)
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// FlierStats converts the flier section into baseline stats.
func (c *GameConfig) FlierStats() flier.Stats {
	return flier.Stats{
		Health:             c.Flier.Health,
		MaxVelocity:        c.Flier.MaxVelocity,
		MaxAngularVelocity: c.Flier.MaxAngularVelocity,
		ForwardThrust:      c.Flier.ForwardThrust,
		ManeuverThrust:     c.Flier.ManeuverThrust,
		RotationTorque:     c.Flier.RotationTorque,
		VelocityDamping:    c.Flier.VelocityDamping,
	}
}

// ObstacleSpheres converts the obstacle list into physics spheres.
func (c *GameConfig) ObstacleSpheres() []physics.Sphere {
	spheres := make([]physics.Sphere, 0, len(c.Obstacles))
	for _, o := range c.Obstacles {
		spheres = append(spheres, physics.Sphere{
			Center: o.Position.Vector(),
			Radius: o.Radius,
			Layer:  physics.LayerMask(o.Layer),
		})
	}
	return spheres
}

// DefaultConfig returns a default game configuration
func DefaultConfig() *GameConfig {
	stats := flier.DefaultStats()
	return &GameConfig{
		WorldSize: 400,
		Flier: FlierConfig{
			Health:             stats.Health,
			MaxVelocity:        stats.MaxVelocity,
			MaxAngularVelocity: stats.MaxAngularVelocity,
			ForwardThrust:      stats.ForwardThrust,
			ManeuverThrust:     stats.ManeuverThrust,
			RotationTorque:     stats.RotationTorque,
			VelocityDamping:    stats.VelocityDamping,
			Mass:               1,
		},
		Cruise: cruise.DefaultSettings(),
		Fuel: FuelConfig{
			Capacity:  100,
			DrainRate: 2,
		},
		Reward: RewardConfig{
			DestroyAmount: 350,
		},
		Player: PlayerConfig{
			StartingCanisters: 3,
		},
		Simulation: SimulationConfig{
			TickRate:        60,
			MaxDeltaTime:    0.1,
			RespawnDelay:    3,
			CollisionDamage: 20,
		},
		Obstacles: []ObstacleConfig{
			{Position: Point{X: 0, Z: 40}, Radius: 4, Layer: 1},
			{Position: Point{X: 25, Z: 60}, Radius: 6, Layer: 1},
			{Position: Point{X: -30, Z: 20}, Radius: 5, Layer: 1},
			{Position: Point{X: -10, Z: -35}, Radius: 3, Layer: 1},
		},
		Enemies: []EnemyConfig{
			{
				Name:  "Raider",
				Spawn: SpawnConfig{Position: Point{X: 50, Z: 50}, Yaw: 180},
				Patrol: []Point{
					{X: 50, Z: 50}, {X: 50, Z: -50}, {X: -50, Z: -50}, {X: -50, Z: 50},
				},
			},
			{
				Name:  "Picket",
				Spawn: SpawnConfig{Position: Point{X: -60, Z: 0}, Yaw: 90},
				Patrol: []Point{
					{X: -60, Z: 0}, {X: 60, Z: 0},
				},
			},
		},
		PlayerSpawn: SpawnConfig{Position: Point{}, Yaw: 0},
	}
}
