// pkg/config/level_template.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
)

// LevelTemplate is a named obstacle layout with its enemy patrols
type LevelTemplate struct {
	Name        string
	Description string
	WorldSize   float64
	Obstacles   []ObstacleConfig
	Enemies     []EnemyConfig
	PlayerSpawn SpawnConfig
}

var levelTemplates = map[string]*LevelTemplate{
	"open_space": {
		Name:        "Open Space",
		Description: "A single raider on a long patrol with nothing in the way",
		WorldSize:   400,
		Enemies: []EnemyConfig{
			{
				Name:   "Raider",
				Spawn:  SpawnConfig{Position: Point{Z: 80}, Yaw: 180},
				Patrol: []Point{{Z: 80}, {Z: -80}},
			},
		},
	},
	"asteroid_belt": {
		Name:        "Asteroid Belt",
		Description: "A wall of rocks between two patrol lanes",
		WorldSize:   600,
		Obstacles: []ObstacleConfig{
			{Position: Point{X: -40, Z: 30}, Radius: 5, Layer: 1},
			{Position: Point{X: -20, Z: 32}, Radius: 4, Layer: 1},
			{Position: Point{X: 0, Z: 30}, Radius: 6, Layer: 1},
			{Position: Point{X: 20, Z: 28}, Radius: 4, Layer: 1},
			{Position: Point{X: 40, Z: 31}, Radius: 5, Layer: 1},
		},
		Enemies: []EnemyConfig{
			{
				Name:   "Crosser",
				Spawn:  SpawnConfig{Position: Point{Z: 0}},
				Patrol: []Point{{Z: 60}, {Z: 0}},
			},
			{
				Name:   "Skirter",
				Spawn:  SpawnConfig{Position: Point{X: 60, Z: 60}, Yaw: 270},
				Patrol: []Point{{X: -60, Z: 60}, {X: 60, Z: 60}},
			},
		},
		PlayerSpawn: SpawnConfig{Position: Point{Z: -20}},
	},
	"minefield": {
		Name:        "Minefield",
		Description: "Tight clusters that force retreats and pushes",
		WorldSize:   300,
		Obstacles: []ObstacleConfig{
			{Position: Point{X: 0, Z: 12}, Radius: 3, Layer: 1},
			{Position: Point{X: 8, Z: 10}, Radius: 3, Layer: 1},
			{Position: Point{X: -8, Z: 10}, Radius: 3, Layer: 1},
			{Position: Point{X: 30, Z: 40}, Radius: 8, Layer: 1},
			{Position: Point{X: -30, Z: 45}, Radius: 8, Layer: 1},
		},
		Enemies: []EnemyConfig{
			{
				Name:   "Sentry",
				Spawn:  SpawnConfig{},
				Patrol: []Point{{Z: 70}, {X: 50}, {X: -50}},
			},
		},
		PlayerSpawn: SpawnConfig{Position: Point{Z: -40}},
	},
}

// GetLevelTemplate returns the named template, or nil if it does not exist
func GetLevelTemplate(name string) *LevelTemplate {
	return levelTemplates[name]
}

// ListLevelTemplates returns template keys mapped to their descriptions
func ListLevelTemplates() map[string]string {
	out := make(map[string]string, len(levelTemplates))
	for key, t := range levelTemplates {
		out[key] = t.Description
	}
	return out
}

// ApplyLevelTemplate replaces the layout of config with the named template
func ApplyLevelTemplate(config *GameConfig, name string) error {
	template := GetLevelTemplate(name)
	if template == nil {
		return fmt.Errorf("unknown level template %q", name)
	}

	config.WorldSize = template.WorldSize
	config.Obstacles = append([]ObstacleConfig(nil), template.Obstacles...)
	config.Enemies = make([]EnemyConfig, len(template.Enemies))
	for i, e := range template.Enemies {
		e.Patrol = append([]Point(nil), e.Patrol...)
		config.Enemies[i] = e
	}
	config.PlayerSpawn = template.PlayerSpawn
	return nil
}

// LoadConfigWithTemplate loads path, falling back to the default config when
// the file does not exist, then applies the named template
func LoadConfigWithTemplate(path, name string) (*GameConfig, error) {
	config, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		config, err = DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	if err := ApplyLevelTemplate(config, name); err != nil {
		return nil, err
	}
	return config, nil
}
