// Package config загружает настройки сервера из YAML-файла.
// Отсутствующий файл не ошибка: применяются значения по умолчанию,
// чтобы сервер поднимался без какой-либо подготовки.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type Database struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	// Enabled=false переводит сервер на хранение в памяти: удобно для
	// локальной разработки и тестов без Postgres.
	Enabled bool `yaml:"enabled"`
}

// DSN собирает строку подключения для pgx.
func (d Database) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type Game struct {
	// ItemUseCostsTurn: тратит ли предмет в бою полный раунд.
	ItemUseCostsTurn bool `yaml:"item_use_costs_turn"`
	// EncounterTTL — время жизни совместного боя без сообщений.
	EncounterTTL time.Duration `yaml:"encounter_ttl"`
	// PresenceCutoff — порог отсечения оффлайн-игроков в присутствии.
	PresenceCutoff time.Duration `yaml:"presence_cutoff"`
	// SaveDebounce — пауза слияния перед записью сохранения.
	SaveDebounce time.Duration `yaml:"save_debounce"`
}

type Config struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Game     Game     `yaml:"game"`
}

// Default возвращает рабочую конфигурацию без внешних зависимостей.
func Default() *Config {
	return &Config{
		Server: Server{Host: "0.0.0.0", Port: 8080},
		Database: Database{
			Host: "localhost", Port: 5432,
			User: "rpg", Password: "rpg", Name: "rpg_together",
			Enabled: false,
		},
		Game: Game{
			ItemUseCostsTurn: false,
			EncounterTTL:     90 * time.Second,
			PresenceCutoff:   120 * time.Second,
			SaveDebounce:     2 * time.Second,
		},
	}
}

// Load читает конфигурацию из файла поверх значений по умолчанию.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
