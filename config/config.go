package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"lottohouse/database"
	"lottohouse/domain/entities"
)

// Config holds all application configuration
type Config struct {
	// HTTP configuration
	HTTPAddr string

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Game configuration
	PickCount         int
	MaxNumber         int64
	TicketPrice       decimal.Decimal
	PerDrawTicketCap  int
	LockWindowSeconds int
	HouseEdge         decimal.Decimal

	// Referral configuration
	ReferralBonus         decimal.Decimal
	MinQualifyingDeposit  decimal.Decimal
	MilestoneBonus        decimal.Decimal
	MilestoneReferralRate int // referral count that triggers the milestone

	// Draw scheduling configuration
	DrawHourUTC int          // Hour in UTC when scheduled draws close (0-23)
	DrawWeekday time.Weekday // Weekday of the recurring draw

	// Jackpot configuration
	JackpotBase                  decimal.Decimal
	JackpotUpdateIntervalMinutes int
	JackpotIncrementMin          decimal.Decimal
	JackpotIncrementMax          decimal.Decimal

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// LockWindow returns the purchase cutoff before the draw time
func (c *Config) LockWindow() time.Duration {
	return time.Duration(c.LockWindowSeconds) * time.Second
}

// Rules assembles the game rules the domain services run on
func (c *Config) Rules() entities.GameRules {
	rules := entities.DefaultGameRules()
	rules.PickCount = c.PickCount
	rules.MaxNumber = c.MaxNumber
	rules.TicketPrice = c.TicketPrice
	rules.PerDrawTicketCap = c.PerDrawTicketCap
	rules.LockWindow = c.LockWindow()
	rules.HouseEdge = c.HouseEdge
	rules.ReferralBonus = c.ReferralBonus
	rules.MinQualifyingDeposit = c.MinQualifyingDeposit
	rules.MilestoneBonus = c.MilestoneBonus
	rules.MilestoneReferralCount = c.MilestoneReferralRate
	return rules
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		HTTPAddr:     getEnv("LOTTO_HTTP_ADDR", ":8080"),
		DatabaseURL:  os.Getenv("LOTTO_DATABASE_URL"),
		DatabaseName: os.Getenv("LOTTO_DATABASE_NAME"),

		// Game defaults
		PickCount:         getEnvInt("LOTTO_PICK_COUNT", entities.DefaultPickCount),
		MaxNumber:         int64(getEnvInt("LOTTO_MAX_NUMBER", int(entities.DefaultMaxNumber))),
		TicketPrice:       getEnvDecimal("LOTTO_TICKET_PRICE", decimal.NewFromInt(100)),
		PerDrawTicketCap:  getEnvInt("LOTTO_PER_DRAW_TICKET_CAP", 10),
		LockWindowSeconds: getEnvInt("LOTTO_LOCK_WINDOW_SECONDS", 60),
		HouseEdge:         getEnvDecimal("LOTTO_HOUSE_EDGE", decimal.NewFromFloat(0.10)),

		// Referral defaults
		ReferralBonus:         getEnvDecimal("LOTTO_REFERRAL_BONUS", decimal.NewFromInt(100)),
		MinQualifyingDeposit:  getEnvDecimal("LOTTO_MIN_QUALIFYING_DEPOSIT", decimal.NewFromInt(1000)),
		MilestoneBonus:        getEnvDecimal("LOTTO_MILESTONE_BONUS", decimal.NewFromInt(1000)),
		MilestoneReferralRate: getEnvInt("LOTTO_MILESTONE_REFERRAL_COUNT", 5),

		// Scheduling defaults: weekly draw, Saturday 20:00 UTC
		DrawHourUTC: getEnvInt("LOTTO_DRAW_HOUR_UTC", 20),
		DrawWeekday: time.Weekday(getEnvInt("LOTTO_DRAW_WEEKDAY", int(time.Saturday))),

		// Jackpot defaults
		JackpotBase:                  getEnvDecimal("LOTTO_JACKPOT_BASE", decimal.NewFromInt(100000)),
		JackpotUpdateIntervalMinutes: getEnvInt("LOTTO_JACKPOT_UPDATE_INTERVAL_MINUTES", 60),
		JackpotIncrementMin:          getEnvDecimal("LOTTO_JACKPOT_INCREMENT_MIN", decimal.NewFromInt(100)),
		JackpotIncrementMax:          getEnvDecimal("LOTTO_JACKPOT_INCREMENT_MAX", decimal.NewFromInt(1000)),

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.DrawHourUTC < 0 || config.DrawHourUTC > 23 {
		return nil, fmt.Errorf("LOTTO_DRAW_HOUR_UTC must be in 0-23, got %d", config.DrawHourUTC)
	}
	if config.JackpotIncrementMax.LessThan(config.JackpotIncrementMin) {
		return nil, fmt.Errorf("LOTTO_JACKPOT_INCREMENT_MAX must be >= LOTTO_JACKPOT_INCREMENT_MIN")
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("LOTTO_DATABASE_URL is required")
		}
	}

	if err := config.Rules().Validate(); err != nil {
		return nil, fmt.Errorf("invalid game configuration: %w", err)
	}

	return config, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if parsed, err := decimal.NewFromString(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:                  "test",
		HTTPAddr:                     ":0",
		PickCount:                    entities.DefaultPickCount,
		MaxNumber:                    entities.DefaultMaxNumber,
		TicketPrice:                  decimal.NewFromInt(100),
		PerDrawTicketCap:             10,
		LockWindowSeconds:            60,
		HouseEdge:                    decimal.NewFromFloat(0.10),
		ReferralBonus:                decimal.NewFromInt(100),
		MinQualifyingDeposit:         decimal.NewFromInt(1000),
		MilestoneBonus:               decimal.NewFromInt(1000),
		MilestoneReferralRate:        5,
		DrawHourUTC:                  20,
		DrawWeekday:                  time.Saturday,
		JackpotBase:                  decimal.NewFromInt(100000),
		JackpotUpdateIntervalMinutes: 60,
		JackpotIncrementMin:          decimal.NewFromInt(100),
		JackpotIncrementMax:          decimal.NewFromInt(1000),
	}
}
