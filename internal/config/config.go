package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // часовые пояса без системной zoneinfo

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-InstantBookingService/internal/domain"
	"github.com/m04kA/SMC-InstantBookingService/internal/pricing"
	"github.com/m04kA/SMC-InstantBookingService/pkg/types"
)

// Переменные окружения, которые переопределяют значения из файла
const (
	envDBPassword    = "DB_PASSWORD"
	envRedisPassword = "REDIS_PASSWORD"
	envHTTPPort      = "HTTP_PORT"
)

// Сетка доступных слотов по умолчанию
const (
	defaultWorkdayStart    = "08:00"
	defaultWorkdayEnd      = "20:00"
	defaultSlotStepMinutes = 30
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Redis    RedisConfig    `toml:"redis"`
	Pricing  PricingConfig  `toml:"pricing"`
	Booking  BookingConfig  `toml:"booking"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" validate:"required,min=1,max=65535"`
	ReadTimeout     int `toml:"read_timeout" validate:"gte=0"`     // секунды
	WriteTimeout    int `toml:"write_timeout" validate:"gte=0"`    // секунды
	IdleTimeout     int `toml:"idle_timeout" validate:"gte=0"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout" validate:"gte=0"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host" validate:"required"`
	Port            int    `toml:"port" validate:"required,min=1,max=65535"`
	User            string `toml:"user" validate:"required"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname" validate:"required"`
	SSLMode         string `toml:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`
	MaxOpenConns    int    `toml:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int    `toml:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" validate:"gte=0"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, sslMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn error"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path" validate:"required_if=Enabled true"`
	ServiceName string `toml:"service_name" validate:"required_if=Enabled true"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr" validate:"required_if=Enabled true"`
	Password string `toml:"password"`
	DB       int    `toml:"db" validate:"gte=0"`
}

// PricingConfig ставки и политика коэффициентов
// Суммы задаются строками, чтобы не терять точность
type PricingConfig struct {
	TaxRate       string       `toml:"tax_rate" validate:"required"`
	HourlyPrice   string       `toml:"default_hourly_price" validate:"required"`
	ServiceFeePct string       `toml:"default_service_fee_pct" validate:"required"`
	DemandIndex   string       `toml:"default_demand_index"`
	Policy        PolicyConfig `toml:"policy"`
}

// PolicyConfig переопределения политики коэффициентов; нулевые значения оставляют значения по умолчанию
type PolicyConfig struct {
	UtilizationThreshold *float64           `toml:"utilization_threshold" validate:"omitempty,gte=0,lt=1"`
	UtilizationSurge     *float64           `toml:"utilization_surge" validate:"omitempty,gte=0"`
	FreeDistanceKm       *float64           `toml:"free_distance_km" validate:"omitempty,gte=0"`
	PerKmCharge          *float64           `toml:"per_km_charge" validate:"omitempty,gte=0"`
	RushLeadHours        *float64           `toml:"rush_lead_hours" validate:"omitempty,gte=0"`
	RushMultiplier       *float64           `toml:"rush_multiplier" validate:"omitempty,gt=0"`
	EarlyLeadHours       *float64           `toml:"early_lead_hours" validate:"omitempty,gte=0"`
	EarlyMultiplier      *float64           `toml:"early_multiplier" validate:"omitempty,gt=0"`
	Seasonal             map[string]float64 `toml:"seasonal"`  // "january" = -0.05
	Recurring            map[string]float64 `toml:"recurring"` // "weekly" = 0.15
}

type BookingConfig struct {
	HoldTTL            int    `toml:"hold_ttl" validate:"gt=0"`              // секунды
	Timezone           string `toml:"timezone" validate:"required"`
	WorkdayStart       string `toml:"workday_start"`                         // "08:00"
	WorkdayEnd         string `toml:"workday_end"`                           // "20:00"
	SlotStepMinutes    int    `toml:"slot_step_minutes" validate:"gte=0"`    // 0 = 30 минут
	AdvanceBookingDays int    `toml:"advance_booking_days" validate:"gte=0"` // 0 = без ограничений
}

// Load читает конфигурацию из файла и переопределяет секреты из окружения (.env, если есть)
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	// .env необязателен: в контейнере переменные приходят из окружения
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(envDBPassword); ok {
		c.Database.Password = v
	}
	if v, ok := os.LookupEnv(envRedisPassword); ok {
		c.Redis.Password = v
	}
	if v, ok := os.LookupEnv(envHTTPPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", envHTTPPort, v, err)
		}
		c.Server.HTTPPort = port
	}
	return nil
}

// Validate проверяет теги validate и значения, которые нельзя описать тегами
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("config validation failed: booking.timezone: %w", err)
	}

	if _, _, err := c.Booking.Workday(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	taxRate, err := decimal.NewFromString(c.Pricing.TaxRate)
	if err != nil || taxRate.IsNegative() {
		return fmt.Errorf("config validation failed: pricing.tax_rate %q must be a non-negative decimal", c.Pricing.TaxRate)
	}

	if _, err := c.Pricing.Defaults(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := c.Pricing.Policy.Build(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// HoldTTLDuration время жизни удержания расписания исполнителя
func (c BookingConfig) HoldTTLDuration() time.Duration {
	return time.Duration(c.HoldTTL) * time.Second
}

// Location часовой пояс, в котором считаются даты и время бронирований
func (c BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Workday границы рабочего дня в минутах от полуночи.
// Пустые значения заменяются на 08:00 и 20:00.
func (c BookingConfig) Workday() (start, end int, err error) {
	startStr, endStr := c.WorkdayStart, c.WorkdayEnd
	if startStr == "" {
		startStr = defaultWorkdayStart
	}
	if endStr == "" {
		endStr = defaultWorkdayEnd
	}

	start, err = types.TimeString(startStr).Minutes()
	if err != nil {
		return 0, 0, fmt.Errorf("booking.workday_start %q: %w", startStr, err)
	}
	end, err = types.TimeString(endStr).Minutes()
	if err != nil {
		return 0, 0, fmt.Errorf("booking.workday_end %q: %w", endStr, err)
	}
	if end <= start {
		return 0, 0, fmt.Errorf("booking.workday_end %s must be after workday_start %s", endStr, startStr)
	}

	return start, end, nil
}

// SlotStep шаг сетки доступных слотов в минутах
func (c BookingConfig) SlotStep() int {
	if c.SlotStepMinutes == 0 {
		return defaultSlotStepMinutes
	}
	return c.SlotStepMinutes
}

// PricingDefaults значения, когда для услуги нет правила
type PricingDefaults struct {
	HourlyPrice   decimal.Decimal
	ServiceFeePct decimal.Decimal
	DemandIndex   decimal.Decimal
}

// TaxRateDecimal ставка налога
func (c PricingConfig) TaxRateDecimal() decimal.Decimal {
	return decimal.RequireFromString(c.TaxRate)
}

// Defaults разбирает значения по умолчанию
func (c PricingConfig) Defaults() (PricingDefaults, error) {
	hourly, err := decimal.NewFromString(c.HourlyPrice)
	if err != nil || hourly.IsNegative() {
		return PricingDefaults{}, fmt.Errorf("pricing.default_hourly_price %q must be a non-negative decimal", c.HourlyPrice)
	}

	fee, err := decimal.NewFromString(c.ServiceFeePct)
	if err != nil || fee.IsNegative() || fee.GreaterThan(decimal.NewFromInt(1)) {
		return PricingDefaults{}, fmt.Errorf("pricing.default_service_fee_pct %q must be within [0, 1]", c.ServiceFeePct)
	}

	demand := decimal.NewFromInt(1)
	if c.DemandIndex != "" {
		demand, err = decimal.NewFromString(c.DemandIndex)
		if err != nil || demand.IsNegative() {
			return PricingDefaults{}, fmt.Errorf("pricing.default_demand_index %q must be a non-negative decimal", c.DemandIndex)
		}
	}

	return PricingDefaults{HourlyPrice: hourly, ServiceFeePct: fee, DemandIndex: demand}, nil
}

// Build накладывает переопределения на политику по умолчанию
func (c PolicyConfig) Build() (pricing.Policy, error) {
	policy := pricing.DefaultPolicy()

	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&policy.UtilizationThreshold, c.UtilizationThreshold)
	set(&policy.UtilizationSurge, c.UtilizationSurge)
	set(&policy.FreeDistanceKm, c.FreeDistanceKm)
	set(&policy.PerKmCharge, c.PerKmCharge)
	set(&policy.RushLeadHours, c.RushLeadHours)
	set(&policy.RushMultiplier, c.RushMultiplier)
	set(&policy.EarlyLeadHours, c.EarlyLeadHours)
	set(&policy.EarlyMultiplier, c.EarlyMultiplier)

	if len(c.Seasonal) > 0 {
		seasonal := make(map[time.Month]float64, len(c.Seasonal))
		for name, pct := range c.Seasonal {
			month, ok := parseMonth(name)
			if !ok {
				return pricing.Policy{}, fmt.Errorf("pricing.policy.seasonal: unknown month %q", name)
			}
			seasonal[month] = pct
		}
		policy.SeasonalAdjustments = seasonal
	}

	if len(c.Recurring) > 0 {
		recurring := make(map[domain.RecurringFrequency]float64, len(c.Recurring))
		for name, pct := range c.Recurring {
			freq := domain.RecurringFrequency(name)
			if !freq.IsValid() {
				return pricing.Policy{}, fmt.Errorf("pricing.policy.recurring: unknown frequency %q", name)
			}
			if pct < 0 || pct >= 1 {
				return pricing.Policy{}, fmt.Errorf("pricing.policy.recurring.%s: discount %v must be within [0, 1)", name, pct)
			}
			recurring[freq] = pct
		}
		policy.RecurringDiscounts = recurring
	}

	return policy, nil
}

func parseMonth(name string) (time.Month, bool) {
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), name) {
			return m, true
		}
	}
	return 0, false
}
