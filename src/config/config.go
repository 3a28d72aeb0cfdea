package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"

// GatewayConfig carries the SSLCommerz-style session endpoint settings. All
// of it comes from the environment; nothing here is compiled in.
type GatewayConfig struct {
	StoreID       string
	StorePassword string
	SessionURL    string
	SuccessURL    string
	FailURL       string
	CancelURL     string
	IPNURL        string
}

func GetGatewayConfig() GatewayConfig {
	return GatewayConfig{
		StoreID:       os.Getenv("SSLCZ_STORE_ID"),
		StorePassword: os.Getenv("SSLCZ_STORE_PASSWORD"),
		SessionURL:    os.Getenv("SSLCZ_SESSION_URL"),
		SuccessURL:    os.Getenv("SSLCZ_SUCCESS_URL"),
		FailURL:       os.Getenv("SSLCZ_FAIL_URL"),
		CancelURL:     os.Getenv("SSLCZ_CANCEL_URL"),
		IPNURL:        os.Getenv("SSLCZ_IPN_URL"),
	}
}

// BadgeThreshold is one row of the badge table: the badge is earned when
// both minimums hold.
type BadgeThreshold struct {
	Name      string  `json:"name"`
	MinPoints int     `json:"min_points"`
	MinImpact float64 `json:"min_impact"`
}

// GamificationConfig holds every reputation coefficient. The values mirror
// the platform's tuning but are plain settings, overridable per deployment.
type GamificationConfig struct {
	BasePoints       int
	PointsPerUnit    float64
	PointsCap        int
	PerStudentBonus  int
	PerSchoolBonus   int
	ConsistencyStep  float64
	ConsistencyCap   float64
	BadgeThresholds  []BadgeThreshold
	NewDonorBadge    string
	NewNgoBadge      string
}

var defaultBadgeThresholds = []BadgeThreshold{
	{Name: "Starter", MinPoints: 1000},
	{Name: "Achiever", MinPoints: 2000},
	{Name: "Expert", MinPoints: 5000},
	{Name: "Champion", MinPoints: 10000},
	{Name: "Good Impact", MinImpact: 7.0},
	{Name: "High Impact", MinImpact: 9.0},
	{Name: "Consistent Performer", MinPoints: 300, MinImpact: 6.0},
}

func GetGamificationConfig() GamificationConfig {
	cfg := GamificationConfig{
		BasePoints:      envInt("GAMIFICATION_BASE_POINTS", 50),
		PointsPerUnit:   envFloat("GAMIFICATION_POINTS_PER_UNIT", 100),
		PointsCap:       envInt("GAMIFICATION_POINTS_CAP", 5000),
		PerStudentBonus: envInt("GAMIFICATION_PER_STUDENT_BONUS", 50),
		PerSchoolBonus:  envInt("GAMIFICATION_PER_SCHOOL_BONUS", 100),
		ConsistencyStep: envFloat("GAMIFICATION_CONSISTENCY_STEP", 0.3),
		ConsistencyCap:  envFloat("GAMIFICATION_CONSISTENCY_CAP", 2.0),
		BadgeThresholds: defaultBadgeThresholds,
		NewDonorBadge:   "New Donor",
		NewNgoBadge:     "New NGO",
	}
	if raw := os.Getenv("GAMIFICATION_BADGE_THRESHOLDS"); raw != "" {
		var thresholds []BadgeThreshold
		if err := json.Unmarshal([]byte(raw), &thresholds); err != nil {
			log.Printf("Error parsing GAMIFICATION_BADGE_THRESHOLDS, using defaults: %s\n", err.Error())
		} else {
			cfg.BadgeThresholds = thresholds
		}
	}
	return cfg
}

// ScholarshipCron is the schedule for the daily flag reconciliation.
func ScholarshipCron() string {
	if expr := os.Getenv("SCHOLARSHIP_CRON"); expr != "" {
		return expr
	}
	return "0 0 * * *"
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	atoi, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Error parsing %s: %s\n", key, err.Error())
		return def
	}
	return atoi
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("Error parsing %s: %s\n", key, err.Error())
		return def
	}
	return f
}
