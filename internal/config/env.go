package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from a .env file in the working
// directory or a parent. Variables already set in the environment win.
func LoadEnv() error {
	for _, path := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(path); err == nil {
			return godotenv.Load(path)
		}
	}
	return nil
}

// GetEnv gets an environment variable with a default.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt gets an integer environment variable with a default.
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvFloat gets a float environment variable with a default.
func GetEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// GetEnvBool gets a boolean environment variable with a default.
func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}

// Matching knobs. MinSim is the cosine similarity floor for candidate
// matches; the n-gram range and per-attribute weights feed the feature
// builder.
func MinSim() float64   { return GetEnvFloat("FERC1_MIN_SIM", 0.75) }
func NgramMin() int     { return GetEnvInt("FERC1_NGRAM_MIN", 2) }
func NgramMax() int     { return GetEnvInt("FERC1_NGRAM_MAX", 10) }
func HTTPAddr() string  { return GetEnv("FERC1_HTTP_ADDR", ":8080") }
func RefTables() string { return GetEnv("FERC1_REFERENCE_TABLES", "") }

func PlantNameWeight() float64        { return GetEnvFloat("FERC1_PLANT_NAME_WT", 2.0) }
func PlantTypeWeight() float64        { return GetEnvFloat("FERC1_PLANT_TYPE_WT", 2.0) }
func ConstructionTypeWeight() float64 { return GetEnvFloat("FERC1_CONSTRUCTION_TYPE_WT", 1.0) }
func CapacityWeight() float64         { return GetEnvFloat("FERC1_CAPACITY_MW_WT", 1.0) }
func ConstructionYearWeight() float64 { return GetEnvFloat("FERC1_CONSTRUCTION_YEAR_WT", 1.0) }
func RespondentWeight() float64       { return GetEnvFloat("FERC1_RESPONDENT_ID_WT", 1.0) }
