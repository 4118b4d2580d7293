package services

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/momonala/ios-health-dump/internal/models"
)

// ErrInvalidDump marks a submission rejected before any write happened:
// a required field is missing or a value could not be coerced to its
// declared numeric type.
var ErrInvalidDump = errors.New("invalid health dump payload")

// DumpPayload is a validated submission from the iOS automation client.
// Optional fields stay nil when the client omitted them, which tells the
// upsert to preserve whatever the day already stored.
type DumpPayload struct {
	Steps          int
	Kcals          float64
	Km             float64
	FlightsClimbed *int
	Weight         *float64
}

type DumpRepository interface {
	ListAll() ([]models.HealthDump, error)
	FindByDate(date string) (models.HealthDump, bool, error)
	Upsert(dump *models.HealthDump) error
	Count() (int64, error)
}

type DumpService struct {
	dumps    DumpRepository
	location *time.Location
}

func NewDumpService(dumps DumpRepository, location *time.Location) *DumpService {
	if location == nil {
		location = time.UTC
	}
	return &DumpService{dumps: dumps, location: location}
}

// ParseDumpPayload validates and coerces a decoded JSON body. The iOS
// shortcut posts numbers inconsistently (JSON numbers or strings, and
// weight with a comma decimal separator), so every field goes through
// defensive coercion before the required-field check.
func ParseDumpPayload(raw map[string]any) (DumpPayload, error) {
	payload := DumpPayload{}

	steps, err := requiredIntField(raw, "steps")
	if err != nil {
		return DumpPayload{}, err
	}
	payload.Steps = steps

	kcals, err := requiredFloatField(raw, "kcals")
	if err != nil {
		return DumpPayload{}, err
	}
	payload.Kcals = kcals

	km, err := requiredFloatField(raw, "km")
	if err != nil {
		return DumpPayload{}, err
	}
	payload.Km = km

	if value, present := raw["flights_climbed"]; present && value != nil {
		flights, ok := coerceInt(value)
		if !ok {
			return DumpPayload{}, fmt.Errorf("%w: field %q is not an integer", ErrInvalidDump, "flights_climbed")
		}
		payload.FlightsClimbed = &flights
	}

	if value, present := raw["weight"]; present && value != nil {
		weight, ok := coerceFloat(value)
		if !ok {
			return DumpPayload{}, fmt.Errorf("%w: field %q is not a number", ErrInvalidDump, "weight")
		}
		payload.Weight = &weight
	}

	return payload, nil
}

// Submit merges the payload into today's record. Required fields fully
// replace the stored values (last write wins, no accumulation); optional
// fields omitted from the payload keep the previously stored values.
// Returns the persisted record and the total row count after the write.
func (service *DumpService) Submit(payload DumpPayload, now time.Time) (models.HealthDump, int64, error) {
	recordedAt := now.In(service.location)
	date := DateKey(now, service.location)

	existing, found, err := service.dumps.FindByDate(date)
	if err != nil {
		return models.HealthDump{}, 0, fmt.Errorf("load existing dump for %s: %w", date, err)
	}

	dump := models.HealthDump{
		Date:       date,
		Steps:      payload.Steps,
		Kcals:      payload.Kcals,
		Km:         payload.Km,
		RecordedAt: recordedAt,
	}
	if payload.FlightsClimbed != nil {
		dump.FlightsClimbed = *payload.FlightsClimbed
	} else if found {
		dump.FlightsClimbed = existing.FlightsClimbed
	}
	if payload.Weight != nil {
		dump.Weight = payload.Weight
	} else if found {
		dump.Weight = existing.Weight
	}

	if err := service.dumps.Upsert(&dump); err != nil {
		return models.HealthDump{}, 0, fmt.Errorf("upsert dump for %s: %w", date, err)
	}

	rowCount, err := service.dumps.Count()
	if err != nil {
		return models.HealthDump{}, 0, fmt.Errorf("count dumps: %w", err)
	}

	return dump, rowCount, nil
}

// FetchAll returns the full history sorted by date descending.
func (service *DumpService) FetchAll() ([]models.HealthDump, error) {
	return service.dumps.ListAll()
}

func requiredIntField(raw map[string]any, key string) (int, error) {
	value, present := raw[key]
	if !present || value == nil {
		return 0, fmt.Errorf("%w: missing required field %q", ErrInvalidDump, key)
	}
	coerced, ok := coerceInt(value)
	if !ok {
		return 0, fmt.Errorf("%w: field %q is not an integer", ErrInvalidDump, key)
	}
	return coerced, nil
}

func requiredFloatField(raw map[string]any, key string) (float64, error) {
	value, present := raw[key]
	if !present || value == nil {
		return 0, fmt.Errorf("%w: missing required field %q", ErrInvalidDump, key)
	}
	coerced, ok := coerceFloat(value)
	if !ok {
		return 0, fmt.Errorf("%w: field %q is not a number", ErrInvalidDump, key)
	}
	return coerced, nil
}

func coerceInt(value any) (int, bool) {
	parsed, ok := coerceFloat(value)
	if !ok {
		return 0, false
	}
	return int(math.Round(parsed)), true
}

func coerceFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case int:
		return float64(typed), true
	case string:
		normalized := strings.ReplaceAll(strings.TrimSpace(typed), ",", ".")
		if normalized == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(normalized, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
