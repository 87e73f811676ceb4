package inventory

import "github.com/shopspring/decimal"

// Recommendation sugerencia de reposición según los días de cobertura.
type Recommendation string

const (
	RecommendationUrgent        Recommendation = "URGENT"
	RecommendationSoon          Recommendation = "SOON"
	RecommendationOK            Recommendation = "OK"
	RecommendationNoConsumption Recommendation = "NO_CONSUMPTION"
)

// ForecastThresholds umbrales en días; dependen de la categoría.
type ForecastThresholds struct {
	UrgentDays int
	SoonDays   int
}

// Forecast cobertura estimada del saldo actual.
// Unbounded indica que no hubo consumo reciente: DaysRemaining no es significativo.
type Forecast struct {
	DaysRemaining  int
	Unbounded      bool
	Recommendation Recommendation
}

// ConsumptionForecast days_remaining = floor(saldo / promedio diario).
func ConsumptionForecast(balance, dailyAverage decimal.Decimal, th ForecastThresholds) Forecast {
	if dailyAverage.Sign() <= 0 {
		return Forecast{Unbounded: true, Recommendation: RecommendationNoConsumption}
	}
	days := balance.Div(dailyAverage).Floor().IntPart()
	if days < 0 {
		days = 0
	}
	f := Forecast{DaysRemaining: int(days)}
	switch {
	case f.DaysRemaining <= th.UrgentDays:
		f.Recommendation = RecommendationUrgent
	case f.DaysRemaining <= th.SoonDays:
		f.Recommendation = RecommendationSoon
	default:
		f.Recommendation = RecommendationOK
	}
	return f
}

// DailyAverage consumo neto de la ventana dividido por sus días.
func DailyAverage(consumed decimal.Decimal, windowDays int) decimal.Decimal {
	if windowDays <= 0 || consumed.Sign() <= 0 {
		return decimal.Zero
	}
	return consumed.Div(decimal.NewFromInt(int64(windowDays)))
}
