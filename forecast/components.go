package forecast

// Components splits a prediction into the additive parts of the linear model. Trend covers the
// growth and changepoint features, Event covers weekends and holidays.
type Components struct {
	Trend       []float64 `json:"trend"`
	Seasonality []float64 `json:"seasonality"`
	Event       []float64 `json:"event"`
}
