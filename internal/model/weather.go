package model

// WeatherReport is the normalized weather payload served to the frontend.
// Temperatures are rounded to the nearest whole degree.
type WeatherReport struct {
	Location    string        `json:"location"`
	Country     string        `json:"country"`
	Temperature int           `json:"temperature"`
	Description string        `json:"description"`
	Humidity    int           `json:"humidity"`
	WindSpeed   float64       `json:"windSpeed"`
	Icon        string        `json:"icon"`
	Forecast    []ForecastDay `json:"forecast"`
}

// ForecastDay is one entry of the deduplicated daily forecast. At most five
// are returned, one per distinct calendar date.
type ForecastDay struct {
	Date        string `json:"date"`
	Temperature int    `json:"temperature"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}
