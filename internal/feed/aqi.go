package feed

// Status is an air quality band on the standard AQI scale.
type Status string

const (
	StatusGood          Status = "good"
	StatusModerate      Status = "moderate"
	StatusUnhealthySens Status = "unhealthy-sensitive"
	StatusUnhealthy     Status = "unhealthy"
	StatusVeryUnhealthy Status = "very-unhealthy"
	StatusHazardous     Status = "hazardous"
)

func StatusForAQI(aqi int) Status {
	switch {
	case aqi <= 50:
		return StatusGood
	case aqi <= 100:
		return StatusModerate
	case aqi <= 150:
		return StatusUnhealthySens
	case aqi <= 200:
		return StatusUnhealthy
	case aqi <= 300:
		return StatusVeryUnhealthy
	default:
		return StatusHazardous
	}
}

func (s Status) Color() string {
	switch s {
	case StatusGood:
		return "#00E400"
	case StatusModerate:
		return "#FFFF00"
	case StatusUnhealthySens:
		return "#FF7E00"
	case StatusUnhealthy:
		return "#FF0000"
	case StatusVeryUnhealthy:
		return "#8F3F97"
	case StatusHazardous:
		return "#7E0023"
	default:
		return "#999999"
	}
}

func (s Status) Description() string {
	switch s {
	case StatusGood:
		return "Air quality is satisfactory and poses little or no risk."
	case StatusModerate:
		return "Air quality is acceptable; some pollutants may be a concern for sensitive people."
	case StatusUnhealthySens:
		return "Members of sensitive groups may experience health effects."
	case StatusUnhealthy:
		return "Everyone may begin to experience health effects."
	case StatusVeryUnhealthy:
		return "Health alert: everyone may experience more serious health effects."
	case StatusHazardous:
		return "Health warning of emergency conditions affecting the entire population."
	default:
		return "Air quality data is unavailable."
	}
}

// Recommendations returns activity guidance for the band, worst bands first
// in severity of advice.
func (s Status) Recommendations() []string {
	switch s {
	case StatusGood:
		return []string{
			"Great day for outdoor activities",
			"Perfect time for tree planting events",
			"Ideal conditions for community cleanups",
		}
	case StatusModerate:
		return []string{
			"Outdoor activities are generally fine",
			"Sensitive individuals should take breaks",
			"Good time for awareness campaigns",
		}
	case StatusUnhealthySens:
		return []string{
			"Limit prolonged outdoor exertion",
			"Focus on indoor environmental education",
			"Plan air quality improvement campaigns",
		}
	case StatusUnhealthy:
		return []string{
			"Avoid prolonged outdoor activities",
			"Promote public transport alternatives",
			"Organize indoor sustainability workshops",
		}
	case StatusVeryUnhealthy, StatusHazardous:
		return []string{
			"Stay indoors when possible",
			"Urgent action on emission reduction needed",
			"Support clean air advocacy campaigns",
		}
	default:
		return []string{"Check back later for air quality guidance"}
	}
}
