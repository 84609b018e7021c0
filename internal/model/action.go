package model

// Action is a human-friendly battery operating mode for a timestep.
// Keep these values stable; they are intended for CSV output.
type Action string

const (
	ActionCharging    Action = "CHARGING"
	ActionIdle        Action = "IDLE"
	ActionDischarging Action = "DISCHARGING"
)

// ActionFromBatteryKW maps a signed battery power to an Action.
// Convention: positive kW = energy flowing into the battery.
func ActionFromBatteryKW(battKW float64) Action {
	switch {
	case battKW > 0:
		return ActionCharging
	case battKW < 0:
		return ActionDischarging
	default:
		return ActionIdle
	}
}
