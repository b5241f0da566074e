package pkg

// enum of navigation session state
type SessionState uint8

const (
	NOT_STARTED SessionState = iota
	NAVIGATING
	ARRIVED
	CANCELLED
)

func (s SessionState) String() string {
	switch s {
	case NOT_STARTED:
		return "NOT_STARTED"
	case NAVIGATING:
		return "NAVIGATING"
	case ARRIVED:
		return "ARRIVED"
	case CANCELLED:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

const (
	ADVANCE_THRESHOLD_METERS = 20.0
	FAR_ANNOUNCE_METERS      = 200.0
	NEAR_ANNOUNCE_METERS     = 50.0

	LOW_BATTERY_ALERT_PERCENT = 22.0
	LOW_BATTERY_BAND_PERCENT  = 20.0

	COIN_BASE_REWARD   = 5
	COIN_REWARD_PER_KM = 10.0

	// above this many candidates the advisor narrows the linear scan with the r-tree
	CHARGER_PREFILTER_CUTOFF = 64
	CHARGER_SEARCH_RADIUS_KM = 25.0
)

const (
	DEBUG = false
)
