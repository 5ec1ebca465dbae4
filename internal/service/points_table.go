package service

const (
	ActionReportFiled          = "report-filed"
	ActionReportResolved       = "report-resolved"
	ActionCollectionPerformed  = "collection-performed"
	ActionSensorAlertConfirmed = "sensor-alert-confirmed"
	ActionChallengeCompleted   = "challenge-completed"

	fallbackPoints int64 = 1
)

// DefaultActionPoints is used when no table is configured.
var DefaultActionPoints = map[string]int64{
	ActionReportFiled:          10,
	ActionReportResolved:       25,
	ActionCollectionPerformed:  15,
	ActionSensorAlertConfirmed: 5,
	ActionChallengeCompleted:   50,
}

// PointsTable maps action types to their default award.
type PointsTable struct {
	points map[string]int64
}

func NewPointsTable(points map[string]int64) *PointsTable {
	if len(points) == 0 {
		points = DefaultActionPoints
	}
	cp := make(map[string]int64, len(points))
	for k, v := range points {
		cp[k] = v
	}
	return &PointsTable{points: cp}
}

// CalculatePoints returns customPoints when it is positive, otherwise the
// table value for actionType, otherwise 1. Non-positive overrides are
// ignored rather than rejected.
func (t *PointsTable) CalculatePoints(actionType string, customPoints *int64) int64 {
	if customPoints != nil && *customPoints > 0 {
		return *customPoints
	}
	if p, ok := t.points[actionType]; ok && p > 0 {
		return p
	}
	return fallbackPoints
}

var defaultPointsTable = NewPointsTable(nil)

// CalculatePoints uses DefaultActionPoints.
func CalculatePoints(actionType string, customPoints *int64) int64 {
	return defaultPointsTable.CalculatePoints(actionType, customPoints)
}
