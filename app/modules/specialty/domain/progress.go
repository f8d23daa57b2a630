package specialtydomain

// SpecialtyAwardBonus is credited when a specialty is awarded.
const SpecialtyAwardBonus = 250

// Milestone is a class-progress threshold and its bonus.
type Milestone struct {
	Threshold int
	Bonus     int
}

// ClassMilestones are ordered by threshold.
var ClassMilestones = []Milestone{
	{Threshold: 25, Bonus: 100},
	{Threshold: 50, Bonus: 200},
	{Threshold: 75, Bonus: 300},
	{Threshold: 100, Bonus: 1000},
}

// EligibleMilestones returns every milestone the member has reached but not
// yet been paid for. A single approval can cross several thresholds; all of
// them are returned. The comparison is exact, not rounded: 1 of 3 is below 50%.
func EligibleMilestones(approved, total, watermark int) []Milestone {
	if total <= 0 || approved <= 0 {
		return nil
	}
	var out []Milestone
	for _, m := range ClassMilestones {
		if m.Threshold <= watermark {
			continue
		}
		if approved*100 >= m.Threshold*total {
			out = append(out, m)
		}
	}
	return out
}

// Watermark is the highest threshold in ms, or current when ms is empty.
func Watermark(current int, ms []Milestone) int {
	for _, m := range ms {
		current = max(current, m.Threshold)
	}
	return current
}

// ProgressPercent is approved/total rounded half up to a whole percent.
func ProgressPercent(approved, total int) int {
	if total <= 0 {
		return 0
	}
	approved = min(max(approved, 0), total)
	return (approved*200 + total) / (total * 2)
}

// DashboardStatus is the coarse state shown on the club dashboard.
type DashboardStatus string

const (
	DashboardCompleted  DashboardStatus = "COMPLETED"
	DashboardInProgress DashboardStatus = "IN_PROGRESS"
	DashboardPending    DashboardStatus = "PENDING"
)

// InferDashboardStatus derives the dashboard state from the member's
// specialty row when there is one, otherwise from whether any requirement
// has been approved.
func InferDashboardStatus(row *SpecialtyStatus, approved int) DashboardStatus {
	if row != nil {
		switch *row {
		case SpecialtyCompleted:
			return DashboardCompleted
		case SpecialtyInProgress, SpecialtyWaitingApproval:
			return DashboardInProgress
		}
	}
	if approved > 0 {
		return DashboardInProgress
	}
	return DashboardPending
}
