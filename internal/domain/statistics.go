package domain

import "context"

// PopularConferenceCount is the number of conferences listed in the dashboard's popular section.
const PopularConferenceCount = 5

// DashboardStats is the organizer dashboard aggregate.
// swagger:model DashboardStats
type DashboardStats struct {
	TotalConferences       int                  `json:"total_conferences"`
	TotalRegistrations     int                  `json:"total_registrations"`
	AverageAttendanceRate  float64              `json:"average_attendance_rate"`
	ConferencesPerDay      []DayCount           `json:"conferences_per_day"`
	RoomUtilization        []RoomUtilization    `json:"room_utilization"`
	PopularConferences     []ConferenceRegCount `json:"popular_conferences"`
	TotalRooms             int                  `json:"total_rooms"`
	TotalTimeSlots         int                  `json:"total_time_slots"`
	OverallUtilizationRate int                  `json:"overall_utilization_rate"`
}

// DayCount counts items on one event day.
type DayCount struct {
	Day   int `json:"day"`
	Count int `json:"count"`
}

// DayUtilization is a room's usage on one day. Score equals the day's conference count.
type DayUtilization struct {
	Day             int `json:"day"`
	Score           int `json:"score"`
	ConferenceCount int `json:"conference_count"`
}

// RoomUtilization is a room's usage across the event.
type RoomUtilization struct {
	Room             *Room            `json:"room"`
	ConferenceCount  int              `json:"conference_count"`
	UtilizationRate  int              `json:"utilization_rate"`
	UtilizationByDay []DayUtilization `json:"utilization_by_day"`
	AverageScore     float64          `json:"average_score"`
}

// ConferenceRegCount pairs a conference with its registration count.
type ConferenceRegCount struct {
	Conference        *Conference `json:"conference"`
	RegistrationCount int         `json:"registration_count"`
}

// RoomUsage is the per-room occupancy against the number of time slots.
// swagger:model RoomUsage
type RoomUsage struct {
	Room            *Room `json:"room"`
	ConferenceCount int   `json:"conference_count"`
	MaxPossible     int   `json:"max_possible"`
	UtilizationRate int   `json:"utilization_rate"`
}

// ConferenceRegistrationStat is a compact per-conference registration count.
// swagger:model ConferenceRegistrationStat
type ConferenceRegistrationStat struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	RegistrationCount int    `json:"registration_count"`
}

// StatisticsService computes read-only aggregates for dashboards.
type StatisticsService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	RoomUtilization(ctx context.Context) ([]RoomUsage, error)
	RegistrationsByDay(ctx context.Context) (map[int]int, error)
	TopConferences(ctx context.Context, limit int) ([]ConferenceRegCount, error)
	ConferenceRegistrationCounts(ctx context.Context) ([]ConferenceRegistrationStat, error)
	SponsorDashboard(ctx context.Context, sponsorID string) ([]ConferenceRegCount, error)
}
