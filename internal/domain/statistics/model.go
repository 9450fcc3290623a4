package statistics

type Summary struct {
	TotalPharmacies    int64 `json:"total_pharmacies"`
	ActivePharmacies   int64 `json:"active_pharmacies"`
	Neighborhoods      int64 `json:"neighborhoods"`
	OnDutyToday        int64 `json:"on_duty_today"`
	OnDutyNow          int64 `json:"on_duty_now"`
	SchedulesThisMonth int64 `json:"schedules_this_month"`
}
