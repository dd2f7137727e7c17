package services

import (
	"database/sql"

	intconfig "rumboenvios/internal/config"
	"rumboenvios/internal/domain"
)

// StatsService feeds the dashboard start screen: entity totals plus the
// per-status breakdown of trips and deliveries.
type StatsService struct {
	DB *sql.DB
}

func (s StatsService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

type DashboardStats struct {
	Companies  int64            `json:"companies"`
	Clients    int64            `json:"clients"`
	Drivers    int64            `json:"drivers"`
	Trips      int64            `json:"trips"`
	Deliveries int64            `json:"deliveries"`
	TripsBy    map[string]int64 `json:"trips_by_status"`
	DeliverBy  map[string]int64 `json:"deliveries_by_status"`
}

func (s StatsService) Summary() (DashboardStats, error) {
	conn := s.db()
	if conn == nil {
		return DashboardStats{}, domain.InternalError{Msg: "database unavailable"}
	}

	out := DashboardStats{
		TripsBy:   map[string]int64{},
		DeliverBy: map[string]int64{},
	}

	totals := []struct {
		table string
		dst   *int64
	}{
		{"companies", &out.Companies},
		{"clients", &out.Clients},
		{"drivers", &out.Drivers},
		{"trips", &out.Trips},
		{"deliveries", &out.Deliveries},
	}
	for _, t := range totals {
		if err := conn.QueryRow(`SELECT COUNT(*) FROM ` + t.table).Scan(t.dst); err != nil {
			return DashboardStats{}, domain.InternalError{Msg: "count failed for " + t.table, Err: err}
		}
	}

	for _, group := range []struct {
		table string
		dst   map[string]int64
	}{
		{"trips", out.TripsBy},
		{"deliveries", out.DeliverBy},
	} {
		rows, err := conn.Query(`SELECT status, COUNT(*) FROM ` + group.table + ` GROUP BY status`)
		if err != nil {
			return DashboardStats{}, domain.InternalError{Msg: "status breakdown failed for " + group.table, Err: err}
		}
		for rows.Next() {
			var (
				status string
				count  int64
			)
			if err := rows.Scan(&status, &count); err != nil {
				rows.Close()
				return DashboardStats{}, domain.InternalError{Msg: "status scan failed", Err: err}
			}
			group.dst[status] = count
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return DashboardStats{}, domain.InternalError{Msg: "status rows failed", Err: err}
		}
		rows.Close()
	}

	return out, nil
}
