package usecase

import (
	"context"
	"strings"
	"time"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const dashboardMonths = 6

type DashboardUsecase interface {
	GetStats(ctx context.Context, session *entity.Session) (*dto.DashboardResponse, error)
}

type dashboardUsecase struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	now             func() time.Time
}

func NewDashboardUsecase(log *logrus.Logger, appointmentRepo repository.AppointmentRepository) DashboardUsecase {
	return &dashboardUsecase{
		log:             log,
		appointmentRepo: appointmentRepo,
		now:             time.Now,
	}
}

func (u *dashboardUsecase) GetStats(ctx context.Context, session *entity.Session) (*dto.DashboardResponse, error) {
	if session == nil {
		return nil, ErrSessionRequired
	}
	if !session.IsAdmin() {
		return nil, ErrForbidden
	}

	appointments, err := u.appointmentRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to load appointments for dashboard: %+v", err)
		return nil, err
	}

	return computeStats(appointments, u.now()), nil
}

// computeStats aggregates appointments relative to now. Appointments whose
// date does not parse still count towards totals, status and revenue but
// not towards any date bucket.
func computeStats(appointments []entity.Appointment, now time.Time) *dto.DashboardResponse {
	stats := &dto.DashboardResponse{
		TotalAppointments: len(appointments),
		ByStatus: map[string]int{
			string(entity.AppointmentStatusScheduled): 0,
			string(entity.AppointmentStatusCancelled): 0,
			string(entity.AppointmentStatusCompleted): 0,
			string(entity.AppointmentStatusNoShow):    0,
		},
		Revenue: decimal.Zero,
	}

	today := now.Format(dateLayout)
	thisMonth := now.Format("2006-01")

	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	buckets := make(map[string]int, dashboardMonths)
	stats.LastSixMonths = make([]dto.MonthlyCount, 0, dashboardMonths)
	for i := dashboardMonths - 1; i >= 0; i-- {
		month := firstOfMonth.AddDate(0, -i, 0).Format("2006-01")
		buckets[month] = 0
		stats.LastSixMonths = append(stats.LastSixMonths, dto.MonthlyCount{Month: month})
	}

	patients := make(map[string]struct{})
	for i := range appointments {
		a := &appointments[i]

		if name := strings.TrimSpace(a.PatientName); name != "" {
			patients[strings.ToLower(name)] = struct{}{}
		}
		if a.Status != "" {
			stats.ByStatus[string(a.Status)]++
		}
		if !a.IsCancelled() {
			stats.Revenue = stats.Revenue.Add(a.Fee)
			if a.PaymentStatus == "" || a.PaymentStatus == entity.PaymentStatusUnpaid {
				stats.Unpaid++
			}
		}

		date, err := time.Parse(dateLayout, a.AppointmentDate)
		if err != nil {
			continue
		}
		month := date.Format("2006-01")
		if month == thisMonth {
			stats.ThisMonth++
		}
		if a.AppointmentDate == today {
			stats.Today++
		}
		if _, ok := buckets[month]; ok {
			buckets[month]++
		}
	}

	for i := range stats.LastSixMonths {
		stats.LastSixMonths[i].Count = buckets[stats.LastSixMonths[i].Month]
	}
	stats.UniquePatients = len(patients)

	return stats
}
