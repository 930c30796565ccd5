package repository

import (
	"context"
	"errors"
	"testing"

	"clinic-booking/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return db, mock
}

func TestAppointmentRepositoryFindByID(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantNil bool
		wantErr bool
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "user_id", "patient_name", "appointment_date", "status"}).
					AddRow("a1", "u1", "Jane Doe", "2030-01-01", "Scheduled")
				mock.ExpectQuery(`SELECT \* FROM "appointments"`).WillReturnRows(rows)
			},
		},
		{
			name: "no row",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT \* FROM "appointments"`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			wantNil: true,
		},
		{
			name: "malformed id",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT \* FROM "appointments"`).
					WillReturnError(&pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`})
			},
			wantNil: true,
		},
		{
			name: "connection failure",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT \* FROM "appointments"`).WillReturnError(errors.New("connection reset"))
			},
			wantNil: true,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.setup(mock)

			appointment, err := NewAppointmentRepository(db).FindByID(context.Background(), "a1")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if (appointment == nil) != tt.wantNil {
				t.Fatalf("appointment = %+v, wantNil %v", appointment, tt.wantNil)
			}
			if appointment != nil && (appointment.PatientName != "Jane Doe" || appointment.Status != entity.AppointmentStatusScheduled) {
				t.Errorf("appointment = %+v", appointment)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("expectations: %v", err)
			}
		})
	}
}

func TestUserRepositoryFindNormalizesRole(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "role"}).AddRow("u1", "jane", " Doctor "))

	user, err := NewUserRepository(db).FindByUsername(context.Background(), "jane")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if user == nil || user.Role != entity.RoleDoctor {
		t.Fatalf("user = %+v, want role doctor", user)
	}
}

func TestAppointmentRepositoryRowsAffected(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	mock.ExpectExec(`UPDATE "appointments" SET "status"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "appointments"`).WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.UpdateStatus(context.Background(), "a1", entity.AppointmentStatusCancelled)
	if err != nil || affected != 1 {
		t.Fatalf("UpdateStatus = %d, %v", affected, err)
	}
	affected, err = repo.Delete(context.Background(), "missing")
	if err != nil || affected != 0 {
		t.Fatalf("Delete = %d, %v", affected, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepositoryUpdateRole(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`UPDATE "users" SET "role"`).WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := NewUserRepository(db).UpdateRole(context.Background(), "u1", entity.RoleDoctor)
	if err != nil || affected != 1 {
		t.Fatalf("UpdateRole = %d, %v", affected, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepositoryFindByIDMalformed(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnError(&pgconn.PgError{Code: "22P02"})

	user, err := NewUserRepository(db).FindByID(context.Background(), "abc")
	if err != nil || user != nil {
		t.Fatalf("FindByID = %+v, %v; want nil, nil", user, err)
	}
}
