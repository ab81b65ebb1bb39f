package app

import (
	"os"

	"go-leave/internal/employee"
	"go-leave/internal/holiday"
	"go-leave/internal/leave"
	"go-leave/internal/settings"
	"go-leave/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func BuildApp(router *gin.Engine) error {
	db, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}

	return registerModules(router, db, redisClient)
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&employee.Employee{},
		&leave.LeaveRequest{},
		&holiday.Holiday{},
		&settings.Setting{},
	); err != nil {
		return err
	}

	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,

		// One active request per employee per calendar date, enforced at the
		// storage layer so concurrent submissions cannot slip past the
		// application-level overlap check.
		`DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'leave_requests_no_active_overlap'
			) THEN
				ALTER TABLE leave_requests
					ADD CONSTRAINT leave_requests_no_active_overlap
					EXCLUDE USING gist (
						employee_id WITH =,
						daterange(start_date, end_date, '[]') WITH &&
					)
					WHERE (status IN ('PENDING', 'APPROVED'));
			END IF;
		END$$`,

		`CREATE TABLE IF NOT EXISTS counters (
			counter_type VARCHAR(50) PRIMARY KEY,
			last_value BIGINT NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE TABLE IF NOT EXISTS outbox_events (
			id UUID PRIMARY KEY,
			request_id VARCHAR(100),
			aggregate_type VARCHAR(50) NOT NULL,
			aggregate_id UUID NOT NULL,
			event_type VARCHAR(100) NOT NULL,
			topic VARCHAR(200) NOT NULL,
			payload JSONB NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			retry_count INT NOT NULL DEFAULT 0,
			error_message VARCHAR(500),
			next_retry_at TIMESTAMPTZ,
			processed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_outbox_events_status_created
			ON outbox_events (status, created_at)`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
